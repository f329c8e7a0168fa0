package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yyc-track/trackctl/internal/derive"
	"github.com/yyc-track/trackctl/internal/transit"
)

// AdminLoginOptions holds flags for admin login.
type AdminLoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

// MonitoringOptions holds flags for admin monitoring.
type MonitoringOptions struct {
	*RootOptions
	Query     string
	Line      string
	CEIStatus string
	Sort      string
}

// NewAdminCommand creates the admin console command group. Admin commands
// run against the admin session, which keeps its own token slot; signing in
// or out as an admin never touches the user session.
func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin console",
	}

	cmd.AddCommand(newAdminLoginCommand(rootOpts))
	cmd.AddCommand(newAdminLogoutCommand(rootOpts))
	cmd.AddCommand(newAdminWhoamiCommand(rootOpts))
	cmd.AddCommand(newAdminMonitoringCommand(rootOpts))
	cmd.AddCommand(newAdminFlaggedCommand(rootOpts))

	return cmd
}

func newAdminLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdminLoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "login",
		Short:         "Sign in to the admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer app.Close()

			f := formatter(opts.RootOptions, cmd)
			res := app.Admin.Login(cmd.Context(), opts.Email, opts.Password)
			if !res.Success {
				f.Error("AUTH", res.Message, nil)
				return NewExitError(ExitFailure, res.Message)
			}
			return f.Success("Signed in to the admin console")
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "admin password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newAdminLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Sign out of the admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			app.Admin.Logout(cmd.Context())
			f := formatter(rootOpts, cmd)
			return f.Success("Signed out of the admin console. Sign in again at " + app.Admin.LoginRoute())
		},
	}
}

func newAdminWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the signed-in admin profile",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			snap, err := requireAuth(cmd.Context(), app.Admin)
			if err != nil {
				return err
			}

			f := formatter(rootOpts, cmd)
			return f.SuccessJSON(snap.Identity)
		},
	}
}

func newAdminMonitoringCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MonitoringOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "monitoring",
		Short: "Station CEI monitoring",
		Long: `Station CEI monitoring.

Filters by name search, line, and CEI status; orders by score or collated
name. "all" means no restriction and leaves the catalog order untouched.

Example:
  trackctl admin monitoring --line Red --sort score_desc`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminMonitoring(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Query, "query", "", "search by station name")
	cmd.Flags().StringVar(&opts.Line, "line", derive.All, "line (Red|Blue|Dual|all)")
	cmd.Flags().StringVar(&opts.CEIStatus, "cei-status", derive.All, "CEI status (stable|moderate|poor|all)")
	cmd.Flags().StringVar(&opts.Sort, "sort", derive.All, "order (score_desc|score_asc|name_asc|all)")

	return cmd
}

func runAdminMonitoring(opts *MonitoringOptions, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := requireAuth(cmd.Context(), app.Admin); err != nil {
		return err
	}

	values := transit.MonitoringFilterSpec().Defaults()
	values[derive.SearchKey] = opts.Query
	values["line"] = opts.Line
	values["ceiStatus"] = opts.CEIStatus
	values[derive.SortKey] = opts.Sort

	records := derive.Apply(app.Catalog.Monitoring, values, transit.MonitoringBinding(), time.Now())

	f := formatter(opts.RootOptions, cmd)
	if f.Format == "json" {
		return f.SuccessJSON(records)
	}

	w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLINE\tCEI\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Line, r.CEI, r.CEIStatus)
	}
	return w.Flush()
}

func newAdminFlaggedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "flagged",
		Short:         "Stations flagged for attention",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := requireAuth(cmd.Context(), app.Admin); err != nil {
				return err
			}

			f := formatter(rootOpts, cmd)
			if f.Format == "json" {
				return f.SuccessJSON(app.Catalog.Flagged)
			}

			w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATION\tLINE\tAVG CEI\tISSUE\tLAST UPDATED\tACTION")
			for _, s := range app.Catalog.Flagged {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", s.Station, s.Line, s.AvgCEI, s.Issue, s.LastUpdated, s.Action)
			}
			return w.Flush()
		},
	}
}
