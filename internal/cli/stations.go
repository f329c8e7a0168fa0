package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yyc-track/trackctl/internal/derive"
	"github.com/yyc-track/trackctl/internal/transit"
)

// StationListOptions holds flags for stations list.
type StationListOptions struct {
	*RootOptions
	Query     string
	Condition string
	Line      string
}

// StationShowOptions holds flags for stations show.
type StationShowOptions struct {
	*RootOptions
	Window string
	Sort   string
}

// NewStationsCommand creates the stations command group.
func NewStationsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Browse the station directory",
	}

	cmd.AddCommand(newStationsListCommand(rootOpts))
	cmd.AddCommand(newStationsShowCommand(rootOpts))

	return cmd
}

func newStationsListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StationListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stations, optionally filtered",
		Long: `List stations, optionally filtered.

Filters: a case-insensitive name search, a condition, and a line. "all"
means no restriction.

Example:
  trackctl stations list --line Red --condition good`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStationsList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Query, "query", "", "search by station name")
	cmd.Flags().StringVar(&opts.Condition, "condition", derive.All, "condition (good|moderate|poor|all)")
	cmd.Flags().StringVar(&opts.Line, "line", derive.All, "line (Red|Blue|Dual|all)")

	return cmd
}

func runStationsList(opts *StationListOptions, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	values := transit.StationFilterSpec().Defaults()
	values[derive.SearchKey] = opts.Query
	values["condition"] = opts.Condition
	values["line"] = opts.Line

	stations := derive.Apply(app.Catalog.Stations, values, transit.StationBinding(), time.Now())

	f := formatter(opts.RootOptions, cmd)
	if f.Format == "json" {
		return f.SuccessJSON(stations)
	}

	w := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLINE\tCONDITION\tCEI")
	for _, s := range stations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Line, s.Condition, s.CEI)
	}
	return w.Flush()
}

func newStationsShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StationShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <station-id>",
		Short: "Show one station with its rider feedback",
		Long: `Show one station with its rider feedback.

Feedback can be narrowed to a time window and ordered by recency.
Feedback whose timestamp cannot be parsed fails every bounded window but
still appears under --window all.

Example:
  trackctl stations show brentwood --window 7d --sort recent`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStationsShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Window, "window", derive.All, "time window (all|24h|7d|30d)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "recent", "feedback order (recent|oldest)")

	return cmd
}

func runStationsShow(opts *StationShowOptions, stationID string, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	station, ok := app.Catalog.StationByID(stationID)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown station %q", stationID))
	}

	values := transit.FeedbackFilterSpec().Defaults()
	values[derive.WindowKey] = opts.Window
	values[derive.SortKey] = opts.Sort

	feedback := derive.Apply(app.Catalog.FeedbackFor(stationID), values, transit.FeedbackBinding(), time.Now())

	f := formatter(opts.RootOptions, cmd)
	if f.Format == "json" {
		return f.SuccessJSON(struct {
			Station  transit.Station        `json:"station"`
			Feedback []transit.FeedbackItem `json:"feedback"`
		}{station, feedback})
	}

	fmt.Fprintf(f.Writer, "%s (%s line, %s condition, CEI %d)\n\n", station.Name, station.Line, station.Condition, station.CEI)
	if len(feedback) == 0 {
		fmt.Fprintln(f.Writer, "No feedback in this window.")
		return nil
	}
	for _, item := range feedback {
		fmt.Fprintf(f.Writer, "[%s] %s\n    %s\n", item.CreatedAt, item.AuthorName, item.Comment)
	}
	return nil
}
