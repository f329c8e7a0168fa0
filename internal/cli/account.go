package cli

import (
	"github.com/spf13/cobra"

	"github.com/yyc-track/trackctl/internal/api"
)

// AccountUpdateOptions holds flags for account update.
type AccountUpdateOptions struct {
	*RootOptions
	FirstName  string
	LastName   string
	Email      string
	PostalCode string
}

// AccountPasswordOptions holds flags for account password.
type AccountPasswordOptions struct {
	*RootOptions
	Current string
	Next    string
}

// NewAccountCommand creates the account command group.
func NewAccountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account settings",
	}

	cmd.AddCommand(newAccountUpdateCommand(rootOpts))
	cmd.AddCommand(newAccountPasswordCommand(rootOpts))
	cmd.AddCommand(newAccountCompleteCommand(rootOpts))

	return cmd
}

func newAccountUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AccountUpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Long: `Update profile fields. Only the flags you pass are sent; fields the
backend does not echo back are kept as-is locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := requireAuth(cmd.Context(), app.User); err != nil {
				return err
			}

			f := formatter(opts.RootOptions, cmd)
			res := app.User.UpdateProfile(cmd.Context(), api.ProfileUpdate{
				FirstName:  opts.FirstName,
				LastName:   opts.LastName,
				Email:      opts.Email,
				PostalCode: opts.PostalCode,
			})
			if !res.Success {
				f.Error("ACCOUNT", res.Message, nil)
				return NewExitError(ExitFailure, res.Message)
			}
			return f.SuccessJSON(res.Identity)
		},
	}

	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.PostalCode, "postal-code", "", "postal code")

	return cmd
}

func newAccountPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AccountPasswordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "password",
		Short:         "Change your password",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := requireAuth(cmd.Context(), app.User); err != nil {
				return err
			}

			f := formatter(opts.RootOptions, cmd)
			res := app.User.ChangePassword(cmd.Context(), opts.Current, opts.Next)
			if !res.Success {
				f.Error("ACCOUNT", res.Message, nil)
				return NewExitError(ExitFailure, res.Message)
			}
			return f.Success("Password changed.")
		},
	}

	cmd.Flags().StringVar(&opts.Current, "current", "", "current password")
	cmd.Flags().StringVar(&opts.Next, "new", "", "new password")
	cmd.MarkFlagRequired("current")
	cmd.MarkFlagRequired("new")

	return cmd
}

func newAccountCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	var postalCode string

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Finish an OAuth sign-up by adding your postal code",
		Long: `Finish an OAuth sign-up by adding your postal code.

Third-party sign-in does not collect a postal code; this supplies it
after 'trackctl auth callback' reports the profile as incomplete.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if _, err := requireAuth(cmd.Context(), app.User); err != nil {
				return err
			}

			f := formatter(rootOpts, cmd)
			res := app.User.CompleteProfile(cmd.Context(), postalCode)
			if !res.Success {
				f.Error("ACCOUNT", res.Message, nil)
				return NewExitError(ExitFailure, res.Message)
			}
			return f.SuccessJSON(res.Identity)
		},
	}

	cmd.Flags().StringVar(&postalCode, "postal-code", "", "postal code")
	cmd.MarkFlagRequired("postal-code")

	return cmd
}
