package cli

import (
	"github.com/spf13/cobra"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your YYC Track account",
		Long: `Sign in to your YYC Track account.

On success the issued token is stored locally and later commands run
authenticated. A failed login leaves any existing session untouched.

Example:
  trackctl login --email rider@example.com --password secret`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runLogin(opts *LoginOptions, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts.RootOptions, cmd)
	res := app.User.Login(cmd.Context(), opts.Email, opts.Password)
	if !res.Success {
		f.Error("AUTH", res.Message, nil)
		return NewExitError(ExitFailure, res.Message)
	}

	message := "Signed in"
	if res.Identity != nil && res.Identity.Email != "" {
		message = "Signed in as " + res.Identity.Email
	}
	return f.Success(message)
}
