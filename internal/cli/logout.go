package cli

import (
	"github.com/spf13/cobra"
)

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out of your YYC Track account",
		Long: `Sign out of your YYC Track account.

Removes the locally stored token. Safe to run when already signed out;
no request is made either way.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			app.User.Logout(cmd.Context())
			f := formatter(rootOpts, cmd)
			return f.Success("Signed out. Sign in again at " + app.User.LoginRoute())
		},
	}

	return cmd
}
