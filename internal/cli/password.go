package cli

import (
	"github.com/spf13/cobra"

	"github.com/yyc-track/trackctl/internal/api"
)

// NewPasswordCommand creates the password command group (reset flow for
// signed-out users; signed-in users use 'account password').
func NewPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	cmd.AddCommand(newPasswordForgotCommand(rootOpts))
	cmd.AddCommand(newPasswordResetCommand(rootOpts))

	return cmd
}

func newPasswordForgotCommand(rootOpts *RootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:           "forgot",
		Short:         "Email yourself a password reset link",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			f := formatter(rootOpts, cmd)
			if err := app.API.ForgotPassword(cmd.Context(), email); err != nil {
				message := api.UserMessage(err, "Could not send the reset email. Please try again.")
				f.Error("AUTH", message, nil)
				return NewExitError(ExitFailure, message)
			}
			return f.Success("If that email has an account, a reset link is on its way.")
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newPasswordResetCommand(rootOpts *RootOptions) *cobra.Command {
	var newPassword string

	cmd := &cobra.Command{
		Use:           "reset <token>",
		Short:         "Set a new password using a reset token",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			f := formatter(rootOpts, cmd)
			if err := app.API.ResetPassword(cmd.Context(), args[0], newPassword); err != nil {
				message := api.UserMessage(err, "Password reset failed. Please try again.")
				f.Error("AUTH", message, nil)
				return NewExitError(ExitFailure, message)
			}
			return f.Success("Password reset. Sign in with your new password.")
		},
	}

	cmd.Flags().StringVar(&newPassword, "new-password", "", "new password")
	cmd.MarkFlagRequired("new-password")

	return cmd
}
