package cli

import (
	"github.com/spf13/cobra"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Resend bool
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify [code]",
		Short: "Confirm the emailed verification code",
		Long: `Confirm the emailed verification code.

Runs against the token issued at registration, so it works in a fresh
shell. Use --resend to request a new code instead of confirming one.

Examples:
  trackctl verify 482913
  trackctl verify --resend`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Resend, "resend", false, "request a new verification code")

	return cmd
}

func runVerify(opts *VerifyOptions, args []string, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts.RootOptions, cmd)

	if opts.Resend {
		res := app.User.ResendVerification(cmd.Context())
		if !res.Success {
			f.Error("AUTH", res.Message, nil)
			return NewExitError(ExitFailure, res.Message)
		}
		return f.Success("Verification code sent. Check your email.")
	}

	if len(args) != 1 {
		return NewExitError(ExitCommandError, "verification code required (or pass --resend)")
	}

	res := app.User.VerifyEmail(cmd.Context(), args[0])
	if !res.Success {
		f.Error("AUTH", res.Message, nil)
		return NewExitError(ExitFailure, res.Message)
	}

	return f.Success("Email verified. You are signed in.")
}
