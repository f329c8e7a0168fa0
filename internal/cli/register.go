package cli

import (
	"github.com/spf13/cobra"

	"github.com/yyc-track/trackctl/internal/api"
)

// RegisterOptions holds flags for the register command.
type RegisterOptions struct {
	*RootOptions
	FirstName  string
	LastName   string
	Email      string
	Password   string
	PostalCode string
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegisterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a YYC Track account",
		Long: `Create a YYC Track account.

Registration issues a token but the session stays signed out until the
emailed code is confirmed with 'trackctl verify <code>'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	cmd.Flags().StringVar(&opts.PostalCode, "postal-code", "", "postal code (optional)")
	cmd.MarkFlagRequired("first-name")
	cmd.MarkFlagRequired("last-name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runRegister(opts *RegisterOptions, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts.RootOptions, cmd)
	res := app.User.Register(cmd.Context(), api.RegistrationProfile{
		FirstName:  opts.FirstName,
		LastName:   opts.LastName,
		Email:      opts.Email,
		Password:   opts.Password,
		PostalCode: opts.PostalCode,
	})
	if !res.Success {
		f.Error("AUTH", res.Message, nil)
		return NewExitError(ExitFailure, res.Message)
	}

	return f.Success("Account created. Check your email and run 'trackctl verify <code>' to finish signing in.")
}
