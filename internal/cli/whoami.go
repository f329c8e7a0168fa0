package cli

import (
	"github.com/spf13/cobra"
)

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user profile",
		Long: `Show the signed-in user profile.

The persisted token is resolved against the API first; a stale token is
discarded and the command reports that you are signed out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			snap, err := requireAuth(cmd.Context(), app.User)
			if err != nil {
				return err
			}

			f := formatter(rootOpts, cmd)
			return f.SuccessJSON(snap.Identity)
		},
	}

	return cmd
}
