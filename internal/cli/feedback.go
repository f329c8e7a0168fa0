package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yyc-track/trackctl/internal/transit"
)

// FeedbackNewOptions holds flags for feedback new.
type FeedbackNewOptions struct {
	*RootOptions
	Station string
	Author  string
	Comment string
}

// NewFeedbackCommand creates the feedback command group.
func NewFeedbackCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Draft station feedback",
	}

	cmd.AddCommand(newFeedbackNewCommand(rootOpts))

	return cmd
}

func newFeedbackNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedbackNewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Draft a feedback entry for a station",
		Long: `Draft a feedback entry for a station.

Prints the submission payload with a fresh identifier and timestamp.
The feedback endpoint is not live yet; keep the payload to submit later.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeedbackNew(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Station, "station", "", "station id")
	cmd.Flags().StringVar(&opts.Author, "author", "Anonymous", "display name")
	cmd.Flags().StringVar(&opts.Comment, "comment", "", "feedback text")
	cmd.MarkFlagRequired("station")
	cmd.MarkFlagRequired("comment")

	return cmd
}

func runFeedbackNew(opts *FeedbackNewOptions, cmd *cobra.Command) error {
	app, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, ok := app.Catalog.StationByID(opts.Station); !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown station %q", opts.Station))
	}

	item := transit.NewFeedbackItem(opts.Station, opts.Author, opts.Comment,
		time.Now().UTC().Format(time.RFC3339))

	f := formatter(opts.RootOptions, cmd)
	return f.SuccessJSON(item)
}
