package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/x-analytics-cli/internal/adapters/feed"
	"github.com/spf13/cobra"
)

func newAggregateCmd(app *app, opts *globalOptions) *cobra.Command {
	var input string
	var output string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Merge daily export files into one snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" {
				input = app.cfg.GetString(keyFeedInputDir)
			}
			if output == "" {
				output = app.cfg.GetString(keyFeedOutput)
			}

			var result feed.Result
			build := func(ctx context.Context) error {
				var err error
				result, err = app.builder.Build(ctx, input, output)
				return err
			}

			var err error
			if opts.asJSON {
				err = build(cmd.Context())
			} else {
				err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Aggregating "+input+"...", build)
			}
			if err != nil {
				return fmt.Errorf("aggregate daily files: %w", err)
			}

			if opts.asJSON {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "wrote %s: %d records from %d files (%d agents, %d days)\n",
				result.Output, result.Records, result.Files, result.Summary.TotalAgents, result.Summary.TotalDays); err != nil {
				return err
			}
			for _, skipped := range result.Skipped {
				if _, err := fmt.Fprintf(out, "skipped %s: %s\n", skipped.Name, skipped.Err); err != nil {
					return err
				}
			}
			if result.Rejected > 0 {
				_, err := fmt.Fprintf(out, "rejected %d malformed records\n", result.Rejected)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Directory of daily JSON files (default from config feed.input_dir)")
	cmd.Flags().StringVar(&output, "output", "", "Snapshot path to write (default from config feed.output)")

	return cmd
}
