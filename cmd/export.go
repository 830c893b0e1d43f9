package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/bnema/x-analytics-cli/internal/adapters/export"
	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/cobra"
)

const stdoutPath = "-"

type exportReport struct {
	Output  string `json:"output"`
	Records int    `json:"records"`
}

func newExportCmd(app *app, opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered records as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := loadFiltered(cmd, app, opts); err != nil {
				return err
			}

			records := app.engine.Filtered()
			if output == stdoutPath {
				return export.Write(cmd.OutOrStdout(), records)
			}

			path := output
			if path == "" {
				path = export.FileName(app.clock.Now())
			}

			if err := writeCSVFile(app, path, records); err != nil {
				return err
			}

			report := exportReport{Output: path, Records: len(records)}
			if opts.asJSON {
				return writeJSON(cmd, report)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", report.Records, report.Output)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV path, \"-\" for stdout (default x-analytics-YYYY-MM-DD.csv)")

	return cmd
}

func writeCSVFile(app *app, path string, records []domain.Record) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := app.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	file, err := app.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
	}()

	return export.Write(file, records)
}
