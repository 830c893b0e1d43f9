package cmd

import (
	"github.com/bnema/x-analytics-cli/internal/adapters/render/dashboard"
	"github.com/bnema/x-analytics-cli/internal/application"
	"github.com/spf13/cobra"
)

func newTableCmd(app *app, opts *globalOptions) *cobra.Command {
	var search string
	var sortColumn string
	var order string
	var page int
	var rows int

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Search, sort and page through the filtered records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			column, err := application.ParseSortColumn(sortColumn)
			if err != nil {
				return err
			}
			direction, err := application.ParseSortDirection(order)
			if err != nil {
				return err
			}

			filter, err := loadFiltered(cmd, app, opts)
			if err != nil {
				return err
			}

			if rows <= 0 {
				rows = app.cfg.GetInt(keyRowsPerPage)
			}
			query := application.TableQuery{
				Search:      search,
				SortColumn:  column,
				Direction:   direction,
				Page:        page,
				RowsPerPage: rows,
			}

			if opts.asJSON {
				return writeJSON(cmd, app.engine.Table(query))
			}

			view := currentView(app, filter, query, 0)
			return writeRendered(cmd, app, view, dashboard.RenderOptions{Sections: []dashboard.Section{dashboard.SectionTable}})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Match display name, handle or date")
	cmd.Flags().StringVar(&sortColumn, "sort", string(application.SortByDate), "Sort column (date|agent|handle|posts|impressions)")
	cmd.Flags().StringVar(&order, "order", string(application.SortDescending), "Sort order (asc|desc)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&rows, "rows", 0, "Rows per page (default from config table.rows_per_page)")

	return cmd
}
