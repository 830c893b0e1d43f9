package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/x-analytics-cli/internal/adapters/render/dashboard"
	"github.com/bnema/x-analytics-cli/internal/application"
	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *app, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show summary statistics for the filtered view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := loadFiltered(cmd, app, opts)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd, app.engine.Stats())
			}

			return writeSection(cmd, app, filter, dashboard.RenderOptions{Header: true, Sections: []dashboard.Section{dashboard.SectionStats}}, 0)
		},
	}
}

func newTimelineCmd(app *app, opts *globalOptions) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show per-day totals in ascending date order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := dashboard.ParseMetric(metric)
			if err != nil {
				return err
			}

			filter, err := loadFiltered(cmd, app, opts)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd, app.engine.Timeline())
			}

			return writeSection(cmd, app, filter, dashboard.RenderOptions{Metric: parsed, Sections: []dashboard.Section{dashboard.SectionTimeline}}, 0)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", string(dashboard.MetricPosts), "Metric to chart (posts|impressions)")

	return cmd
}

func newAgentsCmd(app *app, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List every agent in the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := loadFiltered(cmd, app, opts)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd, app.engine.Agents())
			}

			return writeSection(cmd, app, filter, dashboard.RenderOptions{Sections: []dashboard.Section{dashboard.SectionAgents}}, 0)
		},
	}
}

func newLeaderboardCmd(app *app, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank every agent in the filtered view by posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := loadFiltered(cmd, app, opts)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd, app.engine.Leaderboard())
			}

			return writeSection(cmd, app, filter, dashboard.RenderOptions{Sections: []dashboard.Section{dashboard.SectionLeaderboard}}, 0)
		},
	}
}

func newTopCmd(app *app, opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the agents with the most posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("invalid --limit %d (want 0 for all or a positive number)", limit)
			}

			filter, err := loadFiltered(cmd, app, opts)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd, app.engine.AgentSeries(limit))
			}

			return writeSection(cmd, app, filter, dashboard.RenderOptions{Sections: []dashboard.Section{dashboard.SectionTopAgents}}, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", application.DefaultAgentSeriesLimit, "Number of agents to show (0 for all)")

	return cmd
}

type freshnessReport struct {
	Freshness   domain.Freshness `json:"freshness"`
	Label       string           `json:"label"`
	LastUpdated *time.Time       `json:"lastUpdated,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func newFreshnessCmd(app *app, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "freshness",
		Short: "Report how current the snapshot is",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd.Context(), app); err != nil {
				return err
			}

			// A failed load is a freshness result, not a command failure.
			loadErr := loadSnapshot(cmd, app, opts)

			freshness := app.engine.Freshness()
			report := freshnessReport{Freshness: freshness, Label: freshness.Label()}
			if lastUpdated, err := app.engine.LastUpdated(); err == nil && !lastUpdated.IsZero() {
				report.LastUpdated = &lastUpdated
			}
			if loadErr != nil {
				report.Error = loadErr.Error()
			}

			if opts.asJSON {
				return writeJSON(cmd, report)
			}

			if err := writeSection(cmd, app, domain.Filter{}, dashboard.RenderOptions{Sections: []dashboard.Section{dashboard.SectionFreshness}}, 0); err != nil {
				return err
			}
			if loadErr != nil {
				_, err := fmt.Fprintln(cmd.ErrOrStderr(), loadErr)
				return err
			}
			return nil
		},
	}
}

func newDashboardCmd(app *app, opts *globalOptions) *cobra.Command {
	var metric string
	var sections []string
	var topLimit int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render the full analytics dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsedMetric, err := dashboard.ParseMetric(metric)
			if err != nil {
				return err
			}

			parsedSections, err := parseSections(sections)
			if err != nil {
				return err
			}

			filter, err := loadFiltered(cmd, app, opts)
			if err != nil {
				return err
			}

			query := application.TableQuery{RowsPerPage: app.cfg.GetInt(keyRowsPerPage)}
			view := currentView(app, filter, query, topLimit)
			if opts.asJSON {
				return writeJSON(cmd, view)
			}

			return writeRendered(cmd, app, view, dashboard.RenderOptions{
				Metric:   parsedMetric,
				Sections: parsedSections,
				Header:   true,
			})
		},
	}

	cmd.Flags().StringVar(&metric, "metric", string(dashboard.MetricPosts), "Timeline metric (posts|impressions)")
	cmd.Flags().StringSliceVar(&sections, "section", nil, "Sections to show: freshness, stats, timeline, top, leaderboard, agents, table (default all but agents)")
	cmd.Flags().IntVar(&topLimit, "top", application.DefaultAgentSeriesLimit, "Number of agents in the top agents chart")

	return cmd
}

func parseSections(raw []string) ([]dashboard.Section, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	known := map[dashboard.Section]bool{
		dashboard.SectionFreshness:   true,
		dashboard.SectionStats:       true,
		dashboard.SectionTimeline:    true,
		dashboard.SectionTopAgents:   true,
		dashboard.SectionLeaderboard: true,
		dashboard.SectionAgents:      true,
		dashboard.SectionTable:       true,
	}

	sections := make([]dashboard.Section, 0, len(raw))
	for _, value := range raw {
		section := dashboard.Section(value)
		if !known[section] {
			return nil, fmt.Errorf("unknown dashboard section %q", value)
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func writeSection(cmd *cobra.Command, app *app, filter domain.Filter, opts dashboard.RenderOptions, topLimit int) error {
	return writeRendered(cmd, app, currentView(app, filter, application.TableQuery{}, topLimit), opts)
}
