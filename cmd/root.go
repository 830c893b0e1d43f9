package cmd

import (
	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by the data commands.
type globalOptions struct {
	source string
	agents []string
	days   string
	asJSON bool
}

func (o *globalOptions) filter() (domain.Filter, error) {
	dateRange, err := domain.ParseDateRange(o.days)
	if err != nil {
		return domain.Filter{}, err
	}

	agents := make([]domain.AgentID, 0, len(o.agents))
	for _, agent := range o.agents {
		if agent == "" {
			continue
		}
		agents = append(agents, domain.AgentID(agent))
	}

	return domain.Filter{Agents: agents, Range: dateRange}, nil
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "xa",
		Short:         "X Account Analytics (xa): aggregate agent posting activity",
		Long:          "xa loads an analytics snapshot of X accounts run by agents, filters it by agent and date range, and reports totals, timelines, leaderboards and record tables from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.source, "source", "", "Snapshot file path or http(s) URL (default from config source.location)")
	flags.StringArrayVar(&opts.agents, "agent", nil, "Agent ID to include (repeatable, default all agents)")
	flags.StringVar(&opts.days, "days", "30", "Date range: number of days or \"all\"")
	flags.BoolVar(&opts.asJSON, "json", false, "Output JSON")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.logger.SetOutput(cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newStatsCmd(app, opts),
		newTimelineCmd(app, opts),
		newAgentsCmd(app, opts),
		newLeaderboardCmd(app, opts),
		newTopCmd(app, opts),
		newTableCmd(app, opts),
		newExportCmd(app, opts),
		newFreshnessCmd(app, opts),
		newDashboardCmd(app, opts),
		newAggregateCmd(app, opts),
		newAuthCmd(app, opts),
	)

	return rootCmd
}
