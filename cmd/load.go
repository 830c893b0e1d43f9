package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/x-analytics-cli/internal/adapters/render/dashboard"
	"github.com/bnema/x-analytics-cli/internal/application"
	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/cobra"
)

// loadFiltered checks the login gate, loads the snapshot and applies the
// filter from the persistent flags.
func loadFiltered(cmd *cobra.Command, app *app, opts *globalOptions) (domain.Filter, error) {
	if err := requireSession(cmd.Context(), app); err != nil {
		return domain.Filter{}, err
	}

	filter, err := opts.filter()
	if err != nil {
		return domain.Filter{}, err
	}

	if err := loadSnapshot(cmd, app, opts); err != nil {
		return domain.Filter{}, err
	}

	app.engine.ApplyFilter(filter)
	return filter, nil
}

func requireSession(ctx context.Context, app *app) error {
	err := app.gate.Check(ctx)
	if errors.Is(err, domain.ErrSessionExpired) {
		return fmt.Errorf("%w: run `xa auth login`", err)
	}
	if err != nil {
		return fmt.Errorf("check login: %w", err)
	}
	return nil
}

func loadSnapshot(cmd *cobra.Command, app *app, opts *globalOptions) error {
	src, err := app.openSource(opts.source)
	if err != nil {
		return fmt.Errorf("open snapshot source: %w", err)
	}

	load := func(ctx context.Context) error {
		_, err := app.engine.Load(ctx, src)
		return err
	}

	if opts.asJSON {
		return load(cmd.Context())
	}

	return runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading "+src.Describe()+"...", load)
}

// currentView reads every dashboard query at the engine's current filter.
func currentView(app *app, filter domain.Filter, query application.TableQuery, topLimit int) dashboard.View {
	lastUpdated, _ := app.engine.LastUpdated()

	return dashboard.View{
		Filter:      filter,
		TotalAgents: len(app.engine.Agents()),
		Stats:       app.engine.Stats(),
		Timeline:    app.engine.Timeline(),
		TopAgents:   app.engine.AgentSeries(topLimit),
		Leaderboard: app.engine.Leaderboard(),
		Agents:      app.engine.Agents(),
		Table:       app.engine.Table(query),
		Freshness:   app.engine.Freshness(),
		LastUpdated: lastUpdated,
	}
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeRendered(cmd *cobra.Command, app *app, view dashboard.View, opts dashboard.RenderOptions) error {
	if opts.Now.IsZero() {
		opts.Now = app.clock.Now()
	}

	rendered, err := app.renderer(view, opts)
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
