package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/bnema/x-analytics-cli/internal/logging"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/bnema/x-analytics-cli/internal/snapshot"
)

const DefaultAgentSeriesLimit = 10

var errNilSource = errors.New("snapshot source is nil")

type LoadReport struct {
	Source      string
	Records     int
	Rejections  []domain.RecordRejection
	LastUpdated time.Time
}

// Engine owns one Dataset and the Filtered view derived from it. Every query
// reads the Filtered view set by the last ApplyFilter or Load.
type Engine struct {
	clock  ports.Clock
	logger logging.Logger

	mu       sync.RWMutex
	dataset  *domain.Dataset
	agents   []domain.Agent
	filtered []domain.Record
}

func NewEngine(clock ports.Clock, logger logging.Logger) *Engine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &Engine{
		clock:  clock,
		logger: logger,
	}
}

// Load fetches and decodes a snapshot, then installs it. On any failure the
// current Dataset stays in place.
func (e *Engine) Load(ctx context.Context, source ports.SnapshotSource) (LoadReport, error) {
	if source == nil {
		return LoadReport{}, errNilSource
	}

	log := e.logger.WithField("source", source.Describe())

	data, err := source.Fetch(ctx)
	if err != nil {
		log.WithError(err).Error("snapshot fetch failed")
		return LoadReport{}, fmt.Errorf("fetch snapshot from %s: %w", source.Describe(), err)
	}

	dataset, rejections, err := snapshot.Decode(data)
	if err != nil {
		log.WithError(err).Error("snapshot decode failed")
		return LoadReport{}, fmt.Errorf("decode snapshot from %s: %w", source.Describe(), err)
	}

	for _, rejection := range rejections {
		log.WithFields(logging.Fields{
			"index":  rejection.Index,
			"reason": rejection.Reason,
		}).Warn("record rejected")
	}

	e.Install(dataset)

	log.WithFields(logging.Fields{
		"records":      len(dataset.Records),
		"rejected":     len(rejections),
		"last_updated": dataset.LastUpdated,
	}).Info("snapshot loaded")

	return LoadReport{
		Source:      source.Describe(),
		Records:     len(dataset.Records),
		Rejections:  rejections,
		LastUpdated: dataset.LastUpdated,
	}, nil
}

// Install replaces the Dataset wholesale. Records are kept newest day first;
// that order decides every first-encountered tie-break.
func (e *Engine) Install(dataset domain.Dataset) {
	records := cloneRecords(dataset.Records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	dataset.Records = records

	agents := BuildDirectory(records)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.dataset = &dataset
	e.agents = agents
	e.filtered = records
}

func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.dataset != nil
}

// LastUpdated returns the timestamp of the installed Dataset.
func (e *Engine) LastUpdated() (time.Time, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.dataset == nil {
		return time.Time{}, domain.ErrNoDataset
	}
	return e.dataset.LastUpdated, nil
}

// ApplyFilter recomputes the Filtered view from the full Dataset and returns
// a copy of it. Filters never stack.
func (e *Engine) ApplyFilter(filter domain.Filter) []domain.Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dataset == nil {
		e.filtered = nil
		return nil
	}

	e.filtered = FilterRecords(e.dataset.Records, filter, e.clock.Now())
	return cloneRecords(e.filtered)
}

func (e *Engine) Filtered() []domain.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return cloneRecords(e.filtered)
}

func (e *Engine) Agents() []domain.Agent {
	e.mu.RLock()
	defer e.mu.RUnlock()

	agents := make([]domain.Agent, len(e.agents))
	copy(agents, e.agents)
	return agents
}

func (e *Engine) Stats() domain.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return ComputeStats(e.filtered)
}

func (e *Engine) Timeline() []domain.DayTotal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return DailyTotals(e.filtered)
}

func (e *Engine) AgentSeries(limit int) []domain.AgentTotal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return RankAgents(e.filtered, limit)
}

func (e *Engine) Leaderboard() []domain.LeaderboardEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return BuildLeaderboard(e.filtered)
}

func (e *Engine) Table(query TableQuery) TablePage {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return QueryTable(e.filtered, query)
}

// Freshness is advisory and never blocks queries.
func (e *Engine) Freshness() domain.Freshness {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.dataset == nil {
		return domain.FreshnessError
	}

	return domain.ClassifyFreshness(e.dataset.LastUpdated, e.clock.Now())
}

func cloneRecords(records []domain.Record) []domain.Record {
	if records == nil {
		return nil
	}

	cloned := make([]domain.Record, len(records))
	copy(cloned, records)
	return cloned
}
