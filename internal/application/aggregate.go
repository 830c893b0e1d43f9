package application

import (
	"math"
	"sort"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterRecords returns the records matching filter as a new slice. Agent
// membership and the date cutoff are AND-combined; an empty filter keeps
// everything. The cutoff is the UTC day of now minus the range.
func FilterRecords(records []domain.Record, filter domain.Filter, now time.Time) []domain.Record {
	if filter.IsEmpty() {
		return append(make([]domain.Record, 0, len(records)), records...)
	}

	var allowed map[domain.AgentID]struct{}
	if len(filter.Agents) > 0 {
		allowed = make(map[domain.AgentID]struct{}, len(filter.Agents))
		for _, id := range filter.Agents {
			allowed[id] = struct{}{}
		}
	}

	var cutoff domain.Day
	if !filter.Range.IsAll() {
		cutoff = domain.DayOf(now.AddDate(0, 0, -filter.Range.Days))
	}

	filtered := make([]domain.Record, 0, len(records))
	for _, record := range records {
		if allowed != nil {
			if _, ok := allowed[record.AgentID]; !ok {
				continue
			}
		}
		if cutoff != "" && record.Date.Before(cutoff) {
			continue
		}
		filtered = append(filtered, record)
	}

	return filtered
}

func ComputeStats(records []domain.Record) domain.Stats {
	if len(records) == 0 {
		return domain.Stats{}
	}

	days := make(map[domain.Day]struct{})
	stats := domain.Stats{}
	for _, record := range records {
		stats.TotalPosts += record.Posts
		stats.TotalImpressions += record.Impressions
		days[record.Date] = struct{}{}
	}

	totals := groupByAgent(records)
	stats.UniqueDays = len(days)
	stats.UniqueAgents = len(totals)

	// Strictly greater keeps the first-encountered agent on ties and never
	// reports an agent without posts.
	var best int64
	for i := range totals {
		if totals[i].Posts > best {
			best = totals[i].Posts
			winner := totals[i]
			stats.TopAgent = &winner
		}
	}

	stats.AvgPostsPerDay = roundedRatio(float64(stats.TotalPosts), stats.UniqueDays)
	stats.AvgImpressionsPerDay = roundedRatio(float64(stats.TotalImpressions), stats.UniqueDays)
	stats.AvgPostsPerAgent = roundedRatio(float64(stats.TotalPosts), stats.UniqueAgents, stats.UniqueDays)

	return stats
}

// DailyTotals sums posts and impressions per day, ascending by date.
func DailyTotals(records []domain.Record) []domain.DayTotal {
	index := make(map[domain.Day]int)
	totals := make([]domain.DayTotal, 0)

	for _, record := range records {
		i, ok := index[record.Date]
		if !ok {
			i = len(totals)
			index[record.Date] = i
			totals = append(totals, domain.DayTotal{Date: record.Date})
		}
		totals[i].Posts += record.Posts
		totals[i].Impressions += record.Impressions
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date < totals[j].Date
	})

	return totals
}

// RankAgents sums per agent and orders by posts descending. Equal post counts
// keep first-appearance order. A positive limit truncates the result.
func RankAgents(records []domain.Record, limit int) []domain.AgentTotal {
	totals := groupByAgent(records)

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Posts > totals[j].Posts
	})

	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}

	return totals
}

func BuildLeaderboard(records []domain.Record) []domain.LeaderboardEntry {
	ranked := RankAgents(records, 0)
	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, total := range ranked {
		entries = append(entries, domain.LeaderboardEntry{Rank: i + 1, AgentTotal: total})
	}
	return entries
}

// BuildDirectory lists each distinct agent once. The first record seen for an
// agent supplies its name and handle. Entries are ordered by display name,
// case-insensitively, then by agent id.
func BuildDirectory(records []domain.Record) []domain.Agent {
	seen := make(map[domain.AgentID]struct{})
	agents := make([]domain.Agent, 0)

	for _, record := range records {
		if _, ok := seen[record.AgentID]; ok {
			continue
		}
		seen[record.AgentID] = struct{}{}
		agents = append(agents, domain.Agent{
			ID:          record.AgentID,
			DisplayName: record.DisplayName,
			XHandle:     record.XHandle,
		})
	}

	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(agents, func(i, j int) bool {
		if c := collator.CompareString(agents[i].DisplayName, agents[j].DisplayName); c != 0 {
			return c < 0
		}
		return agents[i].ID < agents[j].ID
	})

	return agents
}

func groupByAgent(records []domain.Record) []domain.AgentTotal {
	index := make(map[domain.AgentID]int)
	totals := make([]domain.AgentTotal, 0)

	for _, record := range records {
		i, ok := index[record.AgentID]
		if !ok {
			i = len(totals)
			index[record.AgentID] = i
			totals = append(totals, domain.AgentTotal{ID: record.AgentID, DisplayName: record.DisplayName})
		}
		totals[i].Posts += record.Posts
		totals[i].Impressions += record.Impressions
	}

	return totals
}

// roundedRatio divides num by each denominator in turn and rounds half away
// from zero. Any zero denominator yields 0.
func roundedRatio(num float64, denominators ...int) int64 {
	value := num
	for _, d := range denominators {
		if d == 0 {
			return 0
		}
		value /= float64(d)
	}
	return int64(math.Round(value))
}
