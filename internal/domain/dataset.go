package domain

import "time"

// Summary is the advisory block written by the feed builder. The engine never
// relies on it.
type Summary struct {
	TotalAgents      int   `json:"totalAgents"`
	TotalDays        int   `json:"totalDays"`
	TotalPosts       int64 `json:"totalPosts"`
	TotalImpressions int64 `json:"totalImpressions"`
}

type Dataset struct {
	LastUpdated time.Time
	Summary     Summary
	Records     []Record
}

// Agent is one Agent Directory entry.
type Agent struct {
	ID          AgentID `json:"agent_id"`
	DisplayName string  `json:"display_name"`
	XHandle     string  `json:"xHandle"`
}

// Summarize computes the advisory summary over records.
func Summarize(records []Record) Summary {
	agents := make(map[AgentID]struct{})
	days := make(map[Day]struct{})
	summary := Summary{}

	for _, record := range records {
		agents[record.AgentID] = struct{}{}
		days[record.Date] = struct{}{}
		summary.TotalPosts += record.Posts
		summary.TotalImpressions += record.Impressions
	}

	summary.TotalAgents = len(agents)
	summary.TotalDays = len(days)
	return summary
}
