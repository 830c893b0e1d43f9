package domain

type AgentTotal struct {
	ID          AgentID `json:"agent_id"`
	DisplayName string  `json:"display_name"`
	Posts       int64   `json:"posts"`
	Impressions int64   `json:"impressions"`
}

type LeaderboardEntry struct {
	Rank int `json:"rank"`
	AgentTotal
}

type DayTotal struct {
	Date        Day   `json:"date"`
	Posts       int64 `json:"posts"`
	Impressions int64 `json:"impressions"`
}

// Stats is the summary shown on the stat cards. The zero value is the empty
// result.
type Stats struct {
	TotalPosts           int64       `json:"totalPosts"`
	TotalImpressions     int64       `json:"totalImpressions"`
	UniqueDays           int         `json:"uniqueDays"`
	UniqueAgents         int         `json:"uniqueAgents"`
	AvgPostsPerDay       int64       `json:"avgPostsPerDay"`
	AvgImpressionsPerDay int64       `json:"avgImpressionsPerDay"`
	AvgPostsPerAgent     int64       `json:"avgPostsPerAgent"`
	TopAgent             *AgentTotal `json:"topAgent"`
}
