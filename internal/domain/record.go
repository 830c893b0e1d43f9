package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

type AgentID string

// Record is one agent/day activity observation.
type Record struct {
	Date        Day     `json:"date"`
	AgentID     AgentID `json:"agent_id"`
	DisplayName string  `json:"display_name"`
	XHandle     string  `json:"xHandle"`
	Posts       int64   `json:"posts"`
	Impressions int64   `json:"impressions"`
}

// RawRecord holds record fields exactly as they were decoded, before any
// defaulting or coercion.
type RawRecord struct {
	Date        any
	AgentID     any
	DisplayName any
	XHandle     any
	Posts       any
	Impressions any
}

// RecordRejection describes an input entry dropped during ingestion.
type RecordRejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// NormalizeRecord turns a decoded entry into a fully populated Record.
// Missing counts become 0, a missing display name falls back to the agent id
// and a missing handle to "@<agent id>".
func NormalizeRecord(raw RawRecord) (Record, error) {
	agentID := strings.TrimSpace(cast.ToString(raw.AgentID))
	if agentID == "" {
		return Record{}, fmt.Errorf("%w: missing agent_id", ErrInvalidRecord)
	}

	day, err := ParseDay(cast.ToString(raw.Date))
	if err != nil {
		return Record{}, fmt.Errorf("%w: agent %s: %v", ErrInvalidRecord, agentID, err)
	}

	posts, err := countField("posts", raw.Posts)
	if err != nil {
		return Record{}, fmt.Errorf("agent %s on %s: %w", agentID, day, err)
	}

	impressions, err := countField("impressions", raw.Impressions)
	if err != nil {
		return Record{}, fmt.Errorf("agent %s on %s: %w", agentID, day, err)
	}

	displayName := strings.TrimSpace(cast.ToString(raw.DisplayName))
	if displayName == "" {
		displayName = agentID
	}

	handle := strings.TrimSpace(cast.ToString(raw.XHandle))
	if handle == "" {
		handle = "@" + agentID
	}

	return Record{
		Date:        day,
		AgentID:     AgentID(agentID),
		DisplayName: displayName,
		XHandle:     handle,
		Posts:       posts,
		Impressions: impressions,
	}, nil
}

func countField(name string, value any) (int64, error) {
	if value == nil {
		return 0, nil
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return 0, nil
	}

	n, err := toCount(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a count: %v", ErrInvalidRecord, name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s is negative (%d)", ErrInvalidRecord, name, n)
	}

	return n, nil
}

// toCount accepts whole numbers only. Strings are read as base 10 so a
// leading zero is not taken as octal.
func toCount(value any) (int64, error) {
	switch v := value.(type) {
	case float64:
		return floatCount(v)
	case float32:
		return floatCount(float64(v))
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return cast.ToInt64E(value)
	}
}

func floatCount(v float64) (int64, error) {
	if math.IsNaN(v) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%v is not a whole number", v)
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, fmt.Errorf("%v is out of range", v)
	}
	return int64(v), nil
}
