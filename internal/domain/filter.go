package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const allTimeLabel = "all"

// DateRange is either all time (Days == 0) or the last Days days.
type DateRange struct {
	Days int `json:"days"`
}

var AllTime = DateRange{}

func LastDays(n int) DateRange {
	return DateRange{Days: n}
}

func (r DateRange) IsAll() bool {
	return r.Days <= 0
}

func (r DateRange) String() string {
	if r.IsAll() {
		return allTimeLabel
	}
	return strconv.Itoa(r.Days)
}

// ParseDateRange accepts "all" or a positive number of days.
func ParseDateRange(raw string) (DateRange, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == allTimeLabel {
		return AllTime, nil
	}

	days, err := strconv.Atoi(trimmed)
	if err != nil || days <= 0 {
		return DateRange{}, fmt.Errorf("%w: %q (want \"all\" or a positive number of days)", ErrInvalidDateRange, raw)
	}

	return LastDays(days), nil
}

// Filter is the caller-owned filter state. An empty Agents list selects every
// agent.
type Filter struct {
	Agents []AgentID `json:"agents"`
	Range  DateRange `json:"range"`
}

func (f Filter) IsEmpty() bool {
	return len(f.Agents) == 0 && f.Range.IsAll()
}
