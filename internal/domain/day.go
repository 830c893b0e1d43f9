package domain

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in YYYY-MM-DD form. Lexicographic order is
// chronological order.
type Day string

func ParseDay(raw string) (Day, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty date")
	}

	if parsed, err := time.Parse(dayLayout, trimmed); err == nil {
		return DayOf(parsed), nil
	}

	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return "", fmt.Errorf("parse date %q: expected YYYY-MM-DD", raw)
	}

	// The day as written, in the timestamp's own offset.
	return Day(parsed.Format(dayLayout)), nil
}

// DayOf returns the UTC calendar day containing t.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(dayLayout))
}

func (d Day) Time() time.Time {
	parsed, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func (d Day) Before(other Day) bool {
	return d < other
}

// Short renders the day the way chart axes label it, e.g. "Jan 2".
func (d Day) Short() string {
	t := d.Time()
	if t.IsZero() {
		return string(d)
	}
	return t.Format("Jan 2")
}

func (d Day) String() string {
	return string(d)
}
