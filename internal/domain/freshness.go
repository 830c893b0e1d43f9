package domain

import "time"

type Freshness string

const (
	FreshnessFresh Freshness = "fresh"
	FreshnessStale Freshness = "stale"
	FreshnessError Freshness = "error"
)

const (
	FreshWithin = time.Hour
	StaleWithin = 168 * time.Hour
)

// ClassifyFreshness reports how old a snapshot taken at lastUpdated is at now.
// A zero lastUpdated is always an error.
func ClassifyFreshness(lastUpdated, now time.Time) Freshness {
	if lastUpdated.IsZero() {
		return FreshnessError
	}

	elapsed := now.Sub(lastUpdated)
	switch {
	case elapsed < FreshWithin:
		return FreshnessFresh
	case elapsed < StaleWithin:
		return FreshnessStale
	default:
		return FreshnessError
	}
}

func (f Freshness) Label() string {
	switch f {
	case FreshnessFresh:
		return "Data is current"
	case FreshnessStale:
		return "Data is stale"
	default:
		return "Data unavailable"
	}
}
