package domain

import "time"

type Session struct {
	Authenticated bool
	CreatedAt     time.Time
}

// IsValid reports whether the session is authenticated and younger than ttl.
// A non-positive ttl never expires.
func (s Session) IsValid(now time.Time, ttl time.Duration) bool {
	if !s.Authenticated || s.CreatedAt.IsZero() {
		return false
	}

	if ttl <= 0 {
		return true
	}

	return now.Sub(s.CreatedAt) < ttl
}
