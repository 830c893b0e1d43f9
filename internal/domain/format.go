package domain

import "fmt"

// CompactNumber formats counters the way the stat cards show them.
func CompactNumber(v int64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
	}

	if v >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(v)/1_000)
	}

	return FormatInt(v)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
