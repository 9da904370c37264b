// Package recency classifies listings by how long ago they were posted.
package recency

import "time"

const (
	msPerDay = int64(24 * time.Hour / time.Millisecond)

	// NewWithinDays is the largest day count that still earns the "New" badge.
	NewWithinDays = 3

	// BadgeNew is shown for listings posted within NewWithinDays.
	BadgeNew = "New"
)

// DaysSince returns whole days between postedDate and now. ok is false when
// postedDate is nil, in which case no recency badge should be shown.
func DaysSince(postedDate *time.Time) (days int, ok bool) {
	return DaysSinceAt(postedDate, time.Now())
}

// DaysSinceAt is DaysSince against an explicit clock reading.
// Future dates yield the absolute distance rather than a negative count.
func DaysSinceAt(postedDate *time.Time, now time.Time) (days int, ok bool) {
	if postedDate == nil {
		return 0, false
	}
	// time.Sub saturates past ~292 years; millisecond epochs do not.
	diff := now.UnixMilli() - postedDate.UnixMilli()
	if diff < 0 {
		diff = -diff
	}
	return int(diff / msPerDay), true
}

// Badge returns BadgeNew for listings no older than NewWithinDays, otherwise "".
func Badge(days int, ok bool) string {
	if ok && days <= NewWithinDays {
		return BadgeNew
	}
	return ""
}

// Classification bundles the day count and badge for a single listing.
type Classification struct {
	DaysSince *int   `json:"days_since"`
	Badge     string `json:"badge,omitempty"`
}

// Classify computes the day count and badge for postedDate at now.
func Classify(postedDate *time.Time, now time.Time) Classification {
	days, ok := DaysSinceAt(postedDate, now)
	if !ok {
		return Classification{}
	}
	return Classification{DaysSince: &days, Badge: Badge(days, ok)}
}
