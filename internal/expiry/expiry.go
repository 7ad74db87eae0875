// Package expiry evaluates how close a resource is to its expiry date and
// whether that day count should trigger a notification.
package expiry

import (
	"math"
	"time"
)

// Thresholds is the fixed set of day counts that trigger a notification.
// Matching is exact, so a resource produces at most one email per threshold
// per expiry cycle instead of one per day.
var Thresholds = []int{30, 14, 7, 3, 1}

// DaysUntil returns the whole days from today until the expiry date, rounding
// partial days up. Already-expired resources yield negative values; they are
// not clamped so overdue items stay representable.
func DaysUntil(expiryDate, today time.Time) int {
	return int(math.Ceil(expiryDate.Sub(today).Hours() / 24))
}

// MatchesThreshold reports whether days equals one of the thresholds.
func MatchesThreshold(days int, thresholds []int) bool {
	for _, t := range thresholds {
		if days == t {
			return true
		}
	}
	return false
}

// Midnight truncates t to the start of its UTC day. Expiry dates are stored at
// UTC midnight, so comparing against a truncated "today" keeps DaysUntil
// stable across the whole day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
