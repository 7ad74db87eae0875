package expiry

import (
	"testing"
	"time"
)

func TestDaysUntil(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"45 days out", today.AddDate(0, 0, 45), 45},
		{"same day", today, 0},
		{"tomorrow", today.AddDate(0, 0, 1), 1},
		{"already expired", today.AddDate(0, 0, -3), -3},
		{"partial day rounds up", today.Add(36 * time.Hour), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysUntil(tc.expiry, today); got != tc.want {
				t.Fatalf("DaysUntil(%v, %v) = %d, want %d", tc.expiry, today, got, tc.want)
			}
		})
	}
}

func TestDaysUntilMidDayToday(t *testing.T) {
	// The scheduler truncates "today" before evaluating; a resource expiring
	// in 7 calendar days must report 7 regardless of the tick's wall time.
	now := time.Date(2025, 6, 1, 8, 30, 12, 0, time.UTC)
	expiryDate := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	if got := DaysUntil(expiryDate, Midnight(now)); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestMatchesThreshold(t *testing.T) {
	for _, d := range Thresholds {
		if !MatchesThreshold(d, Thresholds) {
			t.Fatalf("threshold %d should match", d)
		}
	}
	for _, d := range []int{29, 15, 0, -1, 2, 31, 100} {
		if MatchesThreshold(d, Thresholds) {
			t.Fatalf("%d should not match", d)
		}
	}
}
