package analytics

import (
	"testing"
	"time"
)

func TestStreakDays(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	cases := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"today and two back", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"nothing today, started yesterday", []time.Time{day(-1), day(-2)}, 2},
		{"stale three days old", []time.Time{day(-3)}, 0},
		{"gap breaks the streak", []time.Time{day(0), day(-2), day(-3)}, 1},
		{"multiple attempts same day count once", []time.Time{day(0), day(0).Add(2 * time.Hour), day(-1)}, 2},
		{"no attempts", nil, 0},
	}
	for _, tc := range cases {
		if got := StreakDays(tc.dates, now); got != tc.want {
			t.Fatalf("%s: streak = %d, want %d", tc.name, got, tc.want)
		}
	}
}
