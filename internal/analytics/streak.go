package analytics

import (
	"time"
)

// StreakDays counts consecutive calendar days with at least one attempt,
// walking backward from today. The streak may start on yesterday when
// nothing happened today yet; after that the walk is strictly day by day
// and stops at the first gap.
func StreakDays(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	days := map[time.Time]bool{}
	for _, d := range dates {
		days[truncateDay(d)] = true
	}

	cursor := truncateDay(now)
	if !days[cursor] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for days[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}
