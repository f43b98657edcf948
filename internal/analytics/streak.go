package analytics

import (
	"time"

	"github.com/interviewace/interviewace/internal/store"
)

// Streak returns the number of consecutive calendar days, in now's
// location, with at least one session. The run may end today or
// yesterday; an older last session means no streak.
func Streak(sessions []store.SessionRecord, now time.Time) int {
	days := make(map[time.Time]bool, len(sessions))
	for _, s := range sessions {
		days[dayOf(s.StartedAt, now.Location())] = true
	}

	day := dayOf(now, now.Location())
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}

	n := 0
	for days[day] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// NextStreakMilestone returns the next streak length worth celebrating.
func NextStreakMilestone(current int) int {
	for _, m := range []int{3, 7, 14, 30} {
		if m > current {
			return m
		}
	}
	// Beyond a month, every 30 days.
	return ((current / 30) + 1) * 30
}
