package domain

import (
	"sort"
	"time"
)

// StudyStreak counts consecutive calendar days with at least one session,
// ending today or yesterday in loc. Stores that compute the
// update_study_streak procedure themselves share this rule.
func StudyStreak(sessionDates []time.Time, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	day := func(t time.Time) time.Time {
		y, m, d := t.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	seen := make(map[time.Time]struct{}, len(sessionDates))
	days := make([]time.Time, 0, len(sessionDates))
	for _, t := range sessionDates {
		d := day(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := day(now)
	if len(days) == 0 || today.Sub(days[0]) > 24*time.Hour {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			streak++
			continue
		}
		break
	}
	return streak
}
