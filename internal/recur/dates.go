package recur

import (
	"time"

	"todo-planner/internal/model"
)

// LastWeek is the sentinel WeekOfMonth returns when the date sits in its
// month's final week. Exception rules store the same value.
const LastWeek = -1

// NthWeekdayOfMonth resolves rules like "fourth Tuesday of March". For
// WeekLast it scans backward from the month's final day. For the ordinal
// positions it counts occurrences forward from the 1st; when the month has
// no such occurrence it reports ok=false and the caller skips the month —
// the result never wraps into an adjacent month.
func NthWeekdayOfMonth(year int, month time.Month, pos model.WeekPosition, weekday time.Weekday, loc *time.Location) (time.Time, bool) {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)

	if pos == model.WeekLast {
		for day := last.Day(); day >= 1; day-- {
			d := time.Date(year, month, day, 0, 0, 0, 0, loc)
			if d.Weekday() == weekday {
				return d, true
			}
		}
		return time.Time{}, false
	}

	target, ok := ordinal(pos)
	if !ok {
		return time.Time{}, false
	}
	count := 0
	for day := 1; day <= last.Day(); day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, loc)
		if d.Weekday() == weekday {
			count++
			if count == target {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

func ordinal(pos model.WeekPosition) (int, bool) {
	switch pos {
	case model.WeekFirst:
		return 1, true
	case model.WeekSecond:
		return 2, true
	case model.WeekThird:
		return 3, true
	case model.WeekFourth:
		return 4, true
	default:
		return 0, false
	}
}

// WeekOfMonth returns the 1-based week index of a date, counting the week
// containing the 1st as week one. Dates in the month's final week return
// LastWeek instead of their ordinal index. This "last week" notion is
// independent of NthWeekdayOfMonth's: the final week usually overlaps the
// fourth or fifth ordinal week, and the two rules must not be conflated.
func WeekOfMonth(t time.Time) int {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	firstWeekday := int(first.Weekday())

	week := (day + firstWeekday + 6) / 7

	totalDays := time.Date(year, month+1, 0, 0, 0, 0, 0, t.Location()).Day()
	totalWeeks := (totalDays + firstWeekday + 6) / 7

	if week == totalWeeks {
		return LastWeek
	}
	return week
}

// isLastWeekdayOccurrence reports whether the date is the final occurrence
// of its weekday within its month (e.g. the last Thursday of September).
func isLastWeekdayOccurrence(t time.Time) bool {
	next := t.AddDate(0, 0, 7)
	return next.Month() != t.Month()
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// weekStart returns the Sunday beginning the calendar week of t.
func weekStart(t time.Time) time.Time {
	d := model.DateOnly(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
