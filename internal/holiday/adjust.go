package holiday

import (
	"time"

	"todo-planner/internal/model"
)

// maxAdjustSteps bounds the holiday walk. A template surrounded by more
// than two weeks of custom holidays keeps its original date instead of
// walking further; that degenerate output is defined behavior, not an error.
const maxAdjustSteps = 15

// Adjust moves a date off non-working days according to the template's
// policy. HolidayShow (and the zero value) returns the date unchanged: the
// template opted out of shifting.
func (c *Calendar) Adjust(date time.Time, policy model.HolidayPolicy, custom []model.CustomHoliday) time.Time {
	if policy != model.HolidayBefore && policy != model.HolidayAfter {
		return date
	}

	step := 1
	if policy == model.HolidayBefore {
		step = -1
	}

	adjusted := date
	for i := 0; i < maxAdjustSteps; i++ {
		if !c.IsNonWorkingDay(adjusted, custom) {
			return adjusted
		}
		adjusted = adjusted.AddDate(0, 0, step)
	}
	if !c.IsNonWorkingDay(adjusted, custom) {
		return adjusted
	}
	return date
}

// FirstWorkdayOfMonth scans forward from the 1st past weekends and builtin
// holidays. Custom holidays are deliberately not consulted: this backs the
// monthly-date sentinel, not the per-template adjustment path.
func FirstWorkdayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	day := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for IsWeekend(day) || builtinHoliday(model.DateKey(day), day.Year()) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// LastWorkdayOfMonth scans backward from the month's final day.
func LastWorkdayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	day := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	for IsWeekend(day) || builtinHoliday(model.DateKey(day), day.Year()) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
