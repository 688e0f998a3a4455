package recur

import (
	"fmt"
	"log"
	"sort"
	"time"

	"todo-planner/internal/holiday"
	"todo-planner/internal/model"
)

// Mode selects between a full generation pass and the nested pass used to
// answer conflict-exception probes. The probe mode never evaluates conflict
// rules itself, which is what keeps mutual conflict declarations finite.
type Mode int

const (
	ModeFull Mode = iota
	ModeConflictProbe
)

// Generator enumerates the concrete dates a recurrence template materializes
// on. It is pure computation: every call receives the sibling-template
// snapshot and custom-holiday list it needs, and two calls with the same
// inputs produce identical output.
type Generator struct {
	cal *holiday.Calendar
}

func NewGenerator(cal *holiday.Calendar) *Generator {
	if cal == nil {
		cal = holiday.NewCalendar()
	}
	return &Generator{cal: cal}
}

// Calendar exposes the holiday calendar the generator adjusts against.
func (g *Generator) Calendar() *holiday.Calendar {
	return g.cal
}

// Generate produces the instance set for one template over a one-year
// horizon starting at now. Inactive and malformed templates yield an empty
// list so one broken template cannot block generation for others. Dates
// before today are never emitted.
func (g *Generator) Generate(tpl model.RecurringTemplate, siblings []model.RecurringTemplate, custom []model.CustomHoliday, now time.Time, mode Mode) []model.RecurringInstance {
	if !tpl.IsActive {
		return nil
	}
	if err := validateTemplate(tpl); err != nil {
		if mode == ModeFull {
			log.Printf("[warn] skipping template %s (%q): %v", tpl.ID, tpl.Title, err)
		}
		return nil
	}

	today := model.DateOnly(now)
	horizon := today.AddDate(1, 0, 0)

	var raw []model.RecurringInstance
	switch tpl.Recurrence {
	case model.RecurDaily:
		raw = g.generateDaily(tpl, siblings, custom, now, today, horizon, mode)
	case model.RecurWeekly:
		raw = g.generateWeekly(tpl, siblings, custom, now, today, horizon, mode)
	case model.RecurMonthly:
		raw = g.generateMonthly(tpl, siblings, custom, now, today, mode)
	default:
		return nil
	}

	return dedupe(raw)
}

// generateDaily walks one day at a time from the template's creation date.
func (g *Generator) generateDaily(tpl model.RecurringTemplate, siblings []model.RecurringTemplate, custom []model.CustomHoliday, now, today, horizon time.Time, mode Mode) []model.RecurringInstance {
	var out []model.RecurringInstance
	for d := model.DateOnly(tpl.CreatedAt); !d.After(horizon); d = d.AddDate(0, 0, 1) {
		if d.Before(today) {
			continue
		}
		if g.isExcepted(d, tpl, siblings, custom, now, mode) {
			continue
		}
		final := g.cal.Adjust(d, tpl.HolidayPolicy, custom)
		if final.Before(today) {
			// A before-policy shift off today can land in the past.
			continue
		}
		out = append(out, newInstance(tpl, final, now))
	}
	return out
}

// generateWeekly anchors the first occurrence at the template's creation
// date and steps by exactly seven days. Exceptions are evaluated on the
// pre-adjustment date: templates except calendar slots, not the working
// days those slots shift onto.
func (g *Generator) generateWeekly(tpl model.RecurringTemplate, siblings []model.RecurringTemplate, custom []model.CustomHoliday, now, today, horizon time.Time, mode Mode) []model.RecurringInstance {
	start := model.DateOnly(tpl.CreatedAt)
	offset := (*tpl.Weekday - int(start.Weekday()) + 7) % 7
	first := start.AddDate(0, 0, offset)

	var out []model.RecurringInstance
	for d := first; !d.After(horizon); d = d.AddDate(0, 0, 7) {
		if d.Before(today) {
			continue
		}
		if g.isExcepted(d, tpl, siblings, custom, now, mode) {
			continue
		}
		final := g.cal.Adjust(d, tpl.HolidayPolicy, custom)
		if final.Before(today) {
			continue
		}
		out = append(out, newInstance(tpl, final, now))
	}
	return out
}

// generateMonthly resolves exactly one candidate per month for twelve
// months starting at the current month. Holiday adjustment applies only to
// the plain day-of-month case: the weekday-pattern and workday sentinels
// are already working-day-safe, and the last-calendar-day sentinel is
// intentionally date-fixed. Exceptions are evaluated on the final date.
func (g *Generator) generateMonthly(tpl model.RecurringTemplate, siblings []model.RecurringTemplate, custom []model.CustomHoliday, now, today time.Time, mode Mode) []model.RecurringInstance {
	floor := model.DateOnly(tpl.CreatedAt)
	seen := make(map[string]bool)

	var out []model.RecurringInstance
	cursor := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	for i := 0; i < 12; i++ {
		year, month := cursor.Year(), cursor.Month()
		cursor = cursor.AddDate(0, 1, 0)

		candidate, plainDay, ok := resolveMonthly(tpl, year, month, today.Location())
		if !ok {
			continue
		}
		if candidate.Before(today) || candidate.Before(floor) {
			continue
		}

		final := candidate
		if plainDay {
			final = g.cal.Adjust(candidate, tpl.HolidayPolicy, custom)
			if final.Before(today) {
				continue
			}
		}
		if g.isExcepted(final, tpl, siblings, custom, now, mode) {
			continue
		}

		key := model.DateKey(final)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, newInstance(tpl, final, now))
	}
	return out
}

// resolveMonthly picks the single candidate date for a month, or reports
// ok=false when the month must be skipped (short month, missing fifth
// occurrence). plainDay marks candidates eligible for holiday adjustment.
func resolveMonthly(tpl model.RecurringTemplate, year int, month time.Month, loc *time.Location) (candidate time.Time, plainDay, ok bool) {
	if tpl.MonthlyPattern == model.MonthlyByWeekday {
		d, found := NthWeekdayOfMonth(year, month, tpl.MonthlyWeek, time.Weekday(*tpl.MonthlyWeekday), loc)
		return d, false, found
	}

	if tpl.MonthlyDate != nil {
		switch day := *tpl.MonthlyDate; {
		case day == model.MonthlyLastDay:
			return time.Date(year, month+1, 0, 0, 0, 0, 0, loc), false, true
		case day == model.MonthlyFirstWorkday:
			return holiday.FirstWorkdayOfMonth(year, month, loc), false, true
		case day == model.MonthlyLastWorkday:
			return holiday.LastWorkdayOfMonth(year, month, loc), false, true
		case day > daysInMonth(year, month):
			// Never clamp a 31st into a 30-day month.
			return time.Time{}, false, false
		default:
			return time.Date(year, month, day, 0, 0, 0, 0, loc), true, true
		}
	}

	return time.Date(year, month, 1, 0, 0, 0, 0, loc), true, true
}

func newInstance(tpl model.RecurringTemplate, date, now time.Time) model.RecurringInstance {
	return model.RecurringInstance{
		ID:         model.InstanceID(tpl.ID, date),
		TemplateID: tpl.ID,
		OwnerID:    tpl.OwnerID,
		Date:       model.DateOnly(date),
		Completed:  false,
		Order:      model.RecurringInstanceOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// dedupe collapses instances that landed on the same calendar date (holiday
// shifting can fold two candidates together). Where duplicates exist the
// one with the latest CreatedAt wins; on a tie the first emitted stays, so
// a single pass is stable.
func dedupe(instances []model.RecurringInstance) []model.RecurringInstance {
	byDate := make(map[string]model.RecurringInstance)
	for _, inst := range instances {
		key := inst.TemplateID + "_" + model.DateKey(inst.Date)
		if kept, exists := byDate[key]; !exists || inst.CreatedAt.After(kept.CreatedAt) {
			byDate[key] = inst
		}
	}

	out := make([]model.RecurringInstance, 0, len(byDate))
	for _, inst := range byDate {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// validateTemplate checks the cross-field invariants per recurrence kind.
// Fields belonging to other kinds are ignored rather than rejected.
func validateTemplate(tpl model.RecurringTemplate) error {
	switch tpl.Recurrence {
	case model.RecurDaily:
		return nil
	case model.RecurWeekly:
		if tpl.Weekday == nil {
			return fmt.Errorf("weekly template without weekday")
		}
		if *tpl.Weekday < 0 || *tpl.Weekday > 6 {
			return fmt.Errorf("weekday %d out of range", *tpl.Weekday)
		}
		return nil
	case model.RecurMonthly:
		if tpl.MonthlyPattern == model.MonthlyByWeekday {
			if _, ok := ordinal(tpl.MonthlyWeek); !ok && tpl.MonthlyWeek != model.WeekLast {
				return fmt.Errorf("invalid monthly week %q", tpl.MonthlyWeek)
			}
			if tpl.MonthlyWeekday == nil {
				return fmt.Errorf("monthly weekday pattern without weekday")
			}
			if *tpl.MonthlyWeekday < 0 || *tpl.MonthlyWeekday > 6 {
				return fmt.Errorf("monthly weekday %d out of range", *tpl.MonthlyWeekday)
			}
			return nil
		}
		if tpl.MonthlyDate != nil {
			day := *tpl.MonthlyDate
			if day < model.MonthlyLastWorkday || day == 0 || day > 31 {
				return fmt.Errorf("monthly date %d out of range", day)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence type %q", tpl.Recurrence)
	}
}
