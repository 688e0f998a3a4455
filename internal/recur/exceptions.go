package recur

import (
	"time"

	"todo-planner/internal/model"
)

// isExcepted reports whether a date is suppressed by the template's
// exception rules. Rules combine with OR semantics and the first match
// short-circuits. Conflict rules are only evaluated in ModeFull: a nested
// conflict probe never triggers further conflict probes, so two templates
// declaring conflicts against each other terminate after one level.
func (g *Generator) isExcepted(date time.Time, tpl model.RecurringTemplate, siblings []model.RecurringTemplate, custom []model.CustomHoliday, now time.Time, mode Mode) bool {
	for _, rule := range tpl.Exceptions {
		switch rule.Type {
		case model.ExceptionDate:
			if containsInt(rule.Values, date.Day()) {
				return true
			}
		case model.ExceptionWeekday:
			if containsInt(rule.Values, int(date.Weekday())) {
				return true
			}
		case model.ExceptionWeek:
			if containsInt(rule.Values, LastWeek) && isLastWeekdayOccurrence(date) {
				return true
			}
			if containsInt(rule.Values, WeekOfMonth(date)) {
				return true
			}
		case model.ExceptionMonth:
			if containsInt(rule.Values, int(date.Month())) {
				return true
			}
		case model.ExceptionConflict:
			if mode == ModeConflictProbe {
				continue
			}
			if g.hasConflict(date, tpl, rule.Conflicts, siblings, custom, now) {
				return true
			}
		}
	}
	return false
}

// hasConflict checks whether any sibling template named by a conflict rule
// generates an instance close enough to date. Siblings are matched by
// title; a title that matches no template means no conflict. The probe uses
// ModeConflictProbe so sibling conflict rules stay inert.
func (g *Generator) hasConflict(date time.Time, tpl model.RecurringTemplate, rules []model.ConflictRule, siblings []model.RecurringTemplate, custom []model.CustomHoliday, now time.Time) bool {
	for _, rule := range rules {
		for _, sib := range siblings {
			if sib.ID == tpl.ID || !sib.IsActive || sib.Title != rule.TargetTitle {
				continue
			}
			for _, inst := range g.Generate(sib, siblings, custom, now, ModeConflictProbe) {
				if datesConflict(date, inst.Date, rule.Scope) {
					return true
				}
			}
		}
	}
	return false
}

func datesConflict(a, b time.Time, scope model.ConflictScope) bool {
	switch scope {
	case model.ScopeSameDate:
		return model.SameDate(a, b)
	case model.ScopeSameWeek:
		return weekStart(a).Equal(weekStart(b))
	case model.ScopeSameMonth:
		return a.Year() == b.Year() && a.Month() == b.Month()
	default:
		return false
	}
}

func containsInt(values []int, v int) bool {
	for _, n := range values {
		if n == v {
			return true
		}
	}
	return false
}
