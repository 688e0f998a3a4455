package holiday

import (
	"sync"
	"time"

	"todo-planner/internal/model"
)

// Info describes one public holiday as delivered by the remote lookup or
// the bundled table.
type Info struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Name      string `json:"name"`
	IsHoliday bool   `json:"isHoliday"`
}

// builtin is the authoritative offline table of national holidays. Remote
// lookups may supplement it, but this table is the contract of record and
// the fallback whenever a fetch fails.
var builtin = map[int][]Info{
	2024: {
		{Date: "2024-01-01", Name: "New Year's Day", IsHoliday: true},
		{Date: "2024-02-09", Name: "Seollal holiday", IsHoliday: true},
		{Date: "2024-02-10", Name: "Seollal", IsHoliday: true},
		{Date: "2024-02-11", Name: "Seollal holiday", IsHoliday: true},
		{Date: "2024-02-12", Name: "Substitute holiday", IsHoliday: true},
		{Date: "2024-03-01", Name: "Independence Movement Day", IsHoliday: true},
		{Date: "2024-04-10", Name: "National Assembly election", IsHoliday: true},
		{Date: "2024-05-05", Name: "Children's Day", IsHoliday: true},
		{Date: "2024-05-06", Name: "Substitute holiday", IsHoliday: true},
		{Date: "2024-05-15", Name: "Buddha's Birthday", IsHoliday: true},
		{Date: "2024-06-06", Name: "Memorial Day", IsHoliday: true},
		{Date: "2024-08-15", Name: "Liberation Day", IsHoliday: true},
		{Date: "2024-09-16", Name: "Chuseok holiday", IsHoliday: true},
		{Date: "2024-09-17", Name: "Chuseok", IsHoliday: true},
		{Date: "2024-09-18", Name: "Chuseok holiday", IsHoliday: true},
		{Date: "2024-10-03", Name: "National Foundation Day", IsHoliday: true},
		{Date: "2024-10-09", Name: "Hangul Day", IsHoliday: true},
		{Date: "2024-12-25", Name: "Christmas Day", IsHoliday: true},
	},
	2025: {
		{Date: "2025-01-01", Name: "New Year's Day", IsHoliday: true},
		{Date: "2025-01-28", Name: "Seollal holiday", IsHoliday: true},
		{Date: "2025-01-29", Name: "Seollal", IsHoliday: true},
		{Date: "2025-01-30", Name: "Seollal holiday", IsHoliday: true},
		{Date: "2025-03-01", Name: "Independence Movement Day", IsHoliday: true},
		{Date: "2025-05-05", Name: "Children's Day", IsHoliday: true},
		{Date: "2025-05-13", Name: "Buddha's Birthday", IsHoliday: true},
		{Date: "2025-06-06", Name: "Memorial Day", IsHoliday: true},
		{Date: "2025-08-15", Name: "Liberation Day", IsHoliday: true},
		{Date: "2025-10-03", Name: "National Foundation Day", IsHoliday: true},
		{Date: "2025-10-05", Name: "Chuseok holiday", IsHoliday: true},
		{Date: "2025-10-06", Name: "Chuseok", IsHoliday: true},
		{Date: "2025-10-07", Name: "Chuseok holiday", IsHoliday: true},
		{Date: "2025-10-08", Name: "Substitute holiday", IsHoliday: true},
		{Date: "2025-10-09", Name: "Hangul Day", IsHoliday: true},
		{Date: "2025-12-25", Name: "Christmas Day", IsHoliday: true},
	},
	2026: {
		{Date: "2026-01-01", Name: "New Year's Day", IsHoliday: true},
		{Date: "2026-02-16", Name: "Seollal holiday", IsHoliday: true},
		{Date: "2026-02-17", Name: "Seollal", IsHoliday: true},
		{Date: "2026-02-18", Name: "Seollal holiday", IsHoliday: true},
		{Date: "2026-03-01", Name: "Independence Movement Day", IsHoliday: true},
		{Date: "2026-05-02", Name: "Buddha's Birthday", IsHoliday: true},
		{Date: "2026-05-05", Name: "Children's Day", IsHoliday: true},
		{Date: "2026-06-06", Name: "Memorial Day", IsHoliday: true},
		{Date: "2026-08-15", Name: "Liberation Day", IsHoliday: true},
		{Date: "2026-09-24", Name: "Chuseok holiday", IsHoliday: true},
		{Date: "2026-09-25", Name: "Chuseok", IsHoliday: true},
		{Date: "2026-09-26", Name: "Chuseok holiday", IsHoliday: true},
		{Date: "2026-10-03", Name: "National Foundation Day", IsHoliday: true},
		{Date: "2026-10-09", Name: "Hangul Day", IsHoliday: true},
		{Date: "2026-12-25", Name: "Christmas Day", IsHoliday: true},
	},
}

// BuiltinYear returns the bundled holiday table for a year. Years outside
// the table yield an empty slice: weekends still count as non-working days.
func BuiltinYear(year int) []Info {
	infos := builtin[year]
	out := make([]Info, len(infos))
	copy(out, infos)
	return out
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Calendar answers non-working-day questions. It always consults the
// builtin table; remote lookups can supplement it via Supplement. A zero
// Calendar is not usable, construct with NewCalendar.
type Calendar struct {
	mu    sync.RWMutex
	extra map[string]string // date key -> holiday name
}

func NewCalendar() *Calendar {
	return &Calendar{extra: make(map[string]string)}
}

// Supplement merges remotely fetched holidays into the calendar. Entries
// with malformed dates or isHoliday=false are dropped.
func (c *Calendar) Supplement(infos []Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, info := range infos {
		if !info.IsHoliday {
			continue
		}
		if _, err := time.Parse("2006-01-02", info.Date); err != nil {
			continue
		}
		c.extra[info.Date] = info.Name
	}
}

// IsHoliday reports whether the date is a public holiday or matches one of
// the caller's custom holidays. Comparison is by local calendar date only.
func (c *Calendar) IsHoliday(t time.Time, custom []model.CustomHoliday) bool {
	key := model.DateKey(t)

	if builtinHoliday(key, t.Year()) {
		return true
	}

	c.mu.RLock()
	_, supplemented := c.extra[key]
	c.mu.RUnlock()
	if supplemented {
		return true
	}

	monthDay := key[5:] // MM-DD
	for _, h := range custom {
		parsed, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			// Malformed stored dates must never match anything.
			continue
		}
		if h.IsRecurring {
			if parsed.Format("01-02") == monthDay {
				return true
			}
			continue
		}
		if h.Date == key {
			return true
		}
	}
	return false
}

// IsNonWorkingDay reports whether the date is a weekend or any holiday.
func (c *Calendar) IsNonWorkingDay(t time.Time, custom []model.CustomHoliday) bool {
	return IsWeekend(t) || c.IsHoliday(t, custom)
}

func builtinHoliday(key string, year int) bool {
	for _, info := range builtin[year] {
		if info.Date == key {
			return true
		}
	}
	return false
}
