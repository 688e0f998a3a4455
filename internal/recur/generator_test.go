package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-planner/internal/model"
)

// testNow is a Saturday; the generation window runs through 2026-11-15.
var testNow = time.Date(2025, time.November, 15, 10, 30, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func baseTemplate(id string, rec model.RecurrenceType) model.RecurringTemplate {
	return model.RecurringTemplate{
		ID:         id,
		OwnerID:    1,
		Title:      id,
		Priority:   model.PriorityMedium,
		Kind:       model.KindSimple,
		Recurrence: rec,
		IsActive:   true,
		CreatedAt:  time.Date(2025, time.November, 1, 9, 0, 0, 0, time.UTC),
	}
}

func dateKeys(instances []model.RecurringInstance) map[string]bool {
	keys := make(map[string]bool, len(instances))
	for _, inst := range instances {
		keys[model.DateKey(inst.Date)] = true
	}
	return keys
}

func TestGenerateDeterministic(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-daily", model.RecurDaily)

	first := g.Generate(tpl, nil, nil, testNow, ModeFull)
	second := g.Generate(tpl, nil, nil, testNow, ModeFull)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestGenerateNeverEmitsPastDates(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-daily", model.RecurDaily)
	tpl.CreatedAt = time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

	instances := g.Generate(tpl, nil, nil, testNow, ModeFull)

	require.NotEmpty(t, instances)
	today := model.DateOnly(testNow)
	assert.True(t, instances[0].Date.Equal(today), "first instance is today, got %s", instances[0].Date)
	for _, inst := range instances {
		assert.False(t, inst.Date.Before(today), "instance %s predates today", model.DateKey(inst.Date))
	}
}

func TestGenerateDailyWindow(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-daily", model.RecurDaily)

	instances := g.Generate(tpl, nil, nil, testNow, ModeFull)

	// Today through the one-year horizon, inclusive.
	assert.Len(t, instances, 366)
	for _, inst := range instances {
		assert.Equal(t, model.InstanceID(tpl.ID, inst.Date), inst.ID)
		assert.Equal(t, model.RecurringInstanceOrder, inst.Order)
		assert.False(t, inst.Completed)
	}
}

func TestGenerateInactiveTemplate(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-daily", model.RecurDaily)
	tpl.IsActive = false

	assert.Empty(t, g.Generate(tpl, nil, nil, testNow, ModeFull))
}

func TestGenerateMalformedTemplate(t *testing.T) {
	g := NewGenerator(nil)

	weekly := baseTemplate("tpl-weekly", model.RecurWeekly)
	// Weekday missing.
	assert.Empty(t, g.Generate(weekly, nil, nil, testNow, ModeFull))

	weekly.Weekday = intPtr(9)
	assert.Empty(t, g.Generate(weekly, nil, nil, testNow, ModeFull))

	unknown := baseTemplate("tpl-unknown", model.RecurrenceType("yearly"))
	assert.Empty(t, g.Generate(unknown, nil, nil, testNow, ModeFull))

	monthly := baseTemplate("tpl-monthly", model.RecurMonthly)
	monthly.MonthlyDate = intPtr(0)
	assert.Empty(t, g.Generate(monthly, nil, nil, testNow, ModeFull))

	pattern := baseTemplate("tpl-pattern", model.RecurMonthly)
	pattern.MonthlyPattern = model.MonthlyByWeekday
	pattern.MonthlyWeek = model.WeekPosition("fifth")
	pattern.MonthlyWeekday = intPtr(int(time.Monday))
	assert.Empty(t, g.Generate(pattern, nil, nil, testNow, ModeFull))
}

func TestGenerateWeeklyHolidayShift(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-standup", model.RecurWeekly)
	tpl.Weekday = intPtr(int(time.Monday))
	tpl.HolidayPolicy = model.HolidayBefore

	custom := []model.CustomHoliday{
		{ID: 1, OwnerID: 1, Date: "2025-12-22", Name: "Team offsite"},
	}

	keys := dateKeys(g.Generate(tpl, nil, custom, testNow, ModeFull))

	// 2025-12-22 is a Monday; before-policy walks back over the weekend to
	// Friday the 19th. Surrounding Mondays stay put.
	assert.True(t, keys["2025-12-19"], "shifted instance missing")
	assert.False(t, keys["2025-12-22"], "holiday date must not be emitted")
	assert.True(t, keys["2025-12-15"])
	assert.True(t, keys["2025-12-29"])
	assert.True(t, keys["2025-11-17"], "first monday inside the window")
}

func TestGenerateWeeklyRecurringCustomHoliday(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-review", model.RecurWeekly)
	tpl.Weekday = intPtr(int(time.Wednesday))
	tpl.HolidayPolicy = model.HolidayBefore

	// A recurring custom holiday matches by month and day across years.
	custom := []model.CustomHoliday{
		{ID: 1, OwnerID: 1, Date: "2024-12-24", Name: "Family day", IsRecurring: true},
	}

	keys := dateKeys(g.Generate(tpl, nil, custom, testNow, ModeFull))

	assert.False(t, keys["2025-12-24"])
	assert.True(t, keys["2025-12-23"], "expected shift to tuesday before")
	assert.True(t, keys["2025-12-17"])
}

func TestGenerateMonthlyLastDay(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-report", model.RecurMonthly)
	tpl.MonthlyDate = intPtr(model.MonthlyLastDay)
	tpl.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	instances := g.Generate(tpl, nil, nil, testNow, ModeFull)
	keys := dateKeys(instances)

	assert.Len(t, instances, 12)
	assert.True(t, keys["2025-11-30"])
	assert.True(t, keys["2025-12-31"])
	// Non-leap February resolves to the 28th instead of skipping.
	assert.True(t, keys["2026-02-28"])
	assert.True(t, keys["2026-10-31"])

	// A window covering a leap February resolves to the 29th.
	leapNow := time.Date(2027, time.November, 15, 0, 0, 0, 0, time.UTC)
	keys = dateKeys(g.Generate(tpl, nil, nil, leapNow, ModeFull))
	assert.True(t, keys["2028-02-29"])
}

func TestGenerateMonthlyShortMonthsSkipped(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-pay", model.RecurMonthly)
	tpl.MonthlyDate = intPtr(31)
	tpl.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	instances := g.Generate(tpl, nil, nil, testNow, ModeFull)
	keys := dateKeys(instances)

	// Only the seven 31-day months in the window qualify; a 31st is never
	// clamped into a shorter month.
	assert.Len(t, instances, 7)
	assert.True(t, keys["2025-12-31"])
	assert.True(t, keys["2026-01-31"])
	assert.False(t, keys["2025-11-30"])
	assert.False(t, keys["2026-02-28"])
}

func TestGenerateMonthlyWorkdaySentinels(t *testing.T) {
	g := NewGenerator(nil)

	first := baseTemplate("tpl-first", model.RecurMonthly)
	first.MonthlyDate = intPtr(model.MonthlyFirstWorkday)
	first.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	keys := dateKeys(g.Generate(first, nil, nil, testNow, ModeFull))
	assert.True(t, keys["2025-12-01"], "december starts on a monday")
	assert.True(t, keys["2026-01-02"], "january 1st is a public holiday")

	last := baseTemplate("tpl-last", model.RecurMonthly)
	last.MonthlyDate = intPtr(model.MonthlyLastWorkday)
	last.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	keys = dateKeys(g.Generate(last, nil, nil, testNow, ModeFull))
	assert.True(t, keys["2025-12-31"])
	assert.True(t, keys["2026-05-29"], "may 31st 2026 is a sunday")
}

func TestGenerateMonthlyByWeekday(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-retro", model.RecurMonthly)
	tpl.MonthlyPattern = model.MonthlyByWeekday
	tpl.MonthlyWeek = model.WeekSecond
	tpl.MonthlyWeekday = intPtr(int(time.Tuesday))
	tpl.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	instances := g.Generate(tpl, nil, nil, testNow, ModeFull)
	keys := dateKeys(instances)

	// November's second Tuesday already passed, leaving eleven months.
	assert.Len(t, instances, 11)
	assert.True(t, keys["2025-12-09"])
	assert.True(t, keys["2026-01-13"])
	for _, inst := range instances {
		assert.Equal(t, time.Tuesday, inst.Date.Weekday())
	}
}

func TestGenerateMonthlyCreatedAtFloor(t *testing.T) {
	g := NewGenerator(nil)
	tpl := baseTemplate("tpl-bill", model.RecurMonthly)
	tpl.MonthlyDate = intPtr(5)
	tpl.CreatedAt = time.Date(2025, time.December, 10, 14, 0, 0, 0, time.UTC)

	keys := dateKeys(g.Generate(tpl, nil, nil, testNow, ModeFull))

	// December 5th predates the template's creation and must not appear.
	assert.False(t, keys["2025-12-05"])
	assert.True(t, keys["2026-01-05"])
}

func TestGenerateMonthlyHolidayPolicy(t *testing.T) {
	g := NewGenerator(nil)

	show := baseTemplate("tpl-show", model.RecurMonthly)
	show.MonthlyDate = intPtr(25)
	show.HolidayPolicy = model.HolidayShow
	show.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	keys := dateKeys(g.Generate(show, nil, nil, testNow, ModeFull))
	assert.True(t, keys["2025-12-25"], "show policy keeps the holiday date")

	after := baseTemplate("tpl-after", model.RecurMonthly)
	after.MonthlyDate = intPtr(25)
	after.HolidayPolicy = model.HolidayAfter
	after.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	keys = dateKeys(g.Generate(after, nil, nil, testNow, ModeFull))
	assert.False(t, keys["2025-12-25"])
	assert.True(t, keys["2025-12-26"], "christmas shifts to the friday after")

	// The last-calendar-day sentinel is date-fixed: no shifting even when it
	// lands on a weekend.
	lastDay := baseTemplate("tpl-lastday", model.RecurMonthly)
	lastDay.MonthlyDate = intPtr(model.MonthlyLastDay)
	lastDay.HolidayPolicy = model.HolidayAfter
	lastDay.CreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	keys = dateKeys(g.Generate(lastDay, nil, nil, testNow, ModeFull))
	assert.True(t, keys["2026-05-31"], "sunday may 31st stays put")
}

func TestGenerateSkipsBackwardShiftAcrossToday(t *testing.T) {
	g := NewGenerator(nil)
	// Today is a Monday that is itself a day off: the before-policy would
	// move it to the previous Friday, which lies in the past and must be
	// dropped rather than emitted.
	holidayToday := time.Date(2025, time.December, 22, 8, 0, 0, 0, time.UTC)
	today := model.DateOnly(holidayToday)
	custom := []model.CustomHoliday{
		{ID: 1, OwnerID: 1, Date: "2025-12-22", Name: "Team offsite"},
	}

	weekly := baseTemplate("tpl-standup", model.RecurWeekly)
	weekly.Weekday = intPtr(int(time.Monday))
	weekly.HolidayPolicy = model.HolidayBefore

	instances := g.Generate(weekly, nil, custom, holidayToday, ModeFull)
	require.NotEmpty(t, instances)
	keys := dateKeys(instances)
	assert.False(t, keys["2025-12-19"])
	assert.False(t, keys["2025-12-22"])
	assert.True(t, keys["2025-12-29"])
	for _, inst := range instances {
		assert.False(t, inst.Date.Before(today), "instance %s predates today", model.DateKey(inst.Date))
	}

	daily := baseTemplate("tpl-journal", model.RecurDaily)
	daily.HolidayPolicy = model.HolidayBefore

	instances = g.Generate(daily, nil, custom, holidayToday, ModeFull)
	require.NotEmpty(t, instances)
	keys = dateKeys(instances)
	assert.False(t, keys["2025-12-19"])
	assert.True(t, keys["2025-12-23"])
	for _, inst := range instances {
		assert.False(t, inst.Date.Before(today))
	}

	monthly := baseTemplate("tpl-invoice", model.RecurMonthly)
	monthly.MonthlyDate = intPtr(22)
	monthly.HolidayPolicy = model.HolidayBefore

	instances = g.Generate(monthly, nil, custom, holidayToday, ModeFull)
	require.NotEmpty(t, instances)
	keys = dateKeys(instances)
	assert.False(t, keys["2025-12-19"])
	assert.True(t, keys["2026-01-22"])
	for _, inst := range instances {
		assert.False(t, inst.Date.Before(today))
	}
}

func TestDedupeKeepsLatestCreated(t *testing.T) {
	older := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC)
	day := date(2025, time.December, 1)

	instances := []model.RecurringInstance{
		{ID: "a", TemplateID: "tpl", Date: day, CreatedAt: older},
		{ID: "b", TemplateID: "tpl", Date: day, CreatedAt: newer},
		{ID: "c", TemplateID: "tpl", Date: date(2025, time.December, 2), CreatedAt: older},
	}

	out := dedupe(instances)
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}
