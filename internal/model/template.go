package model

import "time"

// RecurrenceType selects which generation state machine applies to a template.
type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
)

// Priority mirrors the four levels the task views sort by.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// TaskKind distinguishes plain items from project items with sub-tasks.
type TaskKind string

const (
	KindSimple  TaskKind = "simple"
	KindProject TaskKind = "project"
)

// HolidayPolicy controls what happens when a generated date lands on a
// non-working day. The empty value behaves as HolidayShow: no shifting
// unless the template opted in.
type HolidayPolicy string

const (
	HolidayShow   HolidayPolicy = "show"
	HolidayBefore HolidayPolicy = "before"
	HolidayAfter  HolidayPolicy = "after"
)

// MonthlyPattern selects between a fixed day-of-month and an
// nth-weekday-of-month rule.
type MonthlyPattern string

const (
	MonthlyByDate    MonthlyPattern = "date"
	MonthlyByWeekday MonthlyPattern = "weekday"
)

// WeekPosition names the ordinal week used by MonthlyByWeekday rules.
type WeekPosition string

const (
	WeekFirst  WeekPosition = "first"
	WeekSecond WeekPosition = "second"
	WeekThird  WeekPosition = "third"
	WeekFourth WeekPosition = "fourth"
	WeekLast   WeekPosition = "last"
)

// Sentinel values for MonthlyDate.
const (
	MonthlyLastDay      = -1 // last calendar day of the month
	MonthlyFirstWorkday = -2
	MonthlyLastWorkday  = -3
)

// RecurringTemplate is the user-authored recurrence rule. Only the fields
// for the template's RecurrenceType are meaningful; the rest are ignored.
type RecurringTemplate struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     uint   `gorm:"index"`
	Title       string
	Description string
	Priority    Priority
	Kind        TaskKind
	Tags        []string `gorm:"serializer:json"`

	Recurrence RecurrenceType

	// Weekly: 0=Sunday .. 6=Saturday.
	Weekday *int

	// Monthly, by date: 1-31 or one of the Monthly* sentinels.
	MonthlyDate *int

	// Monthly, by weekday: pattern + ordinal week + weekday.
	MonthlyPattern MonthlyPattern
	MonthlyWeek    WeekPosition
	MonthlyWeekday *int

	HolidayPolicy HolidayPolicy
	Exceptions    []ExceptionRule `gorm:"serializer:json"`

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
