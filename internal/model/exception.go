package model

// ExceptionType tags an ExceptionRule. Each type reads a different payload:
// the numeric types use Values, ExceptionConflict uses Conflicts.
type ExceptionType string

const (
	ExceptionDate     ExceptionType = "date"    // day-of-month values 1-31
	ExceptionWeekday  ExceptionType = "weekday" // 0=Sunday .. 6=Saturday
	ExceptionWeek     ExceptionType = "week"    // week-of-month 1-4, -1 = last
	ExceptionMonth    ExceptionType = "month"   // 1-12
	ExceptionConflict ExceptionType = "conflict"
)

// ConflictScope defines how close another template's instance has to be for
// a conflict rule to suppress a date.
type ConflictScope string

const (
	ScopeSameDate  ConflictScope = "same_date"
	ScopeSameWeek  ConflictScope = "same_week" // Sunday-anchored week
	ScopeSameMonth ConflictScope = "same_month"
)

// ConflictRule suppresses a date when the named sibling template has an
// instance within scope. Lookup is by title, not id: if the owner has
// several templates with the same title, any of them can trigger the
// suppression.
type ConflictRule struct {
	TargetTitle string        `json:"targetTitle"`
	Scope       ConflictScope `json:"scope"`
}

// ExceptionRule is one user-declared suppression condition. A date is
// excepted when any rule on the template matches.
type ExceptionRule struct {
	Type      ExceptionType  `json:"type"`
	Values    []int          `json:"values,omitempty"`
	Conflicts []ConflictRule `json:"conflicts,omitempty"`
}
