package model

import "time"

// Task is the generic to-do record the views consume. Recurring instances
// are projected into this shape; the marker fields let list-level code
// recognize them without re-deriving provenance from the id.
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	CompletedAt *time.Time
	Priority    Priority
	Kind        TaskKind
	Tags        []string
	StartDate   time.Time
	DueDate     *time.Time
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	IsRecurringInstance bool
	InstanceID          string
	TemplateID          string
}
