package model

import (
	"fmt"
	"time"
)

// RecurringInstanceOrder is the fixed sort sentinel recurring items carry so
// the views pin them ahead of ad hoc tasks.
const RecurringInstanceOrder = -1000

// RecurringInstance is one concrete, dated materialization of a template.
// Completion state is the only part a regeneration must preserve.
type RecurringInstance struct {
	ID          string `gorm:"primaryKey"`
	TemplateID  string `gorm:"index"`
	OwnerID     uint   `gorm:"index"`
	Date        time.Time
	Completed   bool
	CompletedAt *time.Time
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InstanceID derives the deterministic instance id for a template and date.
// Regeneration relies on this determinism: completion state is recovered by
// id lookup, never by fuzzy matching. Do not replace with random ids.
func InstanceID(templateID string, date time.Time) string {
	return fmt.Sprintf("%s_%s", templateID, DateKey(date))
}

// DateKey renders the local calendar date as YYYY-MM-DD. All date-level
// comparisons in the generator go through this representation so that
// time-of-day and UTC offsets can never introduce off-by-one days.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DateOnly truncates a time to its local calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two times fall on the same local calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
