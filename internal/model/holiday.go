package model

import "time"

// CustomHoliday is a user-defined non-working day. When IsRecurring is set
// the stored year is ignored and the same month-day matches every year.
type CustomHoliday struct {
	ID          uint   `gorm:"primaryKey"`
	OwnerID     uint   `gorm:"index"`
	Date        string // YYYY-MM-DD
	Name        string
	IsRecurring bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
