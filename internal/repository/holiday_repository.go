package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todo-planner/internal/model"
)

// HolidayRepository manages user-defined custom holidays.
type HolidayRepository struct {
	db *gorm.DB
}

func NewHolidayRepository(db *gorm.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

func (r *HolidayRepository) Create(ctx context.Context, h *model.CustomHoliday) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("create custom holiday: %w", err)
	}
	return nil
}

func (r *HolidayRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.CustomHoliday, error) {
	var holidays []model.CustomHoliday
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *HolidayRepository) Delete(ctx context.Context, ownerID, id uint) error {
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&model.CustomHoliday{}).Error; err != nil {
		return fmt.Errorf("delete custom holiday: %w", err)
	}
	return nil
}
