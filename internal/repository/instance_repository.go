package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todo-planner/internal/model"
)

// InstanceRepository handles persisted recurring instances.
type InstanceRepository struct {
	db *gorm.DB
}

func NewInstanceRepository(db *gorm.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

func (r *InstanceRepository) FindByID(ctx context.Context, id string) (*model.RecurringInstance, error) {
	var inst model.RecurringInstance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

// ListByTemplate returns the persisted instance set for one template,
// ordered by date.
func (r *InstanceRepository) ListByTemplate(ctx context.Context, templateID string) ([]model.RecurringInstance, error) {
	var instances []model.RecurringInstance
	if err := r.db.WithContext(ctx).Where("template_id = ?", templateID).
		Order("date ASC").
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *InstanceRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.RecurringInstance, error) {
	var instances []model.RecurringInstance
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("date ASC").
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// ListByOwnerOnDate returns an owner's instances for one calendar date.
func (r *InstanceRepository) ListByOwnerOnDate(ctx context.Context, ownerID uint, date time.Time) ([]model.RecurringInstance, error) {
	day := model.DateOnly(date)
	var instances []model.RecurringInstance
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND date >= ? AND date < ?", ownerID, day, day.AddDate(0, 0, 1)).
		Order("date ASC").
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// ApplyBatch commits one reconciliation outcome atomically: every upsert
// and delete succeeds or none do, so readers never observe a partially
// regenerated instance set.
func (r *InstanceRepository) ApplyBatch(ctx context.Context, upserts []model.RecurringInstance, deleteIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(deleteIDs) > 0 {
			if err := tx.Where("id IN ?", deleteIDs).Delete(&model.RecurringInstance{}).Error; err != nil {
				return err
			}
		}
		for i := range upserts {
			if err := tx.Save(&upserts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("apply instance batch: %w", err)
	}
	return nil
}

// DeleteByTemplate removes every instance of a template. Used when a
// template is deleted outright.
func (r *InstanceRepository) DeleteByTemplate(ctx context.Context, templateID string) error {
	if err := r.db.WithContext(ctx).Where("template_id = ?", templateID).
		Delete(&model.RecurringInstance{}).Error; err != nil {
		return fmt.Errorf("delete instances for template %s: %w", templateID, err)
	}
	return nil
}

// SetCompletion flips an instance's completion state. completedAt is stored
// when completing and cleared when un-completing.
func (r *InstanceRepository) SetCompletion(ctx context.Context, id string, completed bool, completedAt time.Time) error {
	updates := map[string]interface{}{
		"completed":    completed,
		"updated_at":   time.Now(),
		"completed_at": nil,
	}
	if completed {
		updates["completed_at"] = completedAt
	}
	if err := r.db.WithContext(ctx).Model(&model.RecurringInstance{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("set completion for %s: %w", id, err)
	}
	return nil
}
