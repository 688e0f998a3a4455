package repository

import (
	"context"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"todo-planner/internal/model"
)

// TemplateRepository handles CRUD for recurrence templates and re-delivers
// the full per-owner list to subscribers after every mutation, mirroring
// the live-subscription contract of the document store it stands in for.
type TemplateRepository struct {
	db *gorm.DB

	mu          sync.Mutex
	nextSubID   int
	subscribers map[uint]map[int]func([]model.RecurringTemplate)
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{
		db:          db,
		subscribers: make(map[uint]map[int]func([]model.RecurringTemplate)),
	}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.RecurringTemplate) error {
	if err := r.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	r.notify(ctx, tpl.OwnerID)
	return nil
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *model.RecurringTemplate) error {
	if err := r.db.WithContext(ctx).Save(tpl).Error; err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	r.notify(ctx, tpl.OwnerID)
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, ownerID uint, id string) error {
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&model.RecurringTemplate{}).Error; err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	r.notify(ctx, ownerID)
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, ownerID uint, id string) (*model.RecurringTemplate, error) {
	var tpl model.RecurringTemplate
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListByOwner returns the owner's full template collection ordered by
// creation time, newest first.
func (r *TemplateRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.RecurringTemplate, error) {
	var templates []model.RecurringTemplate
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Subscribe registers a callback invoked with the owner's full current
// template list after every mutation. The returned function cancels the
// subscription.
func (r *TemplateRepository) Subscribe(ownerID uint, cb func([]model.RecurringTemplate)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSubID++
	id := r.nextSubID
	if r.subscribers[ownerID] == nil {
		r.subscribers[ownerID] = make(map[int]func([]model.RecurringTemplate))
	}
	r.subscribers[ownerID][id] = cb

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers[ownerID], id)
	}
}

func (r *TemplateRepository) notify(ctx context.Context, ownerID uint) {
	r.mu.Lock()
	callbacks := make([]func([]model.RecurringTemplate), 0, len(r.subscribers[ownerID]))
	for _, cb := range r.subscribers[ownerID] {
		callbacks = append(callbacks, cb)
	}
	r.mu.Unlock()

	if len(callbacks) == 0 {
		return
	}

	templates, err := r.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("[warn] notify subscribers for owner %d: %v", ownerID, err)
		return
	}
	for _, cb := range callbacks {
		cb(templates)
	}
}
