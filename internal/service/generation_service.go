package service

import (
	"context"
	"log"
	"sync"
	"time"

	"todo-planner/internal/holiday"
	"todo-planner/internal/model"
	"todo-planner/internal/recur"
	"todo-planner/internal/repository"
)

// ReconcileStats summarizes one reconciliation pass. Regenerating an
// unchanged template yields zero inserts and deletes.
type ReconcileStats struct {
	Inserted int
	Updated  int
	Deleted  int
}

// GenerationService turns templates into persisted instance sets. It owns
// the regeneration triggers: explicit template edits, template-collection
// subscriptions, and the periodic sweep all end up in Regenerate.
type GenerationService struct {
	templateRepo *repository.TemplateRepository
	instanceRepo *repository.InstanceRepository
	holidayRepo  *repository.HolidayRepository
	generator    *recur.Generator
	client       *holiday.Client

	// Concurrent regenerations of the same template race on the same
	// read-then-write instance set, so they are serialized per template.
	// Different templates regenerate independently.
	mu    sync.Mutex
	locks map[string]*sync.Mutex

	watchMu      sync.Mutex
	watchCancels map[uint]func()
}

func NewGenerationService(templateRepo *repository.TemplateRepository, instanceRepo *repository.InstanceRepository, holidayRepo *repository.HolidayRepository, generator *recur.Generator, client *holiday.Client) *GenerationService {
	return &GenerationService{
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
		holidayRepo:  holidayRepo,
		generator:    generator,
		client:       client,
		locks:        make(map[string]*sync.Mutex),
		watchCancels: make(map[uint]func()),
	}
}

func (s *GenerationService) lockFor(templateID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[templateID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[templateID] = lock
	}
	return lock
}

// Regenerate recomputes one template's instance set and reconciles it with
// the persisted set. Completion state survives for every date that still
// recurs; instances whose date no longer recurs are deleted. The writes
// commit as one batch: on failure the previously persisted set stays
// authoritative and the caller retries on the next trigger.
func (s *GenerationService) Regenerate(ctx context.Context, tpl model.RecurringTemplate, now time.Time) (ReconcileStats, error) {
	lock := s.lockFor(tpl.ID)
	lock.Lock()
	defer lock.Unlock()

	siblings, err := s.templateRepo.ListByOwner(ctx, tpl.OwnerID)
	if err != nil {
		return ReconcileStats{}, err
	}
	custom, err := s.holidayRepo.ListByOwner(ctx, tpl.OwnerID)
	if err != nil {
		return ReconcileStats{}, err
	}

	fresh := s.generator.Generate(tpl, siblings, custom, now, recur.ModeFull)

	existing, err := s.instanceRepo.ListByTemplate(ctx, tpl.ID)
	if err != nil {
		return ReconcileStats{}, err
	}
	existingByID := make(map[string]model.RecurringInstance, len(existing))
	for _, inst := range existing {
		existingByID[inst.ID] = inst
	}

	var stats ReconcileStats
	freshIDs := make(map[string]bool, len(fresh))
	upserts := make([]model.RecurringInstance, 0, len(fresh))
	for _, inst := range fresh {
		freshIDs[inst.ID] = true
		if prev, ok := existingByID[inst.ID]; ok {
			inst.Completed = prev.Completed
			inst.CompletedAt = prev.CompletedAt
			stats.Updated++
		} else {
			stats.Inserted++
		}
		upserts = append(upserts, inst)
	}

	var deleteIDs []string
	for _, inst := range existing {
		if !freshIDs[inst.ID] {
			deleteIDs = append(deleteIDs, inst.ID)
		}
	}
	stats.Deleted = len(deleteIDs)

	if err := s.instanceRepo.ApplyBatch(ctx, upserts, deleteIDs); err != nil {
		return ReconcileStats{}, err
	}
	return stats, nil
}

// RegenerateOwner regenerates every template an owner has. Failures are
// logged per template so one broken template cannot block the rest.
func (s *GenerationService) RegenerateOwner(ctx context.Context, ownerID uint, now time.Time) error {
	templates, err := s.templateRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, tpl := range templates {
		if _, err := s.Regenerate(ctx, tpl, now); err != nil {
			log.Printf("[warn] regenerate template %s (%q): %v", tpl.ID, tpl.Title, err)
		}
	}
	return nil
}

// EnsureWatch subscribes to an owner's template collection and regenerates
// on every change. Idempotent per owner, so both the startup loop and user
// registration can call it without stacking subscriptions.
func (s *GenerationService) EnsureWatch(ownerID uint) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if _, ok := s.watchCancels[ownerID]; ok {
		return
	}
	s.watchCancels[ownerID] = s.templateRepo.Subscribe(ownerID, func(templates []model.RecurringTemplate) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		now := time.Now()
		for _, tpl := range templates {
			if _, err := s.Regenerate(ctx, tpl, now); err != nil {
				log.Printf("[warn] regenerate on change, template %s: %v", tpl.ID, err)
			}
		}
	})
}

// StopWatches cancels every live subscription.
func (s *GenerationService) StopWatches() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ownerID, cancel := range s.watchCancels {
		cancel()
		delete(s.watchCancels, ownerID)
	}
}

// PreloadHolidays warms the shared calendar with remote holiday data for
// the given years. Fetch failures fall back to the builtin table, so this
// never fails; it only widens the table when the API is reachable.
func (s *GenerationService) PreloadHolidays(ctx context.Context, years ...int) {
	if s.client == nil {
		return
	}
	for _, year := range years {
		s.generator.Calendar().Supplement(s.client.YearHolidays(ctx, year))
	}
}

// Tasks projects an owner's persisted instances into task records, with
// cross-template duplicates suppressed.
func (s *GenerationService) Tasks(ctx context.Context, ownerID uint) ([]model.Task, error) {
	instances, err := s.instanceRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	templates, err := s.templateRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return recur.DedupeTasks(recur.ProjectTasks(instances, templates)), nil
}
