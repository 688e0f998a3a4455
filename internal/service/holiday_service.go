package service

import (
	"context"
	"fmt"
	"time"

	"todo-planner/internal/model"
	"todo-planner/internal/repository"
)

// HolidayService manages user-defined custom holidays. Every mutation
// regenerates the owner's instance sets, since holiday edits can shift or
// unshift already-generated dates.
type HolidayService struct {
	holidayRepo *repository.HolidayRepository
	generation  *GenerationService

	// now is swappable so tests can pin the generation window.
	now func() time.Time
}

func NewHolidayService(holidayRepo *repository.HolidayRepository, generation *GenerationService) *HolidayService {
	return &HolidayService{holidayRepo: holidayRepo, generation: generation, now: time.Now}
}

func (s *HolidayService) Add(ctx context.Context, ownerID uint, dateStr, name string, recurring bool) (*model.CustomHoliday, error) {
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}
	if name == "" {
		name = "Day off"
	}

	h := model.CustomHoliday{
		OwnerID:     ownerID,
		Date:        dateStr,
		Name:        name,
		IsRecurring: recurring,
	}
	if err := s.holidayRepo.Create(ctx, &h); err != nil {
		return nil, err
	}
	if err := s.generation.RegenerateOwner(ctx, ownerID, s.now()); err != nil {
		return nil, fmt.Errorf("regenerate after holiday add: %w", err)
	}
	return &h, nil
}

func (s *HolidayService) List(ctx context.Context, ownerID uint) ([]model.CustomHoliday, error) {
	return s.holidayRepo.ListByOwner(ctx, ownerID)
}

func (s *HolidayService) Remove(ctx context.Context, ownerID, id uint) error {
	if err := s.holidayRepo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.generation.RegenerateOwner(ctx, ownerID, s.now()); err != nil {
		return fmt.Errorf("regenerate after holiday removal: %w", err)
	}
	return nil
}
