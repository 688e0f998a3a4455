package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todo-planner/internal/model"
	"todo-planner/internal/repository"
)

// TemplateInput carries the data required to create or update a template.
type TemplateInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Kind        model.TaskKind
	Tags        []string

	Recurrence     model.RecurrenceType
	Weekday        *int
	MonthlyDate    *int
	MonthlyPattern model.MonthlyPattern
	MonthlyWeek    model.WeekPosition
	MonthlyWeekday *int

	HolidayPolicy model.HolidayPolicy
	Exceptions    []model.ExceptionRule
	IsActive      bool
}

// TemplateService wraps template CRUD and keeps instance sets in step:
// every edit triggers a regeneration, and deleting a template cascades to
// its instances.
type TemplateService struct {
	templateRepo *repository.TemplateRepository
	instanceRepo *repository.InstanceRepository
	generation   *GenerationService
}

func NewTemplateService(templateRepo *repository.TemplateRepository, instanceRepo *repository.InstanceRepository, generation *GenerationService) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		instanceRepo: instanceRepo,
		generation:   generation,
	}
}

func (s *TemplateService) Create(ctx context.Context, ownerID uint, input TemplateInput) (*model.RecurringTemplate, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.Priority == "" {
		input.Priority = model.PriorityMedium
	}
	if input.Kind == "" {
		input.Kind = model.KindSimple
	}

	tpl := model.RecurringTemplate{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		Kind:           input.Kind,
		Tags:           input.Tags,
		Recurrence:     input.Recurrence,
		Weekday:        input.Weekday,
		MonthlyDate:    input.MonthlyDate,
		MonthlyPattern: input.MonthlyPattern,
		MonthlyWeek:    input.MonthlyWeek,
		MonthlyWeekday: input.MonthlyWeekday,
		HolidayPolicy:  input.HolidayPolicy,
		Exceptions:     input.Exceptions,
		IsActive:       input.IsActive,
	}

	if err := s.templateRepo.Create(ctx, &tpl); err != nil {
		return nil, err
	}
	if _, err := s.generation.Regenerate(ctx, tpl, time.Now()); err != nil {
		return nil, fmt.Errorf("generate instances: %w", err)
	}
	return &tpl, nil
}

func (s *TemplateService) Update(ctx context.Context, tpl *model.RecurringTemplate) error {
	if tpl.Title == "" {
		return fmt.Errorf("title is required")
	}
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return err
	}
	if _, err := s.generation.Regenerate(ctx, *tpl, time.Now()); err != nil {
		return fmt.Errorf("regenerate instances: %w", err)
	}
	return nil
}

// Delete removes a template and cascades to all of its instances.
func (s *TemplateService) Delete(ctx context.Context, ownerID uint, id string) error {
	if err := s.instanceRepo.DeleteByTemplate(ctx, id); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, ownerID, id)
}

func (s *TemplateService) List(ctx context.Context, ownerID uint) ([]model.RecurringTemplate, error) {
	return s.templateRepo.ListByOwner(ctx, ownerID)
}

func (s *TemplateService) Get(ctx context.Context, ownerID uint, id string) (*model.RecurringTemplate, error) {
	return s.templateRepo.FindByID(ctx, ownerID, id)
}

// CompleteInstance toggles completion on one instance. Only the completion
// fields change; the instance itself keeps its deterministic identity.
func (s *TemplateService) CompleteInstance(ctx context.Context, id string, completed bool) error {
	return s.instanceRepo.SetCompletion(ctx, id, completed, time.Now())
}
