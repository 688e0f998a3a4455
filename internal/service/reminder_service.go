package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"todo-planner/internal/model"
	"todo-planner/internal/recur"
	"todo-planner/internal/repository"
)

// ReminderService builds human-readable digests of the recurring tasks due
// on a given day.
type ReminderService struct {
	templateRepo *repository.TemplateRepository
	instanceRepo *repository.InstanceRepository
}

func NewReminderService(templateRepo *repository.TemplateRepository, instanceRepo *repository.InstanceRepository) *ReminderService {
	return &ReminderService{templateRepo: templateRepo, instanceRepo: instanceRepo}
}

// DailyDigest renders the user's recurring tasks for the date of now.
func (s *ReminderService) DailyDigest(ctx context.Context, user model.User, now time.Time) (string, error) {
	instances, err := s.instanceRepo.ListByOwnerOnDate(ctx, user.ID, now)
	if err != nil {
		return "", err
	}
	templates, err := s.templateRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		return "", err
	}

	tasks := recur.DedupeTasks(recur.ProjectTasks(instances, templates))

	var open, done []model.Task
	for _, task := range tasks {
		if task.Completed {
			done = append(done, task)
		} else {
			open = append(open, task)
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Today's recurring tasks</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	if len(open) == 0 && len(done) == 0 {
		builder.WriteString("— nothing recurs today\n")
		return strings.TrimSpace(builder.String()), nil
	}

	for _, task := range open {
		builder.WriteString(formatDigestLine(task))
	}
	for _, task := range done {
		builder.WriteString(fmt.Sprintf("✅ <s>%s</s>\n", html.EscapeString(strings.TrimSpace(task.Title))))
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatDigestLine(task model.Task) string {
	var sb strings.Builder

	sb.WriteString(priorityIcon(task.Priority))
	sb.WriteByte(' ')
	sb.WriteString(html.EscapeString(strings.TrimSpace(task.Title)))

	if len(task.Tags) > 0 {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(strings.Join(task.Tags, ", "))))
	}
	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(task.Description))))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return "🔥"
	case model.PriorityHigh:
		return "⚠️"
	case model.PriorityLow:
		return "🟢"
	default:
		return "🔵"
	}
}
