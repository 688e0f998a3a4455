package recur

import (
	"sort"

	"todo-planner/internal/model"
)

// ProjectTask maps a generated instance plus its template into the generic
// task record the views consume. Pure: completion state is copied from the
// instance, never recomputed, and DueDate stays unset.
func ProjectTask(inst model.RecurringInstance, tpl model.RecurringTemplate) model.Task {
	return model.Task{
		ID:          "recurring_" + inst.ID,
		Title:       tpl.Title,
		Description: tpl.Description,
		Completed:   inst.Completed,
		CompletedAt: inst.CompletedAt,
		Priority:    tpl.Priority,
		Kind:        tpl.Kind,
		Tags:        append([]string(nil), tpl.Tags...),
		StartDate:   inst.Date,
		Order:       inst.Order,
		CreatedAt:   inst.CreatedAt,
		UpdatedAt:   inst.UpdatedAt,

		IsRecurringInstance: true,
		InstanceID:          inst.ID,
		TemplateID:          tpl.ID,
	}
}

// ProjectTasks converts an instance list against a template snapshot.
// Instances whose template is missing from the snapshot are dropped.
func ProjectTasks(instances []model.RecurringInstance, templates []model.RecurringTemplate) []model.Task {
	byID := make(map[string]model.RecurringTemplate, len(templates))
	for _, tpl := range templates {
		byID[tpl.ID] = tpl
	}

	tasks := make([]model.Task, 0, len(instances))
	for _, inst := range instances {
		tpl, ok := byID[inst.TemplateID]
		if !ok {
			continue
		}
		tasks = append(tasks, ProjectTask(inst, tpl))
	}
	return tasks
}

// DedupeTasks removes cross-template duplicates from a mixed task list:
// when several recurring tasks share a title and date, only the first
// survives. Non-recurring tasks pass through untouched. The result is
// sorted by start date.
func DedupeTasks(tasks []model.Task) []model.Task {
	seen := make(map[string]bool)
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.IsRecurringInstance {
			out = append(out, task)
			continue
		}
		key := task.Title + "_" + model.DateKey(task.StartDate)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, task)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}
