package recur

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-planner/internal/model"
)

func TestProjectTask(t *testing.T) {
	completedAt := time.Date(2025, time.December, 1, 18, 0, 0, 0, time.UTC)
	tpl := baseTemplate("tpl-gym", model.RecurDaily)
	tpl.Title = "Gym"
	tpl.Description = "Leg day"
	tpl.Priority = model.PriorityHigh
	tpl.Tags = []string{"health"}

	inst := model.RecurringInstance{
		ID:          model.InstanceID(tpl.ID, date(2025, time.December, 1)),
		TemplateID:  tpl.ID,
		OwnerID:     1,
		Date:        date(2025, time.December, 1),
		Completed:   true,
		CompletedAt: &completedAt,
		Order:       model.RecurringInstanceOrder,
	}

	task := ProjectTask(inst, tpl)

	assert.Equal(t, "recurring_tpl-gym_2025-12-01", task.ID)
	assert.Equal(t, "Gym", task.Title)
	assert.Equal(t, "Leg day", task.Description)
	assert.True(t, task.Completed)
	assert.Equal(t, &completedAt, task.CompletedAt)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, inst.Date, task.StartDate)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, model.RecurringInstanceOrder, task.Order)
	assert.True(t, task.IsRecurringInstance)
	assert.Equal(t, inst.ID, task.InstanceID)
	assert.Equal(t, tpl.ID, task.TemplateID)

	// Tags are copied, not aliased.
	task.Tags[0] = "mutated"
	assert.Equal(t, "health", tpl.Tags[0])
}

func TestProjectTasksDropsOrphans(t *testing.T) {
	tpl := baseTemplate("tpl-gym", model.RecurDaily)
	instances := []model.RecurringInstance{
		{ID: "tpl-gym_2025-12-01", TemplateID: "tpl-gym", Date: date(2025, time.December, 1)},
		{ID: "gone_2025-12-01", TemplateID: "gone", Date: date(2025, time.December, 1)},
	}

	tasks := ProjectTasks(instances, []model.RecurringTemplate{tpl})

	require.Len(t, tasks, 1)
	assert.Equal(t, "tpl-gym", tasks[0].TemplateID)
}

func TestDedupeTasks(t *testing.T) {
	day := date(2025, time.December, 1)
	tasks := []model.Task{
		{ID: "recurring_a", Title: "Gym", StartDate: day, IsRecurringInstance: true},
		{ID: "recurring_b", Title: "Gym", StartDate: day, IsRecurringInstance: true},
		{ID: "recurring_c", Title: "Gym", StartDate: date(2025, time.December, 2), IsRecurringInstance: true},
		{ID: "adhoc", Title: "Gym", StartDate: day},
	}

	out := DedupeTasks(tasks)

	require.Len(t, out, 3)
	ids := make([]string, 0, len(out))
	for _, task := range out {
		ids = append(ids, task.ID)
	}
	// Duplicate title+date collapses to the first recurring task; the ad hoc
	// task with the same title passes through untouched.
	assert.Contains(t, ids, "recurring_a")
	assert.NotContains(t, ids, "recurring_b")
	assert.Contains(t, ids, "adhoc")
	assert.Contains(t, ids, "recurring_c")

	// Sorted by start date.
	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].StartDate.Before(out[i-1].StartDate))
	}
}
