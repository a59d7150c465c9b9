package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawpal/internal/model"
)

func taskIDs(tasks []*model.Task) []uint {
	ids := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestPrioritizeMedicalFirst(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, Name: "Long walk", Priority: 5},
		{ID: 2, Name: "Heart pills", Priority: 1, Medical: true},
	}

	ordered := Prioritize(tasks)

	require.Len(t, ordered, 2)
	// Even the lowest-priority medication outranks the highest-priority chore.
	assert.Equal(t, []uint{2, 1}, taskIDs(ordered))
}

func TestPrioritizeByPriorityDescending(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, Priority: 2},
		{ID: 2, Priority: 5},
		{ID: 3, Priority: 3},
	}

	assert.Equal(t, []uint{2, 3, 1}, taskIDs(Prioritize(tasks)))
}

func TestPrioritizePreferredTimeBreaksTies(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, Priority: 3, PreferredTime: model.PreferEvening},
		{ID: 2, Priority: 3, PreferredTime: model.PreferMorning},
		{ID: 3, Priority: 3, PreferredTime: model.PreferFlexible},
	}

	assert.Equal(t, []uint{2, 3, 1}, taskIDs(Prioritize(tasks)))
}

func TestPrioritizeStableOnFullTies(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, Priority: 3, PreferredTime: model.PreferFlexible},
		{ID: 2, Priority: 3, PreferredTime: model.PreferFlexible},
		{ID: 3, Priority: 3, PreferredTime: model.PreferFlexible},
	}

	assert.Equal(t, []uint{1, 2, 3}, taskIDs(Prioritize(tasks)))
}

func TestPrioritizeMedicalSortedByPriority(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, Priority: 2, Medical: true},
		{ID: 2, Priority: 5, Medical: true},
		{ID: 3, Priority: 4},
	}

	assert.Equal(t, []uint{2, 1, 3}, taskIDs(Prioritize(tasks)))
}
