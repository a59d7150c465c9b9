package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawpal/internal/model"
)

func window(sh, sm, eh, em int) Window {
	return Window{Start: model.ClockTime(sh, sm), End: model.ClockTime(eh, em)}
}

func TestPlaceSequentially(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, DurationMinutes: 60},
		{ID: 2, DurationMinutes: 30},
	}

	placed := Place(tasks, []Window{window(9, 0, 17, 0)}, date(2026, time.March, 2))

	require.Len(t, placed, 2)
	assert.Equal(t, model.ClockTime(9, 0), placed[0].Start)
	assert.Equal(t, model.ClockTime(10, 0), placed[0].End)
	assert.Equal(t, model.ClockTime(10, 0), placed[1].Start)
	assert.Equal(t, model.ClockTime(10, 30), placed[1].End)
}

func TestPlaceExactFitAtWindowEnd(t *testing.T) {
	tasks := []*model.Task{{ID: 1, DurationMinutes: 60}}

	placed := Place(tasks, []Window{window(9, 0, 10, 0)}, date(2026, time.March, 2))

	require.Len(t, placed, 1)
	assert.Equal(t, model.ClockTime(10, 0), placed[0].End)
}

func TestPlaceSkipsNonMedicalThatDoesNotFit(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, DurationMinutes: 90},
		{ID: 2, DurationMinutes: 45},
	}

	placed := Place(tasks, []Window{window(9, 0, 10, 0)}, date(2026, time.March, 2))

	// The 90-minute task is skipped and leaves the cursor where it was, so
	// the 45-minute task still starts at the window start.
	require.Len(t, placed, 1)
	assert.Equal(t, uint(2), placed[0].TaskID)
	assert.Equal(t, model.ClockTime(9, 0), placed[0].Start)
}

func TestPlaceMedicalOverrunsWindow(t *testing.T) {
	tasks := []*model.Task{{ID: 1, DurationMinutes: 240, Medical: true}}

	placed := Place(tasks, []Window{window(9, 0, 12, 0)}, date(2026, time.March, 2))

	require.Len(t, placed, 1)
	assert.Equal(t, model.ClockTime(9, 0), placed[0].Start)
	assert.Equal(t, model.ClockTime(13, 0), placed[0].End)
}

func TestPlaceMedicalAtCursorAfterFullDay(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, DurationMinutes: 60},
		{ID: 2, DurationMinutes: 30, Medical: true},
	}

	placed := Place(tasks, []Window{window(9, 0, 10, 0)}, date(2026, time.March, 2))

	require.Len(t, placed, 2)
	assert.Equal(t, uint(2), placed[1].TaskID)
	assert.Equal(t, model.ClockTime(10, 0), placed[1].Start)
	assert.Equal(t, model.ClockTime(10, 30), placed[1].End)
}

func TestPlaceAdvancesToNextWindow(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, DurationMinutes: 60},
		{ID: 2, DurationMinutes: 90},
	}
	windows := []Window{window(9, 0, 10, 0), window(14, 0, 16, 0)}

	placed := Place(tasks, windows, date(2026, time.March, 2))

	require.Len(t, placed, 2)
	assert.Equal(t, model.ClockTime(9, 0), placed[0].Start)
	// No room left in the morning window; the second task starts the
	// afternoon window.
	assert.Equal(t, model.ClockTime(14, 0), placed[1].Start)
	assert.Equal(t, model.ClockTime(15, 30), placed[1].End)
}

func TestPlaceDefaultsWindowWhenNoneGiven(t *testing.T) {
	tasks := []*model.Task{{ID: 1, DurationMinutes: 30}}

	placed := Place(tasks, nil, date(2026, time.March, 2))

	require.Len(t, placed, 1)
	assert.Equal(t, model.ClockTime(9, 0), placed[0].Start)
}

func TestPlaceReturnsTimeOrder(t *testing.T) {
	tasks := []*model.Task{
		{ID: 1, DurationMinutes: 30},
		{ID: 2, DurationMinutes: 30},
		{ID: 3, DurationMinutes: 30},
	}

	placed := Place(tasks, []Window{window(9, 0, 17, 0)}, date(2026, time.March, 2))

	require.Len(t, placed, 3)
	for i := 1; i < len(placed); i++ {
		assert.False(t, placed[i].Start.Before(placed[i-1].Start))
	}
}

func TestPlaceStampsDateAndStatus(t *testing.T) {
	tasks := []*model.Task{{ID: 7, PetID: 3, DurationMinutes: 30}}

	placed := Place(tasks, []Window{window(9, 0, 17, 0)}, time.Date(2026, time.March, 2, 15, 4, 5, 0, time.UTC))

	require.Len(t, placed, 1)
	assert.Equal(t, date(2026, time.March, 2), placed[0].Date)
	assert.Equal(t, model.StatusPending, placed[0].Status)
	assert.Equal(t, uint(3), placed[0].PetID)
	require.NotNil(t, placed[0].Task)
	assert.Equal(t, uint(7), placed[0].Task.ID)
}
