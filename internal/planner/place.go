package planner

import (
	"sort"
	"time"

	"pawpal/internal/model"
)

// Place greedily assigns start/end times to the prioritized tasks. A single
// cursor moves forward through the ordered windows; a task that does not fit
// the remainder of the current window is tried against the following windows
// from their start. Non-medical tasks that fit nowhere are skipped and leave
// the cursor untouched, so a later shorter task can still use the remaining
// time. Medical tasks are always placed, at the current cursor if need be,
// even past the window end.
func Place(ordered []*model.Task, windows []Window, date time.Time) []model.ScheduledTask {
	if len(windows) == 0 {
		windows = []Window{DefaultWindow()}
	}
	day := dateOnly(date)
	idx := 0
	cursor := windows[0].Start

	var placed []model.ScheduledTask
	for _, task := range ordered {
		w, start, ok := firstFit(task, windows, idx, cursor)
		if !ok {
			if !task.Medical {
				continue
			}
			w, start = idx, cursor
		}
		end := start.Add(task.DurationMinutes)
		placed = append(placed, model.ScheduledTask{
			TaskID: task.ID,
			PetID:  task.PetID,
			Start:  start,
			End:    end,
			Status: model.StatusPending,
			Date:   day,
			Task:   task,
		})
		idx, cursor = w, end
	}

	// Callers always receive time order, regardless of the urgency order
	// used for placement.
	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].Start.Before(placed[j].Start)
	})
	return placed
}

func firstFit(task *model.Task, windows []Window, idx int, cursor model.TimeOfDay) (int, model.TimeOfDay, bool) {
	for w := idx; w < len(windows); w++ {
		start := cursor
		if w != idx {
			start = windows[w].Start
		}
		if !start.Add(task.DurationMinutes).After(windows[w].End) {
			return w, start, true
		}
	}
	return 0, model.TimeOfDay{}, false
}
