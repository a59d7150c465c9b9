package planner

import (
	"time"

	"pawpal/internal/model"
)

// OccursOn reports whether the task is active on the given date.
// Non-recurring and daily tasks occur every day. Weekly tasks occur on the
// weekdays in their recurrence set. Every-other-day tasks alternate relative
// to an anchor date: the stored next-due date when set, otherwise the task's
// creation date.
func OccursOn(task *model.Task, date time.Time) bool {
	if !task.Recurring {
		return true
	}
	switch task.Pattern {
	case model.RecurDaily:
		return true
	case model.RecurWeekly:
		return task.OccursOnWeekday(date.Weekday())
	case model.RecurEveryOtherDay:
		anchor := task.CreatedAt
		if task.NextDue != nil {
			anchor = *task.NextDue
		}
		return daysBetween(anchor, date)%2 == 0
	default:
		return true
	}
}

// NextDueDate computes when a recurring task is next due after being
// completed on the given date. For non-recurring tasks ok is false.
func NextDueDate(task *model.Task, completed time.Time) (time.Time, bool) {
	if !task.Recurring {
		return time.Time{}, false
	}
	day := dateOnly(completed)
	switch task.Pattern {
	case model.RecurDaily:
		return day.AddDate(0, 0, 1), true
	case model.RecurEveryOtherDay:
		return day.AddDate(0, 0, 2), true
	case model.RecurWeekly:
		for offset := 1; offset <= 7; offset++ {
			candidate := day.AddDate(0, 0, offset)
			if task.OccursOnWeekday(candidate.Weekday()) {
				return candidate, true
			}
		}
		// Empty weekday set: same day next week.
		return day.AddDate(0, 0, 7), true
	default:
		return day.AddDate(0, 0, 1), true
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	diff := int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
	if diff < 0 {
		return -diff
	}
	return diff
}
