package planner

import (
	"sort"

	"pawpal/internal/model"
)

// preferredRank orders time-of-day preferences: morning before flexible
// before evening. Unknown values rank as flexible.
func preferredRank(p model.PreferredTime) int {
	switch p {
	case model.PreferMorning:
		return 0
	case model.PreferEvening:
		return 2
	default:
		return 1
	}
}

// Prioritize orders tasks into the sequence the placer will attempt.
// Medical tasks come first, sorted by priority descending; missed medication
// carries a higher real-world cost than any missed chore. Non-medical tasks
// follow, by priority descending and then preferred time of day. Ties keep
// their original relative order.
func Prioritize(tasks []*model.Task) []*model.Task {
	var medical, regular []*model.Task
	for _, task := range tasks {
		if task.Medical {
			medical = append(medical, task)
		} else {
			regular = append(regular, task)
		}
	}

	sort.SliceStable(medical, func(i, j int) bool {
		return medical[i].Priority > medical[j].Priority
	})
	sort.SliceStable(regular, func(i, j int) bool {
		if regular[i].Priority != regular[j].Priority {
			return regular[i].Priority > regular[j].Priority
		}
		return preferredRank(regular[i].PreferredTime) < preferredRank(regular[j].PreferredTime)
	})

	return append(medical, regular...)
}
