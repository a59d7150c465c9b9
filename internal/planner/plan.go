package planner

import (
	"fmt"
	"strings"
	"time"

	"pawpal/internal/model"
)

// BuildPlan produces the day's schedule for one user: the tasks active on
// the date are prioritized, placed into the availability windows, scanned
// for conflicts and explained. The function reads no clock; the caller
// supplies the date.
func BuildPlan(user *model.User, date time.Time) *model.DailySchedule {
	windows := Windows(user.AvailabilityList())

	var active []*model.Task
	for i := range user.Pets {
		pet := &user.Pets[i]
		for j := range pet.Tasks {
			task := &pet.Tasks[j]
			if OccursOn(task, date) {
				active = append(active, task)
			}
		}
	}

	placed := Place(Prioritize(active), windows, date)

	sched := &model.DailySchedule{
		UserID: user.ID,
		Date:   dateOnly(date),
		Tasks:  placed,
	}
	ptrs := make([]*model.ScheduledTask, 0, len(sched.Tasks))
	for i := range sched.Tasks {
		ptrs = append(ptrs, &sched.Tasks[i])
	}
	sched.Conflicts = DetectConflicts(ptrs)
	sched.Explanation = explain(user, sched, active, windows)
	return sched
}

// ApplyCompletion marks a placement completed and, for recurring tasks,
// stores the next due date on the source task. It does not re-run placement
// or refresh the schedule's conflicts and explanation.
func ApplyCompletion(st *model.ScheduledTask, completed time.Time) string {
	st.Status = model.StatusCompleted
	if st.Task != nil && st.Task.Recurring {
		if next, ok := NextDueDate(st.Task, completed); ok {
			st.Task.NextDue = &next
			return fmt.Sprintf("%q completed. Next due %s.", st.TaskName(), next.Format("2006-01-02"))
		}
	}
	return fmt.Sprintf("%q completed.", st.TaskName())
}

func explain(user *model.User, sched *model.DailySchedule, active []*model.Task, windows []Window) string {
	petNames := make(map[uint]string, len(user.Pets))
	for _, pet := range user.Pets {
		petNames[pet.ID] = pet.Name
	}
	petName := func(id uint) string {
		if name, ok := petNames[id]; ok && name != "" {
			return name
		}
		return fmt.Sprintf("pet #%d", id)
	}

	placedIDs := make(map[uint]bool, len(sched.Tasks))
	for i := range sched.Tasks {
		placedIDs[sched.Tasks[i].TaskID] = true
	}
	var unplaced []*model.Task
	for _, task := range active {
		if !placedIDs[task.ID] {
			unplaced = append(unplaced, task)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Care plan for %s\n", sched.Date.Format("Monday, 2 January 2006")))

	b.WriteString("\nScheduled:\n")
	byTime := sched.TasksByTime()
	if len(byTime) == 0 {
		b.WriteString("  (nothing scheduled)\n")
	}
	for i, st := range byTime {
		line := fmt.Sprintf("  %d. %s-%s %s — %s (priority %d",
			i+1, st.Start, st.End, st.TaskName(), petName(st.PetID), taskPriority(st.Task))
		if st.Task != nil && st.Task.Medical {
			line += ", medication"
		}
		b.WriteString(line + ")\n")
	}

	if len(unplaced) > 0 {
		b.WriteString("\nUnable to Schedule:\n")
		for _, task := range unplaced {
			b.WriteString(fmt.Sprintf("  - %s — %s (%d min, priority %d): does not fit the available time\n",
				task.Name, petName(task.PetID), task.DurationMinutes, task.Priority))
		}
	}

	if sched.HasConflicts() {
		b.WriteString("\nConflicts:\n")
		for _, line := range strings.Split(sched.ConflictSummary(), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\nAvailability: ")
	for i, w := range windows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%s-%s", w.Start, w.End))
	}
	b.WriteByte('\n')

	return b.String()
}

func taskPriority(task *model.Task) int {
	if task == nil {
		return 0
	}
	return task.Priority
}
