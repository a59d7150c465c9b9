package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status is the lifecycle state of a placed task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ScheduledTask is the placement of one task on one date. The Task pointer
// is a non-owning back-link; the task itself belongs to its pet.
type ScheduledTask struct {
	ID         uint      `gorm:"primaryKey"`
	ScheduleID uint      `gorm:"index"`
	TaskID     uint      `gorm:"index"`
	PetID      uint      `gorm:"index"`
	Start      TimeOfDay `gorm:"embedded;embeddedPrefix:start_"`
	End        TimeOfDay `gorm:"embedded;embeddedPrefix:end_"`
	Status     Status    `gorm:"default:pending"`
	Date       time.Time
	Task       *Task `gorm:"foreignKey:TaskID"`
}

// TaskName returns the source task's name, falling back to the task id when
// the back-link is not populated.
func (st *ScheduledTask) TaskName() string {
	if st.Task != nil {
		return st.Task.Name
	}
	return fmt.Sprintf("task #%d", st.TaskID)
}

// ConflictPair references two placements whose time intervals overlap.
type ConflictPair struct {
	First  *ScheduledTask
	Second *ScheduledTask
}

// ScheduleConflict is the persisted form of a conflict pair, keyed by the
// source task ids of the two placements.
type ScheduleConflict struct {
	ID           uint `gorm:"primaryKey"`
	ScheduleID   uint `gorm:"index"`
	FirstTaskID  uint
	SecondTaskID uint
}

// DailySchedule is the plan for one user on one date. Task selection and
// placement are fixed at generation time; only placement statuses change
// afterwards, and conflicts/explanation are not recomputed for them.
type DailySchedule struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index:idx_schedule_user_date,unique"`
	Date        time.Time `gorm:"index:idx_schedule_user_date,unique"`
	Explanation string
	Tasks       []ScheduledTask `gorm:"foreignKey:ScheduleID"`
	Conflicts   []ConflictPair  `gorm:"-"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TasksByTime returns the placements sorted by start time ascending.
func (s *DailySchedule) TasksByTime() []*ScheduledTask {
	tasks := make([]*ScheduledTask, 0, len(s.Tasks))
	for i := range s.Tasks {
		tasks = append(tasks, &s.Tasks[i])
	}
	sortByStart(tasks)
	return tasks
}

// TasksByPet returns the placements for one pet, sorted by start time.
func (s *DailySchedule) TasksByPet(petID uint) []*ScheduledTask {
	var tasks []*ScheduledTask
	for i := range s.Tasks {
		if s.Tasks[i].PetID == petID {
			tasks = append(tasks, &s.Tasks[i])
		}
	}
	sortByStart(tasks)
	return tasks
}

// TasksByStatus returns the placements with the given status, sorted by
// start time.
func (s *DailySchedule) TasksByStatus(status Status) []*ScheduledTask {
	var tasks []*ScheduledTask
	for i := range s.Tasks {
		if s.Tasks[i].Status == status {
			tasks = append(tasks, &s.Tasks[i])
		}
	}
	sortByStart(tasks)
	return tasks
}

// TasksInRange returns the placements fully contained in [from, to],
// sorted by start time. Placements that only partially overlap the range
// are excluded.
func (s *DailySchedule) TasksInRange(from, to TimeOfDay) []*ScheduledTask {
	var tasks []*ScheduledTask
	for i := range s.Tasks {
		st := &s.Tasks[i]
		if !st.Start.Before(from) && !st.End.After(to) {
			tasks = append(tasks, st)
		}
	}
	sortByStart(tasks)
	return tasks
}

// FindByTaskID returns the placement for the given source task id.
func (s *DailySchedule) FindByTaskID(taskID uint) *ScheduledTask {
	for i := range s.Tasks {
		if s.Tasks[i].TaskID == taskID {
			return &s.Tasks[i]
		}
	}
	return nil
}

func (s *DailySchedule) HasConflicts() bool {
	return len(s.Conflicts) > 0
}

// ConflictSummary describes every conflicting pair, one line each.
func (s *DailySchedule) ConflictSummary() string {
	var builder strings.Builder
	for i, pair := range s.Conflicts {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(fmt.Sprintf("%q (%s-%s) conflicts with %q (%s-%s)",
			pair.First.TaskName(), pair.First.Start, pair.First.End,
			pair.Second.TaskName(), pair.Second.Start, pair.Second.End))
	}
	return builder.String()
}

func sortByStart(tasks []*ScheduledTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Start.Before(tasks[j].Start)
	})
}
