package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pawpal/internal/model"
	"pawpal/internal/repository"
)

const (
	minDurationMinutes = 1
	maxDurationMinutes = 240
)

// TaskInput represents data required to create a care task.
type TaskInput struct {
	PetID         uint
	Name          string
	Duration      int
	PriorityLabel string // low, medium or high
	Category      string
	Medical       bool
	PreferredTime model.PreferredTime
	Recurring     bool
	Pattern       model.RecurrencePattern
	Weekdays      []time.Weekday
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	petRepo  *repository.PetRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, petRepo *repository.PetRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, petRepo: petRepo}
}

// PriorityFromLabel maps the three-level user-facing priority to the 1-5
// scale used by the planner. Unknown labels read as medium.
func PriorityFromLabel(label string) int {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "low":
		return 2
	case "high":
		return 5
	default:
		return 3
	}
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 5 {
		return 5
	}
	return p
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("task name is required")
	}
	if input.Duration < minDurationMinutes || input.Duration > maxDurationMinutes {
		return nil, fmt.Errorf("duration must be between %d and %d minutes", minDurationMinutes, maxDurationMinutes)
	}
	if _, err := s.petRepo.FindByID(ctx, user.ID, input.PetID); err != nil {
		return nil, fmt.Errorf("find pet: %w", err)
	}

	preferred := input.PreferredTime
	switch preferred {
	case model.PreferMorning, model.PreferEvening, model.PreferFlexible:
	default:
		preferred = model.PreferFlexible
	}

	task := model.Task{
		PetID:           input.PetID,
		PublicID:        uuid.NewString(),
		Name:            strings.TrimSpace(input.Name),
		DurationMinutes: input.Duration,
		Priority:        clampPriority(PriorityFromLabel(input.PriorityLabel)),
		Category:        strings.TrimSpace(input.Category),
		Medical:         input.Medical,
		PreferredTime:   preferred,
	}
	if input.Recurring {
		task.Recurring = true
		task.Pattern = input.Pattern
		if input.Pattern == model.RecurWeekly {
			task.SetWeekdays(input.Weekdays)
		}
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}
