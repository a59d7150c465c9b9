package service

import (
	"context"
	"fmt"
	"time"

	"pawpal/internal/model"
	"pawpal/internal/planner"
	"pawpal/internal/repository"
)

// PlannerService generates, stores and updates daily care plans.
type PlannerService struct {
	userRepo     *repository.UserRepository
	taskRepo     *repository.TaskRepository
	scheduleRepo *repository.ScheduleRepository
}

func NewPlannerService(userRepo *repository.UserRepository, taskRepo *repository.TaskRepository, scheduleRepo *repository.ScheduleRepository) *PlannerService {
	return &PlannerService{userRepo: userRepo, taskRepo: taskRepo, scheduleRepo: scheduleRepo}
}

// PlanDay builds the user's plan for the date and persists it, replacing
// any earlier plan for that date. The plan is computed before the save, so
// a storage failure returns the usable in-memory plan alongside the error.
func (s *PlannerService) PlanDay(ctx context.Context, user *model.User, date time.Time) (*model.DailySchedule, error) {
	loaded, err := s.userRepo.LoadWithPets(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	sched := planner.BuildPlan(loaded, date)
	if err := s.scheduleRepo.Save(ctx, sched); err != nil {
		return sched, fmt.Errorf("save schedule: %w", err)
	}
	return sched, nil
}

// LoadDay returns the stored plan for the date, if one was generated.
func (s *PlannerService) LoadDay(ctx context.Context, user *model.User, date time.Time) (*model.DailySchedule, error) {
	return s.scheduleRepo.Load(ctx, user.ID, date)
}

// CompleteTask marks the placement of the given task on the given date as
// completed. For recurring tasks the source task's next due date is stored.
// The plan's conflicts and explanation are not recomputed.
func (s *PlannerService) CompleteTask(ctx context.Context, user *model.User, date time.Time, taskID uint, completedAt time.Time) (string, error) {
	sched, err := s.scheduleRepo.Load(ctx, user.ID, date)
	if err != nil {
		return "", err
	}

	st := sched.FindByTaskID(taskID)
	if st == nil {
		return "", fmt.Errorf("task %d is not on the plan for %s", taskID, date.Format("2006-01-02"))
	}

	message := planner.ApplyCompletion(st, completedAt)
	if err := s.scheduleRepo.UpdatePlacementStatus(ctx, st); err != nil {
		return "", err
	}
	if st.Task != nil && st.Task.Recurring {
		if err := s.taskRepo.Save(ctx, st.Task); err != nil {
			return "", err
		}
	}
	return message, nil
}
