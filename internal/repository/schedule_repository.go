package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pawpal/internal/model"
)

// ScheduleRepository persists generated day plans, one per (user, date).
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Save stores the schedule, replacing any previously stored plan for the
// same user and date. The in-memory schedule is written as-is; it is built
// before this call and a storage failure leaves it untouched.
func (r *ScheduleRepository) Save(ctx context.Context, sched *model.DailySchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DailySchedule
		err := tx.Where("user_id = ? AND date = ?", sched.UserID, sched.Date).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("schedule_id = ?", existing.ID).Delete(&model.ScheduledTask{}).Error; err != nil {
				return fmt.Errorf("clear placements: %w", err)
			}
			if err := tx.Where("schedule_id = ?", existing.ID).Delete(&model.ScheduleConflict{}).Error; err != nil {
				return fmt.Errorf("clear conflicts: %w", err)
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("replace schedule: %w", err)
			}
		case err == gorm.ErrRecordNotFound:
			// first plan for this date
		default:
			return fmt.Errorf("find schedule: %w", err)
		}

		if err := tx.Omit("Tasks.Task").Create(sched).Error; err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		for _, pair := range sched.Conflicts {
			row := model.ScheduleConflict{
				ScheduleID:   sched.ID,
				FirstTaskID:  pair.First.TaskID,
				SecondTaskID: pair.Second.TaskID,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create conflict: %w", err)
			}
		}
		return nil
	})
}

// Load returns the stored schedule for the user and date, with placements
// re-linked to their source tasks and conflict pairs rebuilt.
func (r *ScheduleRepository) Load(ctx context.Context, userID uint, date time.Time) (*model.DailySchedule, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var sched model.DailySchedule
	if err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("scheduled_tasks.id ASC") }).
		Preload("Tasks.Task").
		Where("user_id = ? AND date = ?", userID, day).
		First(&sched).Error; err != nil {
		return nil, err
	}

	var rows []model.ScheduleConflict
	if err := r.db.WithContext(ctx).Where("schedule_id = ?", sched.ID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load conflicts: %w", err)
	}
	sched.Conflicts = make([]model.ConflictPair, 0, len(rows))
	for _, row := range rows {
		first := sched.FindByTaskID(row.FirstTaskID)
		second := sched.FindByTaskID(row.SecondTaskID)
		if first == nil || second == nil {
			continue
		}
		sched.Conflicts = append(sched.Conflicts, model.ConflictPair{First: first, Second: second})
	}
	return &sched, nil
}

// UpdatePlacementStatus persists a status change for one placement.
func (r *ScheduleRepository) UpdatePlacementStatus(ctx context.Context, st *model.ScheduledTask) error {
	if err := r.db.WithContext(ctx).Model(&model.ScheduledTask{}).
		Where("id = ?", st.ID).
		Update("status", st.Status).Error; err != nil {
		return fmt.Errorf("update placement status: %w", err)
	}
	return nil
}
