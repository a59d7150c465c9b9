package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pawpal/internal/model"
)

// TaskRepository handles CRUD for care tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID returns a task only when it belongs to one of the user's pets.
func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Joins("JOIN pets ON pets.id = tasks.pet_id").
		Where("pets.user_id = ? AND tasks.id = ?", userID, taskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Save persists changes to an existing task, including a recomputed next
// due date after a recurring completion.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	task, err := r.FindByID(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
