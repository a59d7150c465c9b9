package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pawpal/internal/model"
)

// PetRepository manages pet profiles.
type PetRepository struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) *PetRepository {
	return &PetRepository{db: db}
}

func (r *PetRepository) Create(ctx context.Context, pet *model.Pet) error {
	if err := r.db.WithContext(ctx).Create(pet).Error; err != nil {
		return fmt.Errorf("create pet: %w", err)
	}
	return nil
}

func (r *PetRepository) ListByUser(ctx context.Context, userID uint) ([]model.Pet, error) {
	var pets []model.Pet
	if err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id ASC") }).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&pets).Error; err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *PetRepository) FindByID(ctx context.Context, userID, petID uint) (*model.Pet, error) {
	var pet model.Pet
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, petID).First(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}
