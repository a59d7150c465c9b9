package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pawpal/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram finds or creates a user based on TelegramID and updates basic profile info.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return &user, nil
	case err == gorm.ErrRecordNotFound:
		user = model.User{
			TelegramID: telegramID,
			FirstName:  firstName,
			LastName:   lastName,
			Username:   username,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

// LoadWithPets returns the user with pets and their tasks populated, ready
// for planning.
func (r *UserRepository) LoadWithPets(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Pets", func(db *gorm.DB) *gorm.DB { return db.Order("pets.id ASC") }).
		Preload("Pets.Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id ASC") }).
		First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return &user, nil
}

// SetAvailability replaces the user's stored availability windows.
func (r *UserRepository) SetAvailability(ctx context.Context, user *model.User, windows []string) error {
	user.SetAvailability(windows)
	if err := r.db.WithContext(ctx).Model(user).Update("availability", user.Availability).Error; err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	return nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
