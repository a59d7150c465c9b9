package model

import "time"

// Pet holds a pet profile and its care tasks. Task order is insertion
// order; the scheduler does not depend on it.
type Pet struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	PublicID    string `gorm:"uniqueIndex"`
	Name        string
	Species     string
	Age         int
	HealthNotes string
	Tasks       []Task `gorm:"foreignKey:PetID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
