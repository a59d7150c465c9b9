package model

import (
	"strings"
	"time"
)

// User stores an owner's Telegram metadata, pets and availability.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	// Availability holds comma-separated window strings such as
	// "09:00-17:00" or "9-17".
	Availability string
	Pets         []Pet `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AvailabilityList splits the stored availability into window strings.
func (u *User) AvailabilityList() []string {
	if strings.TrimSpace(u.Availability) == "" {
		return nil
	}
	parts := strings.Split(u.Availability, ",")
	windows := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			windows = append(windows, trimmed)
		}
	}
	return windows
}

// SetAvailability stores the given window strings.
func (u *User) SetAvailability(windows []string) {
	trimmed := make([]string, 0, len(windows))
	for _, w := range windows {
		if s := strings.TrimSpace(w); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	u.Availability = strings.Join(trimmed, ",")
}
