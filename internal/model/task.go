package model

import (
	"strconv"
	"strings"
	"time"
)

// PreferredTime is the part of the day a task should land in.
type PreferredTime string

const (
	PreferMorning  PreferredTime = "morning"
	PreferFlexible PreferredTime = "flexible"
	PreferEvening  PreferredTime = "evening"
)

// RecurrencePattern is the cadence of a repeating task.
type RecurrencePattern string

const (
	RecurDaily         RecurrencePattern = "daily"
	RecurEveryOtherDay RecurrencePattern = "every_other_day"
	RecurWeekly        RecurrencePattern = "weekly"
)

// Task represents a single unit of care work for one pet.
type Task struct {
	ID              uint   `gorm:"primaryKey"`
	PetID           uint   `gorm:"index"`
	PublicID        string `gorm:"uniqueIndex"`
	Name            string
	DurationMinutes int
	Priority        int // 1-5, 5 being highest
	Category        string
	Medical         bool          `gorm:"default:false"`
	PreferredTime   PreferredTime `gorm:"default:flexible"`
	Recurring       bool          `gorm:"default:false"`
	Pattern         RecurrencePattern
	RecurrenceDays  string // comma-separated weekday numbers, weekly only
	NextDue         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Weekdays decodes the recurrence weekday set. Only meaningful when
// Pattern is RecurWeekly.
func (t *Task) Weekdays() []time.Weekday {
	if t.RecurrenceDays == "" {
		return nil
	}
	parts := strings.Split(t.RecurrenceDays, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

// SetWeekdays encodes the recurrence weekday set for storage.
func (t *Task) SetWeekdays(days []time.Weekday) {
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(int(day)))
	}
	t.RecurrenceDays = strings.Join(parts, ",")
}

// OccursOnWeekday reports whether the given weekday is in the task's
// recurrence set.
func (t *Task) OccursOnWeekday(day time.Weekday) bool {
	for _, d := range t.Weekdays() {
		if d == day {
			return true
		}
	}
	return false
}
