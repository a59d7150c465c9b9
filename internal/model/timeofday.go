package model

import "fmt"

// TimeOfDay is a clock time within a single day. Placements never roll past
// midnight, so Hour may exceed 23 when a medication task overruns the end of
// the day's last availability window.
type TimeOfDay struct {
	Hour   int `gorm:"column:hour"`
	Minute int `gorm:"column:minute"`
}

func ClockTime(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// Add returns the time advanced by the given number of minutes, carrying
// overflowing minutes into hours.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	total := t.TotalMinutes() + minutes
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

func (t TimeOfDay) TotalMinutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.TotalMinutes() < other.TotalMinutes()
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.TotalMinutes() > other.TotalMinutes()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
