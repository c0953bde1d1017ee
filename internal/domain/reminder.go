package domain

import (
	"fmt"
	"time"
)

const (
	ReminderDateLayout = "2006-01-02"
	ReminderTimeLayout = "15:04"
)

type Reminder struct {
	Enabled bool   `json:"enabled"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Validate checks that date and time are both present and well formed.
func (r Reminder) Validate() error {
	if r.Date == "" || r.Time == "" {
		return ReminderInvalid.With("date and time are required")
	}
	if _, err := time.Parse(ReminderDateLayout, r.Date); err != nil {
		return ReminderInvalid.With(fmt.Sprintf("date %q is not YYYY-MM-DD", r.Date))
	}
	if _, err := time.Parse(ReminderTimeLayout, r.Time); err != nil {
		return ReminderInvalid.With(fmt.Sprintf("time %q is not HH:MM", r.Time))
	}
	return nil
}

// At returns the reminder instant in loc.
func (r Reminder) At(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(ReminderDateLayout+"T"+ReminderTimeLayout, r.Date+"T"+r.Time, loc)
}

// DueAt reports whether the reminder is enabled and its instant is at or
// before now. Malformed reminders are never due.
func (r *Reminder) DueAt(now time.Time) bool {
	if r == nil || !r.Enabled {
		return false
	}
	at, err := r.At(now.Location())
	if err != nil {
		return false
	}
	return !at.After(now)
}
