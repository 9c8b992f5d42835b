package models

import (
	"strings"
	"time"
)

// ScheduleEntry is one bookable hour of the weekly grid. Days holds the
// Spanish weekday names the hour is open on, comma separated.
type ScheduleEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Hour   string `gorm:"size:5;uniqueIndex;not null" json:"hour"` // "HH:MM"
	Days   string `gorm:"size:120" json:"days"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *ScheduleEntry) DayList() []string {
	if strings.TrimSpace(e.Days) == "" {
		return nil
	}
	parts := strings.Split(e.Days, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if d := strings.TrimSpace(strings.ToLower(p)); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func (e *ScheduleEntry) HasDay(weekday string) bool {
	for _, d := range e.DayList() {
		if d == weekday {
			return true
		}
	}
	return false
}

func (e *ScheduleEntry) SetDays(days []string) {
	e.Days = strings.Join(days, ",")
}

// ScheduleDay is the per-weekday master switch. A disabled weekday
// closes every hour on that day regardless of entry configuration.
type ScheduleDay struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Weekday string `gorm:"size:12;uniqueIndex;not null" json:"weekday"`
	Enabled bool   `gorm:"default:true" json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
