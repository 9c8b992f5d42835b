package models

import "time"

type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`

	Active            bool `gorm:"default:true" json:"active"`
	IncludeInSchedule bool `gorm:"default:true" json:"include_in_schedule"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InRoster reports whether the barber receives generated slots.
func (b *Barber) InRoster() bool {
	return b.Active && b.IncludeInSchedule
}
