package models

import "time"

// AppointmentSlot is one bookable (date, hour, barber) unit. Slots are
// generated ahead of time as "available" and mutated in place; a
// cancelled booking is released back to available, never deleted.
type AppointmentSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Date is normalized to 12:00 shop-local so the calendar day never
	// drifts across UTC conversions.
	Date    time.Time `gorm:"index:idx_slot_date_hour" json:"date"`
	Hour    string    `gorm:"size:5;index:idx_slot_date_hour" json:"hour"`
	Weekday string    `gorm:"size:12" json:"weekday"`

	Status string `gorm:"size:20;default:'available'" json:"status"`

	CustomerName  string `gorm:"size:100" json:"customer_name"`
	CustomerPhone string `gorm:"size:20;index" json:"customer_phone"`

	BarberID *uint   `gorm:"index:idx_slot_date_hour" json:"barber_id"`
	Barber   *Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber,omitempty"`

	Services []SlotService `gorm:"foreignKey:SlotID" json:"services"`

	TotalCost     float64 `json:"total_cost"`
	PaymentStatus string  `gorm:"size:20" json:"payment_status"`

	Reference string `gorm:"size:36;index" json:"reference"`

	AutoGenerated bool `json:"auto_generated"`
	ReminderSent  bool `gorm:"default:false" json:"reminder_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotService is a snapshot of a catalog service at booking time.
type SlotService struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	SlotID uint `gorm:"index;not null" json:"slot_id"`

	ServiceID uint `json:"service_id"`
	Position  int  `json:"position"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`
}

// StartsAt combines Date and Hour into the slot's start instant.
func (s *AppointmentSlot) StartsAt() time.Time {
	hh, mm := 0, 0
	if t, err := time.Parse("15:04", s.Hour); err == nil {
		hh, mm = t.Hour(), t.Minute()
	}
	return time.Date(
		s.Date.Year(), s.Date.Month(), s.Date.Day(),
		hh, mm, 0, 0,
		s.Date.Location(),
	)
}
