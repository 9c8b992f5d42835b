package agenda

import (
	"time"
)

// DuplicateBookingError is returned when a phone number already holds
// an upcoming booking. It carries the conflicting slot's coordinates
// so the caller can show them.
type DuplicateBookingError struct {
	SlotID     uint
	Date       time.Time
	Hour       string
	BarberID   *uint
	BarberName string
}

func (e *DuplicateBookingError) Error() string {
	return "duplicate_active_booking"
}
