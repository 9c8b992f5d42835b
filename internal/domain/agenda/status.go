package agenda

import "github.com/VillaMorraStudio/agenda-barberia/internal/httperr"

// ===============================
// Slot Status
// ===============================

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusAvailable, StatusReserved, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// Occupied reports whether the slot is taken from the client's point
// of view (anything that is not available blocks the hour).
func Occupied(current Status) bool {
	return current != StatusAvailable
}

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentNone    PaymentStatus = ""
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentWaived  PaymentStatus = "waived"
)

// ===============================
// Transitions
// ===============================

func CanConfirm(current Status) error {
	if current != StatusReserved {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusReserved && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
