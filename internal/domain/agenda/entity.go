package agenda

import (
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(slot *models.AppointmentSlot) error {
	if err := CanConfirm(Status(slot.Status)); err != nil {
		return err
	}

	slot.Status = string(StatusConfirmed)
	return nil
}

func Complete(slot *models.AppointmentSlot) error {
	if err := CanComplete(Status(slot.Status)); err != nil {
		return err
	}

	slot.Status = string(StatusCompleted)
	return nil
}

// Release resets a slot back to available in place. The row survives
// so the hour's capacity is restored, not recreated. Barber assignment
// is kept so regenerated availability stays stable.
func Release(slot *models.AppointmentSlot) {
	slot.Status = string(StatusAvailable)
	slot.CustomerName = ""
	slot.CustomerPhone = ""
	slot.Services = nil
	slot.TotalCost = 0
	slot.PaymentStatus = string(PaymentNone)
	slot.Reference = ""
	slot.ReminderSent = false
}
