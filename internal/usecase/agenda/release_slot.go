package agenda

import (
	"context"

	"github.com/VillaMorraStudio/agenda-barberia/internal/audit"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/infra/repository"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
	"github.com/VillaMorraStudio/agenda-barberia/internal/notify"
)

type ReleaseSlot struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewReleaseSlot(
	repo domain.Repository,
	auditor *audit.Dispatcher,
	notifier *notify.Dispatcher,
) *ReleaseSlot {
	return &ReleaseSlot{
		repo:   repo,
		audit:  auditor,
		notify: notifier,
	}
}

// Execute resets a booked slot back to available in place. Releasing
// an already-available slot returns it unchanged.
func (uc *ReleaseSlot) Execute(
	ctx context.Context,
	slotID uint,
	userID *uint,
) (*models.AppointmentSlot, error) {

	current, err := uc.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, httperr.ErrBusiness("slot_not_found")
		}
		return nil, err
	}

	if current.Status == string(domain.StatusAvailable) {
		return current, nil
	}

	phone := current.CustomerPhone
	name := current.CustomerName

	released, err := uc.repo.ReleaseSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "slot_released",
		Entity:   "appointment_slot",
		EntityID: &released.ID,
	})

	if phone != "" {
		uc.notify.Dispatch(notify.Event{
			Kind:  notify.EventCancelled,
			Phone: phone,
			Name:  name,
			Date:  released.Date,
			Hour:  released.Hour,
		})
	}

	return released, nil
}
