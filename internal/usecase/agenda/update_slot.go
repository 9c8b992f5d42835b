package agenda

import (
	"context"

	"github.com/VillaMorraStudio/agenda-barberia/internal/audit"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/infra/repository"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type UpdateSlotInput struct {
	Status        *string
	CustomerName  *string
	CustomerPhone *string
	BarberID      *uint
	TotalCost     *float64
	PaymentStatus *string
	ServiceIDs    *[]uint
}

// ======================================================
// USE CASE
// ======================================================

type UpdateSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateSlot(repo domain.Repository, auditor *audit.Dispatcher) *UpdateSlot {
	return &UpdateSlot{repo: repo, audit: auditor}
}

// Execute applies an admin edit. Status changes go through the domain
// transition checks; releasing has its own use case and is rejected
// here to keep a single release path.
func (uc *UpdateSlot) Execute(
	ctx context.Context,
	slotID uint,
	userID *uint,
	in UpdateSlotInput,
) (*models.AppointmentSlot, error) {

	slot, err := uc.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, httperr.ErrBusiness("slot_not_found")
		}
		return nil, err
	}

	if in.Status != nil && *in.Status != slot.Status {
		switch domain.Status(*in.Status) {
		case domain.StatusConfirmed:
			if err := domain.Confirm(slot); err != nil {
				return nil, err
			}
		case domain.StatusCompleted:
			if err := domain.Complete(slot); err != nil {
				return nil, err
			}
		case domain.StatusAvailable:
			return nil, httperr.ErrBusiness("use_release")
		default:
			return nil, httperr.ErrBusiness("invalid_state")
		}
	}

	if in.CustomerName != nil {
		slot.CustomerName = *in.CustomerName
	}
	if in.CustomerPhone != nil {
		slot.CustomerPhone = *in.CustomerPhone
	}
	if in.BarberID != nil {
		slot.BarberID = in.BarberID
	}
	if in.TotalCost != nil {
		slot.TotalCost = *in.TotalCost
	}
	if in.PaymentStatus != nil {
		slot.PaymentStatus = *in.PaymentStatus
	}

	if in.ServiceIDs != nil {
		services, err := uc.repo.GetServicesByIDs(ctx, *in.ServiceIDs)
		if err != nil {
			return nil, err
		}
		byID := map[uint]models.Service{}
		for _, s := range services {
			byID[s.ID] = s
		}

		snapshot := make([]models.SlotService, 0, len(*in.ServiceIDs))
		total := 0.0
		for _, id := range *in.ServiceIDs {
			svc, ok := byID[id]
			if !ok {
				return nil, httperr.ErrBusiness("service_not_found")
			}
			snapshot = append(snapshot, models.SlotService{
				ServiceID:   svc.ID,
				Name:        svc.Name,
				Price:       svc.Price,
				DurationMin: svc.DurationMin,
			})
			total += svc.Price
		}

		if err := uc.repo.ReplaceSlotServices(ctx, slot.ID, snapshot); err != nil {
			return nil, err
		}
		slot.Services = snapshot
		if in.TotalCost == nil {
			slot.TotalCost = total
		}
	}

	if err := uc.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "slot_updated",
		Entity:   "appointment_slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}
