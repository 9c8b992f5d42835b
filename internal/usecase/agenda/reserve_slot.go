package agenda

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/VillaMorraStudio/agenda-barberia/internal/clock"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
	"github.com/VillaMorraStudio/agenda-barberia/internal/notify"
	"github.com/VillaMorraStudio/agenda-barberia/internal/timezone"
	"github.com/VillaMorraStudio/agenda-barberia/internal/validators"
)

// A phone with a booking starting inside this window blocks a second
// reservation.
const duplicateWindow = 12 * time.Hour

// ======================================================
// INPUT
// ======================================================

type ReserveSlotInput struct {
	Date     string // YYYY-MM-DD
	Hour     string // HH:MM
	BarberID *uint

	CustomerName  string
	CustomerPhone string

	ServiceIDs []uint
}

// ======================================================
// USE CASE
// ======================================================

type ReserveSlot struct {
	repo   domain.Repository
	clock  clock.Clock
	notify *notify.Dispatcher
}

func NewReserveSlot(
	repo domain.Repository,
	clk clock.Clock,
	notifier *notify.Dispatcher,
) *ReserveSlot {
	return &ReserveSlot{
		repo:   repo,
		clock:  clk,
		notify: notifier,
	}
}

// Execute books an available slot. Everything between the duplicate
// check and the write is racy by nature, so the write itself is a
// conditional update on status = available; losing that race surfaces
// as slot_unavailable, never as a partial booking.
func (uc *ReserveSlot) Execute(
	ctx context.Context,
	in ReserveSlotInput,
) (*models.AppointmentSlot, error) {

	// --------------------------------------------------
	// 1. Input validation
	// --------------------------------------------------
	if !validators.IsValidCustomerName(in.CustomerName) {
		return nil, httperr.ErrBusiness("invalid_customer_name")
	}
	if !validators.IsValidCustomerPhone(in.CustomerPhone) {
		return nil, httperr.ErrBusiness("invalid_customer_phone")
	}
	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("missing_services")
	}

	date, err := time.ParseInLocation("2006-01-02", in.Date, timezone.Default())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	if _, err := time.Parse("15:04", in.Hour); err != nil {
		return nil, httperr.ErrBusiness("invalid_hour")
	}

	// --------------------------------------------------
	// 2. Duplicate-phone guard (12h look-ahead)
	// --------------------------------------------------
	now := uc.clock.Now()

	conflict, err := uc.repo.FindActiveBookingByPhone(
		ctx,
		in.CustomerPhone,
		now,
		now.Add(duplicateWindow),
	)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		dup := &domain.DuplicateBookingError{
			SlotID:   conflict.ID,
			Date:     conflict.Date,
			Hour:     conflict.Hour,
			BarberID: conflict.BarberID,
		}
		if conflict.Barber != nil {
			dup.BarberName = conflict.Barber.Name
		}
		return nil, dup
	}

	// --------------------------------------------------
	// 3. Service snapshot (price changes never travel back)
	// --------------------------------------------------
	services, err := uc.repo.GetServicesByIDs(ctx, in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	byID := map[uint]models.Service{}
	for _, s := range services {
		byID[s.ID] = s
	}

	snapshot := make([]models.SlotService, 0, len(in.ServiceIDs))
	total := 0.0
	for _, id := range in.ServiceIDs {
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

	// --------------------------------------------------
	// 4. Conditional reserve
	// --------------------------------------------------
	dayStart, dayEnd := domain.DayRange(domain.NormalizeDate(date))

	slot, err := uc.repo.ReserveSlot(
		ctx,
		dayStart,
		dayEnd,
		in.Hour,
		in.BarberID,
		domain.Reservation{
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			Services:      snapshot,
			TotalCost:     total,
			Reference:     uuid.NewString(),
		},
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Post-commit notification (fire and forget)
	// --------------------------------------------------
	uc.notify.Dispatch(notify.Event{
		Kind:  notify.EventReserved,
		Phone: slot.CustomerPhone,
		Name:  slot.CustomerName,
		Date:  slot.Date,
		Hour:  slot.Hour,
	})

	return slot, nil
}
