package agenda

import (
	"context"
	"time"

	"github.com/VillaMorraStudio/agenda-barberia/internal/audit"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
)

type CleanupSlots struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCleanupSlots(repo domain.Repository, auditor *audit.Dispatcher) *CleanupSlots {
	return &CleanupSlots{repo: repo, audit: auditor}
}

// Execute removes auto-generated slots still available on the given
// date. Booked slots are never touched; this is the admin's follow-up
// after disabling a weekday, since generation itself never deletes.
func (uc *CleanupSlots) Execute(
	ctx context.Context,
	date time.Time,
	userID *uint,
) (int64, error) {

	dayStart, dayEnd := domain.DayRange(domain.NormalizeDate(date))

	removed, err := uc.repo.DeleteAvailableAutoSlots(ctx, dayStart, dayEnd)
	if err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID: userID,
		Action: "slots_cleaned",
		Entity: "appointment_slot",
	})

	return removed, nil
}
