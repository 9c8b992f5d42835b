package agenda

import (
	"context"
	"time"

	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

type ListSlots struct {
	repo domain.Repository
}

func NewListSlots(repo domain.Repository) *ListSlots {
	return &ListSlots{repo: repo}
}

type ListSlotsInput struct {
	Date     *time.Time
	BarberID *uint
	Status   string
}

func (uc *ListSlots) Execute(
	ctx context.Context,
	in ListSlotsInput,
) ([]models.AppointmentSlot, error) {

	f := domain.SlotFilter{
		BarberID: in.BarberID,
		Status:   in.Status,
	}

	if in.Date != nil {
		start, end := domain.DayRange(domain.NormalizeDate(*in.Date))
		f.From = &start
		f.To = &end
	}

	slots, err := uc.repo.ListSlots(ctx, f)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.AppointmentSlot{}
	}
	return slots, nil
}
