package agenda

import (
	"context"
	"time"

	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/dto"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute partitions the roster per hour into occupied and free based
// on the day's slots. Read-only; an empty schedule yields an empty map.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	date time.Time,
) (dto.AvailabilityByHour, error) {

	dayStart, dayEnd := domain.DayRange(domain.NormalizeDate(date))

	slots, err := uc.repo.ListSlotsForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	out := dto.AvailabilityByHour{}
	if len(slots) == 0 {
		return out, nil
	}

	for _, s := range slots {
		hour := out[s.Hour]
		if hour == nil {
			hour = &dto.HourAvailability{
				OccupiedBarbers: []uint{},
				FreeBarbers:     []uint{},
			}
			out[s.Hour] = hour
		}

		if s.BarberID == nil {
			continue
		}

		if domain.Occupied(domain.Status(s.Status)) {
			hour.OccupiedBarbers = append(hour.OccupiedBarbers, *s.BarberID)
		} else {
			hour.FreeBarbers = append(hour.FreeBarbers, *s.BarberID)
		}
	}

	return out, nil
}
