package agenda

import (
	"context"
	"sort"
	"time"

	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/infra/repository"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

// ======================================================
// OUTPUT
// ======================================================

type HourGeneration struct {
	Hour    string `json:"hour"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

type GenerateResult struct {
	Date        time.Time        `json:"date"`
	Weekday     string           `json:"weekday"`
	Created     int              `json:"created"`
	Skipped     int              `json:"skipped"`
	SlotsByHour []HourGeneration `json:"slots_by_hour"`
}

// ======================================================
// USE CASE
// ======================================================

type GenerateSlots struct {
	repo domain.Repository
}

func NewGenerateSlots(repo domain.Repository) *GenerateSlots {
	return &GenerateSlots{repo: repo}
}

// Execute fills the agenda for one date: one available slot per roster
// barber per enabled hour. Re-running is a no-op for hours already at
// full coverage; slots are only ever added, never removed here.
func (uc *GenerateSlots) Execute(
	ctx context.Context,
	date time.Time,
) (*GenerateResult, error) {

	date = domain.NormalizeDate(date)
	weekday := domain.WeekdayName(date)

	result := &GenerateResult{
		Date:        date,
		Weekday:     weekday,
		SlotsByHour: []HourGeneration{},
	}

	// --------------------------------------------------
	// 1. Weekday master switch (missing row counts as enabled)
	// --------------------------------------------------
	day, err := uc.repo.GetScheduleDay(ctx, weekday)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if day != nil && !day.Enabled {
		return result, nil // closed day
	}

	// --------------------------------------------------
	// 2. Enabled hours for this weekday
	// --------------------------------------------------
	entries, err := uc.repo.ListScheduleEntries(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var hours []string
	for _, e := range entries {
		if !e.Active || !e.HasDay(weekday) {
			continue
		}
		if !seen[e.Hour] {
			seen[e.Hour] = true
			hours = append(hours, e.Hour)
		}
	}
	sort.Strings(hours)

	if len(hours) == 0 {
		return result, nil // no configuration, closed day
	}

	// --------------------------------------------------
	// 3. Roster
	// --------------------------------------------------
	barbers, err := uc.repo.ListRosterBarbers(ctx)
	if err != nil {
		return nil, err
	}

	barberCount := len(barbers)
	if barberCount == 0 {
		barberCount = 1
	}

	// --------------------------------------------------
	// 4. Existing slots, one range query for the whole day
	// --------------------------------------------------
	dayStart, dayEnd := domain.DayRange(date)
	existing, err := uc.repo.ListSlotsForDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	type hourKey struct {
		hour   string
		barber uint
	}
	taken := map[hourKey]bool{}
	countByHour := map[string]int{}
	nullByHour := map[string]bool{}
	for _, s := range existing {
		countByHour[s.Hour]++
		if s.BarberID != nil {
			taken[hourKey{s.Hour, *s.BarberID}] = true
		} else {
			nullByHour[s.Hour] = true
		}
	}

	// --------------------------------------------------
	// 5. Top up each hour to barberCount, round-robin
	// --------------------------------------------------
	var toCreate []models.AppointmentSlot

	for _, hour := range hours {
		hg := HourGeneration{Hour: hour, Skipped: countByHour[hour]}

		missing := barberCount - countByHour[hour]
		if missing <= 0 {
			result.SlotsByHour = append(result.SlotsByHour, hg)
			continue
		}

		if len(barbers) == 0 {
			if !nullByHour[hour] {
				toCreate = append(toCreate, newSlot(date, hour, weekday, nil))
				hg.Created++
			}
		} else {
			for i := 0; i < len(barbers) && hg.Created < missing; i++ {
				b := barbers[i%len(barbers)]
				if taken[hourKey{hour, b.ID}] {
					continue
				}
				taken[hourKey{hour, b.ID}] = true
				id := b.ID
				toCreate = append(toCreate, newSlot(date, hour, weekday, &id))
				hg.Created++
			}
		}

		result.Created += hg.Created
		result.SlotsByHour = append(result.SlotsByHour, hg)
	}

	for _, hg := range result.SlotsByHour {
		result.Skipped += hg.Skipped
	}

	if err := uc.repo.CreateSlots(ctx, toCreate); err != nil {
		return nil, err
	}

	return result, nil
}

// ExecuteRange generates day by day over [from, to] inclusive.
func (uc *GenerateSlots) ExecuteRange(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]GenerateResult, error) {

	from = domain.NormalizeDate(from)
	to = domain.NormalizeDate(to)

	var results []GenerateResult
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		res, err := uc.Execute(ctx, d)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}

func newSlot(date time.Time, hour, weekday string, barberID *uint) models.AppointmentSlot {
	return models.AppointmentSlot{
		Date:          date,
		Hour:          hour,
		Weekday:       weekday,
		Status:        string(domain.StatusAvailable),
		BarberID:      barberID,
		AutoGenerated: true,
	}
}
