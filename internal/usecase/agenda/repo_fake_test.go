package agenda

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/VillaMorraStudio/agenda-barberia/internal/audit"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

// fakeRepo is an in-memory Repository. The mutex makes ReserveSlot a
// real compare-and-swap so concurrent reservation tests behave like
// the conditional update in Postgres.
type fakeRepo struct {
	mu sync.Mutex

	entries  []models.ScheduleEntry
	days     map[string]*models.ScheduleDay
	barbers  []models.Barber
	services map[uint]models.Service
	slots    []*models.AppointmentSlot

	nextID uint
}

// auditOff is an audit dispatcher with no sink, for use cases that
// emit audit events the tests do not inspect.
func auditOff() *audit.Dispatcher {
	return audit.NewDispatcher(nil)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		days:     map[string]*models.ScheduleDay{},
		services: map[uint]models.Service{},
	}
}

func (r *fakeRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *fakeRepo) addEntry(hour string, days []string, active bool) {
	e := models.ScheduleEntry{ID: r.id(), Hour: hour, Active: active}
	e.SetDays(days)
	r.entries = append(r.entries, e)
}

func (r *fakeRepo) setDay(weekday string, enabled bool) {
	r.days[weekday] = &models.ScheduleDay{ID: r.id(), Weekday: weekday, Enabled: enabled}
}

func (r *fakeRepo) addBarber(name string, active, include bool) models.Barber {
	b := models.Barber{ID: r.id(), Name: name, Active: active, IncludeInSchedule: include}
	r.barbers = append(r.barbers, b)
	return b
}

func (r *fakeRepo) addService(name string, price float64, duration int, active bool) models.Service {
	s := models.Service{ID: r.id(), Name: name, Price: price, DurationMin: duration, Active: active}
	r.services[s.ID] = s
	return s
}

// ---------- Repository ----------

func (r *fakeRepo) ListScheduleEntries(ctx context.Context) ([]models.ScheduleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ScheduleEntry{}, r.entries...), nil
}

func (r *fakeRepo) GetScheduleDay(ctx context.Context, weekday string) (*models.ScheduleDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.days[weekday]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) ListRosterBarbers(ctx context.Context) ([]models.Barber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Barber
	for _, b := range r.barbers {
		if b.InRoster() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetServicesByIDs(ctx context.Context, ids []uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, id := range ids {
		if s, ok := r.services[id]; ok && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListSlotsForDay(ctx context.Context, start, end time.Time) ([]models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AppointmentSlot
	for _, s := range r.slots {
		if !s.Date.Before(start) && s.Date.Before(end) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListSlots(ctx context.Context, f domain.SlotFilter) ([]models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AppointmentSlot
	for _, s := range r.slots {
		if f.From != nil && s.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.Date.Before(*f.To) {
			continue
		}
		if f.BarberID != nil && (s.BarberID == nil || *s.BarberID != *f.BarberID) {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeRepo) GetSlotByID(ctx context.Context, id uint) (*models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) GetSlotByReference(ctx context.Context, ref string) (*models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.Reference == ref && ref != "" {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) FindActiveBookingByPhone(ctx context.Context, phone string, from, to time.Time) (*models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.CustomerPhone != phone {
			continue
		}
		if s.Status != "reserved" && s.Status != "confirmed" {
			continue
		}
		start := s.StartsAt()
		if start.After(from) && !start.After(to) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) CreateSlots(ctx context.Context, slots []models.AppointmentSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range slots {
		s := slots[i]
		s.ID = r.id()
		r.slots = append(r.slots, &s)
	}
	return nil
}

func (r *fakeRepo) ReserveSlot(
	ctx context.Context,
	dayStart, dayEnd time.Time,
	hour string,
	barberID *uint,
	res domain.Reservation,
) (*models.AppointmentSlot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.Date.Before(dayStart) || !s.Date.Before(dayEnd) {
			continue
		}
		if s.Hour != hour || s.Status != "available" {
			continue
		}
		if barberID != nil {
			if s.BarberID == nil || *s.BarberID != *barberID {
				continue
			}
		} else if s.BarberID != nil {
			continue
		}

		s.Status = "reserved"
		s.CustomerName = res.CustomerName
		s.CustomerPhone = res.CustomerPhone
		s.TotalCost = res.TotalCost
		s.PaymentStatus = "pending"
		s.Reference = res.Reference
		for i := range res.Services {
			res.Services[i].SlotID = s.ID
			res.Services[i].Position = i
		}
		s.Services = res.Services

		copied := *s
		return &copied, nil
	}

	return nil, httperr.ErrBusiness("slot_unavailable")
}

func (r *fakeRepo) ReleaseSlot(ctx context.Context, slotID uint) (*models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.ID != slotID {
			continue
		}
		s.Status = "available"
		s.CustomerName = ""
		s.CustomerPhone = ""
		s.Services = nil
		s.TotalCost = 0
		s.PaymentStatus = ""
		s.Reference = ""
		s.ReminderSent = false
		copied := *s
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) UpdateSlot(ctx context.Context, slot *models.AppointmentSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.slots {
		if s.ID == slot.ID {
			copied := *slot
			r.slots[i] = &copied
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeRepo) ReplaceSlotServices(ctx context.Context, slotID uint, services []models.SlotService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.slots {
		if s.ID == slotID {
			for i := range services {
				services[i].SlotID = slotID
				services[i].Position = i
			}
			s.Services = services
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeRepo) DeleteAvailableAutoSlots(ctx context.Context, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*models.AppointmentSlot
	var removed int64
	for _, s := range r.slots {
		if !s.Date.Before(start) && s.Date.Before(end) &&
			s.Status == "available" && s.AutoGenerated {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.slots = kept
	return removed, nil
}

func (r *fakeRepo) ListDueReminders(ctx context.Context, from, to time.Time) ([]models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AppointmentSlot
	for _, s := range r.slots {
		if s.ReminderSent {
			continue
		}
		if s.Status != "reserved" && s.Status != "confirmed" {
			continue
		}
		start := s.StartsAt()
		if start.After(from) && !start.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkReminderSent(ctx context.Context, ids []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	marked := map[uint]bool{}
	for _, id := range ids {
		marked[id] = true
	}
	for _, s := range r.slots {
		if marked[s.ID] {
			s.ReminderSent = true
		}
	}
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)
