package agenda

import (
	"context"
	"time"

	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

// Reservation carries the customer data written onto a slot when a
// booking succeeds.
type Reservation struct {
	CustomerName  string
	CustomerPhone string
	Services      []models.SlotService
	TotalCost     float64
	Reference     string
}

// SlotFilter narrows admin listings.
type SlotFilter struct {
	From     *time.Time
	To       *time.Time
	BarberID *uint
	Status   string
}

type Repository interface {
	// -------- Schedule configuration --------
	ListScheduleEntries(ctx context.Context) ([]models.ScheduleEntry, error)

	GetScheduleDay(ctx context.Context, weekday string) (*models.ScheduleDay, error)

	// -------- Roster --------
	ListRosterBarbers(ctx context.Context) ([]models.Barber, error)

	// -------- Services --------
	GetServicesByIDs(ctx context.Context, ids []uint) ([]models.Service, error)

	// -------- Slots (read) --------
	ListSlotsForDay(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.AppointmentSlot, error)

	ListSlots(ctx context.Context, f SlotFilter) ([]models.AppointmentSlot, error)

	GetSlotByID(ctx context.Context, id uint) (*models.AppointmentSlot, error)

	GetSlotByReference(ctx context.Context, ref string) (*models.AppointmentSlot, error)

	FindActiveBookingByPhone(
		ctx context.Context,
		phone string,
		from time.Time,
		to time.Time,
	) (*models.AppointmentSlot, error)

	// -------- Slots (write) --------
	CreateSlots(ctx context.Context, slots []models.AppointmentSlot) error

	// ReserveSlot must be a single conditional write: it transitions
	// the (day, hour, barber) slot from available to reserved and
	// attaches the reservation atomically. When the slot is missing or
	// no longer available it fails with the slot_unavailable business
	// error, never with a partial write.
	ReserveSlot(
		ctx context.Context,
		dayStart time.Time,
		dayEnd time.Time,
		hour string,
		barberID *uint,
		res Reservation,
	) (*models.AppointmentSlot, error)

	ReleaseSlot(ctx context.Context, slotID uint) (*models.AppointmentSlot, error)

	UpdateSlot(ctx context.Context, slot *models.AppointmentSlot) error

	ReplaceSlotServices(
		ctx context.Context,
		slotID uint,
		services []models.SlotService,
	) error

	DeleteAvailableAutoSlots(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) (int64, error)

	// -------- Reminders --------
	ListDueReminders(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.AppointmentSlot, error)

	MarkReminderSent(ctx context.Context, ids []uint) error
}
