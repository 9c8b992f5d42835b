package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

type SlotGormRepository struct {
	db *gorm.DB
}

func NewSlotGormRepository(db *gorm.DB) *SlotGormRepository {
	return &SlotGormRepository{db: db}
}

// --------------------------------------------------
// Schedule configuration
// --------------------------------------------------

func (r *SlotGormRepository) ListScheduleEntries(
	ctx context.Context,
) ([]models.ScheduleEntry, error) {

	var entries []models.ScheduleEntry
	if err := r.db.WithContext(ctx).
		Order("hour ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *SlotGormRepository) GetScheduleDay(
	ctx context.Context,
	weekday string,
) (*models.ScheduleDay, error) {

	var day models.ScheduleDay
	if err := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		First(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

// --------------------------------------------------
// Roster
// --------------------------------------------------

func (r *SlotGormRepository) ListRosterBarbers(
	ctx context.Context,
) ([]models.Barber, error) {

	var barbers []models.Barber
	if err := r.db.WithContext(ctx).
		Where("active = true AND include_in_schedule = true").
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *SlotGormRepository) GetServicesByIDs(
	ctx context.Context,
	ids []uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND active = true", ids).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Slots (read)
// --------------------------------------------------

func (r *SlotGormRepository) ListSlotsForDay(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.AppointmentSlot, error) {

	var slots []models.AppointmentSlot
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("date >= ? AND date < ?", start, end).
		Order("hour ASC, id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotGormRepository) ListSlots(
	ctx context.Context,
	f domain.SlotFilter,
) ([]models.AppointmentSlot, error) {

	q := r.db.WithContext(ctx).
		Preload("Services").
		Preload("Barber")

	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date < ?", *f.To)
	}
	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var slots []models.AppointmentSlot
	if err := q.Order("date ASC, hour ASC, id ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotGormRepository) GetSlotByID(
	ctx context.Context,
	id uint,
) (*models.AppointmentSlot, error) {

	var slot models.AppointmentSlot
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Preload("Barber").
		First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SlotGormRepository) GetSlotByReference(
	ctx context.Context,
	ref string,
) (*models.AppointmentSlot, error) {

	var slot models.AppointmentSlot
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("reference = ?", ref).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *SlotGormRepository) FindActiveBookingByPhone(
	ctx context.Context,
	phone string,
	from time.Time,
	to time.Time,
) (*models.AppointmentSlot, error) {

	var slots []models.AppointmentSlot
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Where(
			"customer_phone = ? AND status IN ?",
			phone,
			[]string{"reserved", "confirmed"},
		).
		Find(&slots).Error; err != nil {
		return nil, err
	}

	// The start instant lives in (date, hour); filter in memory since
	// hour is a string column.
	for i := range slots {
		start := slots[i].StartsAt()
		if start.After(from) && !start.After(to) {
			return &slots[i], nil
		}
	}
	return nil, nil
}

// --------------------------------------------------
// Slots (write)
// --------------------------------------------------

func (r *SlotGormRepository) CreateSlots(
	ctx context.Context,
	slots []models.AppointmentSlot,
) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&slots).Error
}

// ReserveSlot is the only write path for bookings. The status guard in
// the WHERE clause makes the transition a compare-and-swap: of two
// concurrent reservations exactly one sees RowsAffected == 1.
func (r *SlotGormRepository) ReserveSlot(
	ctx context.Context,
	dayStart time.Time,
	dayEnd time.Time,
	hour string,
	barberID *uint,
	res domain.Reservation,
) (*models.AppointmentSlot, error) {

	var reserved models.AppointmentSlot

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		q := tx.Model(&models.AppointmentSlot{}).
			Where(
				"date >= ? AND date < ? AND hour = ? AND status = ?",
				dayStart, dayEnd, hour, "available",
			)

		if barberID != nil {
			q = q.Where("barber_id = ?", *barberID)
		} else {
			q = q.Where("barber_id IS NULL")
		}

		result := q.Updates(map[string]interface{}{
			"status":         "reserved",
			"customer_name":  res.CustomerName,
			"customer_phone": res.CustomerPhone,
			"total_cost":     res.TotalCost,
			"payment_status": "pending",
			"reference":      res.Reference,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return httperr.ErrBusiness("slot_unavailable")
		}

		slotQ := tx.Where(
			"date >= ? AND date < ? AND hour = ? AND reference = ?",
			dayStart, dayEnd, hour, res.Reference,
		)
		if err := slotQ.First(&reserved).Error; err != nil {
			return err
		}

		for i := range res.Services {
			res.Services[i].SlotID = reserved.ID
			res.Services[i].Position = i
		}
		if len(res.Services) > 0 {
			if err := tx.Create(&res.Services).Error; err != nil {
				return err
			}
		}

		reserved.Services = res.Services
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &reserved, nil
}

func (r *SlotGormRepository) ReleaseSlot(
	ctx context.Context,
	slotID uint,
) (*models.AppointmentSlot, error) {

	var slot models.AppointmentSlot

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.First(&slot, slotID).Error; err != nil {
			return err
		}

		if slot.Status == "available" {
			return nil // idempotent no-op
		}

		if err := tx.Model(&models.AppointmentSlot{}).
			Where("id = ?", slotID).
			Updates(map[string]interface{}{
				"status":         "available",
				"customer_name":  "",
				"customer_phone": "",
				"total_cost":     0,
				"payment_status": "",
				"reference":      "",
				"reminder_sent":  false,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("slot_id = ?", slotID).
			Delete(&models.SlotService{}).Error; err != nil {
			return err
		}

		return tx.First(&slot, slotID).Error
	})

	if err != nil {
		return nil, err
	}

	slot.Services = nil
	return &slot, nil
}

func (r *SlotGormRepository) UpdateSlot(
	ctx context.Context,
	slot *models.AppointmentSlot,
) error {
	return r.db.WithContext(ctx).
		Omit("Services", "Barber").
		Save(slot).Error
}

func (r *SlotGormRepository) ReplaceSlotServices(
	ctx context.Context,
	slotID uint,
	services []models.SlotService,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slot_id = ?", slotID).
			Delete(&models.SlotService{}).Error; err != nil {
			return err
		}

		for i := range services {
			services[i].ID = 0
			services[i].SlotID = slotID
			services[i].Position = i
		}
		if len(services) > 0 {
			return tx.Create(&services).Error
		}
		return nil
	})
}

func (r *SlotGormRepository) DeleteAvailableAutoSlots(
	ctx context.Context,
	start time.Time,
	end time.Time,
) (int64, error) {

	result := r.db.WithContext(ctx).
		Where(
			"date >= ? AND date < ? AND status = ? AND auto_generated = true",
			start, end, "available",
		).
		Delete(&models.AppointmentSlot{})

	return result.RowsAffected, result.Error
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *SlotGormRepository) ListDueReminders(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.AppointmentSlot, error) {

	dayStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	dayEnd := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)

	var slots []models.AppointmentSlot
	if err := r.db.WithContext(ctx).
		Where(
			"date >= ? AND date < ? AND status IN ? AND reminder_sent = false",
			dayStart, dayEnd,
			[]string{"reserved", "confirmed"},
		).
		Find(&slots).Error; err != nil {
		return nil, err
	}

	due := make([]models.AppointmentSlot, 0, len(slots))
	for i := range slots {
		start := slots[i].StartsAt()
		if start.After(from) && !start.After(to) {
			due = append(due, slots[i])
		}
	}
	return due, nil
}

func (r *SlotGormRepository) MarkReminderSent(
	ctx context.Context,
	ids []uint,
) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.AppointmentSlot{}).
		Where("id IN ?", ids).
		Update("reminder_sent", true).Error
}

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err is a Postgres unique-index
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Compile-time check
var _ domain.Repository = (*SlotGormRepository)(nil)
