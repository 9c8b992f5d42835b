package agenda

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/VillaMorraStudio/agenda-barberia/internal/clock"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
	"github.com/VillaMorraStudio/agenda-barberia/internal/notify"
	"github.com/VillaMorraStudio/agenda-barberia/internal/timezone"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *fakeNotifier) SendMessage(ctx context.Context, phone string, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, phone+" "+text)
	return nil
}

type reserveFixture struct {
	repo    *fakeRepo
	uc      *ReserveSlot
	corte   models.Service
	barba   models.Service
	barber1 models.Barber
	barber2 models.Barber
}

// newReserveFixture builds the lunes 09:00 scenario: two roster
// barbers, two catalog services, slots for 09:00 and 10:00 already
// generated. The clock is frozen at 08:00 that same morning.
func newReserveFixture(t *testing.T) *reserveFixture {
	t.Helper()

	repo := newFakeRepo()
	repo.addEntry("09:00", []string{"lunes"}, true)
	repo.addEntry("10:00", []string{"lunes"}, true)

	f := &reserveFixture{
		repo:    repo,
		corte:   repo.addService("Corte", 50000, 30, true),
		barba:   repo.addService("Barba", 30000, 20, true),
		barber1: repo.addBarber("Carlos", true, true),
		barber2: repo.addBarber("Miguel", true, true),
	}

	if _, err := NewGenerateSlots(repo).Execute(context.Background(), monday(t)); err != nil {
		t.Fatalf("generate: %v", err)
	}

	now := time.Date(2026, time.September, 7, 8, 0, 0, 0, timezone.Default())
	f.uc = NewReserveSlot(repo, clock.Fixed(now), notify.NewDispatcher(&fakeNotifier{}))
	return f
}

func validInput(f *reserveFixture) ReserveSlotInput {
	id := f.barber1.ID
	return ReserveSlotInput{
		Date:          "2026-09-07",
		Hour:          "09:00",
		BarberID:      &id,
		CustomerName:  "Juan Pérez",
		CustomerPhone: "0981123456",
		ServiceIDs:    []uint{f.corte.ID, f.barba.ID},
	}
}

func TestReserveHappyPath(t *testing.T) {
	f := newReserveFixture(t)

	slot, err := f.uc.Execute(context.Background(), validInput(f))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if slot.Status != "reserved" {
		t.Fatalf("status = %q, want reserved", slot.Status)
	}
	if slot.CustomerName != "Juan Pérez" || slot.CustomerPhone != "0981123456" {
		t.Fatalf("customer not written: %q %q", slot.CustomerName, slot.CustomerPhone)
	}
	if slot.TotalCost != 80000 {
		t.Fatalf("total = %v, want 80000", slot.TotalCost)
	}
	if slot.PaymentStatus != "pending" {
		t.Fatalf("payment status = %q, want pending", slot.PaymentStatus)
	}
	if slot.Reference == "" {
		t.Fatal("reference not assigned")
	}

	if len(slot.Services) != 2 {
		t.Fatalf("snapshot = %d services, want 2", len(slot.Services))
	}
	if slot.Services[0].Name != "Corte" || slot.Services[1].Name != "Barba" {
		t.Fatalf("snapshot out of request order: %q, %q",
			slot.Services[0].Name, slot.Services[1].Name)
	}
	if slot.Services[0].Price != 50000 {
		t.Fatalf("snapshot price = %v, want 50000", slot.Services[0].Price)
	}
}

func TestReserveSameSlotTwiceFails(t *testing.T) {
	f := newReserveFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Execute(ctx, validInput(f)); err != nil {
		t.Fatalf("first reserve: %v", err)
	}

	in := validInput(f)
	in.CustomerName = "Pedro Gómez"
	in.CustomerPhone = "0972987654"

	_, err := f.uc.Execute(ctx, in)
	if !httperr.IsBusiness(err, "slot_unavailable") {
		t.Fatalf("second reserve err = %v, want slot_unavailable", err)
	}
}

func TestReserveConcurrentOnlyOneWins(t *testing.T) {
	f := newReserveFixture(t)

	phones := []string{"0981123456", "0972987654"}
	errs := make([]error, len(phones))

	var wg sync.WaitGroup
	for i, phone := range phones {
		wg.Add(1)
		go func(i int, phone string) {
			defer wg.Done()
			in := validInput(f)
			in.CustomerPhone = phone
			_, errs[i] = f.uc.Execute(context.Background(), in)
		}(i, phone)
	}
	wg.Wait()

	won, lost := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case httperr.IsBusiness(err, "slot_unavailable"):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("won=%d lost=%d, want exactly one of each", won, lost)
	}
}

func TestReserveValidation(t *testing.T) {
	f := newReserveFixture(t)

	cases := []struct {
		name   string
		mutate func(*ReserveSlotInput)
		code   string
	}{
		{"short name", func(in *ReserveSlotInput) { in.CustomerName = "Jo" }, "invalid_customer_name"},
		{"digits in name", func(in *ReserveSlotInput) { in.CustomerName = "Juan123" }, "invalid_customer_name"},
		{"landline phone", func(in *ReserveSlotInput) { in.CustomerPhone = "021123456" }, "invalid_customer_phone"},
		{"short phone", func(in *ReserveSlotInput) { in.CustomerPhone = "0981" }, "invalid_customer_phone"},
		{"no services", func(in *ReserveSlotInput) { in.ServiceIDs = nil }, "missing_services"},
		{"bad date", func(in *ReserveSlotInput) { in.Date = "07-09-2026" }, "invalid_date"},
		{"bad hour", func(in *ReserveSlotInput) { in.Hour = "9am" }, "invalid_hour"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput(f)
			tc.mutate(&in)
			_, err := f.uc.Execute(context.Background(), in)
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
		})
	}
}

func TestReserveUnknownServiceRejected(t *testing.T) {
	f := newReserveFixture(t)

	in := validInput(f)
	in.ServiceIDs = []uint{9999}

	_, err := f.uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "service_not_found") {
		t.Fatalf("err = %v, want service_not_found", err)
	}
}

func TestReserveInactiveServiceRejected(t *testing.T) {
	f := newReserveFixture(t)
	tinte := f.repo.addService("Tinte", 90000, 60, false)

	in := validInput(f)
	in.ServiceIDs = []uint{tinte.ID}

	_, err := f.uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "service_not_found") {
		t.Fatalf("err = %v, want service_not_found", err)
	}
}

func TestReserveDuplicatePhoneBlocked(t *testing.T) {
	f := newReserveFixture(t)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, validInput(f))
	if err != nil {
		t.Fatalf("first reserve: %v", err)
	}

	// same phone, different hour and barber
	in := validInput(f)
	in.Hour = "10:00"
	id := f.barber2.ID
	in.BarberID = &id

	_, err = f.uc.Execute(ctx, in)

	var dup *domain.DuplicateBookingError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateBookingError", err)
	}
	if dup.SlotID != first.ID || dup.Hour != "09:00" {
		t.Fatalf("conflict points at slot %d %s, want %d 09:00", dup.SlotID, dup.Hour, first.ID)
	}
}

func TestReserveOutsideLookAheadWindowAllowed(t *testing.T) {
	f := newReserveFixture(t)
	ctx := context.Background()

	// existing booking tomorrow morning, well past the look-ahead
	tomorrow := domain.NormalizeDate(monday(t).AddDate(0, 0, 1))
	id := f.barber1.ID
	f.repo.slots = append(f.repo.slots, &models.AppointmentSlot{
		ID:            900,
		Date:          tomorrow,
		Hour:          "10:00",
		Status:        "reserved",
		CustomerPhone: "0981123456",
		BarberID:      &id,
	})

	if _, err := f.uc.Execute(ctx, validInput(f)); err != nil {
		t.Fatalf("reserve blocked by a booking outside the window: %v", err)
	}
}

func TestReserveReleasedSlotAgain(t *testing.T) {
	f := newReserveFixture(t)
	ctx := context.Background()

	slot, err := f.uc.Execute(ctx, validInput(f))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	release := NewReleaseSlot(f.repo, auditOff(), notify.NewDispatcher(&fakeNotifier{}))
	if _, err := release.Execute(ctx, slot.ID, nil); err != nil {
		t.Fatalf("release: %v", err)
	}

	in := validInput(f)
	in.CustomerName = "Pedro Gómez"
	in.CustomerPhone = "0972987654"

	again, err := f.uc.Execute(ctx, in)
	if err != nil {
		t.Fatalf("re-reserve: %v", err)
	}
	if again.ID != slot.ID {
		t.Fatalf("re-reserve landed on slot %d, want released slot %d", again.ID, slot.ID)
	}
}
