package agenda

import (
	"context"
	"testing"

	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

func TestAvailabilityEmptyDay(t *testing.T) {
	repo := newFakeRepo()

	out, err := NewGetAvailability(repo).Execute(context.Background(), monday(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out == nil {
		t.Fatal("availability map is nil, want empty")
	}
	if len(out) != 0 {
		t.Fatalf("availability has %d hours, want 0", len(out))
	}
}

func TestAvailabilityPartitionsRosterPerHour(t *testing.T) {
	f := newReserveFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Execute(ctx, validInput(f)); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	out, err := NewGetAvailability(f.repo).Execute(ctx, monday(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	nine := out["09:00"]
	if nine == nil {
		t.Fatal("no entry for 09:00")
	}
	if len(nine.OccupiedBarbers) != 1 || nine.OccupiedBarbers[0] != f.barber1.ID {
		t.Fatalf("occupied at 09:00 = %v, want [%d]", nine.OccupiedBarbers, f.barber1.ID)
	}
	if len(nine.FreeBarbers) != 1 || nine.FreeBarbers[0] != f.barber2.ID {
		t.Fatalf("free at 09:00 = %v, want [%d]", nine.FreeBarbers, f.barber2.ID)
	}

	ten := out["10:00"]
	if ten == nil {
		t.Fatal("no entry for 10:00")
	}
	if len(ten.OccupiedBarbers) != 0 || len(ten.FreeBarbers) != 2 {
		t.Fatalf("10:00 = %v occupied / %v free, want 0/2", ten.OccupiedBarbers, ten.FreeBarbers)
	}
}

func TestAvailabilityOmitsUnassignedSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.slots = append(repo.slots, &models.AppointmentSlot{
		ID:     1,
		Date:   monday(t),
		Hour:   "09:00",
		Status: "available",
	})

	out, err := NewGetAvailability(repo).Execute(context.Background(), monday(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	nine := out["09:00"]
	if nine == nil {
		t.Fatal("hour with an unassigned slot should still appear")
	}
	if len(nine.OccupiedBarbers) != 0 || len(nine.FreeBarbers) != 0 {
		t.Fatalf("unassigned slot leaked barber ids: %v / %v",
			nine.OccupiedBarbers, nine.FreeBarbers)
	}
}

func TestAvailabilityAfterReleaseRoundTrip(t *testing.T) {
	f := newReserveFixture(t)
	ctx := context.Background()

	slot, err := f.uc.Execute(ctx, validInput(f))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := f.repo.ReleaseSlot(ctx, slot.ID); err != nil {
		t.Fatalf("release: %v", err)
	}

	out, err := NewGetAvailability(f.repo).Execute(ctx, monday(t))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	nine := out["09:00"]
	if nine == nil || len(nine.FreeBarbers) != 2 {
		t.Fatalf("09:00 after release = %+v, want both barbers free", nine)
	}
}
