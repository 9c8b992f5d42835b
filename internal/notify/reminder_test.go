package notify

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/VillaMorraStudio/agenda-barberia/internal/clock"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

type capturingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *capturingNotifier) SendMessage(ctx context.Context, phone string, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, phone+" "+text)
	return nil
}

func (n *capturingNotifier) snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.sent...)
}

// waitForSends polls until the notifier saw n messages. Dispatch is
// asynchronous, so the test gives the worker a moment to drain.
func waitForSends(t *testing.T, n *capturingNotifier, want int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := n.snapshot(); len(got) >= want {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("notifier saw %d sends, want %d", len(n.snapshot()), want)
	return nil
}

// reminderRepo covers only the two repository calls the sweeper makes.
type reminderRepo struct {
	domain.Repository

	mu     sync.Mutex
	slots  []models.AppointmentSlot
	marked []uint
}

func (r *reminderRepo) ListDueReminders(ctx context.Context, from, to time.Time) ([]models.AppointmentSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	markedSet := map[uint]bool{}
	for _, id := range r.marked {
		markedSet[id] = true
	}

	var out []models.AppointmentSlot
	for _, s := range r.slots {
		if markedSet[s.ID] || s.ReminderSent {
			continue
		}
		start := s.StartsAt()
		if start.After(from) && !start.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *reminderRepo) MarkReminderSent(ctx context.Context, ids []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked = append(r.marked, ids...)
	return nil
}

type stubLocker struct {
	allow  bool
	locked int
}

func (l *stubLocker) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.locked++
	return l.allow, nil
}

func (l *stubLocker) Unlock(ctx context.Context, key string) error { return nil }

func dueSlot(id uint, start time.Time, phone, name string) models.AppointmentSlot {
	return models.AppointmentSlot{
		ID:            id,
		Date:          time.Date(start.Year(), start.Month(), start.Day(), 12, 0, 0, 0, start.Location()),
		Hour:          start.Format("15:04"),
		Status:        "reserved",
		CustomerName:  name,
		CustomerPhone: phone,
	}
}

func TestSweepFlagsAndQueuesDueReminders(t *testing.T) {
	now := time.Date(2026, time.September, 7, 8, 30, 0, 0, time.UTC)

	repo := &reminderRepo{slots: []models.AppointmentSlot{
		dueSlot(1, now.Add(40*time.Minute), "0981123456", "Juan"),
		dueSlot(2, now.Add(55*time.Minute), "0972987654", "Ana"),
		dueSlot(3, now.Add(3*time.Hour), "0961555444", "Luis"), // outside the lead
	}}

	notifier := &capturingNotifier{}
	sweeper := NewReminderSweeper(repo, NewDispatcher(notifier), nil, clock.Fixed(now), time.Hour)

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	repo.mu.Lock()
	marked := append([]uint{}, repo.marked...)
	repo.mu.Unlock()
	if len(marked) != 2 {
		t.Fatalf("marked = %v, want slots 1 and 2", marked)
	}

	sent := waitForSends(t, notifier, 2)
	for _, msg := range sent {
		if !strings.Contains(msg, "recordamos") {
			t.Fatalf("message is not a reminder: %q", msg)
		}
	}
	for _, msg := range sent {
		if strings.HasPrefix(msg, "0961") {
			t.Fatalf("slot outside the lead window got a reminder: %q", msg)
		}
	}
}

func TestSweepIsIdempotentAcrossRuns(t *testing.T) {
	now := time.Date(2026, time.September, 7, 8, 30, 0, 0, time.UTC)

	repo := &reminderRepo{slots: []models.AppointmentSlot{
		dueSlot(1, now.Add(40*time.Minute), "0981123456", "Juan"),
	}}

	notifier := &capturingNotifier{}
	sweeper := NewReminderSweeper(repo, NewDispatcher(notifier), nil, clock.Fixed(now), time.Hour)
	ctx := context.Background()

	if err := sweeper.Sweep(ctx); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if err := sweeper.Sweep(ctx); err != nil {
		t.Fatalf("second sweep: %v", err)
	}

	repo.mu.Lock()
	marks := len(repo.marked)
	repo.mu.Unlock()
	if marks != 1 {
		t.Fatalf("slot marked %d times, want once", marks)
	}
}

func TestSweepYieldsWhenLockHeldElsewhere(t *testing.T) {
	now := time.Date(2026, time.September, 7, 8, 30, 0, 0, time.UTC)

	repo := &reminderRepo{slots: []models.AppointmentSlot{
		dueSlot(1, now.Add(40*time.Minute), "0981123456", "Juan"),
	}}

	locker := &stubLocker{allow: false}
	sweeper := NewReminderSweeper(repo, NewDispatcher(&capturingNotifier{}), locker, clock.Fixed(now), time.Hour)

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if locker.locked != 1 {
		t.Fatalf("lock attempts = %d, want 1", locker.locked)
	}
	repo.mu.Lock()
	marks := len(repo.marked)
	repo.mu.Unlock()
	if marks != 0 {
		t.Fatal("sweep ran without holding the lock")
	}
}

func TestSweepNothingDue(t *testing.T) {
	now := time.Date(2026, time.September, 7, 8, 30, 0, 0, time.UTC)

	repo := &reminderRepo{}
	notifier := &capturingNotifier{}
	sweeper := NewReminderSweeper(repo, NewDispatcher(notifier), nil, clock.Fixed(now), time.Hour)

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(notifier.snapshot()) != 0 {
		t.Fatal("reminders sent with nothing due")
	}
}
