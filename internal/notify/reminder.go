package notify

import (
	"context"
	"log"
	"time"

	"github.com/VillaMorraStudio/agenda-barberia/internal/clock"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/lock"
)

const sweepLockKey = "reminder_sweep"

// ReminderSweeper wakes every minute, flags slots starting within the
// lead window and queues a reminder for each. The flag update lands
// before the send; a failed send is logged and not retried, so a slot
// never gets two reminders.
type ReminderSweeper struct {
	repo       domain.Repository
	dispatcher *Dispatcher
	locker     lock.Locker
	clock      clock.Clock
	lead       time.Duration
	interval   time.Duration
}

func NewReminderSweeper(
	repo domain.Repository,
	dispatcher *Dispatcher,
	locker lock.Locker,
	clk clock.Clock,
	lead time.Duration,
) *ReminderSweeper {
	if lead <= 0 {
		lead = time.Hour
	}
	return &ReminderSweeper{
		repo:       repo,
		dispatcher: dispatcher,
		locker:     locker,
		clock:      clk,
		lead:       lead,
		interval:   time.Minute,
	}
}

func (s *ReminderSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("reminder sweep failed: %v", err)
			}
		}
	}
}

func (s *ReminderSweeper) Sweep(ctx context.Context) error {
	if s.locker != nil {
		ok, err := s.locker.Lock(ctx, sweepLockKey, s.interval)
		if err != nil {
			return err
		}
		if !ok {
			return nil // another replica holds the sweep
		}
		defer func() {
			if err := s.locker.Unlock(ctx, sweepLockKey); err != nil {
				log.Printf("reminder sweep unlock failed: %v", err)
			}
		}()
	}

	now := s.clock.Now()

	due, err := s.repo.ListDueReminders(ctx, now, now.Add(s.lead))
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(due))
	for _, slot := range due {
		ids = append(ids, slot.ID)
	}
	if err := s.repo.MarkReminderSent(ctx, ids); err != nil {
		return err
	}

	for _, slot := range due {
		s.dispatcher.Dispatch(Event{
			Kind:  EventReminder,
			Phone: slot.CustomerPhone,
			Name:  slot.CustomerName,
			Date:  slot.Date,
			Hour:  slot.Hour,
		})
	}

	return nil
}
