package notify

import (
	"context"
	"fmt"
	"log"
	"time"
)

type EventKind string

const (
	EventReserved  EventKind = "reserved"
	EventConfirmed EventKind = "confirmed"
	EventCancelled EventKind = "cancelled"
	EventReminder  EventKind = "reminder"
)

type Event struct {
	Kind  EventKind
	Phone string
	Name  string
	Date  time.Time
	Hour  string
}

// Dispatcher publishes booking events to the message gateway from a
// background goroutine. Delivery is best effort: the booking write has
// already committed by the time an event is queued, and a failed send
// is only logged.
type Dispatcher struct {
	notifier Notifier
	queue    chan Event
}

func NewDispatcher(notifier Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := d.notifier.SendMessage(ctx, ev.Phone, messageFor(ev)); err != nil {
			log.Printf("notify error (%s to %s): %v", ev.Kind, ev.Phone, err)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if ev.Phone == "" {
		return
	}
	select {
	case d.queue <- ev:
	default:
		log.Println("notify queue full, dropping event")
	}
}

func messageFor(ev Event) string {
	day := ev.Date.Format("02/01/2006")

	switch ev.Kind {
	case EventReserved:
		return fmt.Sprintf(
			"Hola %s! Tu turno quedó reservado para el %s a las %s. Te esperamos!",
			ev.Name, day, ev.Hour,
		)
	case EventConfirmed:
		return fmt.Sprintf(
			"Hola %s! Tu turno del %s a las %s está confirmado.",
			ev.Name, day, ev.Hour,
		)
	case EventCancelled:
		return fmt.Sprintf(
			"Hola %s, tu turno del %s a las %s fue cancelado. Podés reservar otro horario cuando quieras.",
			ev.Name, day, ev.Hour,
		)
	case EventReminder:
		return fmt.Sprintf(
			"Hola %s! Te recordamos tu turno de hoy a las %s. Te esperamos!",
			ev.Name, ev.Hour,
		)
	}
	return ""
}
