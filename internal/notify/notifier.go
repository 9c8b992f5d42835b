package notify

import "context"

// Notifier is the outbound message gateway. The WhatsApp HTTP client
// implements it in production; tests plug a fake.
type Notifier interface {
	SendMessage(ctx context.Context, phone string, text string) error
}
