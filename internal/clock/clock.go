package clock

import (
	"time"

	"github.com/VillaMorraStudio/agenda-barberia/internal/timezone"
)

// Clock abstracts "now" so use cases and workers can be tested
// against a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return timezone.Now()
}

// System returns a clock pinned to the shop timezone.
func System() Clock {
	return systemClock{}
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}
