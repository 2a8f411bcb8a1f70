package engine

import (
	"context"
	"time"
)

// Limiter paces the tick loop to a fixed rate.
type Limiter struct {
	rate int
	next time.Time
}

// NewLimiter creates a limiter for rate ticks per second. A rate of zero or
// less disables pacing.
func NewLimiter(rate int) *Limiter {
	return &Limiter{rate: rate}
}

// Wait blocks until the next tick is due or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.rate <= 0 {
		l.next = time.Time{}
		return ctx.Err()
	}

	target := time.Second / time.Duration(l.rate)
	if l.next.IsZero() {
		l.next = time.Now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	if remaining := time.Until(l.next); remaining > 0 {
		t := time.NewTimer(remaining)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Resync after a hitch instead of bursting to catch up
	if late := -time.Until(l.next); late > target {
		l.next = time.Now().Add(target)
	}
	return nil
}
