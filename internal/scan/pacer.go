package scan

import (
	"context"
	"time"
)

// Pacer spaces successive RPC attempts to respect provider rate limits.
// Implementations must return early when the context is canceled.
type Pacer interface {
	Pause(ctx context.Context) error
}

// FixedPacer pauses for a fixed interval.
type FixedPacer struct {
	Interval time.Duration
}

// Pause blocks for the configured interval or until the context ends.
func (p FixedPacer) Pause(ctx context.Context) error {
	if p.Interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Interval)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
