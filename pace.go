package ponder

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// PacingGate enforces a minimum wall-clock interval between consecutive
// thoughts in one session. It only delays, never fails: the first call in a
// session passes immediately, and later calls sleep for whatever remains of
// the interval. It is not a retry or backoff mechanism.
//
// The gate assumes calls arrive serialized by its owner.
type PacingGate struct {
	interval time.Duration
	last     time.Time

	// Injectable for tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewPacingGate creates a gate with the given minimum interval. A zero or
// negative interval disables waiting entirely.
func NewPacingGate(interval time.Duration) *PacingGate {
	return &PacingGate{
		interval: interval,
		now:      time.Now,
		sleep:    sleepFor,
	}
}

// Wait suspends until the minimum interval since the previous completed
// thought has elapsed. It returns early only if the context is canceled
// while sleeping.
func (g *PacingGate) Wait(ctx context.Context) error {
	if g.last.IsZero() || g.interval <= 0 {
		return nil
	}

	remaining := g.interval - g.now().Sub(g.last)
	if remaining <= 0 {
		return nil
	}

	capitan.Emit(ctx, PacingWaited,
		FieldWaitDuration.Field(remaining),
	)

	return g.sleep(ctx, remaining)
}

// Mark records the completion instant of the current thought. Subsequent
// Wait calls measure the interval from this point.
func (g *PacingGate) Mark() {
	g.last = g.now()
}

func sleepFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
