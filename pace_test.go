package ponder

import (
	"context"
	"testing"
	"time"
)

// fakeGateClock wires deterministic time and captured sleeps into a gate.
func fakeGateClock(g *PacingGate, start time.Time) (advance func(time.Duration), slept *time.Duration) {
	current := start
	var total time.Duration

	g.now = func() time.Time { return current }
	g.sleep = func(_ context.Context, d time.Duration) error {
		total += d
		current = current.Add(d)
		return nil
	}

	return func(d time.Duration) { current = current.Add(d) }, &total
}

func TestPacingGateFirstCallNeverWaits(t *testing.T) {
	g := NewPacingGate(2 * time.Second)
	_, slept := fakeGateClock(g, time.Now())

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *slept != 0 {
		t.Errorf("first call slept %v, expected none", *slept)
	}
}

func TestPacingGateWaitsRemainingInterval(t *testing.T) {
	g := NewPacingGate(2 * time.Second)
	advance, slept := fakeGateClock(g, time.Now())

	g.Mark()
	advance(500 * time.Millisecond)

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *slept != 1500*time.Millisecond {
		t.Errorf("slept %v, expected 1.5s", *slept)
	}
}

func TestPacingGateSkipsWaitAfterInterval(t *testing.T) {
	g := NewPacingGate(2 * time.Second)
	advance, slept := fakeGateClock(g, time.Now())

	g.Mark()
	advance(3 * time.Second)

	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *slept != 0 {
		t.Errorf("slept %v, expected none once interval elapsed", *slept)
	}
}

func TestPacingGateZeroIntervalDisabled(t *testing.T) {
	g := NewPacingGate(0)
	_, slept := fakeGateClock(g, time.Now())

	g.Mark()
	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *slept != 0 {
		t.Errorf("slept %v with zero interval", *slept)
	}
}

func TestPacingGateMarkAdvancesWindow(t *testing.T) {
	g := NewPacingGate(1 * time.Second)
	advance, slept := fakeGateClock(g, time.Now())

	g.Mark()
	advance(time.Second)
	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *slept != 0 {
		t.Fatalf("unexpected sleep %v", *slept)
	}

	// A fresh Mark restarts the interval.
	g.Mark()
	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *slept != time.Second {
		t.Errorf("slept %v, expected full interval after immediate re-entry", *slept)
	}
}

func TestPacingGateHonorsCancellation(t *testing.T) {
	g := NewPacingGate(time.Minute)
	g.Mark()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Wait(ctx); err == nil {
		t.Error("expected context error while sleeping")
	}
}
