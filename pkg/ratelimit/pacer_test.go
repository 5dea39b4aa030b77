package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fakeClock advances on sleep instead of waiting.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	cancel error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, delay time.Duration) error {
	if c.cancel != nil {
		return c.cancel
	}
	c.slept = append(c.slept, delay)
	c.now = c.now.Add(delay)
	return nil
}

func TestPacerFirstCallPassesThrough(t *testing.T) {
	clock := newFakeClock()
	p := NewPacer()
	p.SetInterval("instagram", 2*time.Second)
	p.SetClock(clock.Now, clock.Sleep)

	if err := p.Wait(context.Background(), "instagram"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Errorf("Expected no sleep on first call, slept %v", clock.slept)
	}
}

func TestPacerEnforcesInterval(t *testing.T) {
	clock := newFakeClock()
	p := NewPacer()
	p.SetInterval("instagram", 2*time.Second)
	p.SetClock(clock.Now, clock.Sleep)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := p.Wait(ctx, "instagram"); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
	}

	if len(clock.slept) != 2 {
		t.Fatalf("Expected 2 sleeps, got %d", len(clock.slept))
	}
	for i, d := range clock.slept {
		if d != 2*time.Second {
			t.Errorf("Sleep %d: expected 2s, got %v", i, d)
		}
	}
}

func TestPacerPlatformsAreIndependent(t *testing.T) {
	clock := newFakeClock()
	p := NewPacer()
	p.SetInterval("instagram", 2*time.Second)
	p.SetInterval("tiktok", 2*time.Second)
	p.SetClock(clock.Now, clock.Sleep)

	ctx := context.Background()
	if err := p.Wait(ctx, "instagram"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := p.Wait(ctx, "tiktok"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if len(clock.slept) != 0 {
		t.Errorf("Expected no cross-platform throttling, slept %v", clock.slept)
	}
}

func TestPacerUnconfiguredPlatformUnthrottled(t *testing.T) {
	clock := newFakeClock()
	p := NewPacer()
	p.SetClock(clock.Now, clock.Sleep)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := p.Wait(ctx, "youtube"); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if len(clock.slept) != 0 {
		t.Errorf("Expected no sleeps, got %v", clock.slept)
	}
}

func TestPacerPropagatesCancellation(t *testing.T) {
	clock := newFakeClock()
	clock.cancel = context.Canceled
	p := NewPacer()
	p.SetInterval("twitter", time.Second)
	p.SetClock(clock.Now, clock.Sleep)

	ctx := context.Background()
	if err := p.Wait(ctx, "twitter"); err != nil {
		t.Fatalf("first Wait failed: %v", err)
	}
	if err := p.Wait(ctx, "twitter"); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestIntervalForRate(t *testing.T) {
	tests := []struct {
		rpm      int
		expected time.Duration
	}{
		{60, time.Second},
		{30, 2 * time.Second},
		{120, 500 * time.Millisecond},
		{0, 0},
		{-1, 0},
	}

	for _, test := range tests {
		if got := IntervalForRate(test.rpm); got != test.expected {
			t.Errorf("IntervalForRate(%d): expected %v, got %v", test.rpm, test.expected, got)
		}
	}
}
