package fetcher

import (
	"context"
	"testing"
	"time"

	"socialpulse/pkg/config"
	errs "socialpulse/pkg/errors"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, delay time.Duration) error {
	c.slept += delay
	c.now = c.now.Add(delay)
	return nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Retry.MaxAttempts = 3
	cfg.Retry.BaseDelay = time.Second
	cfg.Retry.MaxDelay = 10 * time.Second
	return cfg
}

func TestDoRetriesRateLimitThenSucceeds(t *testing.T) {
	clock := newFakeClock()
	f := New(testConfig(), nil)
	f.SetClock(clock.Now, clock.Sleep)

	attempts := 0
	err := f.Do(context.Background(), "instagram", func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errs.RateLimit("instagram", "slow down")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	// Two backoff waits of at least 1s and 2s, plus pacing. Jitter only
	// ever adds to the wait.
	if clock.slept < 3*time.Second {
		t.Errorf("Expected at least 3s of backoff, slept %v", clock.slept)
	}
}

func TestDoSurfacesLastErrorKindOnExhaustion(t *testing.T) {
	clock := newFakeClock()
	f := New(testConfig(), nil)
	f.SetClock(clock.Now, clock.Sleep)

	attempts := 0
	err := f.Do(context.Background(), "tiktok", func(ctx context.Context) error {
		attempts++
		return errs.Transient("tiktok", "upstream 503")
	})

	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if !errs.IsKind(err, errs.KindTransient) {
		t.Errorf("Expected transient kind to survive exhaustion, got %v", err)
	}
}

func TestDoDoesNotRetryAuthErrors(t *testing.T) {
	clock := newFakeClock()
	f := New(testConfig(), nil)
	f.SetClock(clock.Now, clock.Sleep)

	attempts := 0
	err := f.Do(context.Background(), "twitter", func(ctx context.Context) error {
		attempts++
		return errs.Auth("twitter", "key rejected")
	})

	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
	if !errs.IsKind(err, errs.KindAuth) {
		t.Errorf("Expected auth error, got %v", err)
	}
}

func TestDoAppliesPerCallTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Timeout = 5 * time.Second

	f := New(cfg, nil)
	clock := newFakeClock()
	f.SetClock(clock.Now, clock.Sleep)

	var sawDeadline bool
	err := f.Do(context.Background(), "youtube", func(ctx context.Context) error {
		_, sawDeadline = ctx.Deadline()
		return nil
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if !sawDeadline {
		t.Error("Expected per-call context to carry a deadline")
	}
}
