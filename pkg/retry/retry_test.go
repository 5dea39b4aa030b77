package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "socialpulse/pkg/errors"
)

func noSleep(ctx context.Context, delay time.Duration) error { return nil }

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.0, // No jitter for predictable testing
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{1, 100 * time.Millisecond, "First attempt"},
		{2, 200 * time.Millisecond, "Second attempt"},
		{3, 400 * time.Millisecond, "Third attempt"},
		{4, 800 * time.Millisecond, "Fourth attempt"},
		{5, 1 * time.Second, "Fifth attempt (capped at max)"},
		{6, 1 * time.Second, "Sixth attempt (still capped)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if delay := backoff.NextDelay(test.attempt); delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestExponentialBackoffJitterNeverUndershoots(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}

	for attempt := 1; attempt <= 4; attempt++ {
		floor := 100 * time.Millisecond << (attempt - 1)
		ceiling := floor + floor/10
		for i := 0; i < 200; i++ {
			delay := backoff.NextDelay(attempt)
			if delay < floor {
				t.Fatalf("attempt %d: delay %v below floor %v", attempt, delay, floor)
			}
			if delay > ceiling {
				t.Fatalf("attempt %d: delay %v above ceiling %v", attempt, delay, ceiling)
			}
		}
	}
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := Do(func() error {
		attempts++
		if attempts < 3 {
			return errs.Transient("instagram", "temporary failure")
		}
		return nil
	}, &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Second},
		RetryIf:     DefaultRetryIf,
		Sleep:       noSleep,
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestDoExhaustionReturnsLastErrorUnchanged(t *testing.T) {
	last := errs.RateLimit("tiktok", "quota exhausted")
	attempts := 0

	err := Do(func() error {
		attempts++
		return last
	}, &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Second},
		RetryIf:     DefaultRetryIf,
		Sleep:       noSleep,
	})

	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if !errors.Is(err, last) {
		t.Errorf("Expected last error returned unchanged, got %v", err)
	}
	if !errs.IsKind(err, errs.KindRateLimit) {
		t.Errorf("Expected rate_limit kind to survive exhaustion, got %v", errs.KindOf(err))
	}
}

func TestDoDoesNotSleepAfterFinalAttempt(t *testing.T) {
	sleeps := 0
	err := Do(func() error {
		return errs.Transient("instagram", "still failing")
	}, &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Second},
		RetryIf:     DefaultRetryIf,
		Sleep: func(ctx context.Context, delay time.Duration) error {
			sleeps++
			return nil
		},
	})

	if err == nil {
		t.Fatal("Expected exhaustion error")
	}
	// Only the waits between attempts, never one after the last.
	if sleeps != 2 {
		t.Errorf("Expected 2 backoff sleeps for 3 attempts, got %d", sleeps)
	}
}

func TestDoDoesNotRetryNonRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth error", errs.Auth("twitter", "bad key")},
		{"not found", errs.NotFound("twitter", "no such user")},
		{"validation", errs.Validation("twitter", "bad record")},
		{"context cancelled", context.Canceled},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			attempts := 0
			err := Do(func() error {
				attempts++
				return test.err
			}, &Config{
				MaxAttempts: 5,
				Backoff:     &ConstantBackoff{Delay: time.Second},
				RetryIf:     DefaultRetryIf,
				Sleep:       noSleep,
			})

			if attempts != 1 {
				t.Errorf("Expected 1 attempt, got %d", attempts)
			}
			if !errors.Is(err, test.err) {
				t.Errorf("Expected %v, got %v", test.err, err)
			}
		})
	}
}

func TestDoStopsOnContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(func() error {
		attempts++
		return errs.Transient("youtube", "flaky")
	}, &Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: time.Hour},
		RetryIf:     DefaultRetryIf,
		Context:     ctx,
		Sleep:       Wait,
	})

	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", errs.Transient("instagram", "flaky")
		}
		return "profile", nil
	}, &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Second},
		RetryIf:     DefaultRetryIf,
		Sleep:       noSleep,
	})

	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if result != "profile" {
		t.Errorf("Expected 'profile', got %q", result)
	}
}
