// Package fetcher wraps platform API calls with pacing, bounded retry and a
// hard per-call timeout. It is purely a resilience wrapper: the only state it
// keeps across calls is the pacer's last-call timestamp per platform.
package fetcher

import (
	"context"
	"time"

	"socialpulse/pkg/config"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/ratelimit"
	"socialpulse/pkg/retry"
)

// Fetcher executes platform API calls under the configured resilience policy.
type Fetcher struct {
	pacer       *ratelimit.Pacer
	maxAttempts int
	backoff     retry.BackoffStrategy
	sleep       retry.SleepFunc
	timeout     time.Duration
	log         logger.Logger
}

// New builds a fetcher from the engine configuration. Each enabled platform
// gets its own pacing interval derived from its requests-per-minute budget.
func New(cfg *config.Config, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}

	pacer := ratelimit.NewPacer()
	for _, name := range []string{"instagram", "tiktok", "youtube", "twitter"} {
		pc := cfg.Platform(name)
		if pc.Enabled {
			pacer.SetInterval(name, ratelimit.IntervalForRate(pc.RequestsPerMinute))
		}
	}

	return &Fetcher{
		pacer:       pacer,
		maxAttempts: cfg.Retry.MaxAttempts,
		backoff: &retry.ExponentialBackoff{
			BaseDelay:    cfg.Retry.BaseDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		timeout: cfg.HTTP.Timeout,
		log:     log,
	}
}

// SetClock replaces the pacer clock and the retry sleeper, for tests.
func (f *Fetcher) SetClock(now func() time.Time, sleep retry.SleepFunc) {
	f.pacer.SetClock(now, ratelimit.SleepFunc(sleep))
	f.sleep = sleep
}

// Do runs op under the platform's pacing budget, retrying transient and
// rate-limit failures with exponential backoff. Each attempt gets a fresh
// per-call timeout. On exhausting retries the last error is surfaced
// unchanged in kind.
func (f *Fetcher) Do(ctx context.Context, platform string, op func(ctx context.Context) error) error {
	cfg := &retry.Config{
		MaxAttempts: f.maxAttempts,
		Backoff:     f.backoff,
		RetryIf:     retry.DefaultRetryIf,
		Context:     ctx,
		Sleep:       f.sleep,
		Logger:      f.log.WithField("platform", platform),
	}

	return retry.Do(func() error {
		if err := f.pacer.Wait(ctx, platform); err != nil {
			return err
		}

		callCtx := ctx
		if f.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, f.timeout)
			defer cancel()
		}
		return op(callCtx)
	}, cfg)
}
