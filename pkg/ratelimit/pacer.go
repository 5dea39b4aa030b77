package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SleepFunc waits for a delay or returns early on context cancellation.
type SleepFunc func(ctx context.Context, delay time.Duration) error

func defaultSleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pacer enforces a minimum inter-request interval per platform. Platforms are
// independent rate domains, so each keyed slot tracks its own last-call time.
// The only state is that timestamp; callers queue by reserving the next slot
// under the lock, then sleeping outside it.
type Pacer struct {
	mu        sync.Mutex
	intervals map[string]time.Duration
	next      map[string]time.Time

	now   func() time.Time
	sleep SleepFunc
}

// NewPacer creates a pacer with no intervals configured. Platforms without an
// interval pass through unthrottled.
func NewPacer() *Pacer {
	return &Pacer{
		intervals: make(map[string]time.Duration),
		next:      make(map[string]time.Time),
		now:       time.Now,
		sleep:     defaultSleep,
	}
}

// SetInterval configures the minimum spacing between requests for a platform.
func (p *Pacer) SetInterval(platform string, interval time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intervals[platform] = interval
}

// SetClock replaces the wall clock and sleeper, for tests.
func (p *Pacer) SetClock(now func() time.Time, sleep SleepFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if now != nil {
		p.now = now
	}
	if sleep != nil {
		p.sleep = sleep
	}
}

// Wait blocks until the platform's pacing budget allows another request.
func (p *Pacer) Wait(ctx context.Context, platform string) error {
	p.mu.Lock()
	interval := p.intervals[platform]
	now := p.now()

	slot := p.next[platform]
	if slot.Before(now) {
		slot = now
	}
	p.next[platform] = slot.Add(interval)
	sleep := p.sleep
	p.mu.Unlock()

	if wait := slot.Sub(now); wait > 0 {
		return sleep(ctx, wait)
	}
	return nil
}

// IntervalForRate converts a requests-per-minute budget into the minimum
// spacing between requests.
func IntervalForRate(requestsPerMinute int) time.Duration {
	if requestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(requestsPerMinute)
}
