// Package collector orchestrates collection runs: it walks the tracked
// accounts, drives the platform adapters through the rate-limited fetcher,
// and records a per-account audit entry for every attempt. Platforms run
// concurrently; accounts within a platform run one at a time.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errs "socialpulse/pkg/errors"
	"socialpulse/pkg/ingest"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/models"
	"socialpulse/pkg/platforms"
	"socialpulse/pkg/store"
)

// DefaultPostLimit is the per-account post cap when none is given.
const DefaultPostLimit = 20

// Options narrows a collection run. Zero values mean no filter.
type Options struct {
	// Platform restricts the run to one platform.
	Platform models.Platform

	// Usernames restricts the run to the named accounts.
	Usernames []string

	// PostLimit caps posts collected per account.
	PostLimit int
}

// Collector runs collections over the tracked accounts.
type Collector struct {
	store    store.Store
	writer   *ingest.Writer
	adapters map[models.Platform]platforms.Adapter
	log      logger.Logger
	now      func() time.Time

	locks keyedMutex
}

// New creates a collector. Only platforms present in adapters participate
// in runs.
func New(st store.Store, writer *ingest.Writer, adapters map[models.Platform]platforms.Adapter, log logger.Logger) *Collector {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Collector{
		store:    st,
		writer:   writer,
		adapters: adapters,
		log:      log,
		now:      time.Now,
	}
}

// SetClock replaces the collector's clock, for tests.
func (c *Collector) SetClock(now func() time.Time) {
	c.now = now
}

// Collect runs one collection pass. Per-account failures are recorded in the
// run's log entries and never abort the run; the returned error is reserved
// for run bookkeeping failures and context cancellation. A cancelled run is
// finalized with the entries recorded so far; nothing already ingested is
// rolled back.
func (c *Collector) Collect(ctx context.Context, opts Options) (*models.CollectionRun, error) {
	if opts.PostLimit <= 0 {
		opts.PostLimit = DefaultPostLimit
	}

	run := &models.CollectionRun{
		ID:        uuid.NewString(),
		StartedAt: c.now(),
	}
	if err := c.store.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	accounts, err := c.targets(ctx, opts)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(map[string]interface{}{
		"run_id":   run.ID,
		"accounts": len(accounts),
	}).Info("collection run started")

	byPlatform := make(map[models.Platform][]models.Account)
	for _, a := range accounts {
		byPlatform[a.Platform] = append(byPlatform[a.Platform], a)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for platform, group := range byPlatform {
		adapter, ok := c.adapters[platform]
		if !ok {
			// Still part of the run's audit trail.
			c.log.WithField("platform", string(platform)).Warn("no adapter configured")
			mu.Lock()
			for _, account := range group {
				now := c.now()
				run.Entries = append(run.Entries, models.CollectionLogEntry{
					RunID:        run.ID,
					AccountID:    account.ID,
					Platform:     platform,
					Username:     account.Username,
					Status:       models.StatusFailed,
					ErrorMessage: "no adapter configured for platform",
					StartedAt:    now,
					FinishedAt:   now,
				})
			}
			mu.Unlock()
			continue
		}

		platform, group := platform, group
		g.Go(func() error {
			authDead := false
			for _, account := range group {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				account := account
				entry := models.CollectionLogEntry{
					RunID:     run.ID,
					AccountID: account.ID,
					Platform:  platform,
					Username:  account.Username,
					StartedAt: c.now(),
				}

				if authDead {
					entry.Status = models.StatusFailed
					entry.ErrorMessage = "platform disabled for this run after auth failure"
					entry.FinishedAt = c.now()
				} else {
					var accErr error
					entry, accErr = c.collectAccount(gctx, adapter, &account, opts.PostLimit, entry)
					if errs.IsKind(accErr, errs.KindAuth) {
						authDead = true
					}
				}

				mu.Lock()
				run.Entries = append(run.Entries, entry)
				mu.Unlock()
			}
			return nil
		})
	}

	runErr := g.Wait()

	// Finalization must not depend on a cancelled context.
	run.FinishedAt = c.now()
	if err := c.store.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		return run, err
	}

	c.log.WithFields(map[string]interface{}{
		"run_id":  run.ID,
		"entries": len(run.Entries),
	}).Info("collection run finished")

	return run, runErr
}

// collectAccount processes one account: profile upsert, post fetch, post
// writes. The keyed lock guards against concurrent re-entry for the same
// account across overlapping runs.
func (c *Collector) collectAccount(ctx context.Context, adapter platforms.Adapter, account *models.Account, postLimit int, entry models.CollectionLogEntry) (models.CollectionLogEntry, error) {
	unlock := c.locks.lock(account.ID)
	defer unlock()

	log := c.log.WithFields(map[string]interface{}{
		"platform": string(account.Platform),
		"username": account.Username,
	})

	finish := func(status models.EntryStatus, written int, errMsg string) models.CollectionLogEntry {
		entry.Status = status
		entry.PostsCollected = written
		entry.ErrorMessage = errMsg
		entry.FinishedAt = c.now()
		return entry
	}

	profile, err := adapter.FetchProfile(ctx, account.Username)
	if err != nil {
		log.WithError(err).Error("profile fetch failed")
		return finish(models.StatusFailed, 0, err.Error()), err
	}

	if _, err := c.writer.UpsertAccount(ctx, profile); err != nil {
		log.WithError(err).Error("account write failed")
		return finish(models.StatusFailed, 0, err.Error()), err
	}

	// Re-read to pick up the id on first collection.
	stored, err := c.store.GetAccount(ctx, account.Platform, account.Username)
	if err != nil {
		log.WithError(err).Error("account lookup failed")
		return finish(models.StatusFailed, 0, err.Error()), err
	}
	entry.AccountID = stored.ID

	// The profile snapshot is ingested at this point, so any post failure
	// degrades the entry to partial rather than failed.
	snaps, fetchErr := adapter.FetchPosts(ctx, account.Username, postLimit)

	written, skipped, writeErr := c.writer.WritePosts(ctx, stored, snaps)
	if writeErr != nil {
		log.WithError(writeErr).Error("post write failed")
		return finish(models.StatusPartial, written, writeErr.Error()), writeErr
	}

	if fetchErr != nil {
		log.WithError(fetchErr).Error("post fetch failed")
		return finish(models.StatusPartial, written, fetchErr.Error()), fetchErr
	}

	if skipped > 0 {
		return finish(models.StatusPartial, written, errs.Validation(string(account.Platform), "%d post(s) skipped", skipped).Error()), nil
	}

	log.WithField("posts", written).Info("account collected")
	return finish(models.StatusSuccess, written, ""), nil
}

// targets resolves the accounts a run should visit, in ascending id order.
func (c *Collector) targets(ctx context.Context, opts Options) ([]models.Account, error) {
	accounts, err := c.store.ListAccounts(ctx, opts.Platform)
	if err != nil {
		return nil, err
	}
	if len(opts.Usernames) == 0 {
		return accounts, nil
	}

	wanted := make(map[string]bool, len(opts.Usernames))
	for _, u := range opts.Usernames {
		wanted[platforms.NormalizeUsername(u)] = true
	}

	var out []models.Account
	for _, a := range accounts {
		if wanted[a.Username] {
			out = append(out, a)
		}
	}
	return out, nil
}

// keyedMutex serializes work per account id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedMutex) lock(id int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
