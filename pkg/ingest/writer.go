// Package ingest writes adapter snapshots into the store under the engine's
// upsert rules: identity rows are found or created, mutable profile fields
// are overwritten, post descriptive fields are immutable after first sight,
// and a metric snapshot is appended on every collection without exception.
package ingest

import (
	"context"
	"errors"
	"time"

	errs "socialpulse/pkg/errors"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/models"
	"socialpulse/pkg/store"
)

// Writer persists profile and post snapshots.
type Writer struct {
	store store.Store
	log   logger.Logger
	now   func() time.Time
}

// New creates a writer over the given store.
func New(st store.Store, log logger.Logger) *Writer {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Writer{
		store: st,
		log:   log,
		now:   time.Now,
	}
}

// SetClock replaces the writer's clock, for tests.
func (w *Writer) SetClock(now func() time.Time) {
	w.now = now
}

// UpsertAccount applies a profile snapshot: the account row is found or
// created by (platform, username), its mutable profile fields are
// overwritten, and an account metric snapshot is appended unconditionally.
func (w *Writer) UpsertAccount(ctx context.Context, profile *models.ProfileSnapshot) (*models.Account, error) {
	if profile.Username == "" {
		return nil, errs.Validation(string(profile.Platform), "profile snapshot has no username")
	}

	account, err := w.store.GetAccount(ctx, profile.Platform, profile.Username)
	switch {
	case err == nil:
		account.AccountID = profile.AccountID
		account.DisplayName = profile.DisplayName
		account.Bio = profile.Bio
		account.FollowerCount = profile.FollowerCount
		account.FollowingCount = profile.FollowingCount
		account.PostCount = profile.PostCount
		if err := w.store.UpdateAccountProfile(ctx, account); err != nil {
			return nil, err
		}
	case errors.Is(err, store.ErrNotFound):
		account = &models.Account{
			Platform:       profile.Platform,
			Username:       profile.Username,
			AccountID:      profile.AccountID,
			DisplayName:    profile.DisplayName,
			Bio:            profile.Bio,
			FollowerCount:  profile.FollowerCount,
			FollowingCount: profile.FollowingCount,
			PostCount:      profile.PostCount,
		}
		if err := w.store.CreateAccount(ctx, account); err != nil {
			return nil, err
		}
		w.log.WithFields(map[string]interface{}{
			"platform": string(profile.Platform),
			"username": profile.Username,
		}).Info("tracking new account")
	default:
		return nil, err
	}

	snap := &models.AccountMetricSnapshot{
		AccountID:      account.ID,
		CollectedAt:    w.now(),
		FollowerCount:  profile.FollowerCount,
		FollowingCount: profile.FollowingCount,
		PostCount:      profile.PostCount,
	}
	if err := w.store.AddAccountMetrics(ctx, snap); err != nil {
		return nil, err
	}

	return account, nil
}

// UpsertPost applies a post snapshot for an account: the post row is found
// or created by (platform, platform_post_id) with its descriptive fields
// frozen at first sight, and a post metric snapshot is appended. A snapshot
// with no id or no publish time is rejected with a validation error and
// nothing is written.
func (w *Writer) UpsertPost(ctx context.Context, account *models.Account, snap models.PostSnapshot) (*models.Post, error) {
	if snap.PlatformPostID == "" {
		return nil, errs.Validation(string(snap.Platform), "post snapshot has no id")
	}
	if snap.PublishedAt.IsZero() {
		return nil, errs.Validation(string(snap.Platform), "post %s has no publish time", snap.PlatformPostID)
	}

	post := &models.Post{
		AccountID:      account.ID,
		Platform:       snap.Platform,
		PlatformPostID: snap.PlatformPostID,
		PostType:       snap.PostType,
		Caption:        snap.Caption,
		URL:            snap.URL,
		ThumbnailURL:   snap.ThumbnailURL,
		PublishedAt:    snap.PublishedAt,
	}
	if err := w.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	metric := &models.PostMetricSnapshot{
		PostID:      post.ID,
		CollectedAt: w.now(),
		Views:       snap.Views,
		Likes:       snap.Likes,
		Comments:    snap.Comments,
		Shares:      snap.Shares,
		Saves:       snap.Saves,
	}
	if err := w.store.AddPostMetrics(ctx, metric); err != nil {
		return nil, err
	}

	return post, nil
}

// WritePosts applies a batch of post snapshots. Validation failures are
// skipped and counted; any other error aborts the batch.
func (w *Writer) WritePosts(ctx context.Context, account *models.Account, snaps []models.PostSnapshot) (written, skipped int, err error) {
	for _, snap := range snaps {
		if _, err := w.UpsertPost(ctx, account, snap); err != nil {
			if errs.IsKind(err, errs.KindValidation) {
				w.log.WithError(err).WithFields(map[string]interface{}{
					"platform": string(snap.Platform),
					"post_id":  snap.PlatformPostID,
				}).Warn("skipping invalid post snapshot")
				skipped++
				continue
			}
			return written, skipped, err
		}
		written++
	}
	return written, skipped, nil
}
