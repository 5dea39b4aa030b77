// Package store defines the persisted-state contract the collection engine
// writes through. Accounts and posts are identity rows; metric snapshots are
// append-only facts and are never updated or deleted by ingestion.
package store

import (
	"context"
	"errors"

	"socialpulse/pkg/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// PostQuery filters and orders the posts-with-latest-metrics read-back.
// Zero values mean no filter; ByViews orders by latest view count descending
// instead of publish time.
type PostQuery struct {
	Platform  models.Platform
	AccountID int64
	ByViews   bool
	Limit     int
}

// Store is the persisted-state backend.
type Store interface {
	// CreateAccount inserts a new tracked account and fills its id.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccount looks up an account by its (platform, username) identity.
	GetAccount(ctx context.Context, platform models.Platform, username string) (*models.Account, error)

	// GetAccountByID looks up an account by row id.
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)

	// ListAccounts returns accounts in ascending id order, optionally
	// filtered to one platform (empty means all).
	ListAccounts(ctx context.Context, platform models.Platform) ([]models.Account, error)

	// UpdateAccountProfile overwrites the account's mutable profile fields.
	UpdateAccountProfile(ctx context.Context, account *models.Account) error

	// DeleteAccount removes an account and everything hanging off it:
	// posts, post snapshots and account snapshots.
	DeleteAccount(ctx context.Context, id int64) error

	// CreatePost inserts a post, or resolves the existing row when the
	// (platform, platform_post_id) identity is already present. Either way
	// post.ID is filled on return. Descriptive fields of an existing post
	// are never touched.
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost looks up a post by its (platform, platform_post_id) identity.
	GetPost(ctx context.Context, platform models.Platform, platformPostID string) (*models.Post, error)

	// ListPostsByAccount returns an account's posts, newest published first.
	ListPostsByAccount(ctx context.Context, accountID int64, limit int) ([]models.Post, error)

	// AddPostMetrics appends a post metric snapshot.
	AddPostMetrics(ctx context.Context, snap *models.PostMetricSnapshot) error

	// AddAccountMetrics appends an account metric snapshot.
	AddAccountMetrics(ctx context.Context, snap *models.AccountMetricSnapshot) error

	// PostMetricsHistory returns a post's snapshots, newest first.
	PostMetricsHistory(ctx context.Context, postID int64, limit int) ([]models.PostMetricSnapshot, error)

	// LatestPostMetrics returns the most recent snapshot for a post.
	LatestPostMetrics(ctx context.Context, postID int64) (*models.PostMetricSnapshot, error)

	// AccountMetricsHistory returns an account's snapshots, newest first.
	AccountMetricsHistory(ctx context.Context, accountID int64, limit int) ([]models.AccountMetricSnapshot, error)

	// CreateRun records a collection run at start.
	CreateRun(ctx context.Context, run *models.CollectionRun) error

	// FinishRun finalizes a run: sets the finish time and persists its
	// per-account log entries.
	FinishRun(ctx context.Context, run *models.CollectionRun) error

	// ListRuns returns recent runs with their entries, newest first.
	ListRuns(ctx context.Context, limit int) ([]models.CollectionRun, error)

	// PostsWithLatestMetrics returns posts joined with each post's most
	// recent metric snapshot.
	PostsWithLatestMetrics(ctx context.Context, q PostQuery) ([]models.PostWithMetrics, error)

	// Summary aggregates the persisted state for status reporting.
	Summary(ctx context.Context) (*models.CollectionSummary, error)
}
