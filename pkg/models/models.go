package models

import (
	"fmt"
	"time"
)

// Platform identifies one of the supported social networks.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
)

// AllPlatforms returns the closed set of supported platforms.
func AllPlatforms() []Platform {
	return []Platform{PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformTwitter}
}

// ParsePlatform converts a string into a Platform.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformTwitter:
		return Platform(s), nil
	default:
		return "", fmt.Errorf("unsupported platform: %q", s)
	}
}

// Account is a tracked social-media account. (platform, username) is unique.
// Profile fields are mutated only by ingestion; accounts are never
// auto-deleted.
type Account struct {
	ID             int64
	Platform       Platform
	Username       string
	AccountID      string // platform-native id, may be empty until first collection
	DisplayName    string
	Bio            string
	FollowerCount  int
	FollowingCount int
	PostCount      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Post belongs to exactly one Account. Descriptive fields are set once at
// first sight and never overwritten on re-collection.
type Post struct {
	ID             int64
	AccountID      int64
	Platform       Platform
	PlatformPostID string
	PostType       string // video, image, reel, tweet, carousel
	Caption        string
	URL            string
	ThumbnailURL   string
	PublishedAt    time.Time
	CreatedAt      time.Time
}

// PostMetricSnapshot is an append-only fact row. Multiple snapshots per post
// form a time series; the latest is derived by max CollectedAt.
type PostMetricSnapshot struct {
	ID          int64
	PostID      int64
	CollectedAt time.Time
	Views       int
	Likes       int
	Comments    int
	Shares      int
	Saves       int
}

// AccountMetricSnapshot is the account-level append-only counterpart.
type AccountMetricSnapshot struct {
	ID             int64
	AccountID      int64
	CollectedAt    time.Time
	FollowerCount  int
	FollowingCount int
	PostCount      int
}

// EntryStatus is the per-account outcome of a collection attempt.
type EntryStatus string

const (
	StatusSuccess EntryStatus = "success"
	StatusPartial EntryStatus = "partial"
	StatusFailed  EntryStatus = "failed"
)

// CollectionRun records one invocation of the orchestrator. It is created at
// run start, finalized at run end, and never mutated afterward.
type CollectionRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Entries    []CollectionLogEntry
}

// CollectionLogEntry is the audit record for one account attempted in a run.
type CollectionLogEntry struct {
	ID             int64
	RunID          string
	AccountID      int64
	Platform       Platform
	Username       string
	Status         EntryStatus
	PostsCollected int
	ErrorMessage   string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// ProfileSnapshot is the canonical platform-agnostic profile record every
// adapter produces.
type ProfileSnapshot struct {
	Platform       Platform
	Username       string
	AccountID      string
	DisplayName    string
	Bio            string
	FollowerCount  int
	FollowingCount int
	PostCount      int
}

// PostSnapshot is the canonical per-post record every adapter produces,
// combining descriptive fields with the metric values observed at fetch time.
type PostSnapshot struct {
	Platform       Platform
	PlatformPostID string
	PostType       string
	Caption        string
	URL            string
	ThumbnailURL   string
	PublishedAt    time.Time
	Views          int
	Likes          int
	Comments       int
	Shares         int
	Saves          int
}

// EngagementRate computes (likes+comments)/views. The rate is undefined when
// views is zero; ok reports whether the rate is defined.
func EngagementRate(likes, comments, views int) (rate float64, ok bool) {
	if views <= 0 {
		return 0, false
	}
	return float64(likes+comments) / float64(views), true
}

// EngagementRate is the derived engagement rate for this snapshot.
func (s *PostMetricSnapshot) EngagementRate() (float64, bool) {
	return EngagementRate(s.Likes, s.Comments, s.Views)
}

// PostWithMetrics pairs a post with its latest metric snapshot for read-back
// queries. Latest is nil when the post has no snapshots yet.
type PostWithMetrics struct {
	Post     Post
	Latest   *PostMetricSnapshot
	Username string
}

// CollectionSummary aggregates the persisted state for status reporting.
type CollectionSummary struct {
	AccountsByPlatform map[Platform]int
	PostsByPlatform    map[Platform]int
	LastCollectedAt    time.Time
	RunCount           int
}
