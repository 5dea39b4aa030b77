package gormstore

import (
	"time"

	"socialpulse/pkg/models"
)

type accountRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Platform       string `gorm:"size:32;uniqueIndex:uq_accounts_identity;index"`
	Username       string `gorm:"size:255;uniqueIndex:uq_accounts_identity"`
	AccountID      string `gorm:"size:255"`
	DisplayName    string `gorm:"size:255"`
	Bio            string `gorm:"type:text"`
	FollowerCount  int
	FollowingCount int
	PostCount      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (accountRow) TableName() string { return "accounts" }

type postRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	AccountID      int64  `gorm:"index"`
	Platform       string `gorm:"size:32;uniqueIndex:uq_posts_identity;index"`
	PlatformPostID string `gorm:"size:255;uniqueIndex:uq_posts_identity"`
	PostType       string `gorm:"size:32"`
	Caption        string `gorm:"type:text"`
	URL            string `gorm:"size:1024"`
	ThumbnailURL   string `gorm:"size:1024"`
	PublishedAt    time.Time
	CreatedAt      time.Time
}

func (postRow) TableName() string { return "posts" }

type postMetricRow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	PostID      int64     `gorm:"index"`
	CollectedAt time.Time `gorm:"index"`
	Views       int
	Likes       int
	Comments    int
	Shares      int
	Saves       int
}

func (postMetricRow) TableName() string { return "post_metrics" }

type accountMetricRow struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	AccountID      int64     `gorm:"index"`
	CollectedAt    time.Time `gorm:"index"`
	FollowerCount  int
	FollowingCount int
	PostCount      int
}

func (accountMetricRow) TableName() string { return "account_metrics" }

type runRow struct {
	ID         string `gorm:"primaryKey;size:36"`
	StartedAt  time.Time
	FinishedAt time.Time
}

func (runRow) TableName() string { return "collection_runs" }

type logEntryRow struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	RunID          string `gorm:"size:36;index"`
	AccountID      int64
	Platform       string `gorm:"size:32"`
	Username       string `gorm:"size:255"`
	Status         string `gorm:"size:16"`
	PostsCollected int
	ErrorMessage   string `gorm:"type:text"`
	StartedAt      time.Time
	FinishedAt     time.Time
}

func (logEntryRow) TableName() string { return "collection_log_entries" }

func accountToRow(a *models.Account) accountRow {
	return accountRow{
		ID:             a.ID,
		Platform:       string(a.Platform),
		Username:       a.Username,
		AccountID:      a.AccountID,
		DisplayName:    a.DisplayName,
		Bio:            a.Bio,
		FollowerCount:  a.FollowerCount,
		FollowingCount: a.FollowingCount,
		PostCount:      a.PostCount,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func rowToAccount(r accountRow) models.Account {
	return models.Account{
		ID:             r.ID,
		Platform:       models.Platform(r.Platform),
		Username:       r.Username,
		AccountID:      r.AccountID,
		DisplayName:    r.DisplayName,
		Bio:            r.Bio,
		FollowerCount:  r.FollowerCount,
		FollowingCount: r.FollowingCount,
		PostCount:      r.PostCount,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func postToRow(p *models.Post) postRow {
	return postRow{
		ID:             p.ID,
		AccountID:      p.AccountID,
		Platform:       string(p.Platform),
		PlatformPostID: p.PlatformPostID,
		PostType:       p.PostType,
		Caption:        p.Caption,
		URL:            p.URL,
		ThumbnailURL:   p.ThumbnailURL,
		PublishedAt:    p.PublishedAt,
		CreatedAt:      p.CreatedAt,
	}
}

func rowToPost(r postRow) models.Post {
	return models.Post{
		ID:             r.ID,
		AccountID:      r.AccountID,
		Platform:       models.Platform(r.Platform),
		PlatformPostID: r.PlatformPostID,
		PostType:       r.PostType,
		Caption:        r.Caption,
		URL:            r.URL,
		ThumbnailURL:   r.ThumbnailURL,
		PublishedAt:    r.PublishedAt,
		CreatedAt:      r.CreatedAt,
	}
}

func rowToPostMetric(r postMetricRow) models.PostMetricSnapshot {
	return models.PostMetricSnapshot{
		ID:          r.ID,
		PostID:      r.PostID,
		CollectedAt: r.CollectedAt,
		Views:       r.Views,
		Likes:       r.Likes,
		Comments:    r.Comments,
		Shares:      r.Shares,
		Saves:       r.Saves,
	}
}

func rowToAccountMetric(r accountMetricRow) models.AccountMetricSnapshot {
	return models.AccountMetricSnapshot{
		ID:             r.ID,
		AccountID:      r.AccountID,
		CollectedAt:    r.CollectedAt,
		FollowerCount:  r.FollowerCount,
		FollowingCount: r.FollowingCount,
		PostCount:      r.PostCount,
	}
}

func entryToRow(e *models.CollectionLogEntry) logEntryRow {
	return logEntryRow{
		ID:             e.ID,
		RunID:          e.RunID,
		AccountID:      e.AccountID,
		Platform:       string(e.Platform),
		Username:       e.Username,
		Status:         string(e.Status),
		PostsCollected: e.PostsCollected,
		ErrorMessage:   e.ErrorMessage,
		StartedAt:      e.StartedAt,
		FinishedAt:     e.FinishedAt,
	}
}

func rowToEntry(r logEntryRow) models.CollectionLogEntry {
	return models.CollectionLogEntry{
		ID:             r.ID,
		RunID:          r.RunID,
		AccountID:      r.AccountID,
		Platform:       models.Platform(r.Platform),
		Username:       r.Username,
		Status:         models.EntryStatus(r.Status),
		PostsCollected: r.PostsCollected,
		ErrorMessage:   r.ErrorMessage,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}
