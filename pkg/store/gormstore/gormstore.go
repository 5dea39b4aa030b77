// Package gormstore is the Postgres Store implementation over GORM.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"socialpulse/pkg/models"
	"socialpulse/pkg/store"
)

// Store persists the engine state in Postgres.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db)
}

// New wraps an existing GORM handle and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&accountRow{},
		&postRow{},
		&postMetricRow{},
		&accountMetricRow{},
		&runRow{},
		&logEntryRow{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	row := accountToRow(account)
	row.ID = 0
	now := time.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	account.ID = row.ID
	account.CreatedAt = row.CreatedAt
	account.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) GetAccount(ctx context.Context, platform models.Platform, username string) (*models.Account, error) {
	var row accountRow
	err := s.db.WithContext(ctx).
		Where("platform = ? AND username = ?", string(platform), username).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	a := rowToAccount(row)
	return &a, nil
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	var row accountRow
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translate(err)
	}
	a := rowToAccount(row)
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context, platform models.Platform) ([]models.Account, error) {
	q := s.db.WithContext(ctx).Order("id ASC")
	if platform != "" {
		q = q.Where("platform = ?", string(platform))
	}

	var rows []accountRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToAccount(r))
	}
	return out, nil
}

func (s *Store) UpdateAccountProfile(ctx context.Context, account *models.Account) error {
	res := s.db.WithContext(ctx).
		Model(&accountRow{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"account_id":      account.AccountID,
			"display_name":    account.DisplayName,
			"bio":             account.Bio,
			"follower_count":  account.FollowerCount,
			"following_count": account.FollowingCount,
			"post_count":      account.PostCount,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id IN (?)",
			tx.Model(&postRow{}).Select("id").Where("account_id = ?", id),
		).Delete(&postMetricRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&postRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&accountMetricRow{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&accountRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// CreatePost is insert-or-resolve on the (platform, platform_post_id)
// identity. A conflicting insert is a no-op and the existing row id is
// loaded instead.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	row := postToRow(post)
	row.ID = 0
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform"}, {Name: "platform_post_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		existing, err := s.GetPost(ctx, post.Platform, post.PlatformPostID)
		if err != nil {
			return err
		}
		post.ID = existing.ID
		post.CreatedAt = existing.CreatedAt
		return nil
	}

	post.ID = row.ID
	post.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetPost(ctx context.Context, platform models.Platform, platformPostID string) (*models.Post, error) {
	var row postRow
	err := s.db.WithContext(ctx).
		Where("platform = ? AND platform_post_id = ?", string(platform), platformPostID).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	p := rowToPost(row)
	return &p, nil
}

func (s *Store) ListPostsByAccount(ctx context.Context, accountID int64, limit int) ([]models.Post, error) {
	q := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("published_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []postRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToPost(r))
	}
	return out, nil
}

func (s *Store) AddPostMetrics(ctx context.Context, snap *models.PostMetricSnapshot) error {
	row := postMetricRow{
		PostID:      snap.PostID,
		CollectedAt: snap.CollectedAt,
		Views:       snap.Views,
		Likes:       snap.Likes,
		Comments:    snap.Comments,
		Shares:      snap.Shares,
		Saves:       snap.Saves,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	snap.ID = row.ID
	return nil
}

func (s *Store) AddAccountMetrics(ctx context.Context, snap *models.AccountMetricSnapshot) error {
	row := accountMetricRow{
		AccountID:      snap.AccountID,
		CollectedAt:    snap.CollectedAt,
		FollowerCount:  snap.FollowerCount,
		FollowingCount: snap.FollowingCount,
		PostCount:      snap.PostCount,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	snap.ID = row.ID
	return nil
}

func (s *Store) PostMetricsHistory(ctx context.Context, postID int64, limit int) ([]models.PostMetricSnapshot, error) {
	q := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("collected_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []postMetricRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.PostMetricSnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToPostMetric(r))
	}
	return out, nil
}

func (s *Store) LatestPostMetrics(ctx context.Context, postID int64) (*models.PostMetricSnapshot, error) {
	history, err := s.PostMetricsHistory(ctx, postID, 1)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, store.ErrNotFound
	}
	return &history[0], nil
}

func (s *Store) AccountMetricsHistory(ctx context.Context, accountID int64, limit int) ([]models.AccountMetricSnapshot, error) {
	q := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("collected_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []accountMetricRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.AccountMetricSnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToAccountMetric(r))
	}
	return out, nil
}

func (s *Store) CreateRun(ctx context.Context, run *models.CollectionRun) error {
	row := runRow{
		ID:        run.ID,
		StartedAt: run.StartedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *Store) FinishRun(ctx context.Context, run *models.CollectionRun) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&runRow{}).
			Where("id = ?", run.ID).
			Update("finished_at", run.FinishedAt)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}

		for i := range run.Entries {
			row := entryToRow(&run.Entries[i])
			row.ID = 0
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			run.Entries[i].ID = row.ID
		}
		return nil
	})
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.CollectionRun, error) {
	q := s.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []runRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	var entryRows []logEntryRow
	err := s.db.WithContext(ctx).
		Where("run_id IN ?", ids).
		Order("id ASC").
		Find(&entryRows).Error
	if err != nil {
		return nil, err
	}

	entriesByRun := make(map[string][]models.CollectionLogEntry)
	for _, r := range entryRows {
		entriesByRun[r.RunID] = append(entriesByRun[r.RunID], rowToEntry(r))
	}

	out := make([]models.CollectionRun, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CollectionRun{
			ID:         r.ID,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Entries:    entriesByRun[r.ID],
		})
	}
	return out, nil
}

// postWithMetricsRow is the flat scan target for the latest-metrics join.
type postWithMetricsRow struct {
	postRow
	Username    string
	MetricID    *int64
	CollectedAt *time.Time
	Views       *int
	Likes       *int
	Comments    *int
	Shares      *int
	Saves       *int
}

func (s *Store) PostsWithLatestMetrics(ctx context.Context, q store.PostQuery) ([]models.PostWithMetrics, error) {
	latest := s.db.Model(&postMetricRow{}).
		Select("post_id, MAX(collected_at) AS max_collected").
		Group("post_id")

	query := s.db.WithContext(ctx).
		Table("posts AS p").
		Select(`p.*, a.username AS username,
			pm.id AS metric_id, pm.collected_at AS collected_at,
			pm.views AS views, pm.likes AS likes, pm.comments AS comments,
			pm.shares AS shares, pm.saves AS saves`).
		Joins("LEFT JOIN (?) latest ON latest.post_id = p.id", latest).
		Joins("LEFT JOIN post_metrics pm ON pm.post_id = p.id AND pm.collected_at = latest.max_collected").
		Joins("LEFT JOIN accounts a ON a.id = p.account_id")

	if q.Platform != "" {
		query = query.Where("p.platform = ?", string(q.Platform))
	}
	if q.AccountID != 0 {
		query = query.Where("p.account_id = ?", q.AccountID)
	}
	if q.ByViews {
		query = query.Order("pm.views DESC NULLS LAST")
	} else {
		query = query.Order("p.published_at DESC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var rows []postWithMetricsRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]models.PostWithMetrics, 0, len(rows))
	for _, r := range rows {
		row := models.PostWithMetrics{
			Post:     rowToPost(r.postRow),
			Username: r.Username,
		}
		if r.MetricID != nil {
			row.Latest = &models.PostMetricSnapshot{
				ID:          *r.MetricID,
				PostID:      r.postRow.ID,
				CollectedAt: *r.CollectedAt,
				Views:       deref(r.Views),
				Likes:       deref(r.Likes),
				Comments:    deref(r.Comments),
				Shares:      deref(r.Shares),
				Saves:       deref(r.Saves),
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

type platformCount struct {
	Platform string
	Count    int
}

func (s *Store) Summary(ctx context.Context) (*models.CollectionSummary, error) {
	summary := &models.CollectionSummary{
		AccountsByPlatform: make(map[models.Platform]int),
		PostsByPlatform:    make(map[models.Platform]int),
	}

	var counts []platformCount
	err := s.db.WithContext(ctx).Model(&accountRow{}).
		Select("platform, COUNT(*) AS count").
		Group("platform").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		summary.AccountsByPlatform[models.Platform(c.Platform)] = c.Count
	}

	counts = counts[:0]
	err = s.db.WithContext(ctx).Model(&postRow{}).
		Select("platform, COUNT(*) AS count").
		Group("platform").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		summary.PostsByPlatform[models.Platform(c.Platform)] = c.Count
	}

	var last *time.Time
	err = s.db.WithContext(ctx).Model(&postMetricRow{}).
		Select("MAX(collected_at)").
		Scan(&last).Error
	if err != nil {
		return nil, err
	}
	if last != nil {
		summary.LastCollectedAt = *last
	}

	var runCount int64
	if err := s.db.WithContext(ctx).Model(&runRow{}).Count(&runCount).Error; err != nil {
		return nil, err
	}
	summary.RunCount = int(runCount)

	return summary, nil
}
