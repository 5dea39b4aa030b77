// Package memstore is the in-memory Store implementation. It backs unit
// tests and local runs that do not need a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialpulse/pkg/models"
	"socialpulse/pkg/store"
)

// Store keeps all state in maps guarded by one mutex.
type Store struct {
	mu sync.RWMutex

	accounts     map[int64]*models.Account
	posts        map[int64]*models.Post
	postMetrics  map[int64][]models.PostMetricSnapshot
	acctMetrics  map[int64][]models.AccountMetricSnapshot
	runs         map[string]*models.CollectionRun
	runOrder     []string
	nextAccount  int64
	nextPost     int64
	nextSnapshot int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		accounts:    make(map[int64]*models.Account),
		posts:       make(map[int64]*models.Post),
		postMetrics: make(map[int64][]models.PostMetricSnapshot),
		acctMetrics: make(map[int64][]models.AccountMetricSnapshot),
		runs:        make(map[string]*models.CollectionRun),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccount++
	account.ID = s.nextAccount
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *Store) GetAccount(ctx context.Context, platform models.Platform, username string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.Platform == platform && a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) ListAccounts(ctx context.Context, platform models.Platform) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Account
	for _, a := range s.accounts {
		if platform != "" && a.Platform != platform {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateAccountProfile(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.ID]
	if !ok {
		return store.ErrNotFound
	}
	existing.AccountID = account.AccountID
	existing.DisplayName = account.DisplayName
	existing.Bio = account.Bio
	existing.FollowerCount = account.FollowerCount
	existing.FollowingCount = account.FollowingCount
	existing.PostCount = account.PostCount
	existing.UpdatedAt = time.Now()
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.accounts, id)
	delete(s.acctMetrics, id)
	for postID, p := range s.posts {
		if p.AccountID == id {
			delete(s.posts, postID)
			delete(s.postMetrics, postID)
		}
	}
	return nil
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.Platform == post.Platform && p.PlatformPostID == post.PlatformPostID {
			post.ID = p.ID
			return nil
		}
	}

	s.nextPost++
	post.ID = s.nextPost
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *Store) GetPost(ctx context.Context, platform models.Platform, platformPostID string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.Platform == platform && p.PlatformPostID == platformPostID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListPostsByAccount(ctx context.Context, accountID int64, limit int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, p := range s.posts {
		if p.AccountID == accountID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AddPostMetrics(ctx context.Context, snap *models.PostMetricSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[snap.PostID]; !ok {
		return store.ErrNotFound
	}
	s.nextSnapshot++
	snap.ID = s.nextSnapshot
	s.postMetrics[snap.PostID] = append(s.postMetrics[snap.PostID], *snap)
	return nil
}

func (s *Store) AddAccountMetrics(ctx context.Context, snap *models.AccountMetricSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[snap.AccountID]; !ok {
		return store.ErrNotFound
	}
	s.nextSnapshot++
	snap.ID = s.nextSnapshot
	s.acctMetrics[snap.AccountID] = append(s.acctMetrics[snap.AccountID], *snap)
	return nil
}

func (s *Store) PostMetricsHistory(ctx context.Context, postID int64, limit int) ([]models.PostMetricSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.PostMetricSnapshot(nil), s.postMetrics[postID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CollectedAt.After(out[j].CollectedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
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
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.AccountMetricSnapshot(nil), s.acctMetrics[accountID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CollectedAt.After(out[j].CollectedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateRun(ctx context.Context, run *models.CollectionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *run
	cp.Entries = append([]models.CollectionLogEntry(nil), run.Entries...)
	s.runs[run.ID] = &cp
	s.runOrder = append(s.runOrder, run.ID)
	return nil
}

func (s *Store) FinishRun(ctx context.Context, run *models.CollectionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *run
	cp.Entries = append([]models.CollectionLogEntry(nil), run.Entries...)
	s.runs[run.ID] = &cp
	return nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.CollectionRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CollectionRun
	for i := len(s.runOrder) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, *s.runs[s.runOrder[i]])
	}
	return out, nil
}

func (s *Store) PostsWithLatestMetrics(ctx context.Context, q store.PostQuery) ([]models.PostWithMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.PostWithMetrics
	for _, p := range s.posts {
		if q.Platform != "" && p.Platform != q.Platform {
			continue
		}
		if q.AccountID != 0 && p.AccountID != q.AccountID {
			continue
		}

		row := models.PostWithMetrics{Post: *p}
		if a, ok := s.accounts[p.AccountID]; ok {
			row.Username = a.Username
		}
		if snaps := s.postMetrics[p.ID]; len(snaps) > 0 {
			latest := snaps[0]
			for _, snap := range snaps[1:] {
				if snap.CollectedAt.After(latest.CollectedAt) {
					latest = snap
				}
			}
			row.Latest = &latest
		}
		out = append(out, row)
	}

	if q.ByViews {
		sort.Slice(out, func(i, j int) bool {
			vi, vj := 0, 0
			if out[i].Latest != nil {
				vi = out[i].Latest.Views
			}
			if out[j].Latest != nil {
				vj = out[j].Latest.Views
			}
			return vi > vj
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			return out[i].Post.PublishedAt.After(out[j].Post.PublishedAt)
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) Summary(ctx context.Context) (*models.CollectionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &models.CollectionSummary{
		AccountsByPlatform: make(map[models.Platform]int),
		PostsByPlatform:    make(map[models.Platform]int),
		RunCount:           len(s.runs),
	}
	for _, a := range s.accounts {
		summary.AccountsByPlatform[a.Platform]++
	}
	for _, p := range s.posts {
		summary.PostsByPlatform[p.Platform]++
	}
	for _, snaps := range s.postMetrics {
		for _, snap := range snaps {
			if snap.CollectedAt.After(summary.LastCollectedAt) {
				summary.LastCollectedAt = snap.CollectedAt
			}
		}
	}
	return summary, nil
}
