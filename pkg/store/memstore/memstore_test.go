package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/pkg/models"
	"socialpulse/pkg/store"
)

func seedAccount(t *testing.T, s *Store, platform models.Platform, username string) *models.Account {
	t.Helper()
	account := &models.Account{Platform: platform, Username: username}
	require.NoError(t, s.CreateAccount(context.Background(), account))
	return account
}

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	account := seedAccount(t, s, models.PlatformInstagram, "natgeo")
	assert.NotZero(t, account.ID)

	found, err := s.GetAccount(ctx, models.PlatformInstagram, "natgeo")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = s.GetAccount(ctx, models.PlatformTikTok, "natgeo")
	assert.ErrorIs(t, err, store.ErrNotFound)

	found.DisplayName = "Nat Geo"
	found.FollowerCount = 100
	require.NoError(t, s.UpdateAccountProfile(ctx, found))

	updated, err := s.GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nat Geo", updated.DisplayName)
	assert.Equal(t, 100, updated.FollowerCount)

	require.NoError(t, s.DeleteAccount(ctx, account.ID))
	_, err = s.GetAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListAccountsOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := seedAccount(t, s, models.PlatformInstagram, "a")
	second := seedAccount(t, s, models.PlatformTikTok, "b")
	third := seedAccount(t, s, models.PlatformInstagram, "c")

	all, err := s.ListAccounts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	ig, err := s.ListAccounts(ctx, models.PlatformInstagram)
	require.NoError(t, err)
	assert.Len(t, ig, 2)
}

func TestCreatePostIsInsertOrResolve(t *testing.T) {
	ctx := context.Background()
	s := New()
	account := seedAccount(t, s, models.PlatformTikTok, "charli")

	post := &models.Post{
		AccountID:      account.ID,
		Platform:       models.PlatformTikTok,
		PlatformPostID: "7123",
		Caption:        "original",
		PublishedAt:    time.Now(),
	}
	require.NoError(t, s.CreatePost(ctx, post))
	firstID := post.ID

	dup := &models.Post{
		AccountID:      account.ID,
		Platform:       models.PlatformTikTok,
		PlatformPostID: "7123",
		Caption:        "changed caption",
		PublishedAt:    time.Now(),
	}
	require.NoError(t, s.CreatePost(ctx, dup))
	assert.Equal(t, firstID, dup.ID)

	// Descriptive fields stay frozen at first sight.
	stored, err := s.GetPost(ctx, models.PlatformTikTok, "7123")
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Caption)
}

func TestMetricsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := New()
	account := seedAccount(t, s, models.PlatformYouTube, "mkbhd")

	post := &models.Post{AccountID: account.ID, Platform: models.PlatformYouTube, PlatformPostID: "v1", PublishedAt: time.Now()}
	require.NoError(t, s.CreatePost(ctx, post))

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, views := range []int{100, 200, 300} {
		snap := &models.PostMetricSnapshot{
			PostID:      post.ID,
			CollectedAt: base.Add(time.Duration(i) * time.Hour),
			Views:       views,
		}
		require.NoError(t, s.AddPostMetrics(ctx, snap))
	}

	history, err := s.PostMetricsHistory(ctx, post.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 300, history[0].Views, "newest first")

	latest, err := s.LatestPostMetrics(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, latest.Views)
}

func TestPostsWithLatestMetrics(t *testing.T) {
	ctx := context.Background()
	s := New()
	account := seedAccount(t, s, models.PlatformInstagram, "natgeo")

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, views := range []int{50, 500, 5} {
		post := &models.Post{
			AccountID:      account.ID,
			Platform:       models.PlatformInstagram,
			PlatformPostID: string(rune('a' + i)),
			PublishedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.CreatePost(ctx, post))
		require.NoError(t, s.AddPostMetrics(ctx, &models.PostMetricSnapshot{
			PostID: post.ID, CollectedAt: base, Views: views,
		}))
	}

	byViews, err := s.PostsWithLatestMetrics(ctx, store.PostQuery{ByViews: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, byViews, 2)
	assert.Equal(t, 500, byViews[0].Latest.Views)
	assert.Equal(t, 50, byViews[1].Latest.Views)
	assert.Equal(t, "natgeo", byViews[0].Username)

	byDate, err := s.PostsWithLatestMetrics(ctx, store.PostQuery{})
	require.NoError(t, err)
	require.Len(t, byDate, 3)
	assert.True(t, byDate[0].Post.PublishedAt.After(byDate[1].Post.PublishedAt))
}

func TestRunsAndSummary(t *testing.T) {
	ctx := context.Background()
	s := New()
	account := seedAccount(t, s, models.PlatformTwitter, "jack")

	run := &models.CollectionRun{ID: "run-1", StartedAt: time.Now()}
	require.NoError(t, s.CreateRun(ctx, run))

	run.FinishedAt = time.Now()
	run.Entries = []models.CollectionLogEntry{{
		RunID:     run.ID,
		AccountID: account.ID,
		Platform:  models.PlatformTwitter,
		Username:  "jack",
		Status:    models.StatusSuccess,
	}}
	require.NoError(t, s.FinishRun(ctx, run))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Len(t, runs[0].Entries, 1)

	summary, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AccountsByPlatform[models.PlatformTwitter])
	assert.Equal(t, 1, summary.RunCount)
}
