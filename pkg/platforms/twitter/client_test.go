package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialpulse/pkg/config"
	"socialpulse/pkg/models"
	"socialpulse/pkg/platforms"
)

type staticKeys struct{}

func (staticKeys) APIKey(platform string) (string, error) { return "test-key", nil }

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	client := New(config.PlatformConfig{Host: "twitter-api45.p.rapidapi.com"}, staticKeys{}, platforms.Direct{}, nil)
	client.SetBaseURL(server.URL)
	return client
}

func TestFetchProfile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/screenname.php", r.URL.Path)
		assert.Equal(t, "jack", r.URL.Query().Get("screenname"))

		w.Write([]byte(`{
			"rest_id": "12",
			"name": "jack",
			"desc": "founder",
			"sub_count": 6500000,
			"friends": 4000,
			"statuses_count": 29000
		}`))
	}))

	profile, err := client.FetchProfile(context.Background(), "@jack")
	require.NoError(t, err)

	assert.Equal(t, models.PlatformTwitter, profile.Platform)
	assert.Equal(t, "jack", profile.Username)
	assert.Equal(t, "12", profile.AccountID)
	assert.Equal(t, "founder", profile.Bio)
	assert.Equal(t, 6500000, profile.FollowerCount)
	assert.Equal(t, 4000, profile.FollowingCount)
	assert.Equal(t, 29000, profile.PostCount)
}

func TestFetchProfileFieldFallbacks(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id_str": "99",
			"description": "alt fields",
			"followers_count": "1200",
			"friends_count": 300,
			"tweets": 42
		}`))
	}))

	profile, err := client.FetchProfile(context.Background(), "someone")
	require.NoError(t, err)

	assert.Equal(t, "99", profile.AccountID)
	assert.Equal(t, "alt fields", profile.Bio)
	assert.Equal(t, 1200, profile.FollowerCount)
	assert.Equal(t, 300, profile.FollowingCount)
	assert.Equal(t, 42, profile.PostCount)
}

func TestFetchPosts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timeline.php", r.URL.Path)

		w.Write([]byte(`{
			"timeline": [
				{
					"tweet_id": "1801",
					"text": "hello world",
					"created_at": "Wed Oct 10 20:19:24 +0000 2018",
					"views": "52000",
					"favorites": 900,
					"retweets": 120,
					"replies": 45,
					"quotes": 30,
					"bookmarks": 15
				},
				{"text": "no id, skipped"}
			]
		}`))
	}))

	posts, err := client.FetchPosts(context.Background(), "jack", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, "1801", post.PlatformPostID)
	assert.Equal(t, "tweet", post.PostType)
	assert.Equal(t, "hello world", post.Caption)
	assert.Equal(t, "https://x.com/jack/status/1801", post.URL)
	assert.Equal(t, 52000, post.Views)
	assert.Equal(t, 900, post.Likes)
	assert.Equal(t, 45, post.Comments)
	assert.Equal(t, 150, post.Shares, "shares = retweets + quotes")
	assert.Equal(t, 15, post.Saves, "saves = bookmarks")

	expected := time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC)
	assert.True(t, post.PublishedAt.Equal(expected), "got %v", post.PublishedAt)
}

func TestFetchPostsAppliesLimit(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timeline": [
			{"tweet_id": "1"}, {"tweet_id": "2"}, {"tweet_id": "3"}
		]}`))
	}))

	posts, err := client.FetchPosts(context.Background(), "jack", 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestTimelineResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"timeline key", `{"timeline": [{"tweet_id": "1"}]}`, 1},
		{"tweets key", `{"tweets": [{"tweet_id": "1"}, {"tweet_id": "2"}]}`, 2},
		{"bare array", `[{"tweet_id": "1"}]`, 1},
		{"empty object", `{}`, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var resp timelineResponse
			require.NoError(t, json.Unmarshal([]byte(test.body), &resp))
			assert.Len(t, resp.Tweets, test.want)
		})
	}
}
