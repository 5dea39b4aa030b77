// Package twitter implements the X/Twitter adapter over the twitter-api45
// RapidAPI provider.
package twitter

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"socialpulse/pkg/config"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/models"
	"socialpulse/pkg/platforms"
)

const platform = "twitter"

// Client talks to the twitter-api45 API. The timeline endpoint returns one
// unpaginated page; the post limit is applied client-side.
type Client struct {
	http *resty.Client
	host string
	keys platforms.KeySource
	doer platforms.Doer
	log  logger.Logger
}

// New creates a Twitter client from the platform config.
func New(cfg config.PlatformConfig, keys platforms.KeySource, doer platforms.Doer, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		http: resty.New().SetBaseURL(fmt.Sprintf("https://%s", cfg.Host)),
		host: cfg.Host,
		keys: keys,
		doer: doer,
		log:  log.WithField("platform", platform),
	}
}

// SetBaseURL overrides the API base URL, for tests.
func (c *Client) SetBaseURL(u string) {
	c.http.SetBaseURL(u)
}

// Platform returns the platform identifier.
func (c *Client) Platform() models.Platform {
	return models.PlatformTwitter
}

// FetchProfile retrieves the account-level snapshot for a screen name.
func (c *Client) FetchProfile(ctx context.Context, identifier string) (*models.ProfileSnapshot, error) {
	username := platforms.NormalizeUsername(identifier)

	var out profileResponse
	err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.get(ctx, "/screenname.php", map[string]string{"screenname": username}, &out)
	})
	if err != nil {
		return nil, err
	}

	c.log.WithField("username", username).Debug("fetched profile")

	return &models.ProfileSnapshot{
		Platform:       models.PlatformTwitter,
		Username:       username,
		AccountID:      out.accountID(),
		DisplayName:    out.Name,
		Bio:            out.bio(),
		FollowerCount:  out.followerCount(),
		FollowingCount: out.followingCount(),
		PostCount:      out.tweetCount(),
	}, nil
}

// FetchPosts retrieves up to limit of the account's most recent tweets.
func (c *Client) FetchPosts(ctx context.Context, identifier string, limit int) ([]models.PostSnapshot, error) {
	username := platforms.NormalizeUsername(identifier)

	var out timelineResponse
	err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.get(ctx, "/timeline.php", map[string]string{"screenname": username}, &out)
	})
	if err != nil {
		return nil, err
	}

	var posts []models.PostSnapshot
	for _, tw := range out.Tweets {
		if len(posts) >= limit {
			break
		}
		id := tw.tweetID()
		if id == "" {
			continue
		}
		posts = append(posts, snapshotFromTweet(tw, id, username))
	}

	c.log.WithFields(map[string]interface{}{
		"username": username,
		"posts":    len(posts),
	}).Debug("fetched posts")

	return posts, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	key, err := c.keys.APIKey(platform)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-rapidapi-key", key).
		SetHeader("x-rapidapi-host", c.host).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	return platforms.CheckResponse(platform, resp, err)
}

// snapshotFromTweet maps one timeline item to the canonical post record.
// Shares aggregates retweets and quotes; saves maps to bookmarks.
func snapshotFromTweet(tw tweet, id, username string) models.PostSnapshot {
	var publishedAt time.Time
	if tw.CreatedAt != "" {
		if t, err := time.Parse(time.RubyDate, tw.CreatedAt); err == nil {
			publishedAt = t.UTC()
		}
	}

	return models.PostSnapshot{
		Platform:       models.PlatformTwitter,
		PlatformPostID: id,
		PostType:       "tweet",
		Caption:        tw.text(),
		URL:            fmt.Sprintf("https://x.com/%s/status/%s", username, id),
		PublishedAt:    publishedAt,
		Views:          tw.Views.Int(),
		Likes:          tw.Favorites.Int(),
		Comments:       tw.Replies.Int(),
		Shares:         tw.Retweets.Int() + tw.Quotes.Int(),
		Saves:          tw.Bookmarks.Int(),
	}
}
