// Package tiktok implements the TikTok adapter over the tiktok-api23
// RapidAPI provider.
package tiktok

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"socialpulse/pkg/config"
	errs "socialpulse/pkg/errors"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/models"
	"socialpulse/pkg/platforms"
)

const (
	platform = "tiktok"

	// Upstream page size cap for user/posts.
	maxPageSize = 30
)

// Client talks to the tiktok-api23 API. Listing posts needs the account's
// secUid, which is resolved from the username via user/info and cached for
// the client's lifetime.
type Client struct {
	http *resty.Client
	host string
	keys platforms.KeySource
	doer platforms.Doer
	log  logger.Logger

	mu      sync.Mutex
	secUIDs map[string]string
}

// New creates a TikTok client from the platform config.
func New(cfg config.PlatformConfig, keys platforms.KeySource, doer platforms.Doer, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		http:    resty.New().SetBaseURL(fmt.Sprintf("https://%s/api", cfg.Host)),
		host:    cfg.Host,
		keys:    keys,
		doer:    doer,
		log:     log.WithField("platform", platform),
		secUIDs: make(map[string]string),
	}
}

// SetBaseURL overrides the API base URL, for tests.
func (c *Client) SetBaseURL(u string) {
	c.http.SetBaseURL(u)
}

// Platform returns the platform identifier.
func (c *Client) Platform() models.Platform {
	return models.PlatformTikTok
}

// FetchProfile retrieves the account-level snapshot for a username.
func (c *Client) FetchProfile(ctx context.Context, identifier string) (*models.ProfileSnapshot, error) {
	username := platforms.NormalizeUsername(identifier)

	info, err := c.fetchUserInfo(ctx, username)
	if err != nil {
		return nil, err
	}

	c.log.WithField("username", username).Debug("fetched profile")

	return &models.ProfileSnapshot{
		Platform:       models.PlatformTikTok,
		Username:       username,
		AccountID:      info.User.ID.String(),
		DisplayName:    info.User.Nickname,
		Bio:            info.User.Signature,
		FollowerCount:  info.Stats.FollowerCount.Int(),
		FollowingCount: info.Stats.FollowingCount.Int(),
		PostCount:      info.Stats.VideoCount.Int(),
	}, nil
}

// FetchPosts retrieves up to limit of the account's most recent videos,
// following the cursor until the limit is met or hasMore is false.
func (c *Client) FetchPosts(ctx context.Context, identifier string, limit int) ([]models.PostSnapshot, error) {
	username := platforms.NormalizeUsername(identifier)

	secUID, err := c.secUID(ctx, username)
	if err != nil {
		return nil, err
	}

	var posts []models.PostSnapshot
	cursor := "0"

	for len(posts) < limit {
		count := maxPageSize
		if remaining := limit - len(posts); remaining < count {
			count = remaining
		}

		var out postsResponse
		err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
			return c.get(ctx, "/user/posts", map[string]string{
				"secUid": secUID,
				"count":  strconv.Itoa(count),
				"cursor": cursor,
			}, &out)
		})
		if err != nil {
			return posts, err
		}

		items, hasMore, next := out.page()
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if len(posts) >= limit {
				break
			}
			posts = append(posts, snapshotFromItem(item, username))
		}

		if !hasMore {
			break
		}
		cursor = next
		if cursor == "" {
			cursor = "0"
		}
	}

	c.log.WithFields(map[string]interface{}{
		"username": username,
		"posts":    len(posts),
	}).Debug("fetched posts")

	return posts, nil
}

// secUID resolves and caches the account's secUid.
func (c *Client) secUID(ctx context.Context, username string) (string, error) {
	c.mu.Lock()
	if id, ok := c.secUIDs[username]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	info, err := c.fetchUserInfo(ctx, username)
	if err != nil {
		return "", err
	}
	if info.User.SecUID == "" {
		return "", errs.NotFound(platform, "no secUid for user %s", username)
	}
	return info.User.SecUID, nil
}

func (c *Client) fetchUserInfo(ctx context.Context, username string) (*userInfo, error) {
	var out userInfoResponse
	err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.get(ctx, "/user/info", map[string]string{"uniqueId": username}, &out)
	})
	if err != nil {
		return nil, err
	}
	if out.UserInfo == nil {
		return nil, errs.NotFound(platform, "user %s not found", username)
	}

	if out.UserInfo.User.SecUID != "" {
		c.mu.Lock()
		c.secUIDs[username] = out.UserInfo.User.SecUID
		c.mu.Unlock()
	}

	return out.UserInfo, nil
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

func snapshotFromItem(item videoItem, username string) models.PostSnapshot {
	var publishedAt time.Time
	if item.CreateTime > 0 {
		publishedAt = time.Unix(item.CreateTime, 0).UTC()
	}

	id := item.ID.String()

	return models.PostSnapshot{
		Platform:       models.PlatformTikTok,
		PlatformPostID: id,
		PostType:       "video",
		Caption:        item.Desc,
		URL:            fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", username, id),
		ThumbnailURL:   item.Video.Cover,
		PublishedAt:    publishedAt,
		Views:          item.Stats.PlayCount.Int(),
		Likes:          item.Stats.DiggCount.Int(),
		Comments:       item.Stats.CommentCount.Int(),
		Shares:         item.Stats.ShareCount.Int(),
		Saves:          item.Stats.CollectCount.Int(),
	}
}
