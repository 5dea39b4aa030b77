// Package youtube implements the YouTube adapter over the Data API v3.
// Unlike the RapidAPI adapters, the key travels as a query parameter.
package youtube

import (
	"context"
	"fmt"
	"strconv"
	"strings"
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
	platform = "youtube"

	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// Upstream page size cap for search.
	maxPageSize = 50

	// Channel descriptions can run to several KB; the bio field keeps the
	// leading portion only.
	maxBioLength = 500
)

// Client talks to the YouTube Data API v3. Identifiers may be @handles,
// plain channel names, or literal channel ids; handles are resolved to a
// channel id once and cached.
type Client struct {
	http *resty.Client
	keys platforms.KeySource
	doer platforms.Doer
	log  logger.Logger

	mu         sync.Mutex
	channelIDs map[string]string
}

// New creates a YouTube client from the platform config.
func New(cfg config.PlatformConfig, keys platforms.KeySource, doer platforms.Doer, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	baseURL := defaultBaseURL
	if cfg.Host != "" {
		baseURL = fmt.Sprintf("https://%s/youtube/v3", cfg.Host)
	}
	return &Client{
		http:       resty.New().SetBaseURL(baseURL),
		keys:       keys,
		doer:       doer,
		log:        log.WithField("platform", platform),
		channelIDs: make(map[string]string),
	}
}

// SetBaseURL overrides the API base URL, for tests.
func (c *Client) SetBaseURL(u string) {
	c.http.SetBaseURL(u)
}

// Platform returns the platform identifier.
func (c *Client) Platform() models.Platform {
	return models.PlatformYouTube
}

// FetchProfile retrieves the channel-level snapshot for an identifier.
// YouTube has no following count; it stays zero.
func (c *Client) FetchProfile(ctx context.Context, identifier string) (*models.ProfileSnapshot, error) {
	channelID, err := c.channelID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var out channelsResponse
	err = c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.get(ctx, "/channels", map[string]string{
			"id":   channelID,
			"part": "snippet,statistics",
		}, &out)
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, errs.NotFound(platform, "channel %s not found", channelID)
	}

	ch := out.Items[0]
	c.log.WithField("channel_id", channelID).Debug("fetched profile")

	bio := ch.Snippet.Description
	if len(bio) > maxBioLength {
		bio = bio[:maxBioLength]
	}

	return &models.ProfileSnapshot{
		Platform:      models.PlatformYouTube,
		Username:      platforms.NormalizeUsername(identifier),
		AccountID:     channelID,
		DisplayName:   ch.Snippet.Title,
		Bio:           bio,
		FollowerCount: ch.Statistics.SubscriberCount.Int(),
		PostCount:     ch.Statistics.VideoCount.Int(),
	}, nil
}

// FetchPosts retrieves up to limit of the channel's most recent videos.
// Search pages supply ids and snippets; statistics come from a batched
// videos lookup per page.
func (c *Client) FetchPosts(ctx context.Context, identifier string, limit int) ([]models.PostSnapshot, error) {
	channelID, err := c.channelID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	var posts []models.PostSnapshot
	pageToken := ""

	for len(posts) < limit {
		count := maxPageSize
		if remaining := limit - len(posts); remaining < count {
			count = remaining
		}

		params := map[string]string{
			"channelId":  channelID,
			"part":       "snippet",
			"type":       "video",
			"order":      "date",
			"maxResults": strconv.Itoa(count),
		}
		if pageToken != "" {
			params["pageToken"] = pageToken
		}

		var page searchResponse
		err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
			return c.get(ctx, "/search", params, &page)
		})
		if err != nil {
			return posts, err
		}
		if len(page.Items) == 0 {
			break
		}

		stats, err := c.videoStats(ctx, page.Items)
		if err != nil {
			return posts, err
		}

		for _, item := range page.Items {
			if len(posts) >= limit {
				break
			}
			videoID := item.ID.VideoID
			if videoID == "" {
				continue
			}
			posts = append(posts, snapshotFromSearch(item, stats[videoID]))
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.log.WithFields(map[string]interface{}{
		"channel_id": channelID,
		"posts":      len(posts),
	}).Debug("fetched posts")

	return posts, nil
}

// channelID resolves an identifier to a channel id. Literal UC… ids pass
// through; handles go through search, then the forHandle lookup.
func (c *Client) channelID(ctx context.Context, identifier string) (string, error) {
	raw := strings.TrimSpace(identifier)
	if strings.HasPrefix(raw, "UC") && len(raw) == 24 {
		return raw, nil
	}

	handle := platforms.NormalizeUsername(raw)

	c.mu.Lock()
	if id, ok := c.channelIDs[handle]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	var search searchResponse
	err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.get(ctx, "/search", map[string]string{
			"q":          "@" + handle,
			"type":       "channel",
			"part":       "snippet",
			"maxResults": "1",
		}, &search)
	})
	if err != nil {
		return "", err
	}
	if len(search.Items) > 0 && search.Items[0].Snippet.ChannelID != "" {
		return c.cacheChannelID(handle, search.Items[0].Snippet.ChannelID), nil
	}

	var channels channelsResponse
	err = c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.get(ctx, "/channels", map[string]string{
			"forHandle": handle,
			"part":      "id",
		}, &channels)
	})
	if err != nil {
		return "", err
	}
	if len(channels.Items) > 0 && channels.Items[0].ID != "" {
		return c.cacheChannelID(handle, channels.Items[0].ID), nil
	}

	return "", errs.NotFound(platform, "channel not found for %s", identifier)
}

func (c *Client) cacheChannelID(handle, id string) string {
	c.mu.Lock()
	c.channelIDs[handle] = id
	c.mu.Unlock()
	return id
}

// videoStats batch-fetches statistics for one search page.
func (c *Client) videoStats(ctx context.Context, items []searchItem) (map[string]videoStats, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return map[string]videoStats{}, nil
	}

	var out videosResponse
	err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.get(ctx, "/videos", map[string]string{
			"id":   strings.Join(ids, ","),
			"part": "statistics",
		}, &out)
	})
	if err != nil {
		return nil, err
	}

	stats := make(map[string]videoStats, len(out.Items))
	for _, v := range out.Items {
		stats[v.ID] = v.Statistics
	}
	return stats, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	key, err := c.keys.APIKey(platform)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", key).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	return platforms.CheckResponse(platform, resp, err)
}

// snapshotFromSearch maps one search result plus its statistics to the
// canonical post record. Shares and saves are not exposed by this API.
func snapshotFromSearch(item searchItem, stats videoStats) models.PostSnapshot {
	var publishedAt time.Time
	if item.Snippet.PublishedAt != "" {
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			publishedAt = t.UTC()
		}
	}

	videoID := item.ID.VideoID

	return models.PostSnapshot{
		Platform:       models.PlatformYouTube,
		PlatformPostID: videoID,
		PostType:       "video",
		Caption:        item.Snippet.Title,
		URL:            fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID),
		ThumbnailURL:   item.Snippet.Thumbnails.High.URL,
		PublishedAt:    publishedAt,
		Views:          stats.ViewCount.Int(),
		Likes:          stats.LikeCount.Int(),
		Comments:       stats.CommentCount.Int(),
	}
}
