// Package instagram implements the Instagram adapter over the instagram120
// RapidAPI provider.
package instagram

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

const platform = "instagram"

// Client talks to the instagram120 API. Both endpoints are POST with a JSON
// body; posts are paginated by maxId cursor.
type Client struct {
	http *resty.Client
	host string
	keys platforms.KeySource
	doer platforms.Doer
	log  logger.Logger
}

// New creates an Instagram client from the platform config.
func New(cfg config.PlatformConfig, keys platforms.KeySource, doer platforms.Doer, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		http: resty.New().SetBaseURL(fmt.Sprintf("https://%s/api/instagram", cfg.Host)),
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
	return models.PlatformInstagram
}

// FetchProfile retrieves the account-level snapshot for a username.
func (c *Client) FetchProfile(ctx context.Context, identifier string) (*models.ProfileSnapshot, error) {
	username := platforms.NormalizeUsername(identifier)

	var out profileResponse
	err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
		return c.post(ctx, "/profile", map[string]string{"username": username}, &out)
	})
	if err != nil {
		return nil, err
	}

	r := out.Result
	c.log.WithField("username", username).Debug("fetched profile")

	return &models.ProfileSnapshot{
		Platform:       models.PlatformInstagram,
		Username:       username,
		AccountID:      r.ID.String(),
		DisplayName:    r.FullName,
		Bio:            r.Biography,
		FollowerCount:  r.EdgeFollowedBy.Count,
		FollowingCount: r.EdgeFollow.Count,
		PostCount:      r.EdgeMedia.Count,
	}, nil
}

// FetchPosts retrieves up to limit of the account's most recent posts,
// following the maxId cursor until the limit is met or pagination ends.
func (c *Client) FetchPosts(ctx context.Context, identifier string, limit int) ([]models.PostSnapshot, error) {
	username := platforms.NormalizeUsername(identifier)

	var posts []models.PostSnapshot
	maxID := ""

	for len(posts) < limit {
		var out postsResponse
		err := c.doer.Do(ctx, platform, func(ctx context.Context) error {
			return c.post(ctx, "/posts", map[string]string{"username": username, "maxId": maxID}, &out)
		})
		if err != nil {
			return posts, err
		}

		edges := out.Result.Edges
		if len(edges) == 0 {
			break
		}

		for _, edge := range edges {
			if len(posts) >= limit {
				break
			}
			posts = append(posts, snapshotFromNode(edge.Node))
		}

		page := out.Result.PageInfo
		if !page.HasNextPage || page.EndCursor == "" {
			break
		}
		maxID = page.EndCursor
	}

	c.log.WithFields(map[string]interface{}{
		"username": username,
		"posts":    len(posts),
	}).Debug("fetched posts")

	return posts, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]string, out interface{}) error {
	key, err := c.keys.APIKey(platform)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-RapidAPI-Key", key).
		SetHeader("X-RapidAPI-Host", c.host).
		SetBody(body).
		SetResult(out).
		Post(path)
	return platforms.CheckResponse(platform, resp, err)
}

// snapshotFromNode maps one timeline node to the canonical post record.
// Shares and saves are not exposed by this API and stay zero.
func snapshotFromNode(node postNode) models.PostSnapshot {
	postType := "image"
	if node.IsVideo {
		postType = "video"
	}
	if node.ProductType == "clips" {
		postType = "reel"
	}

	var publishedAt time.Time
	if node.TakenAt > 0 {
		publishedAt = time.Unix(node.TakenAt, 0).UTC()
	}

	url := ""
	if node.Code != "" {
		url = fmt.Sprintf("https://www.instagram.com/p/%s/", node.Code)
	}

	caption := ""
	if node.Caption != nil {
		caption = node.Caption.Text
	}

	thumbnail := ""
	if len(node.ImageVersions.Candidates) > 0 {
		thumbnail = node.ImageVersions.Candidates[0].URL
	}

	views := node.ViewCount.Int()
	if views == 0 {
		views = node.PlayCount.Int()
	}

	return models.PostSnapshot{
		Platform:       models.PlatformInstagram,
		PlatformPostID: node.PK.String(),
		PostType:       postType,
		Caption:        caption,
		URL:            url,
		ThumbnailURL:   thumbnail,
		PublishedAt:    publishedAt,
		Views:          views,
		Likes:          node.LikeCount.Int(),
		Comments:       node.CommentCount.Int(),
	}
}
