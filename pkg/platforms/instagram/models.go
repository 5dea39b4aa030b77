package instagram

import (
	"encoding/json"

	"socialpulse/pkg/platforms"
)

// profileResponse is the instagram120 profile endpoint payload.
type profileResponse struct {
	Result profileResult `json:"result"`
}

type profileResult struct {
	ID             platforms.FlexString `json:"id"`
	FullName       string               `json:"full_name"`
	Biography      string               `json:"biography"`
	EdgeFollowedBy countField           `json:"edge_followed_by"`
	EdgeFollow     countField           `json:"edge_follow"`
	EdgeMedia      countField           `json:"edge_owner_to_timeline_media"`
}

// countField accepts both shapes the API sends: an object {"count": n} and a
// bare number.
type countField struct {
	Count int
}

func (c *countField) UnmarshalJSON(b []byte) error {
	var obj struct {
		Count platforms.FlexInt `json:"count"`
	}
	if err := json.Unmarshal(b, &obj); err == nil {
		c.Count = obj.Count.Int()
		return nil
	}
	var n platforms.FlexInt
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	c.Count = n.Int()
	return nil
}

// postsResponse is the instagram120 posts endpoint payload.
type postsResponse struct {
	Result postsResult `json:"result"`
}

type postsResult struct {
	Edges    []postEdge `json:"edges"`
	PageInfo pageInfo   `json:"page_info"`
}

type pageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

type postEdge struct {
	Node postNode `json:"node"`
}

type postNode struct {
	PK            platforms.FlexString `json:"pk"`
	Code          string               `json:"code"`
	Caption       *captionNode         `json:"caption"`
	IsVideo       bool                 `json:"is_video"`
	ProductType   string               `json:"product_type"`
	TakenAt       int64                `json:"taken_at"`
	ViewCount     platforms.FlexInt    `json:"view_count"`
	PlayCount     platforms.FlexInt    `json:"play_count"`
	LikeCount     platforms.FlexInt    `json:"like_count"`
	CommentCount  platforms.FlexInt    `json:"comment_count"`
	ImageVersions imageVersions        `json:"image_versions2"`
}

type captionNode struct {
	Text string `json:"text"`
}

type imageVersions struct {
	Candidates []imageCandidate `json:"candidates"`
}

type imageCandidate struct {
	URL string `json:"url"`
}
