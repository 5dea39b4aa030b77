package youtube

import "socialpulse/pkg/platforms"

// searchResponse is the Data API v3 search payload.
type searchResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []searchItem `json:"items"`
}

type searchItem struct {
	ID      searchID      `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchID struct {
	VideoID string `json:"videoId"`
}

type searchSnippet struct {
	ChannelID   string     `json:"channelId"`
	Title       string     `json:"title"`
	PublishedAt string     `json:"publishedAt"`
	Thumbnails  thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	High thumbnail `json:"high"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// channelsResponse is the Data API v3 channels payload.
type channelsResponse struct {
	Items []channel `json:"items"`
}

type channel struct {
	ID         string         `json:"id"`
	Snippet    channelSnippet `json:"snippet"`
	Statistics channelStats   `json:"statistics"`
}

type channelSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Statistics counts arrive as decimal strings.
type channelStats struct {
	SubscriberCount platforms.FlexInt `json:"subscriberCount"`
	VideoCount      platforms.FlexInt `json:"videoCount"`
}

// videosResponse is the Data API v3 videos payload used for batched
// statistics lookups.
type videosResponse struct {
	Items []video `json:"items"`
}

type video struct {
	ID         string     `json:"id"`
	Statistics videoStats `json:"statistics"`
}

type videoStats struct {
	ViewCount    platforms.FlexInt `json:"viewCount"`
	LikeCount    platforms.FlexInt `json:"likeCount"`
	CommentCount platforms.FlexInt `json:"commentCount"`
}
