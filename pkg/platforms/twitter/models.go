package twitter

import (
	"bytes"
	"encoding/json"

	"socialpulse/pkg/platforms"
)

// profileResponse is the twitter-api45 screenname.php payload. Field names
// vary between provider versions, so counts carry fallbacks.
type profileResponse struct {
	RestID         platforms.FlexString `json:"rest_id"`
	IDStr          platforms.FlexString `json:"id_str"`
	ID             platforms.FlexString `json:"id"`
	Name           string               `json:"name"`
	Desc           string               `json:"desc"`
	Description    string               `json:"description"`
	SubCount       platforms.FlexInt    `json:"sub_count"`
	FollowersCount platforms.FlexInt    `json:"followers_count"`
	Followers      platforms.FlexInt    `json:"followers"`
	Friends        platforms.FlexInt    `json:"friends"`
	FriendsCount   platforms.FlexInt    `json:"friends_count"`
	Following      platforms.FlexInt    `json:"following"`
	StatusesCount  platforms.FlexInt    `json:"statuses_count"`
	Tweets         platforms.FlexInt    `json:"tweets"`
}

func (p *profileResponse) accountID() string {
	return coalesceStr(p.RestID.String(), p.IDStr.String(), p.ID.String())
}

func (p *profileResponse) bio() string {
	return coalesceStr(p.Desc, p.Description)
}

func (p *profileResponse) followerCount() int {
	return coalesceInt(p.SubCount.Int(), p.FollowersCount.Int(), p.Followers.Int())
}

func (p *profileResponse) followingCount() int {
	return coalesceInt(p.Friends.Int(), p.FriendsCount.Int(), p.Following.Int())
}

func (p *profileResponse) tweetCount() int {
	return coalesceInt(p.StatusesCount.Int(), p.Tweets.Int())
}

// timelineResponse accepts the three shapes timeline.php is known to return:
// {"timeline": [...]}, {"tweets": [...]}, or a bare array.
type timelineResponse struct {
	Tweets []tweet
}

func (t *timelineResponse) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &t.Tweets)
	}

	var obj struct {
		Timeline []tweet `json:"timeline"`
		Tweets   []tweet `json:"tweets"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	if len(obj.Timeline) > 0 {
		t.Tweets = obj.Timeline
	} else {
		t.Tweets = obj.Tweets
	}
	return nil
}

type tweet struct {
	TweetID   platforms.FlexString `json:"tweet_id"`
	IDStr     platforms.FlexString `json:"id_str"`
	ID        platforms.FlexString `json:"id"`
	Text      string               `json:"text"`
	FullText  string               `json:"full_text"`
	CreatedAt string               `json:"created_at"`
	Views     platforms.FlexInt    `json:"views"`
	Favorites platforms.FlexInt    `json:"favorites"`
	Retweets  platforms.FlexInt    `json:"retweets"`
	Replies   platforms.FlexInt    `json:"replies"`
	Quotes    platforms.FlexInt    `json:"quotes"`
	Bookmarks platforms.FlexInt    `json:"bookmarks"`
}

func (t *tweet) tweetID() string {
	return coalesceStr(t.TweetID.String(), t.IDStr.String(), t.ID.String())
}

func (t *tweet) text() string {
	return coalesceStr(t.Text, t.FullText)
}

func coalesceStr(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func coalesceInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
