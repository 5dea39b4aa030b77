package tiktok

import "socialpulse/pkg/platforms"

// userInfoResponse is the tiktok-api23 user/info payload.
type userInfoResponse struct {
	UserInfo *userInfo `json:"userInfo"`
}

type userInfo struct {
	User  user      `json:"user"`
	Stats userStats `json:"stats"`
}

type user struct {
	ID        platforms.FlexString `json:"id"`
	Nickname  string               `json:"nickname"`
	Signature string               `json:"signature"`
	SecUID    string               `json:"secUid"`
}

type userStats struct {
	FollowerCount  platforms.FlexInt `json:"followerCount"`
	FollowingCount platforms.FlexInt `json:"followingCount"`
	VideoCount     platforms.FlexInt `json:"videoCount"`
}

// postsResponse covers both shapes the user/posts endpoint returns: the item
// list either at the top level or nested under "data".
type postsResponse struct {
	Data     *postsPage           `json:"data"`
	ItemList []videoItem          `json:"itemList"`
	HasMore  bool                 `json:"hasMore"`
	Cursor   platforms.FlexString `json:"cursor"`
}

type postsPage struct {
	ItemList []videoItem          `json:"itemList"`
	HasMore  bool                 `json:"hasMore"`
	Cursor   platforms.FlexString `json:"cursor"`
}

// page normalizes the two response shapes.
func (r *postsResponse) page() ([]videoItem, bool, string) {
	if r.Data != nil {
		return r.Data.ItemList, r.Data.HasMore, r.Data.Cursor.String()
	}
	return r.ItemList, r.HasMore, r.Cursor.String()
}

type videoItem struct {
	ID         platforms.FlexString `json:"id"`
	Desc       string               `json:"desc"`
	CreateTime int64                `json:"createTime"`
	Video      videoMeta            `json:"video"`
	Stats      videoStats           `json:"stats"`
}

type videoMeta struct {
	Cover string `json:"cover"`
}

type videoStats struct {
	PlayCount    platforms.FlexInt `json:"playCount"`
	DiggCount    platforms.FlexInt `json:"diggCount"`
	CommentCount platforms.FlexInt `json:"commentCount"`
	ShareCount   platforms.FlexInt `json:"shareCount"`
	CollectCount platforms.FlexInt `json:"collectCount"`
}
