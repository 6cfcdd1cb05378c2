package dto

import "github.com/voro-app/feed-service/internal/model"

// CreatePostRequest carries no owner: the owner is always the authenticated caller.
// Fields are validated by the feed service so every rejection is notified.
type CreatePostRequest struct {
	Kind        model.Kind `json:"kind"`
	Caption     string     `json:"caption"`
	Description *string    `json:"description"`
	Category    string     `json:"category"`
	ImageURL    *string    `json:"image_url"`
	VideoURL    *string    `json:"video_url"`
}

type GetPostsRequest struct {
	Kind     string `form:"kind"`
	Category string `form:"category"`
}
