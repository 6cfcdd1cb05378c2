package dto

import "github.com/voro-app/feed-service/internal/model"

type GetPosts struct {
	Posts   []model.FullPost `json:"posts"`
	Loading bool             `json:"loading"`
}

type CreatePost struct {
	BasicResponse
	Post *model.FullPost `json:"post,omitempty"`
}
