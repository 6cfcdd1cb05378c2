package model

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindPost  Kind = "post"
	KindSpark Kind = "spark"
)

func (k Kind) Valid() bool {
	return k == KindPost || k == KindSpark
}

type Post struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Kind         Kind      `json:"kind"`
	Caption      string    `json:"caption"`
	Description  *string   `json:"description"`
	Category     string    `json:"category"`
	ImageURL     *string   `json:"image_url"`
	VideoURL     *string   `json:"video_url"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Author is the display view of a post owner. It is never persisted on the post.
type Author struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Handle    string  `json:"handle"`
}

type FullPost struct {
	Post   Post    `json:"post"`
	Author *Author `json:"author"`
}

// Clone returns a copy that shares no pointers with p.
func (p FullPost) Clone() FullPost {
	c := p
	c.Post.Description = cloneString(p.Post.Description)
	c.Post.ImageURL = cloneString(p.Post.ImageURL)
	c.Post.VideoURL = cloneString(p.Post.VideoURL)
	if p.Author != nil {
		author := *p.Author
		author.AvatarURL = cloneString(p.Author.AvatarURL)
		c.Author = &author
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
