package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/voro-app/feed-service/internal/model"
)

type MQPostCreatedMsg struct {
	PostID    uuid.UUID  `json:"post_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Kind      model.Kind `json:"kind"`
	Category  string     `json:"category"`
	Caption   string     `json:"caption"`
	CreatedAt time.Time  `json:"created_at"`
}
