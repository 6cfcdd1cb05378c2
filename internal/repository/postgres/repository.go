package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voro-app/feed-service/internal/model"
)

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindAll(ctx context.Context) ([]*model.FullPost, error)
	IncrLikes(ctx context.Context, id uuid.UUID) (int64, error)
}

type Profile interface {
	Create(ctx context.Context, profile model.Profile) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

type PostgresRepository struct {
	Post
	Profile
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:    newPostRepo(db),
		Profile: newProfileRepo(db),
	}
}
