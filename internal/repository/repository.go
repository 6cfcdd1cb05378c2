package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/repository/inmemory"
	"github.com/voro-app/feed-service/internal/repository/postgres"
	"github.com/voro-app/feed-service/internal/repository/redisrepo"
)

// Post implementations return pgx.ErrNoRows for unknown ids.
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

type Repository struct {
	Post    Post
	Profile Profile
	Redis   *redisrepo.RedisRepository
}

func New(db *pgxpool.Pool, rdb *redis.Client) *Repository {
	pg := postgres.New(db)
	return &Repository{
		Post:    pg.Post,
		Profile: pg.Profile,
		Redis:   redisrepo.New(rdb),
	}
}

func NewInMemory(rdb *redis.Client) *Repository {
	store := inmemory.New()
	return &Repository{
		Post:    store,
		Profile: store.Profiles(),
		Redis:   redisrepo.New(rdb),
	}
}
