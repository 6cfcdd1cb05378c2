package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/voro-app/feed-service/internal/dto"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/notify"
	"github.com/voro-app/feed-service/internal/rabbitmq"
	"github.com/voro-app/feed-service/internal/repository"
	"go.uber.org/zap"
)

type Feed interface {
	// Activate runs the initial load. Only the first call has any effect.
	Activate(ctx context.Context)
	Load(ctx context.Context) error
	Create(ctx context.Context, identity *model.Identity, input dto.CreatePostRequest) (*model.FullPost, error)
	Like(ctx context.Context, id uuid.UUID) error
	Posts() []model.FullPost
	Filter(kind model.Kind, category string) []model.FullPost
	Loading() bool
	State() FeedState
}

type Profile interface {
	CreateOrGet(ctx context.Context, identity model.Identity) (*model.Profile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	ConsumeUpdates(ctx context.Context)
}

type Service struct {
	Feed
	Profile
	Notifier notify.Notifier
}

func New(logger *zap.Logger, repo *repository.Repository, notifier notify.Notifier, mq rabbitmq.Broker) *Service {
	return &Service{
		Feed:     newFeedService(logger, repo, notifier, mq),
		Profile:  newProfileService(logger, repo, mq),
		Notifier: notifier,
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	s.Profile.ConsumeUpdates(ctx)
}
