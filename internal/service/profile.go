package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/rabbitmq"
	"github.com/voro-app/feed-service/internal/repository"
	"github.com/voro-app/feed-service/internal/repository/redisrepo"
	"go.uber.org/zap"
)

type profileService struct {
	logger *zap.Logger
	repo   *repository.Repository
	mq     rabbitmq.Broker
}

func newProfileService(logger *zap.Logger, repo *repository.Repository, mq rabbitmq.Broker) Profile {
	return &profileService{
		logger: logger,
		repo:   repo,
		mq:     mq,
	}
}

// CreateOrGet returns the stored profile of identity, creating it from the
// identity metadata on first sight.
func (s *profileService) CreateOrGet(ctx context.Context, identity model.Identity) (*model.Profile, error) {
	profile, err := s.FindByID(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	created := identity.Profile()
	if err := s.repo.Profile.Create(ctx, created); err != nil {
		s.logger.Sugar().Errorf("failed to create profile(%s): %s", identity.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return &created, nil
}

func (s *profileService) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	cachedProfile, err := redisrepo.Get[model.Profile](s.repo.Redis.Default, ctx, redisrepo.ProfileKey(id.String()))
	if err == nil && cachedProfile != nil {
		return cachedProfile, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get profile(%s) from redis: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	profile, err := s.repo.Profile.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}

		s.logger.Sugar().Errorf("failed to get profile(%s) from postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.ProfileKey(id.String()), profile, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set profile(%s) in redis: %s", id.String(), err.Error())
	}

	return profile, nil
}

func (s *profileService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if err := s.repo.Profile.Update(ctx, id, updates); err != nil {
		if errors.Is(err, model.ErrFieldsNotAllowedToUpdate) {
			return err
		}
		s.logger.Sugar().Errorf("failed to update profile(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.ProfileKey(id.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete profile(%s) from redis: %s", id.String(), err.Error())
	}

	return nil
}

// ConsumeUpdates applies profile changes published by the identity service
// until the queue closes or ctx is done.
func (s *profileService) ConsumeUpdates(ctx context.Context) {
	queue := rabbitmq.USER_INFO_UPDATED_QUEUE
	msgs, err := s.mq.Consume(queue)
	if err != nil {
		s.logger.Sugar().Errorf("failed to start consume updates from queue(%s): %s", queue, err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var data map[string]interface{}
			if err := json.Unmarshal(msg.Body, &data); err != nil {
				s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
				msg.Nack(false, false)
				continue
			}

			userIDString, exists := data["user_id"].(string)
			if !exists {
				s.logger.Sugar().Errorf("'user_id' field is not provided")
				msg.Nack(false, false)
				continue
			}
			userID, err := uuid.Parse(userIDString)
			if err != nil {
				s.logger.Sugar().Errorf("provided an invalid user_id")
				msg.Nack(false, false)
				continue
			}

			delete(data, "user_id")

			if err := s.Update(ctx, userID, data); err != nil {
				if errors.Is(err, model.ErrFieldsNotAllowedToUpdate) {
					s.logger.Sugar().Errorf("profile(%s) update contains unknown fields", userID.String())
					msg.Nack(false, false)
					continue
				}
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}
}
