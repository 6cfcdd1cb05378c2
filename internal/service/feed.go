package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/voro-app/feed-service/internal/dto"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/notify"
	"github.com/voro-app/feed-service/internal/rabbitmq"
	"github.com/voro-app/feed-service/internal/repository"
	"go.uber.org/zap"
)

type FeedState int

const (
	FeedUninitialized FeedState = iota
	FeedLoading
	FeedReady
)

func (s FeedState) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// feedService owns the snapshot: posts ordered newest first. Store calls run
// outside mu; the snapshot is only ever replaced whole or updated one entry
// at a time.
type feedService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	notifier notify.Notifier
	mq       rabbitmq.Broker

	mu         sync.RWMutex
	posts      []model.FullPost
	state      FeedState
	loading    bool
	generation uint64

	activate sync.Once
}

func newFeedService(logger *zap.Logger, repo *repository.Repository, notifier notify.Notifier, mq rabbitmq.Broker) Feed {
	return &feedService{
		logger:   logger,
		repo:     repo,
		notifier: notifier,
		mq:       mq,
	}
}

func (s *feedService) Activate(ctx context.Context) {
	s.activate.Do(func() {
		s.Load(ctx)
	})
}

func (s *feedService) Load(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.loading = true
	s.state = FeedLoading
	s.mu.Unlock()

	posts, err := s.repo.Post.FindAll(ctx)

	s.mu.Lock()
	if latest := s.generation; generation != latest {
		s.mu.Unlock()
		s.logger.Sugar().Infof("discarding feed load(%d), superseded by load(%d)", generation, latest)
		return nil
	}
	s.loading = false
	s.state = FeedReady
	if err == nil {
		snapshot := make([]model.FullPost, 0, len(posts))
		for _, p := range posts {
			snapshot = append(snapshot, p.Clone())
		}
		s.posts = snapshot
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Sugar().Errorf("failed to load posts: %s", err.Error())
		s.notifier.Notify(notify.Error("Failed to load posts"))
		return ErrInternal
	}

	return nil
}

func (s *feedService) Create(ctx context.Context, identity *model.Identity, input dto.CreatePostRequest) (*model.FullPost, error) {
	if identity == nil {
		s.notifier.Notify(notify.Error("You must be logged in to create a post"))
		return nil, ErrUnauthenticated
	}

	post, err := newPost(identity.ID, input)
	if err != nil {
		s.notifier.Notify(notify.Error(err.Error()))
		return nil, err
	}

	createdPost, err := s.repo.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", identity.ID.String(), err.Error())
		s.notifier.Notify(notify.Error("Failed to create post"))
		return nil, ErrInternal
	}

	full := model.FullPost{
		Post:   *createdPost,
		Author: identity.Author(),
	}

	s.mu.Lock()
	posts := make([]model.FullPost, 0, len(s.posts)+1)
	posts = append(posts, full.Clone())
	s.posts = append(posts, s.posts...)
	s.mu.Unlock()

	label := "Post"
	if createdPost.Kind == model.KindSpark {
		label = "Voro Spark"
	}
	s.notifier.Notify(notify.Info("Success!", label+" created successfully!"))

	s.publishPostCreated(ctx, createdPost)

	return &full, nil
}

func newPost(ownerID uuid.UUID, input dto.CreatePostRequest) (model.Post, error) {
	caption := strings.TrimSpace(input.Caption)
	if caption == "" {
		return model.Post{}, ErrEmptyCaption
	}

	if !input.Kind.Valid() {
		return model.Post{}, ErrInvalidKind
	}

	category, ok := model.ParseCategory(input.Category)
	if !ok {
		return model.Post{}, ErrInvalidCategory
	}

	return model.Post{
		OwnerID:     ownerID,
		Kind:        input.Kind,
		Caption:     caption,
		Description: input.Description,
		Category:    category.Title,
		ImageURL:    input.ImageURL,
		VideoURL:    input.VideoURL,
	}, nil
}

func (s *feedService) publishPostCreated(ctx context.Context, post *model.Post) {
	msg := dto.MQPostCreatedMsg{
		PostID:    post.ID,
		UserID:    post.OwnerID,
		Kind:      post.Kind,
		Category:  post.Category,
		Caption:   post.Caption,
		CreatedAt: post.CreatedAt,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal post(%s) created message: %s", post.ID.String(), err.Error())
		return
	}

	if err := s.mq.Publish(ctx, rabbitmq.POST_CREATED_QUEUE, body); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%s) created message: %s", post.ID.String(), err.Error())
	}
}

func (s *feedService) Like(ctx context.Context, id uuid.UUID) error {
	s.mu.RLock()
	_, found := s.indexOf(id)
	s.mu.RUnlock()
	if !found {
		return nil
	}

	likes, err := s.repo.Post.IncrLikes(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to like post(%s): %s", id.String(), err.Error())
		s.notifier.Notify(notify.Error("Failed to like post"))
		return ErrInternal
	}

	s.mu.Lock()
	// Likes only grow; a late answer from an earlier increment must not lower the count.
	if i, ok := s.indexOf(id); ok && likes > s.posts[i].Post.LikeCount {
		s.posts[i].Post.LikeCount = likes
	}
	s.mu.Unlock()

	s.notifier.Notify(notify.Info("", "Post liked!"))

	return nil
}

func (s *feedService) indexOf(id uuid.UUID) (int, bool) {
	for i := range s.posts {
		if s.posts[i].Post.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *feedService) Posts() []model.FullPost {
	return s.Filter("", "")
}

// Filter returns the snapshot entries matching kind and category title.
// Empty arguments match everything.
func (s *feedService) Filter(kind model.Kind, category string) []model.FullPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]model.FullPost, 0, len(s.posts))
	for _, p := range s.posts {
		if kind != "" && p.Post.Kind != kind {
			continue
		}
		if category != "" && p.Post.Category != category {
			continue
		}
		posts = append(posts, p.Clone())
	}
	return posts
}

func (s *feedService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *feedService) State() FeedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
