package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/voro-app/feed-service/internal/model"
)

// Store keeps posts and profiles in memory. Unknown ids yield pgx.ErrNoRows
// so callers treat it like the Postgres repository.
type Store struct {
	mu       sync.RWMutex
	posts    map[uuid.UUID]*model.Post
	order    []uuid.UUID // insertion order
	profiles map[uuid.UUID]*model.Profile
}

func New() *Store {
	return &Store{
		posts:    make(map[uuid.UUID]*model.Post),
		profiles: make(map[uuid.UUID]*model.Profile),
	}
}

func (s *Store) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	post.ID = uuid.New()
	post.LikeCount = 0
	post.CommentCount = 0
	post.CreatedAt = now
	post.UpdatedAt = now

	s.posts[post.ID] = &post
	s.order = append(s.order, post.ID)

	created := post
	return &created, nil
}

func (s *Store) FindAll(ctx context.Context) ([]*model.FullPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*model.FullPost, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.posts[s.order[i]]
		full := &model.FullPost{Post: *p}
		if profile, ok := s.profiles[p.OwnerID]; ok {
			full.Author = profile.Author()
		}
		posts = append(posts, full)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Post.CreatedAt.After(posts[j].Post.CreatedAt)
	})

	return posts, nil
}

func (s *Store) IncrLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	post.LikeCount++
	post.UpdatedAt = time.Now().UTC()

	return post.LikeCount, nil
}

func (s *Store) Profiles() *ProfileStore {
	return &ProfileStore{s: s}
}

type ProfileStore struct {
	s *Store
}

func (p *ProfileStore) Create(ctx context.Context, profile model.Profile) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if _, exists := p.s.profiles[profile.ID]; exists {
		return nil
	}
	p.s.profiles[profile.ID] = &profile
	return nil
}

func (p *ProfileStore) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	profile, ok := p.s.profiles[id]
	if !ok {
		return nil
	}

	updated := *profile
	for field, value := range updates {
		switch field {
		case "username":
			if v, ok := value.(string); ok {
				updated.Username = v
			}
		case "display_name":
			updated.DisplayName = optionalString(value)
		case "avatar_url":
			updated.AvatarURL = optionalString(value)
		default:
			return model.ErrFieldsNotAllowedToUpdate
		}
	}
	p.s.profiles[id] = &updated

	return nil
}

func (p *ProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	profile, ok := p.s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *profile
	return &found, nil
}

func optionalString(value interface{}) *string {
	v, ok := value.(string)
	if !ok {
		return nil
	}
	return &v
}
