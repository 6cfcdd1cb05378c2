package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voro-app/feed-service/internal/dto"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/notify"
	"github.com/voro-app/feed-service/internal/repository"
	"github.com/voro-app/feed-service/internal/repository/inmemory"
	"github.com/voro-app/feed-service/internal/repository/redisrepo"
	"github.com/voro-app/feed-service/internal/service"
	"go.uber.org/zap"
)

var testSecret = []byte("handler-test-secret")

type mapRedis struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMapRedis() *mapRedis {
	return &mapRedis{values: make(map[string]string)}
}

func (r *mapRedis) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = string(b)
	return nil
}

func (r *mapRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return redis.NewStringResult("", r.getErr)
	}
	v, ok := r.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (r *mapRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		delete(r.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type nopBroker struct{}

func (nopBroker) Publish(ctx context.Context, queue string, body []byte) error { return nil }

func (nopBroker) Consume(queue string) (<-chan amqp.Delivery, error) {
	return make(chan amqp.Delivery), nil
}

type testServer struct {
	router *gin.Engine
	store  *inmemory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithRedis(t, newMapRedis())
}

func newTestServerWithRedis(t *testing.T, cache redisrepo.Default) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := inmemory.New()
	repo := &repository.Repository{
		Post:    store,
		Profile: store.Profiles(),
		Redis:   &redisrepo.RedisRepository{Default: cache},
	}
	hub := notify.NewHub(20)
	services := service.New(zap.NewNop(), repo, hub, nopBroker{})
	services.Feed.Activate(context.Background())

	return &testServer{
		router: New(services, hub, testSecret).InitRoutes(),
		store:  store,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func accessToken(t *testing.T, id uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.String(),
		"email": "ada@voro.app",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"full_name": "Ada Lovelace",
		},
	}).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func createBody(caption string) map[string]interface{} {
	return map[string]interface{}{
		"kind":     "post",
		"caption":  caption,
		"category": "Technology",
	}
}

func TestPostsCreate_Unauthenticated(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/posts", "", createBody("Hello"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode[dto.CreatePost](t, w)
	assert.False(t, resp.Ok)
	assert.Equal(t, service.ErrUnauthenticated.Error(), resp.Details)

	w = s.do(t, http.MethodGet, "/api/v1/notifications", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	notifications := decode[[]notify.Notification](t, w)
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.VariantDestructive, notifications[0].Variant)

	posts, err := s.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostsCreate_InvalidTokenIsUnauthenticated(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/posts", "garbage", createBody("Hello"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostsCreate_Success(t *testing.T) {
	s := newTestServer(t)
	userID := uuid.New()

	body := createBody("Hello")
	body["owner_id"] = uuid.New().String()
	w := s.do(t, http.MethodPost, "/api/v1/posts", accessToken(t, userID), body)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode[dto.CreatePost](t, w)
	assert.True(t, resp.Ok)
	require.NotNil(t, resp.Post)
	assert.Equal(t, userID, resp.Post.Post.OwnerID)
	assert.Equal(t, "Hello", resp.Post.Post.Caption)
	require.NotNil(t, resp.Post.Author)
	assert.Equal(t, "Ada Lovelace", resp.Post.Author.Name)

	w = s.do(t, http.MethodGet, "/api/v1/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[dto.GetPosts](t, w)
	assert.False(t, feed.Loading)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, resp.Post.Post.ID, feed.Posts[0].Post.ID)
}

func TestPostsCreate_Validation(t *testing.T) {
	s := newTestServer(t)
	token := accessToken(t, uuid.New())

	for _, caption := range []string{"", "   "} {
		w := s.do(t, http.MethodPost, "/api/v1/posts", token, createBody(caption))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, service.ErrEmptyCaption.Error(), decode[dto.CreatePost](t, w).Details)
	}

	body := createBody("Hello")
	body["category"] = "general"
	w := s.do(t, http.MethodPost, "/api/v1/posts", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = createBody("Hello")
	body["kind"] = "story"
	w = s.do(t, http.MethodPost, "/api/v1/posts", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	posts, err := s.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)

	notifications := decode[[]notify.Notification](t, s.do(t, http.MethodGet, "/api/v1/notifications", "", nil))
	require.Len(t, notifications, 4)
	for _, n := range notifications {
		assert.Equal(t, notify.VariantDestructive, n.Variant)
	}
	assert.Equal(t, service.ErrEmptyCaption.Error(), notifications[0].Description)
}

func TestPostsCreate_ProfileStoreFailure(t *testing.T) {
	cache := newMapRedis()
	cache.getErr = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	s := newTestServerWithRedis(t, cache)

	w := s.do(t, http.MethodPost, "/api/v1/posts", accessToken(t, uuid.New()), createBody("Hello"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[dto.CreatePost](t, w)
	assert.False(t, resp.Ok)
	assert.Equal(t, service.ErrInternal.Error(), resp.Details)

	notifications := decode[[]notify.Notification](t, s.do(t, http.MethodGet, "/api/v1/notifications", "", nil))
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.VariantDestructive, notifications[0].Variant)
	assert.Equal(t, "Failed to create post", notifications[0].Description)

	posts, err := s.store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)

	w = s.do(t, http.MethodGet, "/api/v1/profiles/me", accessToken(t, uuid.New()), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPostsLike(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/posts", accessToken(t, uuid.New()), createBody("Like me"))
	require.Equal(t, http.StatusCreated, w.Code)
	postID := decode[dto.CreatePost](t, w).Post.Post.ID

	w = s.do(t, http.MethodPost, "/api/v1/posts/"+postID.String()+"/like", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/posts/"+uuid.NewString()+"/like", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/posts/not-a-uuid/like", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	feed := decode[dto.GetPosts](t, s.do(t, http.MethodGet, "/api/v1/posts", "", nil))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, int64(1), feed.Posts[0].Post.LikeCount)
}

func TestPostsGet_Filters(t *testing.T) {
	s := newTestServer(t)
	token := accessToken(t, uuid.New())

	s.do(t, http.MethodPost, "/api/v1/posts", token, createBody("tech"))
	s.do(t, http.MethodPost, "/api/v1/posts", token, map[string]interface{}{
		"kind":      "spark",
		"caption":   "kitchen",
		"category":  "food",
		"video_url": "https://cdn.voro.app/k.mp4",
	})

	feed := decode[dto.GetPosts](t, s.do(t, http.MethodGet, "/api/v1/posts?category=technology", "", nil))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "tech", feed.Posts[0].Post.Caption)

	feed = decode[dto.GetPosts](t, s.do(t, http.MethodGet, "/api/v1/posts?kind=spark", "", nil))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "kitchen", feed.Posts[0].Post.Caption)

	w := s.do(t, http.MethodGet, "/api/v1/posts?category=general", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrInvalidCategory.Error(), decode[dto.BasicResponse](t, w).Details)

	w = s.do(t, http.MethodGet, "/api/v1/posts?kind=story", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrInvalidKind.Error(), decode[dto.BasicResponse](t, w).Details)
}

func TestPostsRefetch(t *testing.T) {
	s := newTestServer(t)

	_, err := s.store.Create(context.Background(), model.Post{OwnerID: uuid.New(), Kind: model.KindPost, Caption: "from elsewhere", Category: "Healthcare"})
	require.NoError(t, err)

	feed := decode[dto.GetPosts](t, s.do(t, http.MethodGet, "/api/v1/posts", "", nil))
	assert.Empty(t, feed.Posts)

	w := s.do(t, http.MethodPost, "/api/v1/posts/refetch", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed = decode[dto.GetPosts](t, w)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "from elsewhere", feed.Posts[0].Post.Caption)
}

func TestCategoriesGet(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode[[]model.Category](t, w)
	assert.Equal(t, model.Categories, categories)
}

func TestProfiles(t *testing.T) {
	s := newTestServer(t)
	userID := uuid.New()

	w := s.do(t, http.MethodGet, "/api/v1/profiles/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/profiles/me", accessToken(t, userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[model.Profile](t, w)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "ada", profile.Username)

	w = s.do(t, http.MethodGet, "/api/v1/profiles/"+userID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/profiles/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/profiles/nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdentityFromClaims(t *testing.T) {
	id := uuid.New()

	identity, err := identityFromClaims(jwt.MapClaims{
		"sub":   id.String(),
		"email": "grace@voro.app",
		"user_metadata": map[string]interface{}{
			"full_name":  "Grace Hopper",
			"avatar_url": "https://cdn.voro.app/g.png",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, id, identity.ID)
	assert.Equal(t, "grace@voro.app", identity.Email)
	require.NotNil(t, identity.Metadata.FullName)
	assert.Equal(t, "Grace Hopper", *identity.Metadata.FullName)
	require.NotNil(t, identity.Metadata.AvatarURL)

	identity, err = identityFromClaims(jwt.MapClaims{"id": id.String()})
	require.NoError(t, err)
	assert.Nil(t, identity.Metadata.FullName)

	_, err = identityFromClaims(jwt.MapClaims{"sub": "not-a-uuid"})
	assert.ErrorIs(t, err, errInvalidClaims)
}
