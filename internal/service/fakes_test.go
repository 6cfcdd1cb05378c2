package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/repository"
	"github.com/voro-app/feed-service/internal/repository/inmemory"
	"github.com/voro-app/feed-service/internal/repository/redisrepo"
)

// fakePostRepo counts calls and lets tests inject failures on top of the
// in-memory store.
type fakePostRepo struct {
	*inmemory.Store

	mu           sync.Mutex
	createCalls  int
	findAllCalls int
	incrCalls    int
	lastCreated  model.Post

	createErr error
	findErr   error
	incrErr   error
	findAll   func(call int) ([]*model.FullPost, error)
}

func newFakePostRepo(store *inmemory.Store) *fakePostRepo {
	return &fakePostRepo{Store: store}
}

func (r *fakePostRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	r.createCalls++
	r.lastCreated = post
	err := r.createErr
	r.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return r.Store.Create(ctx, post)
}

func (r *fakePostRepo) FindAll(ctx context.Context) ([]*model.FullPost, error) {
	r.mu.Lock()
	r.findAllCalls++
	call := r.findAllCalls
	hook := r.findAll
	err := r.findErr
	r.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	if err != nil {
		return nil, err
	}
	return r.Store.FindAll(ctx)
}

func (r *fakePostRepo) IncrLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	r.incrCalls++
	err := r.incrErr
	r.mu.Unlock()

	if err != nil {
		return 0, err
	}
	return r.Store.IncrLikes(ctx, id)
}

func (r *fakePostRepo) calls() (create, findAll, incr int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createCalls, r.findAllCalls, r.incrCalls
}

type fakeProfileRepo struct {
	*inmemory.ProfileStore

	mu        sync.Mutex
	findCalls int
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	r.mu.Lock()
	r.findCalls++
	r.mu.Unlock()
	return r.ProfileStore.FindByID(ctx, id)
}

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (r *fakeRedis) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = string(b)
	return nil
}

func (r *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
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

func (r *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := r.values[k]; ok {
			delete(r.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (r *fakeRedis) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.values[key]
	return ok
}

type published struct {
	queue string
	body  []byte
}

type fakeBroker struct {
	mu         sync.Mutex
	published  []published
	publishErr error
	deliveries chan amqp.Delivery
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{deliveries: make(chan amqp.Delivery, 8)}
}

func (b *fakeBroker) Publish(ctx context.Context, queue string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, published{queue: queue, body: body})
	return nil
}

func (b *fakeBroker) Consume(queue string) (<-chan amqp.Delivery, error) {
	return b.deliveries, nil
}

func (b *fakeBroker) messages() []published {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]published{}, b.published...)
}

type ackRecord struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	records []ackRecord
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, ackRecord{tag: tag, ack: true})
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func (a *fakeAcknowledger) all() []ackRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ackRecord{}, a.records...)
}

type testDeps struct {
	store    *inmemory.Store
	posts    *fakePostRepo
	profiles *fakeProfileRepo
	redis    *fakeRedis
	repo     *repository.Repository
}

func newTestDeps() *testDeps {
	store := inmemory.New()
	deps := &testDeps{
		store:    store,
		posts:    newFakePostRepo(store),
		profiles: &fakeProfileRepo{ProfileStore: store.Profiles()},
		redis:    newFakeRedis(),
	}
	deps.repo = &repository.Repository{
		Post:    deps.posts,
		Profile: deps.profiles,
		Redis:   &redisrepo.RedisRepository{Default: deps.redis},
	}
	return deps
}
