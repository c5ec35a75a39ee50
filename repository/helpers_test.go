package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pawtrack/go-datastore/cache"
	"github.com/pawtrack/go-datastore/kvstore"
)

// careTask is the entity used throughout the repository tests.
type careTask struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Status   string     `json:"status"`
	Priority int        `json:"priority"`
	DueAt    *time.Time `json:"due_at,omitempty"`
}

func taskHandlers() Handlers[careTask] {
	return Handlers[careTask]{
		GetID: func(t careTask) string { return t.ID },
		SetID: func(t careTask, id string) careTask {
			t.ID = id
			return t
		},
	}
}

func newTaskRepository(t *testing.T) *StoreRepository[careTask] {
	t.Helper()
	repo, err := NewStoreRepository(kvstore.NewMemoryStore(), taskHandlers())
	if err != nil {
		t.Fatalf("failed to build repository: %v", err)
	}
	return repo
}

func mustCreate(t *testing.T, repo Repository[careTask], task careTask) careTask {
	t.Helper()
	created, err := repo.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("failed to create task %q: %v", task.Title, err)
	}
	return created
}

var errRepoDown = errors.New("storage unavailable")

// failingRepository errors on every operation, for degraded-read tests.
type failingRepository[T any] struct{}

func (failingRepository[T]) GetAll(ctx context.Context) ([]T, error) { return nil, errRepoDown }
func (failingRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	return nil, errRepoDown
}
func (failingRepository[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	return zero, errRepoDown
}
func (failingRepository[T]) Update(ctx context.Context, id string, apply func(T) T) (*T, error) {
	return nil, errRepoDown
}
func (failingRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	return false, errRepoDown
}
func (failingRepository[T]) DeleteAll(ctx context.Context) error { return errRepoDown }
func (failingRepository[T]) Count(ctx context.Context) (int, error) {
	return 0, errRepoDown
}
func (failingRepository[T]) Find(ctx context.Context, match func(T) bool) ([]T, error) {
	return nil, errRepoDown
}

// countingRepository records how often the read paths reach the base, so
// cache tests can assert hit/miss behavior.
type countingRepository[T any] struct {
	Repository[T]

	mu           sync.Mutex
	getAllCalls  int
	getByIDCalls int
	countCalls   int
}

func (r *countingRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	r.getAllCalls++
	r.mu.Unlock()
	return r.Repository.GetAll(ctx)
}

func (r *countingRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	r.mu.Lock()
	r.getByIDCalls++
	r.mu.Unlock()
	return r.Repository.GetByID(ctx, id)
}

func (r *countingRepository[T]) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	r.countCalls++
	r.mu.Unlock()
	return r.Repository.Count(ctx)
}

// testClock is a controllable time source for TTL tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(t *testing.T, opts ...cache.Option) cache.Service {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.TTL = 0
	cfg.PersistToStorage = false

	manager, err := cache.NewManager(cfg, opts...)
	if err != nil {
		t.Fatalf("failed to build cache manager: %v", err)
	}
	return manager
}
