package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawtrack/go-datastore/codec"
	"github.com/pawtrack/go-datastore/kvstore"
)

// StoreRepository persists a collection as one serialized array under one
// storage key. Reads decode a full snapshot; writes re-encode the whole
// collection. That keeps the storage format trivial and is appropriate for
// the on-device collection sizes this layer targets.
type StoreRepository[T any] struct {
	store      kvstore.Store
	cdc        codec.Codec
	handlers   Handlers[T]
	name       string
	storageKey string
	log        *zap.Logger

	// mu serializes read-modify-write cycles on the collection.
	mu sync.Mutex
}

var _ Repository[any] = (*StoreRepository[any])(nil)

// StoreOption configures a StoreRepository.
type StoreOption[T any] func(*StoreRepository[T])

// WithEntityName overrides the derived entity name (and with it the default
// storage key).
func WithEntityName[T any](name string) StoreOption[T] {
	return func(r *StoreRepository[T]) { r.name = name }
}

// WithStorageKey overrides the storage key the collection is persisted
// under.
func WithStorageKey[T any](key string) StoreOption[T] {
	return func(r *StoreRepository[T]) { r.storageKey = key }
}

// WithStoreCodec overrides the collection codec.
func WithStoreCodec[T any](c codec.Codec) StoreOption[T] {
	return func(r *StoreRepository[T]) { r.cdc = c }
}

// WithStoreLogger attaches a logger.
func WithStoreLogger[T any](log *zap.Logger) StoreOption[T] {
	return func(r *StoreRepository[T]) { r.log = log }
}

// NewStoreRepository builds a repository for T over the given store. The
// entity name defaults to the pluralized snake-case type name and the
// storage key to "collection:<entity>".
func NewStoreRepository[T any](store kvstore.Store, handlers Handlers[T], opts ...StoreOption[T]) (*StoreRepository[T], error) {
	if err := handlers.Validate(); err != nil {
		return nil, err
	}

	r := &StoreRepository[T]{
		store:    store,
		cdc:      codec.JSON(),
		handlers: handlers,
		name:     entityNameOf[T](),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.storageKey == "" {
		r.storageKey = "collection:" + r.name
	}
	return r, nil
}

// Name returns the entity name this repository stores.
func (r *StoreRepository[T]) Name() string { return r.name }

func (r *StoreRepository[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := r.store.GetItem(ctx, r.storageKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.name, err)
	}
	if !ok {
		return nil, nil
	}

	var records []T
	if err := r.cdc.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.name, err)
	}
	return records, nil
}

func (r *StoreRepository[T]) save(ctx context.Context, records []T) error {
	data, err := r.cdc.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.name, err)
	}
	if err := r.store.SetItem(ctx, r.storageKey, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", r.name, err)
	}
	return nil
}

// GetAll implements Repository.
func (r *StoreRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.load(ctx)
}

// GetByID implements Repository.
func (r *StoreRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if r.handlers.GetID(record) == id {
			found := record
			return &found, nil
		}
	}
	return nil, nil
}

// Create implements Repository. A record without an id gets a fresh uuid.
func (r *StoreRepository[T]) Create(ctx context.Context, record T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	records, err := r.load(ctx)
	if err != nil {
		return zero, err
	}

	if r.handlers.GetID(record) == "" {
		record = r.handlers.SetID(record, uuid.NewString())
	}

	records = append(records, record)
	if err := r.save(ctx, records); err != nil {
		return zero, err
	}
	return record, nil
}

// Update implements Repository. The record's id cannot be changed by apply.
func (r *StoreRepository[T]) Update(ctx context.Context, id string, apply func(T) T) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i, record := range records {
		if r.handlers.GetID(record) != id {
			continue
		}
		updated := r.handlers.SetID(apply(record), id)
		records[i] = updated
		if err := r.save(ctx, records); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, nil
}

// Delete implements Repository.
func (r *StoreRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	for i, record := range records {
		if r.handlers.GetID(record) != id {
			continue
		}
		records = append(records[:i], records[i+1:]...)
		if err := r.save(ctx, records); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// DeleteAll implements Repository.
func (r *StoreRepository[T]) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.RemoveItem(ctx, r.storageKey); err != nil {
		return fmt.Errorf("delete all %s: %w", r.name, err)
	}
	return nil
}

// Count implements Repository.
func (r *StoreRepository[T]) Count(ctx context.Context) (int, error) {
	records, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Find implements Repository.
func (r *StoreRepository[T]) Find(ctx context.Context, match func(T) bool) ([]T, error) {
	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, record := range records {
		if match(record) {
			out = append(out, record)
		}
	}
	return out, nil
}
