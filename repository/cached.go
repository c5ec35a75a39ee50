package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pawtrack/go-datastore/cache"
)

// CachedRepository decorates a QueryRepository with cache-aside reads and
// write invalidation, keyed by entity name.
//
// Reads check the cache first and populate it on miss. Writes delegate to
// the base repository and, only after it succeeds, invalidate the entire
// entity namespace: one write clears every cached view of the entity,
// trading post-write hit rate for the guarantee that no stale filtered
// result survives a mutation. A method here never fails because of a cache
// problem, only because of the underlying storage operation.
type CachedRepository[T any] struct {
	base       *QueryRepository[T]
	cache      cache.Service
	serializer cache.KeySerializer
	keys       entityKeys
	log        *zap.Logger

	readTTL     time.Duration
	negativeTTL time.Duration
}

var _ Repository[any] = (*CachedRepository[any])(nil)

// CachedOption configures a CachedRepository.
type CachedOption[T any] func(*CachedRepository[T])

// WithEntity overrides the entity name used for the cache key namespace.
func WithEntity[T any](entity string) CachedOption[T] {
	return func(c *CachedRepository[T]) { c.keys = entityKeys{entity: entity} }
}

// WithTTLs overrides the read and negative-lookup TTLs.
func WithTTLs[T any](read, negative time.Duration) CachedOption[T] {
	return func(c *CachedRepository[T]) {
		c.readTTL = read
		c.negativeTTL = negative
	}
}

// WithCachedLogger attaches a logger.
func WithCachedLogger[T any](log *zap.Logger) CachedOption[T] {
	return func(c *CachedRepository[T]) { c.log = log }
}

// NewCachedRepository wraps base with caching through svc. The key namespace
// derives from the base repository's entity name.
func NewCachedRepository[T any](base *QueryRepository[T], svc cache.Service, serializer cache.KeySerializer, opts ...CachedOption[T]) *CachedRepository[T] {
	c := &CachedRepository[T]{
		base:        base,
		cache:       svc,
		serializer:  serializer,
		keys:        entityKeys{entity: base.Name()},
		log:         zap.NewNop(),
		readTTL:     TTLMedium,
		negativeTTL: TTLShort,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAll returns the full collection, cached under the entity's "all" key.
func (c *CachedRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	if skipCacheFromContext(ctx) {
		return c.base.GetAll(ctx)
	}
	return cache.Fetch(ctx, c.cache, c.keys.all(), c.readTTL, func(ctx context.Context) ([]T, error) {
		return c.base.GetAll(ctx)
	})
}

// GetByID returns one record, caching per id. Misses are cached too, at the
// shorter negative TTL, so repeated lookups for an absent id do not hammer
// storage while bounding how long a late insert stays invisible.
func (c *CachedRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if skipCacheFromContext(ctx) {
		return c.base.GetByID(ctx, id)
	}

	key := c.keys.id(id)
	if record, ok, err := cache.GetTyped[*T](ctx, c.cache, key); err == nil && ok {
		return record, nil
	}

	record, err := c.base.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ttl := c.readTTL
	if record == nil {
		ttl = c.negativeTTL
	}
	if err := c.cache.SetWithTTL(ctx, key, record, ttl); err != nil {
		c.log.Debug("cache population failed",
			zap.String("key", key), zap.Error(err))
	}
	return record, nil
}

// Count returns the collection size, cached under the entity's count key.
func (c *CachedRepository[T]) Count(ctx context.Context) (int, error) {
	if skipCacheFromContext(ctx) {
		return c.base.Count(ctx)
	}
	return cache.Fetch(ctx, c.cache, c.keys.count(), c.readTTL, func(ctx context.Context) (int, error) {
		return c.base.Count(ctx)
	})
}

// Find passes through: predicate functions have no stable cache identity.
func (c *CachedRepository[T]) Find(ctx context.Context, match func(T) bool) ([]T, error) {
	return c.base.Find(ctx, match)
}

// FindWithOptions caches per serialized options unless the call opts out.
func (c *CachedRepository[T]) FindWithOptions(ctx context.Context, opts QueryOptions) []T {
	normalized := opts.withDefaults()
	if normalized.SkipCache || skipCacheFromContext(ctx) {
		return c.base.FindWithOptions(ctx, normalized)
	}

	key := c.keys.find(c.serializer.SerializeKey("options", normalized.keyOptions()))
	if records, ok, err := cache.GetTyped[[]T](ctx, c.cache, key); err == nil && ok {
		return records
	}

	records := c.base.FindWithOptions(ctx, normalized)
	c.populate(ctx, key, records, normalized.CacheTTL)
	return records
}

// CountWithFilters passes through to the query layer.
func (c *CachedRepository[T]) CountWithFilters(ctx context.Context, filters map[string]any) int {
	return c.base.CountWithFilters(ctx, filters)
}

// GetPaginated caches per serialized options, under a key distinct from
// FindWithOptions for the same options.
func (c *CachedRepository[T]) GetPaginated(ctx context.Context, opts QueryOptions) Page[T] {
	normalized := opts.withDefaults()
	if normalized.SkipCache || skipCacheFromContext(ctx) {
		return c.base.GetPaginated(ctx, normalized)
	}

	key := c.keys.paginated(c.serializer.SerializeKey("options", normalized.keyOptions()))
	if page, ok, err := cache.GetTyped[Page[T]](ctx, c.cache, key); err == nil && ok {
		return page
	}

	page := c.base.GetPaginated(ctx, normalized)
	c.populate(ctx, key, page, normalized.CacheTTL)
	return page
}

// FindWithFields passes through; projections are cheap relative to the
// snapshot load that FindWithOptions already caches.
func (c *CachedRepository[T]) FindWithFields(ctx context.Context, fields []string, opts QueryOptions) []map[string]any {
	return c.base.FindWithFields(ctx, fields, opts)
}

// Create delegates and invalidates the entity namespace on success.
func (c *CachedRepository[T]) Create(ctx context.Context, record T) (T, error) {
	created, err := c.base.Create(ctx, record)
	if err == nil {
		c.invalidate(ctx)
	}
	return created, err
}

// Update delegates and invalidates the entity namespace on success.
func (c *CachedRepository[T]) Update(ctx context.Context, id string, apply func(T) T) (*T, error) {
	updated, err := c.base.Update(ctx, id, apply)
	if err == nil {
		c.invalidate(ctx)
	}
	return updated, err
}

// Delete delegates and invalidates the entity namespace on success.
func (c *CachedRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := c.base.Delete(ctx, id)
	if err == nil {
		c.invalidate(ctx)
	}
	return deleted, err
}

// DeleteAll delegates and invalidates the entity namespace on success.
func (c *CachedRepository[T]) DeleteAll(ctx context.Context) error {
	err := c.base.DeleteAll(ctx)
	if err == nil {
		c.invalidate(ctx)
	}
	return err
}

func (c *CachedRepository[T]) populate(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.readTTL
	}
	if err := c.cache.SetWithTTL(ctx, key, value, ttl); err != nil {
		c.log.Debug("cache population failed",
			zap.String("key", key), zap.Error(err))
	}
}

func (c *CachedRepository[T]) invalidate(ctx context.Context) {
	if err := c.cache.InvalidateByPrefix(ctx, c.keys.namespace()); err != nil {
		c.log.Warn("cache invalidation failed",
			zap.String("entity", c.keys.entity), zap.Error(err))
	}
}
