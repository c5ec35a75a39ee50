// Package di wires the data layer together: storage, cache manager, key
// serializer and logger are constructed once and injected into repositories,
// with explicit lifecycle instead of module-level singletons.
package di

import (
	"context"

	"go.uber.org/zap"

	"github.com/pawtrack/go-datastore/cache"
	"github.com/pawtrack/go-datastore/kvstore"
	"github.com/pawtrack/go-datastore/repository"
)

// Container holds the shared data-layer components and provides factory
// methods for cached repositories.
type Container struct {
	store         kvstore.Store
	cacheService  cache.Service
	keySerializer cache.KeySerializer
	logger        *zap.Logger
	config        cache.Config
}

// Option configures a Container.
type Option func(*containerOptions)

type containerOptions struct {
	store  kvstore.Store
	logger *zap.Logger
	cache  []cache.Option
}

// WithStore sets the persistent key-value store backing both the cache
// mirror and the repositories. Defaults to an in-memory store.
func WithStore(store kvstore.Store) Option {
	return func(o *containerOptions) { o.store = store }
}

// WithLogger sets the logger shared by all constructed components.
func WithLogger(logger *zap.Logger) Option {
	return func(o *containerOptions) { o.logger = logger }
}

// WithCacheOptions forwards extra options to the cache manager.
func WithCacheOptions(opts ...cache.Option) Option {
	return func(o *containerOptions) { o.cache = append(o.cache, opts...) }
}

// NewContainer builds the shared components from cfg.
func NewContainer(cfg cache.Config, opts ...Option) (*Container, error) {
	options := &containerOptions{
		store:  kvstore.NewMemoryStore(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	managerOpts := append([]cache.Option{
		cache.WithStore(options.store),
		cache.WithLogger(options.logger),
	}, options.cache...)

	manager, err := cache.NewManager(cfg, managerOpts...)
	if err != nil {
		return nil, err
	}

	return &Container{
		store:         options.store,
		cacheService:  manager,
		keySerializer: cache.NewDefaultKeySerializer(),
		logger:        options.logger,
		config:        cfg,
	}, nil
}

// NewContainerWithDefaults builds a container with the default cache
// configuration and an in-memory store.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cache.DefaultConfig())
}

// Store returns the shared persistent store.
func (c *Container) Store() kvstore.Store { return c.store }

// CacheService returns the shared cache service.
func (c *Container) CacheService() cache.Service { return c.cacheService }

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer { return c.keySerializer }

// Logger returns the shared logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// Config returns a copy of the cache configuration.
func (c *Container) Config() cache.Config { return c.config }

// Flush empties the cache, e.g. at logout or between tests.
func (c *Container) Flush(ctx context.Context) error {
	return c.cacheService.Clear(ctx)
}

// NewCachedRepository builds the full repository stack for T: store-backed
// CRUD, query semantics, and cache-aside decoration. Since Go methods
// cannot have type parameters, this is a package-level function.
func NewCachedRepository[T any](c *Container, handlers repository.Handlers[T], opts ...repository.StoreOption[T]) (*repository.CachedRepository[T], error) {
	storeOpts := append([]repository.StoreOption[T]{
		repository.WithStoreLogger[T](c.logger),
	}, opts...)

	base, err := repository.NewStoreRepository[T](c.store, handlers, storeOpts...)
	if err != nil {
		return nil, err
	}

	queries := repository.NewQueryRepository[T](base,
		repository.WithQueryLogger[T](c.logger))

	return repository.NewCachedRepository[T](queries, c.cacheService, c.keySerializer,
		repository.WithCachedLogger[T](c.logger)), nil
}
