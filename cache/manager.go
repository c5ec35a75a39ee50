package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pawtrack/go-datastore/codec"
	"github.com/pawtrack/go-datastore/internal/cacheinfra"
	"github.com/pawtrack/go-datastore/kvstore"
)

// entry is the in-memory representation of a cached value. A nil Expiry
// means the entry never expires.
type entry struct {
	Data      any
	Timestamp time.Time
	Expiry    *time.Time
}

func (e entry) expired(now time.Time) bool {
	return e.Expiry != nil && now.After(*e.Expiry)
}

// persistedEntry is the wire form written to the backing store. Times are
// epoch milliseconds to keep the payload codec-agnostic.
type persistedEntry struct {
	Data      any    `json:"data" msgpack:"data"`
	Timestamp int64  `json:"timestamp" msgpack:"timestamp"`
	Expiry    *int64 `json:"expiry" msgpack:"expiry"`
}

func (p persistedEntry) toEntry() entry {
	e := entry{
		Data:      p.Data,
		Timestamp: time.UnixMilli(p.Timestamp),
	}
	if p.Expiry != nil {
		t := time.UnixMilli(*p.Expiry)
		e.Expiry = &t
	}
	return e
}

func fromEntry(e entry) persistedEntry {
	p := persistedEntry{
		Data:      e.Data,
		Timestamp: e.Timestamp.UnixMilli(),
	}
	if e.Expiry != nil {
		ms := e.Expiry.UnixMilli()
		p.Expiry = &ms
	}
	return p
}

// Stats summarizes the entries currently held in memory. Expired entries
// that have not yet been lazily evicted are included.
type Stats struct {
	TotalItems  int
	MemoryUsage int // byte estimate based on JSON-encoded size
	OldestItem  time.Time
	NewestItem  time.Time
}

// Manager is a TTL cache with an authoritative in-memory index and an
// optional persistent mirror. Construction starts asynchronous hydration
// from the backing store; every public method waits for hydration to finish
// exactly once before touching the index.
type Manager struct {
	cfg   Config
	index *cacheinfra.Index[entry]
	store kvstore.Store
	cdc   codec.Codec
	log   *zap.Logger
	now   func() time.Time
	ready chan struct{}
}

var _ Service = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithStore attaches the persistent backing store. Without a store, or with
// PersistToStorage disabled, the manager runs purely in memory.
func WithStore(store kvstore.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithCodec overrides the codec used for persisted entries.
func WithCodec(c codec.Codec) Option {
	return func(m *Manager) { m.cdc = c }
}

// WithLogger attaches a logger for best-effort failure reporting.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithClock overrides the time source. Tests use this to exercise expiry
// deterministically.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager validates cfg, applies options and begins hydration.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	index, err := cacheinfra.NewIndex[entry](cfg.indexConfig())
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:   cfg,
		index: index,
		cdc:   codec.JSON(),
		log:   zap.NewNop(),
		now:   time.Now,
		ready: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	go m.hydrate(context.Background())

	return m, nil
}

func (m *Manager) persisting() bool {
	return m.cfg.PersistToStorage && m.store != nil
}

// namespace is the storage-key prefix for this cache instance.
func (m *Manager) namespace() string {
	return m.cfg.Prefix + m.cfg.Version + ":"
}

func (m *Manager) storageKey(key string) string {
	return m.namespace() + key
}

// await blocks until hydration completed; subsequent calls return
// immediately.
func (m *Manager) await(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// hydrate loads the persisted mirror into the in-memory index. Failures
// degrade to an empty cache; they are logged, never surfaced.
func (m *Manager) hydrate(ctx context.Context) {
	defer close(m.ready)

	if !m.persisting() {
		return
	}

	keys, err := m.store.GetAllKeys(ctx)
	if err != nil {
		m.log.Warn("cache hydration failed", zap.Error(err))
		return
	}

	ns := m.namespace()
	var owned []string
	for _, key := range keys {
		if strings.HasPrefix(key, ns) {
			owned = append(owned, key)
		}
	}
	if len(owned) == 0 {
		return
	}

	pairs, err := m.store.MultiGet(ctx, owned)
	if err != nil {
		m.log.Warn("cache hydration read failed", zap.Error(err))
		return
	}

	now := m.now()
	for _, pair := range pairs {
		var p persistedEntry
		if err := m.cdc.Unmarshal([]byte(pair.Value), &p); err != nil {
			m.log.Debug("skipping undecodable cache entry",
				zap.String("key", pair.Key), zap.Error(err))
			continue
		}
		e := p.toEntry()
		if e.expired(now) {
			continue
		}
		m.index.Set(strings.TrimPrefix(pair.Key, ns), e)
	}
}

// Set implements Service.
func (m *Manager) Set(ctx context.Context, key string, value any) error {
	return m.setEntry(ctx, key, value, m.cfg.TTL)
}

// SetWithTTL implements Service.
func (m *Manager) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.setEntry(ctx, key, value, ttl)
}

func (m *Manager) setEntry(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := m.await(ctx); err != nil {
		return err
	}

	now := m.now()
	e := entry{Data: value, Timestamp: now}
	if ttl > 0 {
		expiry := now.Add(ttl)
		e.Expiry = &expiry
	}

	m.index.Set(key, e)
	m.persist(ctx, key, e)
	return nil
}

// persist mirrors an entry to the backing store. Failures are logged and
// swallowed; the in-memory index stays authoritative.
func (m *Manager) persist(ctx context.Context, key string, e entry) {
	if !m.persisting() {
		return
	}
	data, err := m.cdc.Marshal(fromEntry(e))
	if err != nil {
		m.log.Warn("cache entry serialization failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := m.store.SetItem(ctx, m.storageKey(key), string(data)); err != nil {
		m.log.Warn("cache persist failed", zap.String("key", key), zap.Error(err))
	}
}

// Get implements Service. Expired entries are lazily removed.
func (m *Manager) Get(ctx context.Context, key string) (any, bool, error) {
	if err := m.await(ctx); err != nil {
		return nil, false, err
	}

	e, ok := m.index.Get(key)
	if !ok {
		return nil, false, nil
	}
	if e.expired(m.now()) {
		m.evict(ctx, key)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Has implements Service with the same lazy-expiry side effect as Get.
func (m *Manager) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

// Remove implements Service.
func (m *Manager) Remove(ctx context.Context, key string) error {
	if err := m.await(ctx); err != nil {
		return err
	}
	m.evict(ctx, key)
	return nil
}

func (m *Manager) evict(ctx context.Context, key string) {
	m.index.Delete(key)
	if !m.persisting() {
		return
	}
	if err := m.store.RemoveItem(ctx, m.storageKey(key)); err != nil {
		m.log.Warn("cache persisted delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Keys implements Service. Expired-but-unevicted keys are included; callers
// needing liveness should use Has or Get.
func (m *Manager) Keys(ctx context.Context) ([]string, error) {
	if err := m.await(ctx); err != nil {
		return nil, err
	}
	keys := m.index.Keys()
	sort.Strings(keys)
	return keys, nil
}

// Clear implements Service.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.await(ctx); err != nil {
		return err
	}

	for _, key := range m.index.Keys() {
		m.index.Delete(key)
	}

	if m.persisting() {
		m.removePersistedByPrefix(ctx, "")
	}
	return nil
}

// InvalidateByPrefix implements Service.
func (m *Manager) InvalidateByPrefix(ctx context.Context, prefix string) error {
	if err := m.await(ctx); err != nil {
		return err
	}

	for _, key := range m.index.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.index.Delete(key)
		}
	}

	if m.persisting() {
		m.removePersistedByPrefix(ctx, prefix)
	}
	return nil
}

// removePersistedByPrefix bulk-deletes persisted keys under this cache's
// namespace whose logical key starts with prefix. Best effort.
func (m *Manager) removePersistedByPrefix(ctx context.Context, prefix string) {
	keys, err := m.store.GetAllKeys(ctx)
	if err != nil {
		m.log.Warn("cache persisted scan failed", zap.Error(err))
		return
	}

	target := m.namespace() + prefix
	var doomed []string
	for _, key := range keys {
		if strings.HasPrefix(key, target) {
			doomed = append(doomed, key)
		}
	}
	if len(doomed) == 0 {
		return
	}
	if err := m.store.MultiRemove(ctx, doomed); err != nil {
		m.log.Warn("cache persisted bulk delete failed", zap.Error(err))
	}
}

// Stats implements Service.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	if err := m.await(ctx); err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, key := range m.index.Keys() {
		e, ok := m.index.Get(key)
		if !ok {
			continue
		}
		stats.TotalItems++
		stats.MemoryUsage += len(key)
		if data, err := json.Marshal(e.Data); err == nil {
			stats.MemoryUsage += len(data)
		}
		if stats.OldestItem.IsZero() || e.Timestamp.Before(stats.OldestItem) {
			stats.OldestItem = e.Timestamp
		}
		if stats.NewestItem.IsZero() || e.Timestamp.After(stats.NewestItem) {
			stats.NewestItem = e.Timestamp
		}
	}
	return stats, nil
}

// remarshal lets GetTyped recover concrete types for hydrated values.
func (m *Manager) remarshal(src, dst any) error {
	return codec.Remarshal(m.cdc, src, dst)
}
