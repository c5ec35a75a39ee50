package kvstore

import (
	"context"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStore is a Store kept entirely in process memory. It is safe for
// concurrent use and is the default backend for tests and examples.
type MemoryStore struct {
	items *xsync.MapOf[string, string]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: xsync.NewMapOf[string, string]()}
}

// GetItem implements Store.
func (s *MemoryStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	value, ok := s.items.Load(key)
	return value, ok, nil
}

// SetItem implements Store.
func (s *MemoryStore) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.items.Store(key, value)
	return nil
}

// RemoveItem implements Store.
func (s *MemoryStore) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.items.Delete(key)
	return nil
}

// GetAllKeys implements Store. Keys are returned in sorted order so callers
// get deterministic results.
func (s *MemoryStore) GetAllKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, s.items.Size())
	s.items.Range(func(key string, _ string) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

// MultiGet implements Store.
func (s *MemoryStore) MultiGet(ctx context.Context, keys []string) ([]KV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pairs := make([]KV, 0, len(keys))
	for _, key := range keys {
		if value, ok := s.items.Load(key); ok {
			pairs = append(pairs, KV{Key: key, Value: value})
		}
	}
	return pairs, nil
}

// MultiRemove implements Store.
func (s *MemoryStore) MultiRemove(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, key := range keys {
		s.items.Delete(key)
	}
	return nil
}

// Len returns the number of stored items.
func (s *MemoryStore) Len() int {
	return s.items.Size()
}
