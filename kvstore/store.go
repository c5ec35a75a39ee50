// Package kvstore defines the persistent key-value storage boundary used by
// the cache manager and the collection repositories.
//
// Values are opaque strings; callers are responsible for serialization. Two
// backends ship with the package: an in-process MemoryStore for tests and
// demos, and a SQLite-backed SQLStore for durable on-device storage.
package kvstore

import "context"

// KV is a key-value pair returned by MultiGet.
type KV struct {
	Key   string
	Value string
}

// Store is the capability set the data layer requires from a persistent
// key-value store. All operations are context-aware and string keyed.
type Store interface {
	// GetItem returns the value stored under key. The boolean reports
	// whether the key was present.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes the value stored under key. Removing a missing
	// key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// GetAllKeys returns every key currently present in the store.
	GetAllKeys(ctx context.Context) ([]string, error)

	// MultiGet returns the pairs for the requested keys. Missing keys are
	// omitted from the result.
	MultiGet(ctx context.Context, keys []string) ([]KV, error)

	// MultiRemove deletes all of the given keys.
	MultiRemove(ctx context.Context, keys []string) error
}
