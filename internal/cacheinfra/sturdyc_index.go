// Package cacheinfra wraps the sturdyc client as the in-memory index behind
// the cache manager. The manager owns logical per-entry expiry; sturdyc
// provides sharded storage, capacity-based eviction and key scans.
package cacheinfra

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// defaultRetention is the physical retention ceiling handed to sturdyc.
// Entries without a logical expiry must outlive any realistic app session,
// so the ceiling is effectively unbounded.
const defaultRetention = 10 * 365 * 24 * time.Hour

// Config holds the sizing knobs for the in-memory index.
type Config struct {
	// Capacity is the maximum number of entries the index can hold before
	// sturdyc starts evicting.
	Capacity int

	// NumShards controls how many shards back the index. More shards
	// improve concurrency at a small memory cost.
	NumShards int

	// EvictionPercentage is the share of entries evicted when a shard
	// reaches capacity. Must be between 1 and 100.
	EvictionPercentage int

	// EvictionInterval overrides how often sturdyc sweeps for evictable
	// entries. Zero keeps sturdyc's default.
	EvictionInterval time.Duration

	// RetentionTTL caps how long sturdyc physically retains an entry.
	// Logical expiry is enforced by the caller; zero selects a ceiling
	// large enough to behave as "never".
	RetentionTTL time.Duration
}

// DefaultConfig returns the sizing defaults used by the cache manager.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.RetentionTTL, validation.Min(time.Duration(0))),
	)
}

// Index is a sharded, capacity-bounded in-memory key index.
type Index[V any] struct {
	client *sturdyc.Client[V]
}

// NewIndex validates cfg and builds the sturdyc-backed index.
func NewIndex[V any](cfg Config) (*Index[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	retention := cfg.RetentionTTL
	if retention <= 0 {
		retention = defaultRetention
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[V](
		cfg.Capacity,
		cfg.NumShards,
		retention,
		cfg.EvictionPercentage,
		options...,
	)

	return &Index[V]{client: client}, nil
}

// Set stores value under key, replacing any previous value.
func (ix *Index[V]) Set(key string, value V) {
	ix.client.Set(key, value)
}

// Get returns the value stored under key, if any.
func (ix *Index[V]) Get(key string) (V, bool) {
	return ix.client.Get(key)
}

// Delete removes key from the index.
func (ix *Index[V]) Delete(key string) {
	ix.client.Delete(key)
}

// Keys returns every key currently held by the index.
func (ix *Index[V]) Keys() []string {
	return ix.client.ScanKeys()
}

// Len reports the number of entries in the index.
func (ix *Index[V]) Len() int {
	return ix.client.Size()
}
