package cache

import (
	"context"
	"time"
)

// KeySerializer builds a cache key segment from a method name + arbitrary
// args. Implementations must produce stable output across calls so that
// logically identical queries share a cache entry.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature Fetch expects when loading from the
// source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Service exposes the cache operations the repository layer consumes.
// Manager is the default implementation; tests substitute fakes.
type Service interface {
	// Get returns the value stored under key. The boolean reports a live
	// (present and unexpired) hit.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores value under key using the configured default TTL. With no
	// configured TTL the value never expires.
	Set(ctx context.Context, key string, value any) error

	// SetWithTTL stores value under key with an explicit TTL. A TTL of
	// zero or less means the value never expires.
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Has reports whether key holds a live value, applying the same lazy
	// expiry as Get.
	Has(ctx context.Context, key string) (bool, error)

	// Remove deletes the value stored under key.
	Remove(ctx context.Context, key string) error

	// Keys returns all keys currently indexed, expired entries included.
	Keys(ctx context.Context) ([]string, error)

	// Clear empties the cache.
	Clear(ctx context.Context) error

	// InvalidateByPrefix removes every entry whose key starts with prefix.
	InvalidateByPrefix(ctx context.Context, prefix string) error

	// Stats summarizes the indexed entries.
	Stats(ctx context.Context) (Stats, error)
}

// remarshaler is implemented by services that can recover concrete types for
// values hydrated from storage into generic containers.
type remarshaler interface {
	remarshal(src, dst any) error
}

// GetTyped returns the value under key as T. Values that lost their concrete
// type during storage hydration are re-decoded through the service's codec;
// a value that still cannot be represented as T counts as a miss.
func GetTyped[T any](ctx context.Context, s Service, key string) (T, bool, error) {
	var zero T

	value, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}

	if typed, isT := value.(T); isT {
		return typed, true, nil
	}

	if r, isR := s.(remarshaler); isR {
		var dst T
		if err := r.remarshal(value, &dst); err == nil {
			return dst, true, nil
		}
	}

	return zero, false, nil
}

// Fetch applies cache-aside semantics: return the live cached value under
// key if present, otherwise load from fn, store the result with ttl, and
// return it. Cache failures are indistinguishable from misses; only fn
// errors reach the caller.
func Fetch[T any](ctx context.Context, s Service, key string, ttl time.Duration, fn FetchFn[T]) (T, error) {
	if value, ok, err := GetTyped[T](ctx, s, key); err == nil && ok {
		return value, nil
	}

	value, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	// Best effort: the manager already swallows persistence failures and a
	// population failure must not fail the read.
	_ = s.SetWithTTL(ctx, key, value, ttl)

	return value, nil
}
