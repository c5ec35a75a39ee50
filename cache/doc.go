// Package cache implements the TTL cache manager behind the data layer's
// cached repositories.
//
// # Overview
//
// Manager keeps an authoritative in-memory index (sharded and
// capacity-bounded) and optionally mirrors entries to a persistent
// kvstore.Store. Construction starts asynchronous hydration from the store;
// every public method waits for that hydration exactly once, so early
// callers never race the initial load.
//
//	store := kvstore.NewMemoryStore()
//	manager, err := cache.NewManager(cache.DefaultConfig(), cache.WithStore(store))
//	if err != nil {
//		return err
//	}
//	manager.SetWithTTL(ctx, "greeting", "hello", time.Minute)
//	value, ok, _ := manager.Get(ctx, "greeting")
//
// # Expiry
//
// Every entry records an optional expiry instant. Entries set through Set
// use the configured default TTL; a zero configured TTL means entries never
// expire. Expiry is lazy: an expired entry is removed the first time Get or
// Has observes it.
//
// # Failure semantics
//
// Persistence is best effort. Hydration, persisted writes and persisted
// deletes log their failures and never surface them; in-memory state is
// never corrupted by a storage problem. The cache fails open toward
// usability and fails safe toward durability.
//
// # Typed access
//
// Manager stores values as any. GetTyped and Fetch provide type-safe access;
// values hydrated from storage (which decode into generic containers) are
// re-decoded through the configured codec on first typed read.
//
// # Key serialization
//
// NewDefaultKeySerializer builds deterministic key segments from query
// options and other argument values. Maps and struct fields serialize in
// canonical order, so logically identical options share a cache entry. Keys
// exceeding a length bound are replaced with an xxhash digest.
package cache
