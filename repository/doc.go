// Package repository implements the collection storage layer: flat CRUD
// over a key-value store, query semantics on top of it, and a cache-aside
// decorator composing both.
//
// # Layers
//
// The three layers compose by construction rather than inheritance:
//
//	base, _ := repository.NewStoreRepository[model.Pet](store, model.PetHandlers())
//	queries := repository.NewQueryRepository[model.Pet](base)
//	pets := repository.NewCachedRepository[model.Pet](queries, cacheService, serializer)
//
//   - StoreRepository persists one entity collection as a single serialized
//     array under a single storage key, and owns record identity (uuid
//     assignment on create, immutable ids).
//   - QueryRepository adds FindWithOptions, CountWithFilters, GetPaginated
//     and FindWithFields, recomputed from a fresh full snapshot on every
//     call.
//   - CachedRepository wraps the reads with cache-aside semantics and
//     invalidates the entity's whole key namespace after each successful
//     write.
//
// # Cache keys
//
// Cached entries for an entity live under "repo:<entity>:": the full
// collection under "...:all", single records under "...:id:<id>", query
// results under "...:find:<serialized options>" and the count under
// "...:count". Invalidating the prefix clears every cached view of one
// entity and never touches another's.
//
// # Error semantics
//
// CRUD methods return errors the caller must handle; a failed write skips
// invalidation so the cache is only cleared after storage reflects the
// change. The query reads (FindWithOptions and friends) never fail: internal
// errors are logged and degrade to empty results. Cache problems anywhere
// are indistinguishable from cache misses.
package repository
