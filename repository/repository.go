package repository

import (
	"context"
	"errors"
)

// ErrMissingHandlers is returned when a repository is constructed without
// the identity hooks it needs.
var ErrMissingHandlers = errors.New("repository: handlers must provide GetID and SetID")

// Repository is the minimal CRUD capability the query and cache layers wrap.
// A collection is a flat ordered sequence of records, each carrying a unique
// string id managed exclusively through this interface.
type Repository[T any] interface {
	// GetAll returns every record in the collection.
	GetAll(ctx context.Context) ([]T, error)

	// GetByID returns the record with the given id, or nil when absent.
	GetByID(ctx context.Context, id string) (*T, error)

	// Create appends a record, assigning an id when the record has none,
	// and returns the stored record.
	Create(ctx context.Context, record T) (T, error)

	// Update applies the supplied change to the record with the given id
	// and returns the stored result, or nil when the id is absent. The id
	// itself is immutable.
	Update(ctx context.Context, id string, apply func(T) T) (*T, error)

	// Delete removes the record with the given id, reporting whether a
	// record was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteAll removes every record in the collection.
	DeleteAll(ctx context.Context) error

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)

	// Find returns every record matching the predicate.
	Find(ctx context.Context, match func(T) bool) ([]T, error)
}

// Handlers supplies the per-entity identity hooks a repository needs, in
// place of constraining T with an interface.
type Handlers[T any] struct {
	// GetID extracts the record's id.
	GetID func(T) string

	// SetID returns the record with its id set.
	SetID func(T, string) T
}

// Validate reports whether the handlers are usable.
func (h Handlers[T]) Validate() error {
	if h.GetID == nil || h.SetID == nil {
		return ErrMissingHandlers
	}
	return nil
}

// namer is implemented by repositories that know their entity name. The
// cached decorator uses it to build its key namespace.
type namer interface {
	Name() string
}
