package repository

import (
	"context"

	"go.uber.org/zap"
)

// QueryRepository adds filter/sort/paginate/projection semantics on top of
// any Repository without changing the storage format. Every query operates
// on a fresh full snapshot from GetAll; there is no incremental indexing.
// That makes each call O(n log n) in collection size, a deliberate
// simplicity-over-scale tradeoff for on-device collections.
//
// Query reads never fail: internal errors are logged and degrade to
// empty/zero results. The embedded CRUD surface keeps its usual error
// returns.
type QueryRepository[T any] struct {
	Repository[T]
	log *zap.Logger
}

// QueryOption configures a QueryRepository.
type QueryOption[T any] func(*QueryRepository[T])

// WithQueryLogger attaches a logger for degraded-read reporting.
func WithQueryLogger[T any](log *zap.Logger) QueryOption[T] {
	return func(q *QueryRepository[T]) { q.log = log }
}

// NewQueryRepository wraps base with query semantics.
func NewQueryRepository[T any](base Repository[T], opts ...QueryOption[T]) *QueryRepository[T] {
	q := &QueryRepository[T]{
		Repository: base,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Name exposes the base repository's entity name when it has one.
func (q *QueryRepository[T]) Name() string {
	if n, ok := q.Repository.(namer); ok {
		return n.Name()
	}
	return entityNameOf[T]()
}

// FindWithOptions loads the full collection, applies filters, sorts and
// slices the requested window. Internal failures return an empty slice.
func (q *QueryRepository[T]) FindWithOptions(ctx context.Context, opts QueryOptions) []T {
	opts = opts.withDefaults()

	records, err := q.GetAll(ctx)
	if err != nil {
		q.log.Error("find degraded to empty result",
			zap.String("entity", q.Name()), zap.Error(err))
		return []T{}
	}

	matched := applyFilters(records, opts.Filters)
	sortRecords(matched, opts.OrderBy, opts.OrderDirection)
	return slicePage(matched, opts.Offset, opts.Limit)
}

// CountWithFilters counts the records matching filters, delegating to the
// unfiltered Count when no filters are given. Internal failures return 0.
func (q *QueryRepository[T]) CountWithFilters(ctx context.Context, filters map[string]any) int {
	if len(filters) == 0 {
		total, err := q.Count(ctx)
		if err != nil {
			q.log.Error("count degraded to zero",
				zap.String("entity", q.Name()), zap.Error(err))
			return 0
		}
		return total
	}

	records, err := q.GetAll(ctx)
	if err != nil {
		q.log.Error("filtered count degraded to zero",
			zap.String("entity", q.Name()), zap.Error(err))
		return 0
	}
	return len(applyFilters(records, filters))
}

// GetPaginated returns one page plus pagination metadata. Internal failures
// return an empty page with zeroed pagination.
func (q *QueryRepository[T]) GetPaginated(ctx context.Context, opts QueryOptions) Page[T] {
	opts = opts.withDefaults()

	data := q.FindWithOptions(ctx, opts)
	total := q.CountWithFilters(ctx, opts.Filters)

	return Page[T]{
		Data:       data,
		Pagination: paginationFor(total, opts),
	}
}

// FindWithFields runs FindWithOptions and projects each record down to its
// id plus the requested fields, honoring the options' exclude list. Fields
// a record does not have are omitted.
func (q *QueryRepository[T]) FindWithFields(ctx context.Context, fields []string, opts QueryOptions) []map[string]any {
	if len(fields) == 0 {
		fields = opts.IncludeFields
	}
	excluded := make(map[string]struct{}, len(opts.ExcludeFields))
	for _, field := range opts.ExcludeFields {
		excluded[field] = struct{}{}
	}

	records := q.FindWithOptions(ctx, opts)
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		projected := make(map[string]any, len(fields)+1)
		if id, ok := fieldValue(record, "id"); ok {
			projected["id"] = id
		}
		for _, field := range fields {
			if _, skip := excluded[field]; skip {
				continue
			}
			if value, ok := fieldValue(record, field); ok {
				projected[field] = value
			}
		}
		out = append(out, projected)
	}
	return out
}
