package repository

import (
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Order directions accepted by QueryOptions.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query defaults.
const (
	DefaultLimit = 20
)

// Cache TTL tiers used by the cached repository layer.
const (
	TTLShort  = time.Minute
	TTLMedium = 5 * time.Minute
	TTLLong   = 30 * time.Minute
)

// QueryOptions shapes a filtered, sorted, paginated read.
type QueryOptions struct {
	// Limit caps the page size; zero or less selects DefaultLimit.
	Limit int

	// Offset is the number of matching records to skip.
	Offset int

	// OrderBy names the field to sort on; empty leaves input order.
	OrderBy string

	// OrderDirection is OrderAsc or OrderDesc; empty selects OrderDesc.
	OrderDirection string

	// Filters restricts results by field value. A slice value is a
	// membership test, an explicit nil matches only nil fields, anything
	// else is an equality test.
	Filters map[string]any

	// SkipCache bypasses the cache layer for this call.
	SkipCache bool

	// CacheTTL overrides the cached repository's read TTL for this call.
	CacheTTL time.Duration

	// IncludeFields / ExcludeFields shape field projection in
	// FindWithFields.
	IncludeFields []string
	ExcludeFields []string
}

// Validate checks the option values.
func (o QueryOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Limit, validation.Min(0)),
		validation.Field(&o.Offset, validation.Min(0)),
		validation.Field(&o.OrderDirection, validation.In("", OrderAsc, OrderDesc)),
		validation.Field(&o.CacheTTL, validation.Min(time.Duration(0))),
	)
}

// withDefaults returns a copy with defaults applied.
func (o QueryOptions) withDefaults() QueryOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.OrderDirection == "" {
		o.OrderDirection = OrderDesc
	}
	return o
}

// keyOptions is the subset of QueryOptions that identifies a query for
// caching. Cache-control knobs deliberately do not participate in the key.
type keyOptions struct {
	Limit          int
	Offset         int
	OrderBy        string
	OrderDirection string
	Filters        map[string]any
	IncludeFields  []string
	ExcludeFields  []string
}

func (o QueryOptions) keyOptions() keyOptions {
	return keyOptions{
		Limit:          o.Limit,
		Offset:         o.Offset,
		OrderBy:        o.OrderBy,
		OrderDirection: o.OrderDirection,
		Filters:        o.Filters,
		IncludeFields:  o.IncludeFields,
		ExcludeFields:  o.ExcludeFields,
	}
}

// Pagination describes a page's position within the full result set.
type Pagination struct {
	Total       int
	CurrentPage int
	Pages       int
	Limit       int
	Offset      int
	HasNext     bool
	HasPrevious bool
}

// Page bundles a page of records with its pagination metadata.
type Page[T any] struct {
	Data       []T
	Pagination Pagination
}

func paginationFor(total int, opts QueryOptions) Pagination {
	currentPage := opts.Offset/opts.Limit + 1
	pages := int(math.Ceil(float64(total) / float64(opts.Limit)))
	return Pagination{
		Total:       total,
		CurrentPage: currentPage,
		Pages:       pages,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
		HasNext:     currentPage < pages,
		HasPrevious: currentPage > 1,
	}
}
