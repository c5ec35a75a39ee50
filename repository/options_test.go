package repository

import (
	"testing"
	"time"

	"github.com/pawtrack/go-datastore/cache"
)

func TestQueryOptions_Validate(t *testing.T) {
	tests := []struct {
		name      string
		opts      QueryOptions
		wantError bool
	}{
		{name: "zero value"},
		{name: "full options", opts: QueryOptions{Limit: 10, Offset: 20, OrderBy: "name", OrderDirection: OrderAsc}},
		{name: "negative limit", opts: QueryOptions{Limit: -1}, wantError: true},
		{name: "negative offset", opts: QueryOptions{Offset: -1}, wantError: true},
		{name: "bad direction", opts: QueryOptions{OrderDirection: "sideways"}, wantError: true},
		{name: "negative ttl", opts: QueryOptions{CacheTTL: -time.Second}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected valid options, got %v", err)
			}
		})
	}
}

func TestQueryOptions_WithDefaults(t *testing.T) {
	opts := QueryOptions{}.withDefaults()
	if opts.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, opts.Limit)
	}
	if opts.OrderDirection != OrderDesc {
		t.Errorf("expected default direction %q, got %q", OrderDesc, opts.OrderDirection)
	}

	opts = QueryOptions{Limit: 5, Offset: -3, OrderDirection: OrderAsc}.withDefaults()
	if opts.Limit != 5 || opts.Offset != 0 || opts.OrderDirection != OrderAsc {
		t.Errorf("unexpected defaults applied: %+v", opts)
	}
}

func TestKeyOptions_ExcludesCacheControls(t *testing.T) {
	opts := QueryOptions{Limit: 10, Filters: map[string]any{"status": "pending"}}

	withControls := opts
	withControls.SkipCache = true
	withControls.CacheTTL = time.Hour

	s := cache.NewDefaultKeySerializer()
	keyA := s.SerializeKey("options", opts.keyOptions())
	keyB := s.SerializeKey("options", withControls.keyOptions())
	if keyA != keyB {
		t.Errorf("cache-control knobs must not change the cache key identity:\n%s\n%s", keyA, keyB)
	}
}

func TestPaginationFor(t *testing.T) {
	tests := []struct {
		name string
		total,
		limit,
		offset int
		want Pagination
	}{
		{
			name: "middle page", total: 25, limit: 10, offset: 10,
			want: Pagination{Total: 25, CurrentPage: 2, Pages: 3, Limit: 10, Offset: 10, HasNext: true, HasPrevious: true},
		},
		{
			name: "first page", total: 25, limit: 10, offset: 0,
			want: Pagination{Total: 25, CurrentPage: 1, Pages: 3, Limit: 10, Offset: 0, HasNext: true, HasPrevious: false},
		},
		{
			name: "last page", total: 25, limit: 10, offset: 20,
			want: Pagination{Total: 25, CurrentPage: 3, Pages: 3, Limit: 10, Offset: 20, HasNext: false, HasPrevious: true},
		},
		{
			name: "exact fit", total: 20, limit: 10, offset: 10,
			want: Pagination{Total: 20, CurrentPage: 2, Pages: 2, Limit: 10, Offset: 10, HasNext: false, HasPrevious: true},
		},
		{
			name: "empty collection", total: 0, limit: 10, offset: 0,
			want: Pagination{Total: 0, CurrentPage: 1, Pages: 0, Limit: 10, Offset: 0, HasNext: false, HasPrevious: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginationFor(tt.total, QueryOptions{Limit: tt.limit, Offset: tt.offset})
			if got != tt.want {
				t.Errorf("paginationFor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
