package repository

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// fieldIndexes caches per-type lookup tables from field name (json tag or Go
// name) to struct field index.
var fieldIndexes = xsync.NewMapOf[reflect.Type, map[string][]int]()

func fieldIndexFor(t reflect.Type) map[string][]int {
	if cached, ok := fieldIndexes.Load(t); ok {
		return cached
	}

	index := make(map[string][]int)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		index[field.Name] = field.Index
		if tag, ok := field.Tag.Lookup("json"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name != "" && name != "-" {
				index[name] = field.Index
			}
		}
	}
	fieldIndexes.Store(t, index)
	return index
}

// fieldValue resolves a named field on record, matching the json tag first
// and falling back to the Go field name. The boolean reports whether the
// field exists.
func fieldValue(record any, name string) (any, bool) {
	rv := reflect.ValueOf(record)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	index := fieldIndexFor(rv.Type())
	path, ok := index[name]
	if !ok {
		path, ok = index[toSnake(name)]
	}
	if !ok {
		return nil, false
	}
	return rv.FieldByIndex(path).Interface(), true
}

// matchesFilters applies the filter semantics: slice values are membership
// tests, explicit nil matches only nil fields, everything else is equality.
// A filter naming a field the record does not have never matches.
func matchesFilters(record any, filters map[string]any) bool {
	for name, want := range filters {
		got, ok := fieldValue(record, name)
		if !ok {
			return false
		}

		if want == nil {
			if !isNilValue(got) {
				return false
			}
			continue
		}

		wv := reflect.ValueOf(want)
		if wv.Kind() == reflect.Slice {
			matched := false
			for i := 0; i < wv.Len(); i++ {
				if equalValues(got, wv.Index(i).Interface()) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
			continue
		}

		if !equalValues(got, want) {
			return false
		}
	}
	return true
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// equalValues compares a record field against a filter value, bridging
// numeric kinds so a filter of int 3 matches a float64 field holding 3.
func equalValues(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	gf, gok := asFloat(got)
	wf, wok := asFloat(want)
	return gok && wok && gf == wf
}

func asFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// applyFilters returns the records matching every filter.
func applyFilters[T any](records []T, filters map[string]any) []T {
	if len(filters) == 0 {
		return records
	}
	out := make([]T, 0, len(records))
	for _, record := range records {
		if matchesFilters(record, filters) {
			out = append(out, record)
		}
	}
	return out
}

// sortRecords orders records by the named field. Strings compare
// lexicographically, numeric kinds numerically, times chronologically;
// everything else falls back to its printed form.
func sortRecords[T any](records []T, orderBy, direction string) {
	if orderBy == "" {
		return
	}
	desc := direction == OrderDesc
	sort.SliceStable(records, func(i, j int) bool {
		a, _ := fieldValue(records[i], orderBy)
		b, _ := fieldValue(records[j], orderBy)
		cmp := compareValues(a, b)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareValues(a, b any) int {
	a = derefValue(a)
	b = derefValue(b)

	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return strings.Compare(as, bs)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// derefValue unwraps pointer fields so they compare by pointee. A nil
// pointer compares as nil.
func derefValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

// slicePage returns records[offset : offset+limit], clamped to bounds.
func slicePage[T any](records []T, offset, limit int) []T {
	if offset >= len(records) {
		return []T{}
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end]
}
