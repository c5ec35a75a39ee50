package cache

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	hex "github.com/tmthrgd/go-hex"
)

// KeySeparator delimits cache key segments.
const KeySeparator = "::"

// maxSerializedLen bounds the serialized argument portion of a key. Longer
// keys are replaced by an xxhash digest so backing stores never see
// unbounded key sizes.
const maxSerializedLen = 200

// defaultKeySerializer produces deterministic keys from arbitrary argument
// values. Maps and struct fields are serialized in a canonical order, so two
// logically identical queries always share a cache entry regardless of how
// their options were assembled.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey builds a stable cache key from a method name and args.
func (s *defaultKeySerializer) SerializeKey(method string, args ...any) string {
	if len(args) == 0 {
		return method
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, method)
	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}

	key := strings.Join(parts, KeySeparator)
	if len(key) > maxSerializedLen {
		var sum [8]byte
		binary.BigEndian.PutUint64(sum[:], xxhash.Sum64String(key))
		key = method + KeySeparator + "x" + hex.EncodeToString(sum[:])
	}
	return key
}

func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	if t, ok := v.(time.Time); ok {
		return fmt.Sprintf("t%d", t.UnixMilli())
	}
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())

	case reflect.Slice:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeList(rv)

	case reflect.Array:
		return s.serializeList(rv)

	case reflect.Map:
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeMap(rv)

	case reflect.Struct:
		return s.serializeStruct(rv)

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return fmt.Sprintf("%v", rv.Interface())

	default:
		return s.jsonFallback(v)
	}
}

func (s *defaultKeySerializer) serializeList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = s.serializeValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// serializeMap emits sorted key=value pairs for deterministic output across
// iteration orders.
func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs,
			s.serializeValue(iter.Key().Interface())+"="+s.serializeValue(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ",") + "}"
}

func (s *defaultKeySerializer) serializeStruct(rv reflect.Value) string {
	rt := rv.Type()
	parts := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, field.Name+":"+s.serializeValue(rv.Field(i).Interface()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// jsonFallback covers types the switch above does not handle. When even JSON
// fails we fall back to the type name; stability matters more than
// uniqueness here.
func (s *defaultKeySerializer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "type:" + reflect.TypeOf(v).String()
	}
	return string(data)
}
