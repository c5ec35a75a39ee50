package repository

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// toSnake converts s to snake_case using ASCII-aware rules. Punctuation is
// stripped rather than escaped; a stray character in the entity name would
// leak into storage keys and break prefix-based cache invalidation.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	pendingSep := false
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			// Break before an upper rune that starts a new word:
			// fooBar -> foo_bar, HTTPServer -> http_server.
			if b.Len() > 0 && !pendingSep {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower {
					pendingSep = true
				}
			}
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			pendingSep = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false

		default:
			// Separators and anything unexpected collapse into one '_'.
			if b.Len() > 0 {
				pendingSep = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}

// entityNameOf derives the default entity name for T: the snake-cased,
// pluralized type name (model.WeightEntry -> "weight_entries").
func entityNameOf[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = "record"
	}
	return inflection.Plural(toSnake(name))
}
