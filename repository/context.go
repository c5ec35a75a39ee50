package repository

import "context"

type skipCacheContextKey struct{}

// WithSkipCache marks the context so cached repository reads bypass the
// cache for every call carrying it. Useful around flows that must observe
// storage directly, e.g. right after an external sync.
func WithSkipCache(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, skipCacheContextKey{}, true)
}

func skipCacheFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	skip, _ := ctx.Value(skipCacheContextKey{}).(bool)
	return skip
}
