package hooks

import "context"

type suppressKey struct{}

// WithSuppressed marks ctx so that saves made on behalf of a handler do not
// trigger the same handler again.
func WithSuppressed(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressKey{}, true)
}

// Suppressed reports whether ctx was marked by WithSuppressed
func Suppressed(ctx context.Context) bool {
	v, _ := ctx.Value(suppressKey{}).(bool)
	return v
}
