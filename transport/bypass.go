package transport

import "context"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// bypassKey marks a request as exempt from the auth transport entirely: no
// header attachment, no 401 handling. The token refresh call itself is the
// only intended user.
const bypassKey contextKey = "bypass_auth"

// WithBypass returns a context whose requests pass through the auth transport
// unmodified.
func WithBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey, true)
}

// HasBypass reports whether ctx carries the bypass marker.
func HasBypass(ctx context.Context) bool {
	bypass, _ := ctx.Value(bypassKey).(bool)
	return bypass
}
