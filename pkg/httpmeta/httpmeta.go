package httpmeta

import "context"

type ctxKey int

const (
	ipKey ctxKey = iota
	uaKey
)

// WithClientIP attaches the resolved client IP to the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey, ip)
}

// ClientIP returns the client IP attached by the middleware, or "".
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(ipKey).(string)
	return v
}

// WithUserAgent attaches the request User-Agent to the context.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, uaKey, ua)
}

// UserAgent returns the User-Agent attached by the middleware, or "".
func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(uaKey).(string)
	return v
}
