package gateway

import "context"

// TokenSource yields the bearer credential for outbound calls.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

type tokenContextKey struct{}

// WithTokenSource attaches src to ctx. The source is consulted on every call,
// so a login that happens later in the same request is picked up.
func WithTokenSource(ctx context.Context, src TokenSource) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, src)
}

func tokenFromContext(ctx context.Context) string {
	src, _ := ctx.Value(tokenContextKey{}).(TokenSource)
	if src == nil {
		return ""
	}
	return src.Token()
}
