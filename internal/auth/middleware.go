package auth

import (
	"log/slog"
	"net/http"

	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/shared"
)

// Middleware builds the request's Store over the loaded session, restores it
// and exposes it to handlers and to the gateway as the token source.
func Middleware(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var storage Storage
			if sess := shared.SessionFromContext(r.Context()); sess != nil {
				storage = sess
			}
			store := NewStore(storage, authn)
			store.Restore()
			if store.TokenExpired() {
				logger.Info("session token expired", slog.String("path", r.URL.Path))
				store.Invalidate()
			}
			ctx := ContextWithStore(r.Context(), store)
			ctx = gateway.WithTokenSource(ctx, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
