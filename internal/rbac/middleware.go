package rbac

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/nexstock/nexstock-console/internal/auth"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/view"
)

// LoginPath is where anonymous visitors are sent.
const LoginPath = "/login"

// HomePath is the default landing route for signed-in users.
const HomePath = "/"

// Guard gates routes on the request's auth.Store state. Role checks here only
// shape what the console shows; the backend enforces access.
type Guard struct {
	Templates *view.Engine
	Logger    *slog.Logger
	// Denied renders the response for RequireRoles misses. Defaults to 404.
	Denied http.Handler
}

// Protected lets only authenticated sessions through. Anonymous visitors are
// redirected to the login page with the requested location as return target.
func (g Guard) Protected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := auth.StoreFromContext(r.Context())
		switch store.State() {
		case auth.StateLoading:
			g.waiting(w, r)
		case auth.StateAnonymous:
			http.Redirect(w, r, LoginURL(returnTarget(r)), http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// PublicOnly serves login and registration to anonymous visitors and sends
// signed-in users to the landing route.
func (g Guard) PublicOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := auth.StoreFromContext(r.Context())
		switch store.State() {
		case auth.StateLoading:
			g.waiting(w, r)
		case auth.StateAuthenticated:
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireRoles hides a signed-in view from roles outside the allowed set.
func (g Guard) RequireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if roleAllowed(auth.StoreFromContext(r.Context()).Role(), roles) {
				next.ServeHTTP(w, r)
				return
			}
			if g.Denied != nil {
				g.Denied.ServeHTTP(w, r)
				return
			}
			http.NotFound(w, r)
		})
	}
}

// LoginURL builds the login location carrying next as return target.
func LoginURL(next string) string {
	next = shared.SafeNext(next)
	if next == HomePath {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// returnTarget is the location to resume after login. Only idempotent
// requests are resumable; a form post resumes at its page instead.
func returnTarget(r *http.Request) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return r.URL.RequestURI()
	}
	return r.URL.Path
}

func (g Guard) waiting(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	w.Header().Set("Cache-Control", "no-store")
	if g.Templates == nil {
		http.Error(w, "Loading", http.StatusServiceUnavailable)
		return
	}
	data := view.TemplateData{Title: "Loading", CurrentPath: r.URL.Path}
	if err := g.Templates.Render(w, http.StatusServiceUnavailable, "pages/errors/waiting.html", data); err != nil {
		if g.Logger != nil {
			g.Logger.Error("render waiting page", slog.Any("error", err))
		}
		http.Error(w, "Loading", http.StatusServiceUnavailable)
	}
}

func roleAllowed(role auth.Role, allowed []auth.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
