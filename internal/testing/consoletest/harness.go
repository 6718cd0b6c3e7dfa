// Package consoletest wires a signed-in console session against a fake
// backend for handler tests.
package consoletest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/nexstock/nexstock-console/internal/auth"
	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/view"
)

const cookieName = "test_session"

// DefaultUser is the operator a Harness signs in unless told otherwise.
var DefaultUser = auth.User{Email: "ops@acme.test", Role: auth.RoleCompanyAdmin, OrganizationID: 7}

// Harness serves requests through a session-backed router.
type Harness struct {
	Router  chi.Router
	Pages   *page.Builder
	Client  *gateway.Client
	Backend *httptest.Server

	user   *auth.User
	cookie *http.Cookie
}

// Option customises a Harness.
type Option func(*Harness)

// WithUser signs the harness in as user.
func WithUser(user auth.User) Option {
	return func(h *Harness) { h.user = &user }
}

// Anonymous leaves the harness signed out.
func Anonymous() Option {
	return func(h *Harness) { h.user = nil }
}

// New starts backend and returns a Harness whose router loads and commits a
// Redis session around every request.
func New(t *testing.T, backend http.Handler, opts ...Option) *Harness {
	t.Helper()
	user := DefaultUser
	h := &Harness{user: &user}
	for _, opt := range opts {
		opt(h)
	}

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessions := shared.NewSessionManager(redisClient, cookieName, "secret", time.Hour, false)
	templates, err := view.NewEngine()
	require.NoError(t, err)

	h.Backend = httptest.NewServer(backend)
	t.Cleanup(h.Backend.Close)
	h.Client, err = gateway.NewClient(gateway.Config{BaseURL: h.Backend.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	h.Pages = page.NewBuilder(templates, shared.NewCSRFManager("csrfsecret"), nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			require.NoError(t, err)
			if h.user != nil && sess.Get(auth.TokenKey) == "" {
				payload, err := json.Marshal(h.user)
				require.NoError(t, err)
				sess.SetMany(map[string]string{auth.TokenKey: "test-token", auth.UserKey: string(payload)})
			}
			ctx := shared.ContextWithSession(r.Context(), sess)
			rec := httptest.NewRecorder()
			next.ServeHTTP(rec, r.WithContext(ctx))
			require.NoError(t, sessions.Commit(ctx, w, r, sess))
			for k, v := range rec.Header() {
				w.Header()[k] = v
			}
			w.WriteHeader(rec.Code)
			_, _ = w.Write(rec.Body.Bytes())
		})
	})
	r.Use(auth.Middleware(nil, nil))
	h.Router = r
	return h
}

// Get issues a GET request.
func (h *Harness) Get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return h.Do(t, http.MethodGet, target, nil)
}

// PostForm issues a form-encoded POST request.
func (h *Harness) PostForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return h.Do(t, http.MethodPost, target, form)
}

// Do issues a request carrying the harness session cookie.
func (h *Harness) Do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.Router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			h.cookie = c
		}
	}
	return rec
}

// JSON writes v as a JSON response.
func JSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// RawJSON writes body verbatim as a JSON response.
func RawJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
