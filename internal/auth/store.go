package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Durable storage keys. Both are written and cleared together.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// State is the session lifecycle state.
type State int

// Session states.
const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "loading"
}

// Storage is the durable key/value area backing a Store. shared.Session
// satisfies it.
type Storage interface {
	Get(key string) string
	SetMany(values map[string]string)
	DeleteMany(keys ...string)
}

// Store is the single source of truth for who is logged in on one browser
// session.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	auth    Authenticator
	now     func() time.Time

	state State
	token string
	user  *User
}

// NewStore returns a Store in StateLoading. Call Restore before use.
func NewStore(storage Storage, auth Authenticator) *Store {
	return &Store{storage: storage, auth: auth, now: time.Now}
}

// Restore reads durable storage and resolves the loading state. It is
// idempotent while storage is unchanged.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAnonymous
	s.token = ""
	s.user = nil
	if s.storage == nil {
		return
	}
	token := s.storage.Get(TokenKey)
	raw := s.storage.Get(UserKey)
	if token == "" || raw == "" {
		return
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return
	}
	user.Role = ParseRole(string(user.Role))
	s.state = StateAuthenticated
	s.token = token
	s.user = &user
}

// Login authenticates against the backend. On success token and user are
// persisted in one write; on failure nothing changes.
func (s *Store) Login(ctx context.Context, email, password string) error {
	creds, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(creds.User)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storage != nil {
		s.storage.SetMany(map[string]string{
			TokenKey: creds.Token,
			UserKey:  string(payload),
		})
	}
	user := creds.User
	s.token = creds.Token
	s.user = &user
	s.state = StateAuthenticated
	return nil
}

// Register creates a new organization. It never changes the session.
func (s *Store) Register(ctx context.Context, in RegistrationInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	return s.auth.Register(ctx, in)
}

// Logout clears durable and in-memory state. It always succeeds.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storage != nil {
		s.storage.DeleteMany(TokenKey, UserKey)
	}
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
}

// Invalidate drops a session the backend no longer accepts.
func (s *Store) Invalidate() {
	s.Logout()
}

// State reports the lifecycle state.
func (s *Store) State() State {
	if s == nil {
		return StateLoading
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the bearer token, or "". It satisfies gateway.TokenSource.
func (s *Store) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Role returns the signed-in role, or RoleUnknown.
func (s *Store) Role() Role {
	if u := s.User(); u != nil {
		return u.Role
	}
	return RoleUnknown
}

// TokenExpired reports whether the held token is a JWT whose exp has passed.
// The signature is not checked; the backend remains the authority. Opaque
// tokens never count as expired.
func (s *Store) TokenExpired() bool {
	token := s.Token()
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}

type storeContextKey struct{}

// ContextWithStore attaches store to ctx.
func ContextWithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// StoreFromContext returns the request's Store, or nil.
func StoreFromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(storeContextKey{}).(*Store)
	return store
}
