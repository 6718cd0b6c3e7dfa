package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "sid", "secret", time.Hour, true), mr
}

func commit(t *testing.T, sm *SessionManager, sess *Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil), sess))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func load(t *testing.T, sm *SessionManager, cookie *http.Cookie) *Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	return sess
}

func TestSessionRoundTrip(t *testing.T) {
	sm, mr := newTestSessions(t)
	sess := load(t, sm, nil)
	sess.SetMany(map[string]string{"token": "abc", "email": "ops@acme.test"})
	sess.AddFlash(FlashMessage{Kind: "success", Message: "Saved"})
	cookie := commit(t, sm, sess)

	assert.Equal(t, "sid", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.True(t, mr.Exists("nexstock:session:"+sess.ID))

	again := load(t, sm, cookie)
	assert.Equal(t, sess.ID, again.ID)
	assert.Equal(t, "abc", again.Get("token"))
	flash := again.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Saved", flash.Message)
	assert.Nil(t, again.PopFlash())
}

func TestSessionUnknownCookieGetsFreshID(t *testing.T) {
	sm, _ := newTestSessions(t)
	sess := load(t, sm, &http.Cookie{Name: "sid", Value: "attacker-chosen"})
	assert.NotEqual(t, "attacker-chosen", sess.ID)
	assert.Empty(t, sess.Get("token"))
}

func TestSessionExpiresWithTTL(t *testing.T) {
	sm, mr := newTestSessions(t)
	sess := load(t, sm, nil)
	sess.Set("token", "abc")
	cookie := commit(t, sm, sess)

	mr.FastForward(2 * time.Hour)
	assert.Empty(t, load(t, sm, cookie).Get("token"))
}

func TestSessionRenewDropsOldKey(t *testing.T) {
	sm, mr := newTestSessions(t)
	sess := load(t, sm, nil)
	sess.Set("token", "abc")
	cookie := commit(t, sm, sess)
	oldID := sess.ID

	loaded := load(t, sm, cookie)
	sm.Renew(loaded)
	renewed := commit(t, sm, loaded)

	assert.NotEqual(t, oldID, loaded.ID)
	assert.False(t, mr.Exists("nexstock:session:"+oldID))
	assert.Equal(t, "abc", load(t, sm, renewed).Get("token"))
}

func TestSessionDestroyClearsCookie(t *testing.T) {
	sm, mr := newTestSessions(t)
	sess := load(t, sm, nil)
	sess.Set("token", "abc")
	cookie := commit(t, sm, sess)

	loaded := load(t, sm, cookie)
	sm.Destroy(loaded)
	cleared := commit(t, sm, loaded)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.False(t, mr.Exists("nexstock:session:"+sess.ID))
}

func TestSessionDeleteMany(t *testing.T) {
	sess := &Session{values: map[string]string{"a": "1", "b": "2", "c": "3"}}
	sess.DeleteMany("a", "b")
	assert.Empty(t, sess.Get("a"))
	assert.Equal(t, "3", sess.Get("c"))
	assert.True(t, sess.dirty)
}
