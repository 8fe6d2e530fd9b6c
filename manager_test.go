package websession_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstack-go/websession"
	"github.com/webstack-go/websession/cookie"
)

func setupManager(t *testing.T, store websession.Store) *websession.Manager {
	t.Helper()

	manager, err := websession.New(
		websession.WithStore(store),
		websession.WithCookieName("sessionid"),
		websession.WithTTL(time.Hour),
		websession.WithCookieTTL(time.Hour),
	)
	require.NoError(t, err)
	return manager
}

func seedSession(t *testing.T, store websession.Store, id string, data map[string]any) {
	t.Helper()

	sess := websession.NewSession(id, time.Hour)
	for k, v := range data {
		sess.Set(k, v)
	}
	require.NoError(t, store.Save(context.Background(), sess))
}

func requestWithCookie(name, value string) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: name, Value: value})
	return r
}

func TestManager_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("existing ID round-trips with the same cookie value", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)
		seedSession(t, store, "abc123", map[string]any{"user": "alice"})

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(ctx, w, requestWithCookie("sessionid", "abc123"))
		require.NoError(t, err)
		require.NotNil(t, sess)

		user, ok := sess.GetString("user")
		assert.True(t, ok)
		assert.Equal(t, "alice", user)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sessionid", cookies[0].Name)
		assert.Equal(t, "abc123", cookies[0].Value)
	})

	t.Run("no cookie creates a fresh session", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(ctx, w, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.NotEmpty(t, sess.ID)
		assert.NotEqual(t, "0", sess.ID)
		assert.Empty(t, sess.Data)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sess.ID, cookies[0].Value)

		// The fresh session is already durable.
		stored, err := store.Load(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, stored.ID)
	})

	t.Run("empty cookie value is treated as no ID", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(ctx, w, requestWithCookie("sessionid", ""))
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.NotEmpty(t, sess.ID)
	})

	t.Run("unknown ID is cleaned up silently", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(ctx, w, requestWithCookie("sessionid", "deadbeef"))
		assert.NoError(t, err)
		assert.Nil(t, sess)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
		assert.True(t, cookies[0].Expires.Before(time.Now()))
	})

	t.Run("expired record is treated like an unknown ID", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)

		stale := websession.NewSession("stale", -time.Minute)
		require.NoError(t, store.Save(ctx, stale))

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(ctx, w, requestWithCookie("sessionid", "stale"))
		assert.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		manager := setupManager(t, failingStore{})

		w := httptest.NewRecorder()
		_, err := manager.Resolve(ctx, w, requestWithCookie("sessionid", "abc123"))
		assert.ErrorIs(t, err, errBackendDown)
	})
}

func TestManager_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns existing session without touching the response", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)
		seedSession(t, store, "abc123", map[string]any{"user": "alice"})

		sess, err := manager.Get(ctx, requestWithCookie("sessionid", "abc123"))
		require.NoError(t, err)
		assert.Equal(t, "abc123", sess.ID)
	})

	t.Run("returns ErrSessionNotFound without a cookie", func(t *testing.T) {
		manager := setupManager(t, websession.NewMemoryStore(0))

		_, err := manager.Get(ctx, httptest.NewRequest("GET", "/", nil))
		assert.ErrorIs(t, err, websession.ErrSessionNotFound)
	})
}

func TestManager_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("mutations are invisible until the flush", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)
		seedSession(t, store, "abc123", nil)

		sess, err := manager.Get(ctx, requestWithCookie("sessionid", "abc123"))
		require.NoError(t, err)

		sess.Set("color", "teal")
		assert.True(t, sess.Dirty())

		stored, err := store.Load(ctx, "abc123")
		require.NoError(t, err)
		_, ok := stored.Get("color")
		assert.False(t, ok, "value must not be persisted before Save")

		require.NoError(t, manager.Save(ctx, sess))
		assert.False(t, sess.Dirty())

		stored, err = store.Load(ctx, "abc123")
		require.NoError(t, err)
		color, _ := stored.GetString("color")
		assert.Equal(t, "teal", color)
	})

	t.Run("extends the record lifetime", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)

		sess := websession.NewSession("short", time.Minute)
		require.NoError(t, store.Save(ctx, sess))

		require.NoError(t, manager.Save(ctx, sess))
		assert.Greater(t, time.Until(sess.ExpiresAt), 50*time.Minute)
	})

	t.Run("rejects nil and ID-less sessions", func(t *testing.T) {
		manager := setupManager(t, websession.NewMemoryStore(0))

		assert.ErrorIs(t, manager.Save(ctx, nil), websession.ErrInvalidSession)
		assert.ErrorIs(t, manager.Save(ctx, &websession.Session{}), websession.ErrInvalidSession)
	})
}

func TestManager_Destroy(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes record and clears cookie", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)
		seedSession(t, store, "abc123", nil)

		w := httptest.NewRecorder()
		require.NoError(t, manager.Destroy(ctx, w, requestWithCookie("sessionid", "abc123")))

		_, err := store.Load(ctx, "abc123")
		assert.ErrorIs(t, err, websession.ErrSessionNotFound)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("stale handle is tolerated", func(t *testing.T) {
		manager := setupManager(t, websession.NewMemoryStore(0))

		w := httptest.NewRecorder()
		assert.NoError(t, manager.Destroy(ctx, w, requestWithCookie("sessionid", "gone")))
		require.Len(t, w.Result().Cookies(), 1)
	})

	t.Run("destroy then resolve equals a first visit", func(t *testing.T) {
		store := websession.NewMemoryStore(0)
		manager := setupManager(t, store)
		seedSession(t, store, "abc123", map[string]any{"user": "alice"})

		w1 := httptest.NewRecorder()
		require.NoError(t, manager.Destroy(ctx, w1, requestWithCookie("sessionid", "abc123")))

		// The deletion cookie means the next request arrives bare.
		w2 := httptest.NewRecorder()
		sess, err := manager.Resolve(ctx, w2, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.NotEqual(t, "abc123", sess.ID)
		assert.Empty(t, sess.Data)
	})

	t.Run("clearing twice produces the same deletion header", func(t *testing.T) {
		manager := setupManager(t, websession.NewMemoryStore(0))

		w1 := httptest.NewRecorder()
		w2 := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)
		require.NoError(t, manager.Destroy(ctx, w1, r))
		require.NoError(t, manager.Destroy(ctx, w2, r))

		assert.Equal(t, w1.Header().Get("Set-Cookie"), w2.Header().Get("Set-Cookie"))
	})
}

func TestManager_Defaults(t *testing.T) {
	t.Run("zero-config manager works with memory store", func(t *testing.T) {
		manager, err := websession.New()
		require.NoError(t, err)

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(context.Background(), w, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.NotNil(t, sess)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sessionid", cookies[0].Name)
	})

	t.Run("custom ID generator is used", func(t *testing.T) {
		manager, err := websession.New(
			websession.WithIDGenerator(func() string { return "fixed-id" }),
		)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(context.Background(), w, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, "fixed-id", sess.ID)
	})

	t.Run("explicit nil store is rejected", func(t *testing.T) {
		_, err := websession.New(websession.WithStore(nil))
		assert.ErrorIs(t, err, websession.ErrNoStore)
	})

	t.Run("explicit nil transport is rejected", func(t *testing.T) {
		_, err := websession.New(websession.WithTransport(nil))
		assert.ErrorIs(t, err, websession.ErrNoTransport)
	})
}

func TestManager_SignedCookies(t *testing.T) {
	ctx := context.Background()

	t.Run("config-driven signing round-trips", func(t *testing.T) {
		cfg := websession.DefaultConfig()
		cfg.Secrets = "0123456789abcdef0123456789abcdef"
		cfg.SignCookies = true

		manager, err := websession.New(
			websession.WithConfig(cfg),
			websession.WithStore(websession.NewMemoryStore(0)),
		)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		sess, err := manager.Resolve(ctx, w, httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		require.NotNil(t, sess)

		written := w.Result().Cookies()
		require.Len(t, written, 1)
		assert.NotEqual(t, sess.ID, written[0].Value, "cookie value must be the signed envelope")

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(written[0])
		w2 := httptest.NewRecorder()
		again, err := manager.Resolve(ctx, w2, r)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.Equal(t, sess.ID, again.ID)
	})

	t.Run("signing without a secret is a configuration error", func(t *testing.T) {
		cfg := websession.DefaultConfig()
		cfg.SignCookies = true

		_, err := websession.New(
			websession.WithConfig(cfg),
			websession.WithStore(websession.NewMemoryStore(0)),
		)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}

var errBackendDown = errors.New("backend down")

// failingStore simulates an unavailable backend.
type failingStore struct{}

func (failingStore) Load(ctx context.Context, id string) (*websession.Session, error) {
	return nil, errBackendDown
}

func (failingStore) Save(ctx context.Context, session *websession.Session) error {
	return errBackendDown
}

func (failingStore) Delete(ctx context.Context, id string) error {
	return errBackendDown
}
