package websession

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/webstack-go/websession/cookie"
)

// Manager orchestrates the session life-cycle for HTTP requests: it extracts
// a session ID from the incoming request, resolves or creates the matching
// record through the store, refreshes the outgoing cookie and exposes delete
// semantics. Configuration is read-only after construction, so a single
// Manager is safe for concurrent use across requests.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	generateID    func() string
	cookieManager *cookie.Manager
	cookieOptions []CookieTransportOption

	// set when the corresponding option ran, so an explicit nil is a
	// configuration error rather than a silent fallback to defaults
	storeSet     bool
	transportSet bool
}

// New creates a session manager. Without options it uses an in-memory store
// and a plain cookie transport named by DefaultConfig.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config:     DefaultConfig(),
		generateID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.storeSet && m.store == nil {
		return nil, ErrNoStore
	}
	if m.transportSet && m.transport == nil {
		return nil, ErrNoTransport
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			if m.config.SignCookies && m.config.Secrets == "" {
				return nil, cookie.ErrNoSecret
			}
			cookies, err := cookie.NewFromConfig(cookie.Config{
				Secrets:  m.config.Secrets,
				Path:     m.config.CookiePath,
				Secure:   m.config.SecureCookies,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			if err != nil {
				return nil, err
			}
			m.cookieManager = cookies
		}

		transportOpts := []CookieTransportOption{
			WithCookiePath(m.config.CookiePath),
			WithSecureCookie(m.config.SecureCookies),
			WithSignedValues(m.config.SignCookies),
		}
		transportOpts = append(transportOpts, m.cookieOptions...)
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, transportOpts...)
	}

	return m, nil
}

// Resolve is the per-request entry point. It maps the client-presented
// cookie to a session in three ways:
//
//   - no usable ID in the request: a fresh session is created, persisted and
//     announced via a new cookie;
//   - the ID matches a stored record: the record is returned and the cookie
//     refreshed with the same ID;
//   - the ID is unknown to the store (expired, pruned): the cookie is
//     replaced by a deletion cookie and Resolve returns (nil, nil) — a stale
//     cookie is cleaned up silently, never surfaced as an error.
//
// Any other store failure is returned as-is; it is an infrastructure error
// the request should abort on.
func (m *Manager) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	id, err := m.transport.Token(r)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	if id == "" {
		return m.create(ctx, w)
	}

	session, err := m.store.Load(ctx, id)
	switch {
	case err == nil:
		if err := m.transport.SetToken(w, session.ID, m.config.CookieTTL); err != nil {
			return nil, err
		}
		return session, nil
	case errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired):
		_ = m.transport.ClearToken(w)
		return nil, nil
	default:
		return nil, err
	}
}

// Get retrieves the session referenced by the request without creating one
// and without touching the response. It returns ErrSessionNotFound when the
// request carries no usable ID or the store has no record for it.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	id, err := m.transport.Token(r)
	if err != nil {
		return nil, err
	}
	return m.store.Load(ctx, id)
}

// Save flushes the session to the store, extending the record lifetime by
// the configured TTL. This is the explicit persistence boundary: nothing a
// handler does to a session is durable until Save runs.
func (m *Manager) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return ErrInvalidSession
	}

	session.ExpiresAt = time.Now().Add(m.config.TTL)
	if err := m.store.Save(ctx, session); err != nil {
		return err
	}
	session.markClean()
	return nil
}

// Destroy deletes the session referenced by the request. The store delete is
// best-effort (a cookie pointing at an already-gone record is a no-op) and
// the cookie is cleared regardless.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if id, err := m.transport.Token(r); err == nil && id != "" {
		_ = m.store.Delete(ctx, id)
	}
	return m.transport.ClearToken(w)
}

// Store exposes the underlying store, mainly for registering observability
// hooks against it.
func (m *Manager) Store() Store {
	return m.store
}

func (m *Manager) create(ctx context.Context, w http.ResponseWriter) (*Session, error) {
	session := NewSession(m.generateID(), m.config.TTL)

	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, session.ID, m.config.CookieTTL); err != nil {
		_ = m.store.Delete(ctx, session.ID)
		return nil, err
	}

	return session, nil
}
