package websession

import (
	"time"

	"github.com/webstack-go/websession/cookie"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets the session store. Passing nil is a configuration error
// reported by New as ErrNoStore.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
		m.storeSet = true
	}
}

// WithTransport sets the session transport, replacing the default cookie
// transport. Passing nil is a configuration error reported by New as
// ErrNoTransport.
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
		m.transportSet = true
	}
}

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithCookieTTL sets the client-side cookie lifetime.
func WithCookieTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.CookieTTL = ttl
	}
}

// WithTTL sets the server-side session record lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.TTL = ttl
	}
}

// WithCookieManager sets the cookie manager used by the default cookie
// transport.
func WithCookieManager(cookies *cookie.Manager, opts ...CookieTransportOption) Option {
	return func(m *Manager) {
		m.cookieManager = cookies
		m.cookieOptions = opts
	}
}

// WithIDGenerator replaces the session ID generator. The generator must
// return IDs that are non-empty and safe to put in a cookie value.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.generateID = fn
	}
}
