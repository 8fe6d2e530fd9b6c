package websession

import (
	"errors"
	"net/http"
	"time"

	"github.com/webstack-go/websession/cookie"
)

// CookieTransport carries the session ID in an HTTP cookie. It is the
// default transport. With signing enabled the cookie value is HMAC-protected
// and a cookie that fails verification reads as no session at all.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
	path    string
	secure  bool
	signed  bool
}

// CookieTransportOption configures a CookieTransport.
type CookieTransportOption func(*CookieTransport)

// WithCookiePath sets the path attribute written on session cookies.
func WithCookiePath(path string) CookieTransportOption {
	return func(t *CookieTransport) {
		t.path = path
	}
}

// WithSecureCookie enables the Secure flag on session cookies.
func WithSecureCookie(secure bool) CookieTransportOption {
	return func(t *CookieTransport) {
		t.secure = secure
	}
}

// WithSignedValues makes the transport write and verify HMAC-signed cookie
// values. The cookie manager must be constructed with secrets.
func WithSignedValues(signed bool) CookieTransportOption {
	return func(t *CookieTransport) {
		t.signed = signed
	}
}

// NewCookieTransport creates a cookie-based transport.
func NewCookieTransport(cookies *cookie.Manager, name string, opts ...CookieTransportOption) *CookieTransport {
	t := &CookieTransport{
		cookies: cookies,
		name:    name,
		path:    "/",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Token extracts the session ID from the cookie. A present-but-empty cookie
// value means "no session", same as an absent cookie.
func (t *CookieTransport) Token(r *http.Request) (string, error) {
	var (
		token string
		err   error
	)
	if t.signed {
		token, err = t.cookies.GetSigned(r, t.name)
	} else {
		token, err = t.cookies.Get(r, t.name)
	}
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) ||
			errors.Is(err, cookie.ErrInvalidSignature) ||
			errors.Is(err, cookie.ErrInvalidFormat) {
			return "", ErrSessionNotFound
		}
		return "", err
	}
	if token == "" {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetToken stores the session ID in a cookie with the given lifetime.
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	opts := []cookie.Option{
		cookie.WithPath(t.path),
		cookie.WithMaxAge(int(ttl.Seconds())),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if t.secure {
		opts = append(opts, cookie.WithSecure(true))
	}

	if t.signed {
		return t.cookies.SetSigned(w, t.name, token, opts...)
	}
	return t.cookies.Set(w, t.name, token, opts...)
}

// ClearToken writes a deletion cookie so the client discards the ID.
func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	t.cookies.Delete(w, t.name)
	return nil
}
