package cookie

import "net/http"

// Attributes are the cookie attributes applied on write. A Manager carries a
// default set; every Set call may override them with Option functions.
type Attributes struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option mutates the attributes for a single write (or the Manager defaults
// when passed to New).
type Option func(*Attributes)

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(a *Attributes) {
		a.Path = path
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(a *Attributes) {
		a.Domain = domain
	}
}

// WithMaxAge sets the cookie lifetime in seconds. Negative values produce a
// deletion cookie.
func WithMaxAge(seconds int) Option {
	return func(a *Attributes) {
		a.MaxAge = seconds
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(a *Attributes) {
		a.Secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(a *Attributes) {
		a.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite mode.
func WithSameSite(sameSite http.SameSite) Option {
	return func(a *Attributes) {
		a.SameSite = sameSite
	}
}

// applyOptions copies the base attributes and applies the option functions;
// the base is never modified.
func applyOptions(base Attributes, opts []Option) Attributes {
	attrs := base
	for _, opt := range opts {
		opt(&attrs)
	}
	return attrs
}
