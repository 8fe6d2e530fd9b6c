package cookie

import "errors"

var (
	// ErrCookieNotFound is returned when the request carries no cookie with
	// the requested name.
	ErrCookieNotFound = errors.New("cookie: not found")

	// ErrNoSecret is returned when a signing operation is attempted on a
	// Manager constructed without secrets.
	ErrNoSecret = errors.New("cookie: no signing secret configured")

	// ErrSecretTooShort is returned by New when a secret is shorter than the
	// required minimum length.
	ErrSecretTooShort = errors.New("cookie: secret too short")

	// ErrInvalidFormat is returned when a signed value does not have the
	// expected value|signature shape.
	ErrInvalidFormat = errors.New("cookie: invalid signed value format")

	// ErrInvalidSignature is returned when a signed value fails verification
	// against every configured secret.
	ErrInvalidSignature = errors.New("cookie: signature verification failed")
)
