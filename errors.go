package websession

import "errors"

var (
	// ErrSessionNotFound indicates the store holds no record for the
	// presented session ID. Resolve recovers from it locally; stores must
	// return it (or wrap it) so callers never have to match error text.
	ErrSessionNotFound = errors.New("websession: session not found")

	// ErrSessionExpired indicates a record exists but has passed its expiry.
	// The manager treats it the same as ErrSessionNotFound.
	ErrSessionExpired = errors.New("websession: session expired")

	// ErrInvalidSession indicates a nil session or one without an ID was
	// handed to a store.
	ErrInvalidSession = errors.New("websession: invalid session")

	// ErrUnknownStoreBackend indicates the configured backend name has no
	// registered factory. Usually a missing blank import of the backend
	// package.
	ErrUnknownStoreBackend = errors.New("websession: unknown store backend")

	// ErrNoTransport indicates no transport is configured.
	ErrNoTransport = errors.New("websession: no transport configured")

	// ErrNoStore indicates no store is configured.
	ErrNoStore = errors.New("websession: no store configured")
)
