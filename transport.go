package websession

import (
	"net/http"
	"time"
)

// Transport defines how session IDs travel between client and server.
type Transport interface {
	// Token extracts the session ID from the request. An absent or empty
	// token is reported as ("", ErrSessionNotFound); an empty string is
	// never a valid ID.
	Token(r *http.Request) (string, error)

	// SetToken sends the session ID in the response with the given client-
	// side lifetime.
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error

	// ClearToken instructs the client to discard the session ID.
	ClearToken(w http.ResponseWriter) error
}
