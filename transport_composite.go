package websession

import (
	"errors"
	"net/http"
	"time"
)

// CompositeTransport layers several transports behind one Transport: reads
// take the first token found in transport order, writes and clears fan out
// to every layer so clients on either channel stay in sync.
//
// A transport that merely has no token is skipped; one that fails for any
// other reason (for example a cookie with a broken signature envelope while
// a fallback header is present) stops the scan and surfaces the failure, so
// a forged credential is never papered over by a later transport.
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport creates a composite transport over the given layers,
// consulted in argument order.
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{transports: transports}
}

// Token extracts the session ID from the first transport that carries one.
func (t *CompositeTransport) Token(r *http.Request) (string, error) {
	for _, transport := range t.transports {
		token, err := transport.Token(r)
		switch {
		case err == nil && token != "":
			return token, nil
		case err != nil && !errors.Is(err, ErrSessionNotFound):
			return "", err
		}
	}
	return "", ErrSessionNotFound
}

// SetToken sends the session ID via every transport. All layers are
// attempted even when one fails; the failures come back joined.
func (t *CompositeTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	var errs []error
	for _, transport := range t.transports {
		if err := transport.SetToken(w, token, ttl); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ClearToken removes the session ID from every transport.
func (t *CompositeTransport) ClearToken(w http.ResponseWriter) error {
	var errs []error
	for _, transport := range t.transports {
		if err := transport.ClearToken(w); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
