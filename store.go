package websession

import "context"

// Store defines the interface for session persistence. Implementations own
// their locking and flush discipline; the manager only ever performs whole-
// record reads and writes keyed by session ID.
type Store interface {
	// Load retrieves a session by ID. It returns ErrSessionNotFound when no
	// record exists for the ID, and ErrSessionExpired (or deletes the record
	// and returns ErrSessionNotFound) when a record exists but is stale.
	// Any other error is an infrastructure failure.
	Load(ctx context.Context, id string) (*Session, error)

	// Save persists the session, creating the record if it does not exist.
	Save(ctx context.Context, session *Session) error

	// Delete removes a session by ID. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error
}

// StoreWithCleanup is an optional interface for stores that can prune
// expired records in bulk.
type StoreWithCleanup interface {
	Store

	// DeleteExpired removes all expired sessions.
	DeleteExpired(ctx context.Context) error
}

// StatsProvider is an optional interface for stores that can report how many
// records they hold. The prometheus Collector consumes it.
type StatsProvider interface {
	// Stats returns the number of live and expired sessions currently held.
	Stats() (live, expired int)
}
