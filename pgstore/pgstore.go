// Package pgstore provides a PostgreSQL-backed session store using pgx. All
// sessions live in a single table with a jsonb data column and an expires_at
// timestamp; expired rows read as not-found and can be pruned in bulk.
//
// Importing the package registers it as the "postgres" backend; the registry
// factory expects the connection string under the "dsn" argument:
//
//	import _ "github.com/webstack-go/websession/pgstore"
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webstack-go/websession"
)

const schema = `
CREATE TABLE IF NOT EXISTS websession_sessions (
	id         text PRIMARY KEY,
	data       jsonb NOT NULL DEFAULT '{}'::jsonb,
	created_at timestamptz NOT NULL,
	expires_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS websession_sessions_expires_at_idx ON websession_sessions (expires_at);
`

func init() {
	websession.RegisterStore("postgres", func(args map[string]string) (websession.Store, error) {
		dsn := args[websession.ArgDSN]
		if dsn == "" {
			return nil, errors.New("pgstore: missing dsn argument")
		}
		return Connect(context.Background(), dsn)
	})
}

// PGStore implements websession.Store on a pgx connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool. EnsureSchema must have run (or the table must
// exist) before the store is used.
func New(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Connect opens a pool for the given connection string, verifies it with a
// ping and creates the session table if needed.
func Connect(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: postgres connection failed: %w", err)
	}

	store := &PGStore{pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the session table and its expiry index.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("pgstore: ensure schema: %w", err)
	}
	return nil
}

// Load retrieves a session by ID. Rows past their expiry are deleted on the
// spot and reported as expired.
func (s *PGStore) Load(ctx context.Context, id string) (*websession.Session, error) {
	session := websession.Session{ID: id}

	err := s.pool.QueryRow(ctx,
		`SELECT data, created_at, expires_at FROM websession_sessions WHERE id = $1`,
		id,
	).Scan(&session.Data, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, websession.ErrSessionNotFound
		}
		return nil, fmt.Errorf("pgstore: load session: %w", err)
	}

	if session.IsExpired() {
		_, _ = s.pool.Exec(ctx, `DELETE FROM websession_sessions WHERE id = $1`, id)
		return nil, websession.ErrSessionExpired
	}

	return &session, nil
}

// Save upserts the session row.
func (s *PGStore) Save(ctx context.Context, session *websession.Session) error {
	if session == nil || session.ID == "" {
		return websession.ErrInvalidSession
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO websession_sessions (id, data, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`,
		session.ID, session.Data, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("pgstore: save session: %w", err)
	}
	return nil
}

// Delete removes a session row. Missing rows are not an error.
func (s *PGStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM websession_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("pgstore: delete session: %w", err)
	}
	return nil
}

// DeleteExpired prunes all rows past their expiry.
func (s *PGStore) DeleteExpired(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM websession_sessions WHERE expires_at < $1`, time.Now()); err != nil {
		return fmt.Errorf("pgstore: delete expired sessions: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PGStore) Close() {
	s.pool.Close()
}
