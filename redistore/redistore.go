// Package redistore provides a Redis-backed session store. Each session is a
// JSON value under a prefixed key whose TTL mirrors the record expiry, so
// Redis prunes stale sessions on its own.
//
// Importing the package registers it as the "redis" backend; the registry
// factory expects the connection URL under the "dsn" argument:
//
//	import _ "github.com/webstack-go/websession/redistore"
package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webstack-go/websession"
)

// KeyPrefix namespaces all session keys in Redis.
const KeyPrefix = "websession:"

const connectTimeout = 5 * time.Second

func init() {
	websession.RegisterStore("redis", func(args map[string]string) (websession.Store, error) {
		dsn := args[websession.ArgDSN]
		if dsn == "" {
			return nil, errors.New("redistore: missing dsn argument")
		}
		return Connect(context.Background(), dsn)
	})
}

// RedisStore implements websession.Store on a Redis client.
type RedisStore struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect parses a redis:// URL, verifies the connection with a ping and
// returns a store over the new client.
func Connect(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redistore: parse connection url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redistore: redis connection failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Load retrieves a session by ID. A missing key means Redis either never had
// the record or already expired it.
func (s *RedisStore) Load(ctx context.Context, id string) (*websession.Session, error) {
	raw, err := s.client.Get(ctx, KeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, websession.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redistore: load session: %w", err)
	}

	var session websession.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("redistore: corrupt session record %s: %w", id, err)
	}

	if session.IsExpired() {
		_ = s.client.Del(ctx, KeyPrefix+id).Err()
		return nil, websession.ErrSessionExpired
	}

	return &session, nil
}

// Save persists the session with a key TTL matching its expiry.
func (s *RedisStore) Save(ctx context.Context, session *websession.Session) error {
	if session == nil || session.ID == "" {
		return websession.ErrInvalidSession
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redistore: encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return websession.ErrSessionExpired
	}

	if err := s.client.Set(ctx, KeyPrefix+session.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redistore: save session: %w", err)
	}
	return nil
}

// Delete removes a session by ID. Missing keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, KeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redistore: delete session: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
