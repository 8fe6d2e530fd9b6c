package websession

import (
	"context"
	"sync"
	"time"
)

func init() {
	RegisterStore("memory", func(args map[string]string) (Store, error) {
		var cleanup time.Duration
		if v, ok := args[ArgCleanupInterval]; ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}
			cleanup = d
		}
		return NewMemoryStore(cleanup), nil
	})
}

// MemoryStore implements Store using in-process memory. It is safe for
// concurrent use and suitable for tests and single-instance deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates a new in-memory session store. A positive cleanup
// interval starts a background goroutine that prunes expired records; stop it
// with Close.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Load retrieves a session by ID. Expired records are removed on the spot
// and reported as ErrSessionExpired.
func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}

	sessionCopy := *session
	sessionCopy.Data = copyData(session.Data)
	return &sessionCopy, nil
}

// Save persists the session, creating the record if needed.
func (m *MemoryStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sessionCopy := *session
	sessionCopy.Data = copyData(session.Data)
	m.sessions[session.ID] = &sessionCopy
	return nil
}

// Delete removes a session by ID.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// DeleteExpired removes all expired sessions.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, id)
		}
	}

	return nil
}

// Stats returns the number of live and expired records currently held.
func (m *MemoryStore) Stats() (live, expired int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	for _, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			expired++
		} else {
			live++
		}
	}
	return live, expired
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
			close(m.done)
		}
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
