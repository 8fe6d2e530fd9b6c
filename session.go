package websession

import "time"

// Session is a server-side record of per-client state, referenced by an
// opaque ID carried in a cookie. Mutations only touch the in-memory copy and
// mark the session dirty; nothing is persisted until Manager.Save (or the
// middleware's end-of-request auto-save) flushes it to the store.
type Session struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data,omitempty"`
	ExpiresAt time.Time      `json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`

	dirty bool
}

// NewSession creates a fresh session with the given ID and lifetime.
func NewSession(id string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Data:      make(map[string]any),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired returns true if the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Dirty reports whether the session has unsaved mutations.
func (s *Session) Dirty() bool {
	return s != nil && s.dirty
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from session data. JSON-backed stores decode
// numbers as float64, so that case is converted.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data.
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in session data and marks the session dirty.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
	s.dirty = true
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	if _, ok := s.Data[key]; ok {
		delete(s.Data, key)
		s.dirty = true
	}
}

// Clear removes all data from the session.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Data = make(map[string]any)
	s.dirty = true
}

// markClean resets the dirty flag after a successful flush.
func (s *Session) markClean() {
	if s != nil {
		s.dirty = false
	}
}

// copyData returns a deep-enough copy of the data map for stores that hold
// sessions in process memory. Values are shared; sessions hold serializable
// scalars and the map itself is the mutation surface.
func copyData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
