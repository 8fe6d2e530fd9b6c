// Package filestore provides a filesystem-backed session store: one JSON
// file per session under a data directory, with per-session advisory lock
// files kept in a separate lock directory so that concurrent workers sharing
// the filesystem serialize their reads and writes.
//
// Importing the package registers it as the "file" backend:
//
//	import _ "github.com/webstack-go/websession/filestore"
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/webstack-go/websession"
)

const (
	defaultPath     = "/tmp/sessions"
	defaultLockPath = "/tmp/sessionlock"

	dataSuffix = ".json"
	lockSuffix = ".lock"
)

func init() {
	websession.RegisterStore("file", func(args map[string]string) (websession.Store, error) {
		path := args[websession.ArgPath]
		if path == "" {
			path = defaultPath
		}
		lockPath := args[websession.ArgLockPath]
		if lockPath == "" {
			lockPath = defaultLockPath
		}
		return New(path, lockPath)
	})
}

// FileStore implements websession.Store on the local filesystem.
type FileStore struct {
	path     string
	lockPath string
}

// New creates a file store, creating the data and lock directories if they
// do not exist.
func New(path, lockPath string) (*FileStore, error) {
	for _, dir := range []string{path, lockPath} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("filestore: create %s: %w", dir, err)
		}
	}
	return &FileStore{path: path, lockPath: lockPath}, nil
}

// Load retrieves a session by ID. Records past their expiry are removed and
// reported as expired.
func (s *FileStore) Load(ctx context.Context, id string) (*websession.Session, error) {
	if !validID(id) {
		return nil, websession.ErrSessionNotFound
	}

	unlock, err := s.lock(id, unix.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer unlock()

	raw, err := os.ReadFile(s.dataFile(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, websession.ErrSessionNotFound
		}
		return nil, fmt.Errorf("filestore: read session: %w", err)
	}

	var session websession.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("filestore: corrupt session record %s: %w", id, err)
	}

	if session.IsExpired() {
		_ = os.Remove(s.dataFile(id))
		_ = os.Remove(s.lockFile(id))
		return nil, websession.ErrSessionExpired
	}

	return &session, nil
}

// Save persists the session atomically (write to a temp file, then rename).
func (s *FileStore) Save(ctx context.Context, session *websession.Session) error {
	if session == nil || !validID(session.ID) {
		return websession.ErrInvalidSession
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("filestore: encode session: %w", err)
	}

	unlock, err := s.lock(session.ID, unix.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.path, session.ID+".tmp-*")
	if err != nil {
		return fmt.Errorf("filestore: write session: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.dataFile(session.ID)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write session: %w", err)
	}
	return nil
}

// Delete removes the session record and its lock file. Deleting an absent ID
// is not an error.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}

	if err := os.Remove(s.dataFile(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("filestore: delete session: %w", err)
	}
	_ = os.Remove(s.lockFile(id))
	return nil
}

// DeleteExpired walks the data directory and prunes stale records.
func (s *FileStore) DeleteExpired(ctx context.Context) error {
	return s.walk(func(session *websession.Session) {
		if session.IsExpired() {
			_ = os.Remove(s.dataFile(session.ID))
			_ = os.Remove(s.lockFile(session.ID))
		}
	})
}

// Stats counts live and expired records by scanning the data directory.
func (s *FileStore) Stats() (live, expired int) {
	now := time.Now()
	_ = s.walk(func(session *websession.Session) {
		if now.After(session.ExpiresAt) {
			expired++
		} else {
			live++
		}
	})
	return live, expired
}

func (s *FileStore) walk(fn func(*websession.Session)) error {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return fmt.Errorf("filestore: scan %s: %w", s.path, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != dataSuffix {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.path, entry.Name()))
		if err != nil {
			continue
		}
		var session websession.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			continue
		}
		fn(&session)
	}
	return nil
}

// lock takes a per-session advisory lock and returns its release func.
func (s *FileStore) lock(id string, how int) (func(), error) {
	f, err := os.OpenFile(s.lockFile(id), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("filestore: open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), how); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("filestore: acquire lock: %w", err)
	}
	return func() {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
	}, nil
}

func (s *FileStore) dataFile(id string) string {
	return filepath.Join(s.path, id+dataSuffix)
}

func (s *FileStore) lockFile(id string) string {
	return filepath.Join(s.lockPath, id+lockSuffix)
}

// validID restricts IDs to cookie-safe characters so a hostile cookie value
// can never escape the data directory.
func validID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
