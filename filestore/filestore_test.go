package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webstack-go/websession"
	"github.com/webstack-go/websession/filestore"
)

func newStore(t *testing.T) (*filestore.FileStore, string, string) {
	t.Helper()

	dataDir := t.TempDir()
	lockDir := t.TempDir()
	store, err := filestore.New(dataDir, lockDir)
	require.NoError(t, err)
	return store, dataDir, lockDir
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and load", func(t *testing.T) {
		store, dataDir, _ := newStore(t)

		sess := websession.NewSession("abc123", time.Hour)
		sess.Set("user", "alice")
		require.NoError(t, store.Save(ctx, sess))

		_, err := os.Stat(filepath.Join(dataDir, "abc123.json"))
		require.NoError(t, err)

		loaded, err := store.Load(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", loaded.ID)
		user, _ := loaded.GetString("user")
		assert.Equal(t, "alice", user)
	})

	t.Run("sessions survive a new store over the same directories", func(t *testing.T) {
		dataDir := t.TempDir()
		lockDir := t.TempDir()

		first, err := filestore.New(dataDir, lockDir)
		require.NoError(t, err)
		require.NoError(t, first.Save(ctx, websession.NewSession("abc123", time.Hour)))

		second, err := filestore.New(dataDir, lockDir)
		require.NoError(t, err)
		loaded, err := second.Load(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", loaded.ID)
	})

	t.Run("unknown ID", func(t *testing.T) {
		store, _, _ := newStore(t)

		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, websession.ErrSessionNotFound)
	})

	t.Run("hostile IDs cannot escape the data directory", func(t *testing.T) {
		store, _, _ := newStore(t)

		for _, id := range []string{"", "../../etc/passwd", "a/b", "a.b", "a b"} {
			_, err := store.Load(ctx, id)
			assert.ErrorIs(t, err, websession.ErrSessionNotFound, "id %q", id)
		}

		assert.ErrorIs(t, store.Save(ctx, websession.NewSession("../oops", time.Hour)),
			websession.ErrInvalidSession)
	})

	t.Run("expired record is removed on load", func(t *testing.T) {
		store, dataDir, lockDir := newStore(t)

		require.NoError(t, store.Save(ctx, websession.NewSession("stale", -time.Minute)))

		_, err := store.Load(ctx, "stale")
		assert.ErrorIs(t, err, websession.ErrSessionExpired)

		_, err = os.Stat(filepath.Join(dataDir, "stale.json"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(lockDir, "stale.lock"))
		assert.True(t, os.IsNotExist(err), "lock file must go with the record")
	})

	t.Run("corrupt record is an infrastructure error", func(t *testing.T) {
		store, dataDir, _ := newStore(t)

		require.NoError(t, os.WriteFile(filepath.Join(dataDir, "bad.json"), []byte("{not json"), 0o600))

		_, err := store.Load(ctx, "bad")
		require.Error(t, err)
		assert.NotErrorIs(t, err, websession.ErrSessionNotFound)
	})

	t.Run("delete removes record and lock file", func(t *testing.T) {
		store, dataDir, lockDir := newStore(t)

		require.NoError(t, store.Save(ctx, websession.NewSession("abc123", time.Hour)))
		_, err := store.Load(ctx, "abc123")
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, "abc123"))
		require.NoError(t, store.Delete(ctx, "abc123"), "deleting twice is fine")

		_, err = os.Stat(filepath.Join(dataDir, "abc123.json"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(lockDir, "abc123.lock"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete expired", func(t *testing.T) {
		store, _, _ := newStore(t)

		require.NoError(t, store.Save(ctx, websession.NewSession("live", time.Hour)))
		require.NoError(t, store.Save(ctx, websession.NewSession("stale", -time.Minute)))

		require.NoError(t, store.DeleteExpired(ctx))

		_, err := store.Load(ctx, "live")
		assert.NoError(t, err)
		_, err = store.Load(ctx, "stale")
		assert.ErrorIs(t, err, websession.ErrSessionNotFound)
	})

	t.Run("stats", func(t *testing.T) {
		store, _, _ := newStore(t)

		require.NoError(t, store.Save(ctx, websession.NewSession("live", time.Hour)))
		require.NoError(t, store.Save(ctx, websession.NewSession("stale", -time.Minute)))

		live, expired := store.Stats()
		assert.Equal(t, 1, live)
		assert.Equal(t, 1, expired)
	})

	t.Run("registry factory builds a working store", func(t *testing.T) {
		store, err := websession.OpenStore("file", map[string]string{
			websession.ArgPath:     t.TempDir(),
			websession.ArgLockPath: t.TempDir(),
		})
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, websession.NewSession("abc123", time.Hour)))
		loaded, err := store.Load(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", loaded.ID)
	})
}
