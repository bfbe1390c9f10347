package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

		store, err := Open(path)

		require.NoError(t, err)
		defer store.Close()
	})

	t.Run("reopening an existing store works", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")

		store, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, store.Begin("asst_1", "thread_1"))
		require.NoError(t, store.Close())

		store2, err := Open(path)
		require.NoError(t, err)
		defer store2.Close()

		sessions, err := store2.Sessions()
		require.NoError(t, err)
		assert.Len(t, sessions, 1)
	})
}

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Begin("asst_1", "thread_1"))
	id := store.CurrentSessionID()
	require.NotEmpty(t, id)

	require.NoError(t, store.Record("user", "穴埋め問題を1問ください"))
	require.NoError(t, store.Record("assistant", "Here is question 1 ..."))
	require.NoError(t, store.End())

	assert.Empty(t, store.CurrentSessionID())

	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "asst_1", sessions[0].AgentID)
	assert.Equal(t, "thread_1", sessions[0].ThreadID)
	assert.NotNil(t, sessions[0].EndedAt)

	turns, err := store.Turns(id)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "穴埋め問題を1問ください", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
}

func TestRecordWithoutSession(t *testing.T) {
	store := openTestStore(t)

	err := store.Record("user", "orphan")

	assert.Error(t, err)
}

func TestEndWithoutSession(t *testing.T) {
	store := openTestStore(t)

	assert.NoError(t, store.End())
}

func TestMultipleSessions(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Begin("asst_1", "thread_1"))
	first := store.CurrentSessionID()
	require.NoError(t, store.Record("user", "one"))
	require.NoError(t, store.End())

	require.NoError(t, store.Begin("asst_1", "thread_2"))
	second := store.CurrentSessionID()
	require.NoError(t, store.Record("user", "two"))
	require.NoError(t, store.End())

	assert.NotEqual(t, first, second)

	sessions, err := store.Sessions()
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	turns, err := store.Turns(second)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "two", turns[0].Content)
}
