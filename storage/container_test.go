package storage_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/on-the-ground/reduct_ive_go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *storage.SQLiteContainer {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "storage_test.db")
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_journal=WAL")
	require.NoError(t, err)
	container, err := storage.NewSQLiteContainer(db)
	require.NoError(t, err)
	return container
}

// containerContract exercises the shared Container semantics against any
// backend.
func containerContract(t *testing.T, container storage.Container) {
	t.Helper()
	ctx := context.Background()

	// Absent key: (nil, false, nil), not an error.
	value, ok, err := container.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)

	require.NoError(t, container.Set(ctx, "greeting", []byte("hello")))
	value, ok, err = container.Get(ctx, "greeting")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), value)

	// Overwrite wins.
	require.NoError(t, container.Set(ctx, "greeting", []byte("bye")))
	value, _, err = container.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, []byte("bye"), value)

	// Delete, then absence again; deleting twice is harmless.
	require.NoError(t, container.Delete(ctx, "greeting"))
	_, ok, err = container.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, container.Delete(ctx, "greeting"))
}

func TestMemoryContainer_Contract(t *testing.T) {
	container := storage.NewMemoryContainer(8)
	defer container.Close()
	containerContract(t, container)
}

func TestMemoryContainer_NormalizesShardCount(t *testing.T) {
	container := storage.NewMemoryContainer(0)
	defer container.Close()
	containerContract(t, container)
}

func TestMemDBContainer_Contract(t *testing.T) {
	container, err := storage.NewMemDBContainer()
	require.NoError(t, err)
	defer container.Close()
	containerContract(t, container)
}

func TestSQLiteContainer_Contract(t *testing.T) {
	container := openSQLite(t)
	defer container.Close()
	containerContract(t, container)
}

func TestSQLiteContainer_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen_test.db")
	dsn := "file:" + dbPath + "?_journal=WAL"

	db1, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	first, err := storage.NewSQLiteContainer(db1)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "durable", []byte("yes")))
	require.NoError(t, first.Close())

	db2, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	second, err := storage.NewSQLiteContainer(db2)
	require.NoError(t, err)
	defer second.Close()

	value, ok, err := second.Get(ctx, "durable")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("yes"), value)
}

func TestMemoryContainer_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	container := storage.NewMemoryContainer(4)
	defer container.Close()

	original := []byte("immutable")
	require.NoError(t, container.Set(ctx, "k", original))
	original[0] = 'X'

	value, _, err := container.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("immutable"), value)
}
