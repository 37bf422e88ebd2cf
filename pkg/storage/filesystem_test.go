package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveReadDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save("exports/a.csv", []byte("x,y"))
	require.NoError(t, err)
	assert.Equal(t, "exports/a.csv", name)

	data, err := store.Read("exports/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "x,y", string(data))

	require.NoError(t, store.Delete("exports/a.csv"))
	_, err = store.Read("exports/a.csv")
	assert.ErrorIs(t, err, ErrNotExist)
	require.NoError(t, store.Delete("exports/a.csv"))
}

func TestLocalStorageConfinesPaths(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("../../escape.txt", []byte("nope"))
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, statErr)
	assert.Equal(t, filepath.Join(dir, "escape.txt"), store.Path("../../escape.txt"))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new.pdf", []byte("new"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("old.pdf"), past, past))

	deleted, err := store.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)

	_, err = store.Read("new.pdf")
	assert.NoError(t, err)
}
