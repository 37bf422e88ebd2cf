package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/pkg/storage"
)

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := NewSnapshotRepository(store)

	_, err = repo.Load()
	assert.True(t, errors.Is(err, ErrSnapshotMissing))

	ds := &models.Dataset{
		Version: "v-1",
		Source:  models.SourceImport,
		Classes: []models.ClassEntry{{Period: "1", Weekday: "Monday", Discipline: "Anatomy"}},
	}
	require.NoError(t, repo.Save(ds))

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "v-1", loaded.Version)
	require.Len(t, loaded.Classes, 1)
	assert.Equal(t, "Anatomy", loaded.Classes[0].Discipline)
}

func TestSnapshotRepositoryCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{"), 0o644))

	_, err = NewSnapshotRepository(store).Load()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSnapshotMissing))
}
