package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/pkg/storage"
)

const snapshotFile = "dataset.json"

// ErrSnapshotMissing signals that no snapshot has been written yet.
var ErrSnapshotMissing = errors.New("dataset snapshot missing")

// SnapshotRepository keeps the last imported dataset as a JSON file on disk.
type SnapshotRepository struct {
	storage *storage.LocalStorage
}

// NewSnapshotRepository wraps the given storage.
func NewSnapshotRepository(store *storage.LocalStorage) *SnapshotRepository {
	return &SnapshotRepository{storage: store}
}

// Load reads the snapshot.
func (r *SnapshotRepository) Load() (*models.Dataset, error) {
	raw, err := r.storage.Read(snapshotFile)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, ErrSnapshotMissing
		}
		return nil, fmt.Errorf("read dataset snapshot: %w", err)
	}
	var ds models.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset snapshot: %w", err)
	}
	return &ds, nil
}

// Save overwrites the snapshot atomically.
func (r *SnapshotRepository) Save(ds *models.Dataset) error {
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset snapshot: %w", err)
	}
	if _, err := r.storage.Save(snapshotFile, raw); err != nil {
		return fmt.Errorf("write dataset snapshot: %w", err)
	}
	return nil
}
