package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cronograma-api/internal/models"
)

// Schema creates one plain table per collection plus a version log.
const Schema = `
CREATE TABLE IF NOT EXISTS class_entries (
	position    INTEGER PRIMARY KEY,
	period      TEXT NOT NULL,
	module      TEXT NOT NULL DEFAULT '',
	group_label TEXT NOT NULL DEFAULT '',
	weekday     TEXT NOT NULL,
	discipline  TEXT NOT NULL,
	room        TEXT NOT NULL DEFAULT '',
	start_time  TEXT NOT NULL DEFAULT '',
	end_time    TEXT NOT NULL DEFAULT '',
	class_type  TEXT NOT NULL DEFAULT '',
	teacher     TEXT NOT NULL DEFAULT '',
	note        TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS events (
	position    INTEGER PRIMARY KEY,
	period      TEXT NOT NULL,
	event_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL DEFAULT '',
	event_time  TEXT NOT NULL DEFAULT '',
	discipline  TEXT NOT NULL DEFAULT '',
	event_type  TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	module      TEXT NOT NULL DEFAULT '',
	group_label TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS electives (
	position    INTEGER PRIMARY KEY,
	discipline  TEXT NOT NULL,
	weekday     TEXT NOT NULL,
	start_time  TEXT NOT NULL DEFAULT '',
	end_time    TEXT NOT NULL DEFAULT '',
	teacher     TEXT NOT NULL DEFAULT '',
	room        TEXT NOT NULL DEFAULT '',
	class_type  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS dataset_versions (
	version    TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);`

// DatasetRepository persists the timetable collections in PostgreSQL.
type DatasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository constructs the repository.
func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// EnsureSchema creates the tables when missing.
func (r *DatasetRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure dataset schema: %w", err)
	}
	return nil
}

// ListClasses returns class entries in import order.
func (r *DatasetRepository) ListClasses(ctx context.Context) ([]models.ClassEntry, error) {
	const query = `SELECT period, module, group_label, weekday, discipline, room, start_time, end_time, class_type, teacher, note
FROM class_entries ORDER BY position ASC`
	var entries []models.ClassEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list class entries: %w", err)
	}
	return entries, nil
}

// ListEvents returns events in import order.
func (r *DatasetRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	const query = `SELECT period, event_date, end_date, event_time, discipline, event_type, location, module, group_label
FROM events ORDER BY position ASC`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListElectives returns the elective catalog in import order.
func (r *DatasetRepository) ListElectives(ctx context.Context) ([]models.ElectiveEntry, error) {
	const query = `SELECT discipline, weekday, start_time, end_time, teacher, room, class_type
FROM electives ORDER BY position ASC`
	var electives []models.ElectiveEntry
	if err := r.db.SelectContext(ctx, &electives, query); err != nil {
		return nil, fmt.Errorf("list electives: %w", err)
	}
	return electives, nil
}

// LatestVersion returns the most recently stored dataset version, or "" when none.
func (r *DatasetRepository) LatestVersion(ctx context.Context) (string, error) {
	const query = `SELECT version FROM dataset_versions ORDER BY created_at DESC LIMIT 1`
	var version string
	if err := r.db.GetContext(ctx, &version, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest dataset version: %w", err)
	}
	return version, nil
}

// ReplaceAll swaps every collection for the dataset content in one transaction.
func (r *DatasetRepository) ReplaceAll(ctx context.Context, ds *models.Dataset) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace dataset tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"class_entries", "events", "electives"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	const insertClass = `INSERT INTO class_entries (position, period, module, group_label, weekday, discipline, room, start_time, end_time, class_type, teacher, note)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for i, c := range ds.Classes {
		if _, err = tx.ExecContext(ctx, insertClass, i, c.Period, c.Module, c.Group, c.Weekday, c.Discipline, c.Room, c.StartTime, c.EndTime, c.Type, c.Teacher, c.Note); err != nil {
			return fmt.Errorf("insert class entry %d: %w", i, err)
		}
	}

	const insertEvent = `INSERT INTO events (position, period, event_date, end_date, event_time, discipline, event_type, location, module, group_label)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i, e := range ds.Events {
		if _, err = tx.ExecContext(ctx, insertEvent, i, e.Period, e.Date, e.EndDate, e.Time, e.Discipline, e.Type, e.Location, e.Module, e.Group); err != nil {
			return fmt.Errorf("insert event %d: %w", i, err)
		}
	}

	const insertElective = `INSERT INTO electives (position, discipline, weekday, start_time, end_time, teacher, room, class_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, e := range ds.Electives {
		if _, err = tx.ExecContext(ctx, insertElective, i, e.Discipline, e.Weekday, e.StartTime, e.EndTime, e.Teacher, e.Room, e.Type); err != nil {
			return fmt.Errorf("insert elective %d: %w", i, err)
		}
	}

	const insertVersion = `INSERT INTO dataset_versions (version, source, created_at) VALUES ($1, $2, $3)
ON CONFLICT (version) DO NOTHING`
	if _, err = tx.ExecContext(ctx, insertVersion, ds.Version, ds.Source, time.Now().UTC()); err != nil {
		return fmt.Errorf("record dataset version: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace dataset tx: %w", err)
	}
	return nil
}
