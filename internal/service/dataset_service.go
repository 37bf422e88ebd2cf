package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/importer"
	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/internal/repository"
	"github.com/noah-isme/cronograma-api/internal/timetable"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
	"github.com/noah-isme/cronograma-api/pkg/jobs"
)

// JobPersistDataset is the job type for write-through persistence.
const JobPersistDataset = "dataset.persist"

var datasetNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("cronograma/dataset"))

type datasetStore interface {
	ListClasses(ctx context.Context) ([]models.ClassEntry, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListElectives(ctx context.Context) ([]models.ElectiveEntry, error)
	LatestVersion(ctx context.Context) (string, error)
	ReplaceAll(ctx context.Context, ds *models.Dataset) error
}

type snapshotStore interface {
	Load() (*models.Dataset, error)
	Save(ds *models.Dataset) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// SeedLoader returns the fallback dataset.
type SeedLoader func() (*importer.Payload, error)

// DatasetConfig tunes the dataset service.
type DatasetConfig struct {
	UploadMaxBytes int64
}

// DatasetService owns the active dataset. Readers get an immutable pointer;
// imports and refreshes swap it under the lock.
type DatasetService struct {
	mu      sync.RWMutex
	current *models.Dataset
	// pending is the version of an imported dataset not yet persisted.
	pending string

	db       datasetStore
	snapshot snapshotStore
	seed     SeedLoader
	queue    jobEnqueuer
	cache    *CacheService
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
	cfg      DatasetConfig
	now      func() time.Time
}

// NewDatasetService wires the cascade sources. db and snapshot may be nil.
func NewDatasetService(db datasetStore, snapshot snapshotStore, seed SeedLoader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg DatasetConfig) *DatasetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 10 * 1024 * 1024
	}
	return &DatasetService{
		db:       db,
		snapshot: snapshot,
		seed:     seed,
		cache:    cache,
		metrics:  metrics,
		validate: validate,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SetQueue routes write-through persistence through a job queue. Without one,
// imports persist synchronously.
func (s *DatasetService) SetQueue(q jobEnqueuer) {
	s.queue = q
}

// Current returns the active dataset.
func (s *DatasetService) Current() (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, appErrors.ErrDatasetEmpty
	}
	return s.current, nil
}

// Ready reports whether a dataset with class entries is loaded.
func (s *DatasetService) Ready() bool {
	ds, err := s.Current()
	return err == nil && len(ds.Classes) > 0
}

// Info summarizes the active dataset.
func (s *DatasetService) Info() (models.DatasetInfo, error) {
	ds, err := s.Current()
	if err != nil {
		return models.DatasetInfo{}, err
	}
	return ds.Info(timetable.UniquePeriods(ds.Classes)), nil
}

// Periods lists the distinct periods of the active dataset.
func (s *DatasetService) Periods() ([]string, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	return timetable.UniquePeriods(ds.Classes), nil
}

// Electives returns the elective catalog.
func (s *DatasetService) Electives() ([]models.ElectiveEntry, error) {
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	return ds.Electives, nil
}

// MaxUploadBytes is the largest accepted workbook.
func (s *DatasetService) MaxUploadBytes() int64 {
	return s.cfg.UploadMaxBytes
}

// Load resolves every collection through database, snapshot and defaults,
// each collection independently, and activates the result.
func (s *DatasetService) Load(ctx context.Context) (*models.Dataset, error) {
	ds := s.resolveDataset(ctx)
	s.swap(ctx, ds, false, nil)
	s.logger.Info("dataset loaded",
		zap.String("version", ds.Version),
		zap.String("source", ds.Source),
		zap.Int("classes", len(ds.Classes)),
		zap.Int("events", len(ds.Events)),
		zap.Int("electives", len(ds.Electives)))
	return ds, nil
}

// Refresh reloads the dataset from its sources. The active dataset is kept
// while an import is still being persisted, when the reloaded version matches
// the active one, or when an import lands during the reload.
func (s *DatasetService) Refresh(ctx context.Context) error {
	before, _ := s.Current()
	if version := s.pendingVersion(); version != "" {
		s.logger.Info("dataset refresh skipped, import not persisted yet", zap.String("version", version))
		return nil
	}

	ds := s.resolveDataset(ctx)
	if before != nil && before.Version == ds.Version {
		s.logger.Debug("dataset unchanged", zap.String("version", ds.Version))
		return nil
	}

	swapped := s.swap(ctx, ds, false, func(current *models.Dataset) bool {
		return current == before && s.pending == ""
	})
	if !swapped {
		s.logger.Info("dataset refresh discarded, dataset replaced meanwhile", zap.String("version", ds.Version))
		return nil
	}
	previous := ""
	if before != nil {
		previous = before.Version
	}
	s.logger.Info("dataset refreshed", zap.String("previous", previous), zap.String("version", ds.Version))
	return nil
}

func (s *DatasetService) pendingVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

func (s *DatasetService) resolveDataset(ctx context.Context) *models.Dataset {
	src := cascade{svc: s, ctx: ctx}
	ds := &models.Dataset{LoadedAt: s.now().UTC(), Sources: map[string]string{}}

	ds.Classes, ds.Sources[models.CollectionClasses] = resolve(&src, models.CollectionClasses,
		func(ctx context.Context, db datasetStore) ([]models.ClassEntry, error) { return db.ListClasses(ctx) },
		func(d *models.Dataset) []models.ClassEntry { return d.Classes },
		func(p *importer.Payload) []models.ClassEntry { return p.Classes })
	ds.Events, ds.Sources[models.CollectionEvents] = resolve(&src, models.CollectionEvents,
		func(ctx context.Context, db datasetStore) ([]models.Event, error) { return db.ListEvents(ctx) },
		func(d *models.Dataset) []models.Event { return d.Events },
		func(p *importer.Payload) []models.Event { return p.Events })
	ds.Electives, ds.Sources[models.CollectionElectives] = resolve(&src, models.CollectionElectives,
		func(ctx context.Context, db datasetStore) ([]models.ElectiveEntry, error) { return db.ListElectives(ctx) },
		func(d *models.Dataset) []models.ElectiveEntry { return d.Electives },
		func(p *importer.Payload) []models.ElectiveEntry { return p.Electives })

	ds.Source = commonSource(ds.Sources)
	switch ds.Source {
	case models.SourceDatabase:
		if version, err := s.db.LatestVersion(ctx); err == nil && version != "" {
			ds.Version = version
		}
	case models.SourceSnapshot:
		ds.Version = src.snap.Version
	}
	if ds.Version == "" {
		ds.Version = contentVersion(ds)
	}

	if len(ds.Classes) == 0 {
		s.logger.Warn("dataset loaded without class entries")
	}
	return ds
}

// contentVersion derives a stable version from the collections so reloading
// unchanged data keeps the version and its cache entries.
func contentVersion(ds *models.Dataset) string {
	content, err := json.Marshal(struct {
		Classes   []models.ClassEntry    `json:"classes"`
		Events    []models.Event         `json:"events"`
		Electives []models.ElectiveEntry `json:"electives"`
	}{ds.Classes, ds.Events, ds.Electives})
	if err != nil {
		return uuid.NewString()
	}
	return uuid.NewSHA1(datasetNamespace, content).String()
}

// ImportWorkbook replaces the dataset with the content of an xlsx upload.
func (s *DatasetService) ImportWorkbook(ctx context.Context, r io.Reader, size int64) (*dto.ImportResponse, error) {
	if size > s.cfg.UploadMaxBytes {
		err := appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("spreadsheet exceeds %d bytes", s.cfg.UploadMaxBytes))
		s.metrics.RecordImport("xlsx", err)
		return nil, err
	}
	payload, err := importer.ReadWorkbook(io.LimitReader(r, s.cfg.UploadMaxBytes))
	if err != nil {
		s.metrics.RecordImport("xlsx", err)
		return nil, err
	}
	resp, err := s.apply(ctx, payload)
	s.metrics.RecordImport("xlsx", err)
	return resp, err
}

// ImportJSON replaces the dataset with rows posted as JSON.
func (s *DatasetService) ImportJSON(ctx context.Context, req dto.ImportJSONRequest) (*dto.ImportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		s.metrics.RecordImport("json", err)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}
	payload := &importer.Payload{Classes: req.Classes, Events: req.Events, Electives: req.Electives}
	payload.Normalize()
	resp, err := s.apply(ctx, payload)
	s.metrics.RecordImport("json", err)
	return resp, err
}

func (s *DatasetService) apply(ctx context.Context, payload *importer.Payload) (*dto.ImportResponse, error) {
	if len(payload.Classes) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "import contains no usable class entries")
	}

	previous, _ := s.Current()
	ds := &models.Dataset{
		Version:  uuid.NewString(),
		Source:   models.SourceImport,
		LoadedAt: s.now().UTC(),
		Classes:  payload.Classes,
		Sources:  map[string]string{models.CollectionClasses: models.SourceImport},
	}
	ds.Events, ds.Sources[models.CollectionEvents] = keepIfEmpty(payload.Events, previous, models.CollectionEvents,
		func(d *models.Dataset) []models.Event { return d.Events })
	ds.Electives, ds.Sources[models.CollectionElectives] = keepIfEmpty(payload.Electives, previous, models.CollectionElectives,
		func(d *models.Dataset) []models.ElectiveEntry { return d.Electives })

	s.swap(ctx, ds, s.db != nil || s.snapshot != nil, nil)
	s.logger.Info("dataset imported",
		zap.String("version", ds.Version),
		zap.Int("classes", len(ds.Classes)),
		zap.Int("events", len(ds.Events)),
		zap.Int("electives", len(ds.Electives)),
		zap.Int("skipped", payload.Skipped))

	s.schedulePersist(ctx, ds)

	return &dto.ImportResponse{
		Dataset:     ds.Info(timetable.UniquePeriods(ds.Classes)),
		Skipped:     payload.Skipped,
		EventsSheet: payload.EventsSheet,
	}, nil
}

func (s *DatasetService) schedulePersist(ctx context.Context, ds *models.Dataset) {
	if s.db == nil && s.snapshot == nil {
		return
	}
	if s.queue != nil {
		job := jobs.Job{ID: uuid.NewString(), Type: JobPersistDataset, Payload: ds}
		err := s.queue.Enqueue(job)
		if err == nil {
			return
		}
		s.logger.Warn("persist job not queued, persisting inline", zap.String("version", ds.Version), zap.Error(err))
	}
	if err := s.persist(ctx, ds); err != nil {
		s.logger.Error("dataset persistence failed", zap.String("version", ds.Version), zap.Error(err))
	}
}

// HandlePersistJob is the queue handler for JobPersistDataset. Jobs for a
// dataset that is no longer active are dropped.
func (s *DatasetService) HandlePersistJob(ctx context.Context, job jobs.Job) error {
	ds, ok := job.Payload.(*models.Dataset)
	if !ok || ds == nil {
		s.logger.Error("persist job without dataset payload", zap.String("job_id", job.ID))
		return nil
	}
	if current, err := s.Current(); err == nil && current.Version != ds.Version {
		s.logger.Debug("skipping stale persist job", zap.String("job_id", job.ID), zap.String("version", ds.Version))
		return nil
	}
	return s.persist(ctx, ds)
}

func (s *DatasetService) persist(ctx context.Context, ds *models.Dataset) error {
	var errs []error
	if s.snapshot != nil {
		if err := s.snapshot.Save(ds); err != nil {
			errs = append(errs, err)
		}
	}
	if s.db != nil {
		if err := s.db.ReplaceAll(ctx, ds); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	s.metrics.RecordPersistJob(err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.pending == ds.Version {
		s.pending = ""
	}
	s.mu.Unlock()
	s.logger.Info("dataset persisted", zap.String("version", ds.Version))
	return nil
}

// swap activates ds. A pending swap marks ds as awaiting persistence. When
// accept is set it runs under the lock and may veto the swap.
func (s *DatasetService) swap(ctx context.Context, ds *models.Dataset, pending bool, accept func(current *models.Dataset) bool) bool {
	s.mu.Lock()
	if accept != nil && !accept(s.current) {
		s.mu.Unlock()
		return false
	}
	previous := s.current
	s.current = ds
	if pending {
		s.pending = ds.Version
	}
	s.mu.Unlock()

	s.metrics.SetDatasetSize(len(ds.Classes), len(ds.Events), len(ds.Electives))
	if previous != nil && previous.Version != ds.Version {
		_ = s.cache.Invalidate(ctx, CacheKey(scheduleCacheNamespace, previous.Version, "*"))
	}
	return true
}

// cascade lazily loads the snapshot and seed once per Load.
type cascade struct {
	svc *DatasetService
	ctx context.Context

	snap       *models.Dataset
	snapLoaded bool
	seed       *importer.Payload
	seedLoaded bool
}

func (c *cascade) snapshot() *models.Dataset {
	if c.snapLoaded {
		return c.snap
	}
	c.snapLoaded = true
	if c.svc.snapshot == nil {
		return nil
	}
	snap, err := c.svc.snapshot.Load()
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotMissing) {
			c.svc.logger.Warn("dataset snapshot unreadable", zap.Error(err))
		}
		return nil
	}
	c.snap = snap
	return snap
}

func (c *cascade) defaults() *importer.Payload {
	if c.seedLoaded {
		return c.seed
	}
	c.seedLoaded = true
	if c.svc.seed == nil {
		return nil
	}
	payload, err := c.svc.seed()
	if err != nil {
		c.svc.logger.Error("default dataset unavailable", zap.Error(err))
		return nil
	}
	c.seed = payload
	return payload
}

func resolve[T any](c *cascade, collection string,
	fromDB func(context.Context, datasetStore) ([]T, error),
	fromSnapshot func(*models.Dataset) []T,
	fromSeed func(*importer.Payload) []T,
) ([]T, string) {
	if c.svc.db != nil {
		rows, err := fromDB(c.ctx, c.svc.db)
		if err != nil {
			c.svc.logger.Warn("database unavailable for collection", zap.String("collection", collection), zap.Error(err))
		} else if len(rows) > 0 {
			return rows, models.SourceDatabase
		}
	}
	if snap := c.snapshot(); snap != nil {
		if rows := fromSnapshot(snap); len(rows) > 0 {
			return rows, models.SourceSnapshot
		}
	}
	if payload := c.defaults(); payload != nil {
		return fromSeed(payload), models.SourceDefaults
	}
	return nil, models.SourceDefaults
}

func keepIfEmpty[T any](rows []T, previous *models.Dataset, collection string, current func(*models.Dataset) []T) ([]T, string) {
	if len(rows) > 0 || previous == nil {
		return rows, models.SourceImport
	}
	source := previous.Sources[collection]
	if source == "" {
		source = previous.Source
	}
	return current(previous), source
}

func commonSource(sources map[string]string) string {
	common := ""
	for _, source := range sources {
		if common == "" {
			common = source
			continue
		}
		if source != common {
			return models.SourceMixed
		}
	}
	return common
}
