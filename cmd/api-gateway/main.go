package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/cronograma-api/api/swagger"
	"github.com/noah-isme/cronograma-api/internal/handler"
	"github.com/noah-isme/cronograma-api/internal/importer"
	internalmiddleware "github.com/noah-isme/cronograma-api/internal/middleware"
	"github.com/noah-isme/cronograma-api/internal/repository"
	"github.com/noah-isme/cronograma-api/internal/seed"
	"github.com/noah-isme/cronograma-api/internal/service"
	"github.com/noah-isme/cronograma-api/internal/timetable"
	"github.com/noah-isme/cronograma-api/pkg/cache"
	"github.com/noah-isme/cronograma-api/pkg/config"
	"github.com/noah-isme/cronograma-api/pkg/database"
	"github.com/noah-isme/cronograma-api/pkg/export"
	"github.com/noah-isme/cronograma-api/pkg/jobs"
	"github.com/noah-isme/cronograma-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cronograma-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cronograma-api/pkg/middleware/requestid"
	"github.com/noah-isme/cronograma-api/pkg/storage"
)

// @title Cronograma API
// @version 1.0.0
// @description Course timetable and event calendar service.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var db *sqlx.DB
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Warn("postgres unavailable, continuing without database", zap.Error(err))
		} else {
			defer db.Close() //nolint:errcheck
		}
	}

	cacheRepo := newCacheRepository(ctx, cfg, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	snapshotStore, err := storage.NewLocalStorage(cfg.Dataset.SnapshotDir)
	if err != nil {
		logr.Fatal("failed to init snapshot storage", zap.Error(err))
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init export storage", zap.Error(err))
	}

	seedLoader := func() (*importer.Payload, error) { return seed.Load(cfg.Dataset.SeedFile) }

	datasetSvc := newDatasetService(ctx, db, repository.NewSnapshotRepository(snapshotStore), seedLoader, cacheSvc, metricsSvc, validate, logr, cfg)

	persistQueue := jobs.NewQueue("dataset-persist", datasetSvc.HandlePersistJob, jobs.QueueConfig{
		Workers:    cfg.Dataset.PersistWorkers,
		MaxRetries: cfg.Dataset.PersistRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
	})
	persistQueue.Start(ctx)
	defer persistQueue.Stop()
	datasetSvc.SetQueue(persistQueue)

	if _, err := datasetSvc.Load(ctx); err != nil {
		logr.Error("initial dataset load failed", zap.Error(err))
	}

	engine := timetable.NewEngine(timetable.ParseConfig(
		cfg.Timetable.DayStart,
		cfg.Timetable.DayEnd,
		cfg.Timetable.MinGapMinutes,
		cfg.Timetable.GroupPrefixes,
	))
	icsExporter := export.NewICSExporter("")
	timetableSvc := service.NewTimetableService(datasetSvc, engine, cacheSvc, metricsSvc, validate, logr)
	eventSvc := service.NewEventService(datasetSvc, icsExporter, time.Local, validate, logr)
	exportSvc := service.NewExportService(
		timetableSvc,
		eventSvc,
		exportStore,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
		metricsSvc,
		validate,
		logr,
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		icsExporter,
	)

	scheduler := jobs.NewScheduler(logr, 5*time.Minute)
	if db != nil {
		if err := scheduler.Register("dataset-refresh", cfg.Dataset.RefreshCron, datasetSvc.Refresh); err != nil {
			logr.Fatal("invalid dataset refresh schedule", zap.Error(err))
		}
	}
	if err := scheduler.Register("exports-cleanup", cfg.Exports.CleanupCron, exportSvc.Cleanup); err != nil {
		logr.Fatal("invalid export cleanup schedule", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, datasetSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	scheduleHandler := handler.NewScheduleHandler(timetableSvc, datasetSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	datasetHandler := handler.NewDatasetHandler(datasetSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.DatasetVersion(internalmiddleware.VersionFunc(func() (string, bool) {
		ds, err := datasetSvc.Current()
		if err != nil {
			return "", false
		}
		return ds.Version, true
	})))

	api.GET("/periods", scheduleHandler.Periods)
	api.GET("/schedules/:period", scheduleHandler.Schedule)
	api.GET("/electives", scheduleHandler.Electives)
	api.GET("/events/:period", eventHandler.List)
	api.GET("/events/:period/ics", eventHandler.Calendar)
	api.GET("/dataset", datasetHandler.Info)
	api.POST("/dataset/import", datasetHandler.Import)
	api.POST("/dataset/import/json", datasetHandler.ImportJSON)
	api.POST("/exports", exportHandler.Create)
	api.GET("/exports/:token", exportHandler.Download)
	api.GET("/metrics/summary", metricsHandler.Snapshot)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newCacheRepository prefers Redis when configured and falls back to the
// in-process cache when Redis is unreachable.
func newCacheRepository(ctx context.Context, cfg *config.Config, logr *zap.Logger) service.CacheRepository {
	if cfg.Cache.UseRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err == nil {
			return repository.NewCacheRepository(client, logr)
		}
		logr.Warn("redis unavailable, using in-memory cache", zap.Error(err))
	}
	return repository.NewMemoryCacheRepository(cfg.Cache.TTL)
}

func newDatasetService(ctx context.Context, db *sqlx.DB, snapshot *repository.SnapshotRepository, seedLoader service.SeedLoader, cacheSvc *service.CacheService, metricsSvc *service.MetricsService, validate *validator.Validate, logr *zap.Logger, cfg *config.Config) *service.DatasetService {
	dsCfg := service.DatasetConfig{UploadMaxBytes: cfg.Dataset.UploadMaxBytes}
	if db == nil {
		return service.NewDatasetService(nil, snapshot, seedLoader, cacheSvc, metricsSvc, validate, logr, dsCfg)
	}
	repo := repository.NewDatasetRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logr.Warn("dataset schema setup failed, continuing without database", zap.Error(err))
		return service.NewDatasetService(nil, snapshot, seedLoader, cacheSvc, metricsSvc, validate, logr, dsCfg)
	}
	return service.NewDatasetService(repo, snapshot, seedLoader, cacheSvc, metricsSvc, validate, logr, dsCfg)
}
