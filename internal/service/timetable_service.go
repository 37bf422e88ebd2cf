package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/internal/timetable"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
)

const scheduleCacheNamespace = "schedule"

type datasetSource interface {
	Current() (*models.Dataset, error)
}

// TimetableService answers schedule queries against the active dataset.
type TimetableService struct {
	datasets datasetSource
	engine   *timetable.Engine
	cache    *CacheService
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTimetableService constructs the service.
func NewTimetableService(datasets datasetSource, engine *timetable.Engine, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if engine == nil {
		engine = timetable.NewEngine(timetable.DefaultConfig())
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{datasets: datasets, engine: engine, cache: cache, metrics: metrics, validate: validate, logger: logger}
}

// Schedule returns the five weekday schedules of a period. The bool reports a
// cache hit.
func (s *TimetableService) Schedule(ctx context.Context, q dto.ScheduleQuery) (*dto.ScheduleResponse, bool, error) {
	q.Period = strings.TrimSpace(q.Period)
	if err := s.validate.Struct(q); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule query")
	}
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, false, err
	}
	if !hasPeriod(ds.Classes, q.Period) {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("period %q not found", q.Period))
	}

	groups := s.canonicalGroups(q.Groups)
	electives, names, err := selectElectives(ds.Electives, q.Electives, q.Period)
	if err != nil {
		return nil, false, err
	}

	key := CacheKey(scheduleCacheNamespace, ds.Version, q.Period, strings.Join(groups, ","), strings.Join(names, ","))
	var cached dto.ScheduleResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Debug("schedule cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return &cached, true, nil
	}

	start := time.Now()
	days := s.engine.BuildSchedule(ds.Classes, q.Period, models.ScheduleFilters{Groups: groups, Electives: electives})
	s.metrics.ObserveScheduleBuild(time.Since(start))

	resp := &dto.ScheduleResponse{
		Period:    q.Period,
		Version:   ds.Version,
		Groups:    groups,
		Electives: names,
		Days:      days,
	}
	if err := s.cache.Set(ctx, key, resp, 0); err != nil {
		s.logger.Debug("schedule cache write failed", zap.String("key", key), zap.Error(err))
	}
	return resp, false, nil
}

// Days is Schedule without the response wrapper, for exports.
func (s *TimetableService) Days(ctx context.Context, q dto.ScheduleQuery) ([]models.DaySchedule, error) {
	resp, _, err := s.Schedule(ctx, q)
	if err != nil {
		return nil, err
	}
	return resp.Days, nil
}

// canonicalGroups cleans, upper-cases, dedupes and sorts the requested groups
// so equivalent queries share a cache entry.
func (s *TimetableService) canonicalGroups(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	groups := make([]string, 0, len(raw))
	for _, g := range raw {
		clean := strings.ToUpper(s.engine.CleanGroup(g))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		groups = append(groups, clean)
	}
	sort.Strings(groups)
	return groups
}

// selectElectives turns requested discipline names into period entries.
// Names match case and accent insensitively; unknown names are rejected.
func selectElectives(catalog []models.ElectiveEntry, requested []string, period string) ([]models.ClassEntry, []string, error) {
	if len(requested) == 0 {
		return nil, nil, nil
	}
	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		if folded := timetable.Fold(name); folded != "" {
			wanted[folded] = false
		}
	}

	var entries []models.ClassEntry
	var names []string
	for _, e := range catalog {
		folded := timetable.Fold(e.Discipline)
		found, ok := wanted[folded]
		if !ok {
			continue
		}
		if !found {
			names = append(names, e.Discipline)
			wanted[folded] = true
		}
		entries = append(entries, e.ClassEntry(period))
	}

	var unknown []string
	for _, name := range requested {
		if found, ok := wanted[timetable.Fold(name)]; ok && !found {
			unknown = append(unknown, strings.TrimSpace(name))
		}
	}
	if len(unknown) > 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown electives: "+strings.Join(unknown, ", "))
	}
	sort.Strings(names)
	return entries, names, nil
}

func hasPeriod(entries []models.ClassEntry, period string) bool {
	for _, e := range entries {
		if strings.TrimSpace(e.Period) == period {
			return true
		}
	}
	return false
}
