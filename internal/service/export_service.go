package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/models"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
	"github.com/noah-isme/cronograma-api/pkg/export"
	"github.com/noah-isme/cronograma-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type scheduleSource interface {
	Days(ctx context.Context, q dto.ScheduleQuery) ([]models.DaySchedule, error)
}

type eventSource interface {
	List(ctx context.Context, q dto.EventQuery) (*models.EventList, error)
	CalendarEvents(events []models.Event) []export.CalendarEvent
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	RenderColumns(title string, columns []export.Column) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// Download is a stored export ready to stream.
type Download struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders schedules and events and keeps the files behind
// signed links.
type ExportService struct {
	schedules scheduleSource
	events    eventSource
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	ics       calendarRenderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	validate  *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers get the defaults.
func NewExportService(schedules scheduleSource, events eventSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, ics calendarRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if ics == nil {
		ics = export.NewICSExporter("")
	}
	return &ExportService{
		schedules: schedules,
		events:    events,
		storage:   store,
		csv:       csv,
		pdf:       pdf,
		ics:       ics,
		signer:    signer,
		metrics:   metrics,
		validate:  validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate renders the export, stores it and returns a signed download link.
func (s *ExportService) Generate(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error) {
	req.Period = strings.TrimSpace(req.Period)
	req.Format = models.ExportFormat(strings.ToLower(string(req.Format)))
	switch req.Format {
	case models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatICS:
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", req.Format))
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	var (
		payload []byte
		err     error
	)
	switch req.Kind {
	case models.ExportKindSchedule:
		payload, err = s.renderSchedule(ctx, req)
	case models.ExportKindEvents:
		payload, err = s.renderEvents(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	filename := buildFilename(req, s.now())
	relPath, err := s.storage.Save(id+"_"+filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.metrics.RecordExport(string(req.Kind), string(req.Format))
	s.logger.Info("export generated", zap.String("id", id), zap.String("kind", string(req.Kind)), zap.String("format", string(req.Format)), zap.Int("bytes", len(payload)))

	return &models.ExportResult{
		ID:        id,
		Kind:      req.Kind,
		Format:    req.Format,
		Filename:  filename,
		Token:     token,
		URL:       fmt.Sprintf("%s/exports/%s", prefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

// Download resolves a signed token to the stored file.
func (s *ExportService) Download(token string) (*Download, error) {
	id, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.ErrLinkExpired
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "download link not found")
	}
	body, err := s.storage.Read(relPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export")
	}
	filename := strings.TrimPrefix(path.Base(relPath), id+"_")
	format := models.ExportFormat(strings.TrimPrefix(path.Ext(filename), "."))
	return &Download{Filename: filename, ContentType: format.ContentType(), Body: body}, nil
}

// Cleanup removes exports older than the link TTL.
func (s *ExportService) Cleanup(ctx context.Context) error {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
	}
	return nil
}

func (s *ExportService) renderSchedule(ctx context.Context, req models.ExportRequest) ([]byte, error) {
	if req.Format == models.ExportFormatICS {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "ics export is only available for events")
	}
	days, err := s.schedules.Days(ctx, dto.ScheduleQuery{Period: req.Period, Groups: req.Groups, Electives: req.Electives})
	if err != nil {
		return nil, err
	}
	title := "Schedule " + req.Period
	if req.Format == models.ExportFormatPDF {
		return s.pdf.RenderColumns(title, scheduleColumns(days))
	}
	return s.csv.Render(scheduleDataset(title, days))
}

func (s *ExportService) renderEvents(ctx context.Context, req models.ExportRequest) ([]byte, error) {
	list, err := s.events.List(ctx, dto.EventQuery{Period: req.Period})
	if err != nil {
		return nil, err
	}
	title := "Events " + req.Period
	switch req.Format {
	case models.ExportFormatICS:
		return s.ics.Render(title, s.events.CalendarEvents(list.Events))
	case models.ExportFormatPDF:
		return s.pdf.Render(eventDataset(title, list.Events))
	default:
		return s.csv.Render(eventDataset(title, list.Events))
	}
}

func scheduleDataset(title string, days []models.DaySchedule) export.Dataset {
	data := export.Dataset{
		Title:   title,
		Headers: []string{"Weekday", "Time", "Kind", "Discipline", "Module", "Groups", "Room", "Teacher", "Type", "Note"},
	}
	for _, day := range days {
		for _, item := range day.Items {
			if item.FreeSlot != nil {
				data.Rows = append(data.Rows, []string{day.Weekday, item.FreeSlot.TimeRange, models.ItemFreeSlot, "", "", freeLabel(item.FreeSlot)})
				continue
			}
			card := item.Class
			for _, session := range card.Sessions {
				data.Rows = append(data.Rows, []string{
					day.Weekday, session.TimeRange, models.ItemClass, card.Discipline, card.Module,
					session.GroupLabel, session.Room, session.Teacher, session.Type, session.Note,
				})
			}
		}
	}
	return data
}

func scheduleColumns(days []models.DaySchedule) []export.Column {
	columns := make([]export.Column, 0, len(days))
	for _, day := range days {
		col := export.Column{Heading: day.Weekday}
		for _, item := range day.Items {
			if item.FreeSlot != nil {
				col.Cells = append(col.Cells, "Free "+item.FreeSlot.TimeRange+"\n"+freeLabel(item.FreeSlot))
				continue
			}
			card := item.Class
			lines := []string{card.Discipline, card.TimeRange}
			if card.GroupSummary != "" {
				lines = append(lines, card.GroupSummary)
			}
			for _, session := range card.Sessions {
				line := session.TimeRange + " " + session.GroupLabel
				if session.Room != "" {
					line += " | " + session.Room
				}
				if session.Teacher != "" {
					line += " | " + session.Teacher
				}
				lines = append(lines, strings.TrimSpace(line))
			}
			if card.Note != "" {
				lines = append(lines, card.Note)
			}
			col.Cells = append(col.Cells, strings.Join(lines, "\n"))
		}
		columns = append(columns, col)
	}
	return columns
}

func freeLabel(slot *models.FreeSlot) string {
	if slot.Label == "" {
		return "All groups"
	}
	return slot.Label
}

func eventDataset(title string, events []models.Event) export.Dataset {
	data := export.Dataset{
		Title:   title,
		Headers: []string{"Date", "End Date", "Time", "Discipline", "Type", "Location", "Module", "Group"},
	}
	for _, ev := range events {
		data.Rows = append(data.Rows, []string{ev.Date, ev.EndDate, ev.Time, ev.Discipline, ev.Type, ev.Location, ev.Module, ev.Group})
	}
	return data
}

func buildFilename(req models.ExportRequest, now time.Time) string {
	timestamp := now.UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", req.Kind, sanitizeFilename(req.Period), timestamp, req.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
