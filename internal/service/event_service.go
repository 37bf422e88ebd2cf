package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/internal/timetable"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
	"github.com/noah-isme/cronograma-api/pkg/export"
)

type calendarRenderer interface {
	Render(name string, events []export.CalendarEvent) ([]byte, error)
}

// EventService lists period events and renders them as iCalendar.
type EventService struct {
	datasets datasetSource
	ics      calendarRenderer
	location *time.Location
	validate *validator.Validate
	logger   *zap.Logger
}

// NewEventService constructs the service. Event times are read in loc.
func NewEventService(datasets datasetSource, ics calendarRenderer, loc *time.Location, validate *validator.Validate, logger *zap.Logger) *EventService {
	if ics == nil {
		ics = export.NewICSExporter("")
	}
	if loc == nil {
		loc = time.Local
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{datasets: datasets, ics: ics, location: loc, validate: validate, logger: logger}
}

// List returns the period's events after the optional filters. Types is the
// facet of the unfiltered list.
func (s *EventService) List(ctx context.Context, q dto.EventQuery) (*models.EventList, error) {
	events, err := s.periodEvents(q)
	if err != nil {
		return nil, err
	}
	filtered := timetable.FilterEvents(events, models.EventFilter{Type: q.Type, Query: q.Query})
	if filtered == nil {
		filtered = []models.Event{}
	}
	return &models.EventList{
		Period: strings.TrimSpace(q.Period),
		Events: filtered,
		Types:  timetable.EventTypes(events),
	}, nil
}

// Calendar renders the period's events as an iCalendar feed.
func (s *EventService) Calendar(ctx context.Context, q dto.EventQuery) ([]byte, error) {
	list, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.ics.Render("Events "+list.Period, s.CalendarEvents(list.Events))
}

// CalendarEvents maps events to VEVENTs. Events with unparseable dates are skipped.
func (s *EventService) CalendarEvents(events []models.Event) []export.CalendarEvent {
	out := make([]export.CalendarEvent, 0, len(events))
	for _, ev := range events {
		day := timetable.ParseBRDate(ev.Date)
		if day.Unix() == 0 {
			s.logger.Debug("event skipped from calendar", zap.String("date", ev.Date), zap.String("discipline", ev.Discipline))
			continue
		}
		ce := export.CalendarEvent{
			UID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.Join([]string{ev.Period, ev.Date, ev.Discipline, ev.Type, ev.Module}, "|"))).String() + "@cronograma",
			Summary:     eventSummary(ev),
			Description: eventDescription(ev),
			Location:    ev.Location,
			Category:    ev.Type,
		}

		start, end := eventMinutes(ev.Time)
		if start <= 0 {
			ce.AllDay = true
			ce.Start = day
			ce.End = day
			if last := timetable.ParseBRDate(ev.EndDate); last.After(day) {
				ce.End = last
			}
		} else {
			base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.location)
			ce.Start = base.Add(time.Duration(start) * time.Minute)
			if end > start {
				ce.End = base.Add(time.Duration(end) * time.Minute)
			}
		}
		out = append(out, ce)
	}
	return out
}

func (s *EventService) periodEvents(q dto.EventQuery) ([]models.Event, error) {
	q.Period = strings.TrimSpace(q.Period)
	if err := s.validate.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event query")
	}
	ds, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}
	return timetable.BuildEventList(ds.Events, q.Period), nil
}

// eventMinutes reads "HH:MM" or "HH:MM - HH:MM".
func eventMinutes(raw string) (int, int) {
	parts := strings.SplitN(raw, "-", 2)
	start := timetable.ParseMinutes(strings.TrimSpace(parts[0]))
	if len(parts) == 1 {
		return start, 0
	}
	return start, timetable.ParseMinutes(strings.TrimSpace(parts[1]))
}

func eventSummary(ev models.Event) string {
	switch {
	case ev.Type != "" && ev.Discipline != "":
		return ev.Type + ": " + ev.Discipline
	case ev.Discipline != "":
		return ev.Discipline
	default:
		return ev.Type
	}
}

func eventDescription(ev models.Event) string {
	var lines []string
	if ev.Module != "" {
		lines = append(lines, "Module: "+ev.Module)
	}
	if ev.Group != "" {
		lines = append(lines, "Group: "+ev.Group)
	}
	lines = append(lines, "Date: "+timetable.EventRange(ev))
	return strings.Join(lines, "\n")
}
