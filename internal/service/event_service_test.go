package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/models"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
)

func newEventServiceForTest(ds *models.Dataset) *EventService {
	return NewEventService(staticDatasets{ds: ds}, nil, time.UTC, nil, nil)
}

func TestEventServiceList(t *testing.T) {
	svc := newEventServiceForTest(sampleDataset())

	list, err := svc.List(context.Background(), dto.EventQuery{Period: "1"})
	require.NoError(t, err)
	require.Len(t, list.Events, 3)
	assert.Equal(t, "Welcome", list.Events[0].Discipline)
	assert.Equal(t, "Anatomy", list.Events[1].Discipline)
	assert.Equal(t, []string{"Event", "Exam", "Workshop"}, list.Types)

	filtered, err := svc.List(context.Background(), dto.EventQuery{Period: "1", Type: "exam"})
	require.NoError(t, err)
	require.Len(t, filtered.Events, 1)
	assert.Equal(t, []string{"Event", "Exam", "Workshop"}, filtered.Types)

	none, err := svc.List(context.Background(), dto.EventQuery{Period: "1", Query: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, none.Events)
	assert.Empty(t, none.Events)
}

func TestEventServiceCalendarEvents(t *testing.T) {
	svc := newEventServiceForTest(sampleDataset())
	events := svc.CalendarEvents([]models.Event{
		{Period: "1", Date: "12/04/2024", EndDate: "14/04/2024", Discipline: "Physiology", Type: "Workshop"},
		{Period: "1", Date: "10/04/2024", Time: "14:00 - 16:00", Discipline: "Anatomy", Type: "Exam"},
		{Period: "1", Date: "not a date", Discipline: "Broken"},
	})
	require.Len(t, events, 2)

	assert.True(t, events[0].AllDay)
	assert.Equal(t, time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), events[0].End)
	assert.Equal(t, "Workshop: Physiology", events[0].Summary)

	assert.False(t, events[1].AllDay)
	assert.Equal(t, time.Date(2024, 4, 10, 14, 0, 0, 0, time.UTC), events[1].Start)
	assert.Equal(t, time.Date(2024, 4, 10, 16, 0, 0, 0, time.UTC), events[1].End)
	assert.NotEqual(t, events[0].UID, events[1].UID)
}

func TestEventServiceCalendar(t *testing.T) {
	svc := newEventServiceForTest(sampleDataset())
	out, err := svc.Calendar(context.Background(), dto.EventQuery{Period: "1"})
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 3)
}

func TestEventServiceErrors(t *testing.T) {
	_, err := newEventServiceForTest(nil).List(context.Background(), dto.EventQuery{Period: "1"})
	assert.Equal(t, appErrors.ErrDatasetEmpty.Code, appErrors.FromError(err).Code)

	_, err = newEventServiceForTest(sampleDataset()).List(context.Background(), dto.EventQuery{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
