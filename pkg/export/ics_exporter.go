package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one VEVENT. AllDay events use date-only bounds and End is
// the inclusive last day.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Category    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// ICSExporter renders events as an iCalendar feed.
type ICSExporter struct {
	productID string
	now       func() time.Time
}

// NewICSExporter builds an exporter stamping feeds with the given product id.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//cronograma-api//timetable//EN"
	}
	return &ICSExporter{productID: productID, now: time.Now}
}

// Render serializes the events into a VCALENDAR document.
func (e *ICSExporter) Render(name string, events []CalendarEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for i, ev := range events {
		if ev.Start.IsZero() {
			return nil, fmt.Errorf("calendar event %d has no start", i)
		}
		uid := ev.UID
		if uid == "" {
			uid = fmt.Sprintf("event-%d", i)
		}
		vevent := cal.AddEvent(uid)
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Summary)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.Category != "" {
			vevent.SetProperty(ics.ComponentPropertyCategories, strings.ToUpper(ev.Category))
		}

		if ev.AllDay {
			end := ev.End
			if end.Before(ev.Start) {
				end = ev.Start
			}
			vevent.SetAllDayStartAt(ev.Start)
			vevent.SetAllDayEndAt(end.AddDate(0, 0, 1))
			continue
		}
		end := ev.End
		if !end.After(ev.Start) {
			end = ev.Start.Add(time.Hour)
		}
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(end)
	}
	return []byte(cal.Serialize()), nil
}
