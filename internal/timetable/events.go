package timetable

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/cronograma-api/internal/models"
)

var digitRun = regexp.MustCompile(`\d+`)

// General period labels match every period.
var generalPeriods = map[string]struct{}{"geral": {}, "general": {}}

// NormalizePeriod reduces a period label to its first digit run ("3º Período"
// becomes "3"), or to its lower-cased text when it has no digits.
func NormalizePeriod(period string) string {
	period = strings.TrimSpace(period)
	if period == "" {
		return ""
	}
	if m := digitRun.FindString(period); m != "" {
		return m
	}
	return Fold(period)
}

var epoch = time.Unix(0, 0).UTC()

// ParseBRDate parses DD/MM/YYYY. Malformed or impossible dates yield the Unix
// epoch so sorting stays total.
func ParseBRDate(s string) time.Time {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return epoch
	}
	day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errD != nil || errM != nil || errY != nil {
		return epoch
	}
	if year < 1970 || month < 1 || month > 12 || day < 1 || day > 31 {
		return epoch
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return epoch
	}
	return t
}

type eventKey struct {
	date, discipline, kind, module string
}

// BuildEventList keeps the events of period plus general ones, drops
// duplicates by (date, discipline, type, module) keeping the first, and sorts
// by date. It returns nil when nothing matches.
func BuildEventList(events []models.Event, period string) []models.Event {
	selected := NormalizePeriod(period)

	seen := make(map[eventKey]struct{})
	var out []models.Event
	for _, ev := range events {
		p := NormalizePeriod(ev.Period)
		if _, general := generalPeriods[p]; !general && p != selected {
			continue
		}
		key := eventKey{date: ev.Date, discipline: ev.Discipline, kind: ev.Type, module: ev.Module}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ev)
	}
	if len(out) == 0 {
		return nil
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ParseBRDate(out[i].Date).Before(ParseBRDate(out[j].Date))
	})
	return out
}

// FilterEvents applies an optional type match and a free-text query to an
// event list. Both comparisons ignore case and accents.
func FilterEvents(events []models.Event, filter models.EventFilter) []models.Event {
	kind := Fold(filter.Type)
	query := Fold(filter.Query)
	if kind == "" && query == "" {
		return events
	}

	out := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if kind != "" && Fold(ev.Type) != kind {
			continue
		}
		if query != "" {
			haystack := Fold(strings.Join([]string{ev.Discipline, ev.Type, ev.Location, ev.Module, ev.Group, ev.Date}, " "))
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

// EventTypes returns the distinct event types, sorted.
func EventTypes(events []models.Event) []string {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, ev := range events {
		t := strings.TrimSpace(ev.Type)
		if t == "" {
			continue
		}
		if _, ok := seen[Fold(t)]; ok {
			continue
		}
		seen[Fold(t)] = struct{}{}
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return Fold(types[i]) < Fold(types[j]) })
	return types
}

// EventRange renders "DD/MM/YYYY" or "DD/MM/YYYY - DD/MM/YYYY" when an end date is set.
func EventRange(ev models.Event) string {
	end := strings.TrimSpace(ev.EndDate)
	if end == "" || end == strings.TrimSpace(ev.Date) {
		return strings.TrimSpace(ev.Date)
	}
	return strings.TrimSpace(ev.Date) + rangeSeparator + end
}
