package timetable

import (
	"sort"
	"strings"

	"github.com/noah-isme/cronograma-api/internal/models"
)

const unionSeparator = " / "

// sessionKey identifies sessions that can be merged. Raw times only take part
// for invalid sessions so unparseable rows with different text stay apart.
type sessionKey struct {
	start, end int
	room       string
	rawStart   string
	rawEnd     string
}

type provisional struct {
	entry   models.ClassEntry
	group   string
	start   int
	end     int
	invalid bool
}

// mergeSessions folds the entries of one discipline on one day into sessions,
// one per distinct (start, end, room).
func (e *Engine) mergeSessions(entries []models.ClassEntry) []models.GroupSession {
	items := make([]provisional, 0, len(entries))
	for _, entry := range entries {
		start := ParseMinutes(entry.StartTime)
		end := ParseMinutes(entry.EndTime)
		items = append(items, provisional{
			entry:   entry,
			group:   e.cleaner.Clean(entry.Group),
			start:   start,
			end:     end,
			invalid: !validInterval(start, end),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].start < items[j].start })

	index := make(map[sessionKey]int, len(items))
	sessions := make([]models.GroupSession, 0, len(items))
	for _, item := range items {
		key := sessionKey{start: item.start, end: item.end, room: normalizeRoom(item.entry.Room)}
		if item.invalid {
			key.rawStart = strings.TrimSpace(item.entry.StartTime)
			key.rawEnd = strings.TrimSpace(item.entry.EndTime)
		}

		pos, ok := index[key]
		if !ok {
			index[key] = len(sessions)
			sessions = append(sessions, openSession(item))
			continue
		}

		s := &sessions[pos]
		if item.group != "" && !containsFold(s.Groups, item.group) {
			s.Groups = append(s.Groups, item.group)
			s.GroupLabel = strings.Join(s.Groups, ", ")
		}
		s.Teacher = union(s.Teacher, item.entry.Teacher)
		s.Type = union(s.Type, item.entry.Type)
		s.Note = union(s.Note, item.entry.Note)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].StartMinutes != sessions[j].StartMinutes {
			return sessions[i].StartMinutes < sessions[j].StartMinutes
		}
		return sessions[i].EndMinutes < sessions[j].EndMinutes
	})
	return sessions
}

func openSession(item provisional) models.GroupSession {
	s := models.GroupSession{
		Room:         strings.TrimSpace(item.entry.Room),
		Teacher:      strings.TrimSpace(item.entry.Teacher),
		Type:         strings.TrimSpace(item.entry.Type),
		Note:         strings.TrimSpace(item.entry.Note),
		StartMinutes: item.start,
		EndMinutes:   item.end,
		Invalid:      item.invalid,
		Groups:       []string{},
	}
	if item.group != "" {
		s.Groups = append(s.Groups, item.group)
		s.GroupLabel = item.group
	}
	if item.invalid {
		s.TimeRange = strings.TrimSpace(item.entry.StartTime) + rangeSeparator + strings.TrimSpace(item.entry.EndTime)
	} else {
		s.TimeRange = FormatRange(item.start, item.end)
	}
	return s
}

func validInterval(start, end int) bool {
	return start > 0 && end > 0 && end > start
}

func normalizeRoom(room string) string {
	return strings.Join(strings.Fields(strings.ToUpper(room)), " ")
}

// union appends value to a " / " separated list unless already present.
func union(current, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return current
	}
	if current == "" {
		return value
	}
	for _, existing := range strings.Split(current, unionSeparator) {
		if strings.EqualFold(existing, value) {
			return current
		}
	}
	return current + unionSeparator + value
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
