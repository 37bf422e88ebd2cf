// Package timetable reconciles flat class entries into per-weekday schedules:
// sessions shared by several groups are merged, free time is computed per
// group track, and classes and free slots are interleaved in time order.
// Every function here is pure and never fails; malformed data degrades to
// omission or a default.
package timetable

import (
	"sort"
	"strings"

	"github.com/noah-isme/cronograma-api/internal/models"
)

// Config tunes the engine.
type Config struct {
	DayStart      int
	DayEnd        int
	MinGap        int
	GroupPrefixes []string
}

// DefaultConfig returns the 08:00-22:00 day with a 30 minute gap threshold.
func DefaultConfig() Config {
	return Config{
		DayStart:      DefaultDayStart,
		DayEnd:        DefaultDayEnd,
		MinGap:        DefaultMinGap,
		GroupPrefixes: DefaultGroupPrefixes,
	}
}

// ParseConfig builds a Config from "HH:MM" bounds. Unparseable or inverted
// bounds fall back to the defaults.
func ParseConfig(dayStart, dayEnd string, minGap int, prefixes []string) Config {
	cfg := DefaultConfig()
	start, end := ParseMinutes(dayStart), ParseMinutes(dayEnd)
	if start > 0 && end > start {
		cfg.DayStart, cfg.DayEnd = start, end
	}
	if minGap >= 0 {
		cfg.MinGap = minGap
	}
	if len(prefixes) > 0 {
		cfg.GroupPrefixes = prefixes
	}
	return cfg
}

// Engine builds schedules. It is immutable and safe for concurrent use.
type Engine struct {
	cfg     Config
	cleaner *GroupCleaner
}

// NewEngine constructs an engine, correcting invalid bounds to the defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.DayEnd <= cfg.DayStart || cfg.DayStart < 0 {
		cfg.DayStart, cfg.DayEnd = DefaultDayStart, DefaultDayEnd
	}
	if cfg.MinGap < 0 {
		cfg.MinGap = DefaultMinGap
	}
	return &Engine{cfg: cfg, cleaner: NewGroupCleaner(cfg.GroupPrefixes)}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// CleanGroup strips known prefixes from a raw group label.
func (e *Engine) CleanGroup(raw string) string {
	return e.cleaner.Clean(raw)
}

var defaultEngine = NewEngine(DefaultConfig())

// BuildSchedule builds the week for period with the default configuration.
func BuildSchedule(entries []models.ClassEntry, period string, filters models.ScheduleFilters) []models.DaySchedule {
	return defaultEngine.BuildSchedule(entries, period, filters)
}

// BuildSchedule returns exactly five days, Monday to Friday. Entries are
// selected by exact (trimmed) period, narrowed by filters.Groups, and joined
// by filters.Electives. Entries without a discipline or with a non-weekday
// label are dropped. A day without classes holds one full-day free slot.
func (e *Engine) BuildSchedule(entries []models.ClassEntry, period string, filters models.ScheduleFilters) []models.DaySchedule {
	selected := e.selectEntries(entries, strings.TrimSpace(period), filters)

	byDay := make(map[string][]models.ClassEntry, len(models.Weekdays))
	for _, entry := range selected {
		if strings.TrimSpace(entry.Discipline) == "" {
			continue
		}
		day, ok := canonicalWeekday(entry.Weekday)
		if !ok {
			continue
		}
		byDay[day] = append(byDay[day], entry)
	}

	week := make([]models.DaySchedule, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		week = append(week, models.DaySchedule{Weekday: day, Items: e.buildDay(byDay[day])})
	}
	return week
}

func (e *Engine) selectEntries(entries []models.ClassEntry, period string, filters models.ScheduleFilters) []models.ClassEntry {
	groups := make(map[string]struct{}, len(filters.Groups))
	for _, g := range filters.Groups {
		if cleaned := e.cleaner.Clean(g); cleaned != "" {
			groups[strings.ToUpper(cleaned)] = struct{}{}
		}
	}
	keep := func(entry models.ClassEntry) bool {
		if len(groups) == 0 || strings.TrimSpace(entry.Group) == "" {
			return true
		}
		_, ok := groups[strings.ToUpper(e.cleaner.Clean(entry.Group))]
		return ok
	}

	out := make([]models.ClassEntry, 0, len(entries)+len(filters.Electives))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Period) == period && keep(entry) {
			out = append(out, entry)
		}
	}
	for _, entry := range filters.Electives {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func (e *Engine) buildDay(entries []models.ClassEntry) []models.ScheduleItem {
	order := make([]string, 0)
	byDiscipline := make(map[string][]models.ClassEntry)
	for _, entry := range entries {
		key := strings.TrimSpace(entry.Discipline)
		if _, ok := byDiscipline[key]; !ok {
			order = append(order, key)
		}
		byDiscipline[key] = append(byDiscipline[key], entry)
	}

	items := make([]models.ScheduleItem, 0, len(order)+2)
	for _, discipline := range order {
		card := e.buildCard(discipline, byDiscipline[discipline])
		items = append(items, models.ScheduleItem{Kind: models.ItemClass, Class: &card})
	}
	for _, slot := range e.freeSlots(entries) {
		slot := slot
		items = append(items, models.ScheduleItem{Kind: models.ItemFreeSlot, FreeSlot: &slot})
	}

	sort.SliceStable(items, func(i, j int) bool {
		si, sj := itemStart(items[i]), itemStart(items[j])
		if si != sj {
			return si < sj
		}
		return items[i].Kind == models.ItemClass && items[j].Kind != models.ItemClass
	})
	return items
}

func itemStart(item models.ScheduleItem) int {
	if item.Class != nil {
		return item.Class.StartMinutes()
	}
	if item.FreeSlot != nil {
		return RangeStart(item.FreeSlot.TimeRange)
	}
	return 0
}

func (e *Engine) buildCard(discipline string, entries []models.ClassEntry) models.ClassCard {
	sessions := e.mergeSessions(entries)

	card := models.ClassCard{Discipline: discipline, Sessions: sessions}
	for _, entry := range entries {
		card.Module = union(card.Module, entry.Module)
		if models.IsElective(entry.Module) {
			card.Elective = true
		}
	}

	start, end := 0, 0
	groups := make([]string, 0, len(sessions))
	for _, s := range sessions {
		groups = append(groups, s.Groups...)
		if s.Invalid {
			continue
		}
		if start == 0 || s.StartMinutes < start {
			start = s.StartMinutes
		}
		if s.EndMinutes > end {
			end = s.EndMinutes
		}
	}
	if start > 0 {
		card.TimeRange = FormatRange(start, end)
	} else if len(sessions) > 0 {
		card.TimeRange = sessions[0].TimeRange
	}
	card.GroupSummary = FormatGroupRanges(groups)
	card.Note = sharedNote(sessions)
	return card
}

// sharedNote returns the note when every session carries the same one.
func sharedNote(sessions []models.GroupSession) string {
	if len(sessions) == 0 {
		return ""
	}
	note := sessions[0].Note
	for _, s := range sessions[1:] {
		if s.Note != note {
			return ""
		}
	}
	return note
}

func canonicalWeekday(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, day := range models.Weekdays {
		if strings.EqualFold(raw, day) {
			return day, true
		}
	}
	return "", false
}
