// Package importer turns raw spreadsheet or JSON rows into clean timetable
// records: trimmed fields, canonical weekdays, HH:MM times and DD/MM/YYYY dates.
package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/internal/timetable"
)

var weekdayPrefixes = []struct {
	prefix string
	label  string
}{
	{"segunda", models.Monday},
	{"terca", models.Tuesday},
	{"quarta", models.Wednesday},
	{"quinta", models.Thursday},
	{"sexta", models.Friday},
	{"sabado", models.Saturday},
	{"domingo", models.Sunday},
	{"monday", models.Monday},
	{"tuesday", models.Tuesday},
	{"wednesday", models.Wednesday},
	{"thursday", models.Thursday},
	{"friday", models.Friday},
	{"saturday", models.Saturday},
	{"sunday", models.Sunday},
}

var weekdayAbbreviations = map[string]string{
	"seg": models.Monday, "ter": models.Tuesday, "qua": models.Wednesday, "qui": models.Thursday,
	"sex": models.Friday, "sab": models.Saturday, "dom": models.Sunday,
	"mon": models.Monday, "tue": models.Tuesday, "tues": models.Tuesday, "wed": models.Wednesday,
	"thu": models.Thursday, "thur": models.Thursday, "thurs": models.Thursday, "fri": models.Friday,
	"sat": models.Saturday, "sun": models.Sunday,
}

// NormalizeWeekday maps Portuguese or English weekday text, ignoring case,
// accents, spaces and dashes, to a canonical label. Unknown text is returned
// trimmed but otherwise untouched.
func NormalizeWeekday(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	compact := strings.NewReplacer("-", "", " ", "", "_", "", ".", "").Replace(timetable.Fold(trimmed))
	for _, w := range weekdayPrefixes {
		if strings.HasPrefix(compact, w.prefix) {
			return w.label
		}
	}
	if label, ok := weekdayAbbreviations[compact]; ok {
		return label
	}
	return trimmed
}

// NormalizeTime coerces a time cell to HH:MM. It accepts "8:00", "08:00:00",
// "8h30", "2:30 PM", bare hours ("14") and spreadsheet day fractions
// ("0.354166"). Anything else is returned trimmed.
func NormalizeTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return s
		}
		if f == math.Trunc(f) && f >= 0 && f <= 24 {
			return timetable.FormatMinutes(int(f) * 60)
		}
		frac := f - math.Floor(f)
		minutes := int(math.Round(frac * 24 * 60))
		if minutes >= 24*60 {
			minutes = 0
		}
		return timetable.FormatMinutes(minutes)
	}

	lower := strings.ToLower(s)
	pm := strings.HasSuffix(lower, "pm")
	am := strings.HasSuffix(lower, "am")
	if pm || am {
		lower = strings.TrimSpace(lower[:len(lower)-2])
	}
	lower = strings.ReplaceAll(lower, "h", ":")
	parts := strings.Split(lower, ":")
	if len(parts) < 1 || len(parts) > 3 {
		return s
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return s
	}
	minutes := 0
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		if minutes, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
			return s
		}
	}
	if pm && hours < 12 {
		hours += 12
	}
	if am && hours == 12 {
		hours = 0
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 {
		return s
	}
	return timetable.FormatMinutes(hours*60 + minutes)
}

// NormalizeDate coerces a date cell to DD/MM/YYYY. It accepts spreadsheet
// serial numbers, ISO dates and D/M/YY variants. Anything else is returned trimmed.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && !math.IsInf(f, 0) {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t.Format("02/01/2006")
		}
		return s
	}

	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.Format("02/01/2006")
		}
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return s
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 0 {
		return s
	}
	if year < 100 {
		year += 2000
	}
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}

// NormalizeClass trims every field and canonicalizes weekday and times.
func NormalizeClass(e models.ClassEntry) models.ClassEntry {
	return models.ClassEntry{
		Period:     strings.TrimSpace(e.Period),
		Module:     strings.TrimSpace(e.Module),
		Group:      strings.TrimSpace(e.Group),
		Weekday:    NormalizeWeekday(e.Weekday),
		Discipline: strings.TrimSpace(e.Discipline),
		Room:       strings.TrimSpace(e.Room),
		StartTime:  NormalizeTime(e.StartTime),
		EndTime:    NormalizeTime(e.EndTime),
		Type:       strings.TrimSpace(e.Type),
		Teacher:    strings.TrimSpace(e.Teacher),
		Note:       strings.TrimSpace(e.Note),
	}
}

// NormalizeEvent trims every field and canonicalizes dates and time.
func NormalizeEvent(e models.Event) models.Event {
	return models.Event{
		Period:     strings.TrimSpace(e.Period),
		Date:       NormalizeDate(e.Date),
		EndDate:    NormalizeDate(e.EndDate),
		Time:       strings.TrimSpace(e.Time),
		Discipline: strings.TrimSpace(e.Discipline),
		Type:       strings.TrimSpace(e.Type),
		Location:   strings.TrimSpace(e.Location),
		Module:     strings.TrimSpace(e.Module),
		Group:      strings.TrimSpace(e.Group),
	}
}

// NormalizeElective trims every field and canonicalizes weekday and times.
func NormalizeElective(e models.ElectiveEntry) models.ElectiveEntry {
	return models.ElectiveEntry{
		Discipline: strings.TrimSpace(e.Discipline),
		Weekday:    NormalizeWeekday(e.Weekday),
		StartTime:  NormalizeTime(e.StartTime),
		EndTime:    NormalizeTime(e.EndTime),
		Teacher:    strings.TrimSpace(e.Teacher),
		Room:       strings.TrimSpace(e.Room),
		Type:       strings.TrimSpace(e.Type),
	}
}
