package importer

import (
	"strings"

	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/internal/timetable"
)

// Canonical column keys.
const (
	colPeriod     = "period"
	colModule     = "module"
	colGroup      = "group"
	colWeekday    = "weekday"
	colDiscipline = "discipline"
	colRoom       = "room"
	colStart      = "start_time"
	colEnd        = "end_time"
	colType       = "type"
	colTeacher    = "teacher"
	colNote       = "note"
	colDate       = "date"
	colEndDate    = "end_date"
	colTime       = "time"
	colLocation   = "location"
)

// headerAliases maps folded header text (underscores as spaces) to a column key.
var headerAliases = map[string]string{
	"periodo": colPeriod, "period": colPeriod,
	"modulo": colModule, "module": colModule,
	"grupo": colGroup, "group": colGroup, "turma": colGroup,
	"dia semana": colWeekday, "dia da semana": colWeekday, "dia": colWeekday, "weekday": colWeekday, "day": colWeekday,
	"disciplina": colDiscipline, "discipline": colDiscipline,
	"sala": colRoom, "room": colRoom,
	"horario inicio": colStart, "inicio": colStart, "start time": colStart, "start": colStart,
	"horario fim": colEnd, "fim": colEnd, "end time": colEnd, "end": colEnd,
	"tipo": colType, "tipo de aula": colType, "type": colType,
	"professor": colTeacher, "docente": colTeacher, "teacher": colTeacher,
	"observacao": colNote, "observacoes": colNote, "obs": colNote, "note": colNote, "notes": colNote,
	"data": colDate, "data inicio": colDate, "date": colDate, "start date": colDate,
	"data fim": colEndDate, "end date": colEndDate,
	"horario": colTime, "hora": colTime, "time": colTime,
	"local": colLocation, "location": colLocation,
}

// CanonicalHeader maps a header cell to its column key, or "" when unknown.
func CanonicalHeader(raw string) string {
	folded := strings.Join(strings.Fields(strings.ReplaceAll(timetable.Fold(raw), "_", " ")), " ")
	return headerAliases[folded]
}

// Row is one spreadsheet row keyed by canonical column.
type Row map[string]string

func (r Row) get(key string) string {
	return strings.TrimSpace(r[key])
}

// ClassFromRow builds a normalized class entry.
func ClassFromRow(r Row) models.ClassEntry {
	return NormalizeClass(models.ClassEntry{
		Period:     r.get(colPeriod),
		Module:     r.get(colModule),
		Group:      r.get(colGroup),
		Weekday:    r.get(colWeekday),
		Discipline: r.get(colDiscipline),
		Room:       r.get(colRoom),
		StartTime:  r.get(colStart),
		EndTime:    r.get(colEnd),
		Type:       r.get(colType),
		Teacher:    r.get(colTeacher),
		Note:       r.get(colNote),
	})
}

// EventFromRow builds a normalized event.
func EventFromRow(r Row) models.Event {
	ev := NormalizeEvent(models.Event{
		Period:     r.get(colPeriod),
		Date:       r.get(colDate),
		EndDate:    r.get(colEndDate),
		Discipline: r.get(colDiscipline),
		Type:       r.get(colType),
		Location:   r.get(colLocation),
		Module:     r.get(colModule),
		Group:      r.get(colGroup),
	})
	ev.Time = NormalizeTime(r.get(colTime))
	if ev.Location == "" {
		ev.Location = r.get(colRoom)
	}
	return ev
}

// ElectiveFromRow builds a normalized catalog entry. The elective sheet names
// the discipline in its module column; a discipline column is the fallback.
func ElectiveFromRow(r Row) models.ElectiveEntry {
	discipline := r.get(colModule)
	if discipline == "" {
		discipline = r.get(colDiscipline)
	}
	return NormalizeElective(models.ElectiveEntry{
		Discipline: discipline,
		Weekday:    r.get(colWeekday),
		StartTime:  r.get(colStart),
		EndTime:    r.get(colEnd),
		Teacher:    r.get(colTeacher),
		Room:       r.get(colRoom),
		Type:       r.get(colType),
	})
}
