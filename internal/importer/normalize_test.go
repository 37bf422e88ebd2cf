package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/cronograma-api/internal/models"
)

func TestNormalizeWeekday(t *testing.T) {
	cases := map[string]string{
		"Segunda-feira": models.Monday,
		"terça-feira":   models.Tuesday,
		"TERCA FEIRA":   models.Tuesday,
		"Quarta":        models.Wednesday,
		"quinta-feira":  models.Thursday,
		"Sexta":         models.Friday,
		"Sábado":        models.Saturday,
		"domingo":       models.Sunday,
		"Monday":        models.Monday,
		"fri":           models.Friday,
		"Qua":           models.Wednesday,
		" Feriado ":     "Feriado",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeWeekday(in), in)
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"8:00":      "08:00",
		"08:00:00":  "08:00",
		"8h30":      "08:30",
		"19h":       "19:00",
		"2:30 PM":   "14:30",
		"12:15 am":  "00:15",
		"14":        "14:00",
		"0.354167":  "08:30",
		"45000.75":  "18:00",
		"":          "",
		"soon":      "soon",
		"10:75":     "10:75",
		"-1":        "-1",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeTime(in), in)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"15/03/2024":          "15/03/2024",
		"5/3/24":              "05/03/2024",
		"2024-03-15":          "15/03/2024",
		"2024-03-15T00:00:00": "15/03/2024",
		"45366":               "15/03/2024",
		"":                    "",
		"next week":           "next week",
		"40/03/2024":          "40/03/2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDate(in), in)
	}
}

func TestCanonicalHeader(t *testing.T) {
	assert.Equal(t, colWeekday, CanonicalHeader("Dia_Semana"))
	assert.Equal(t, colStart, CanonicalHeader(" HORÁRIO_INICIO "))
	assert.Equal(t, colTeacher, CanonicalHeader("Docente"))
	assert.Equal(t, colType, CanonicalHeader("Tipo de Aula"))
	assert.Equal(t, colNote, CanonicalHeader("Observações"))
	assert.Equal(t, colEndDate, CanonicalHeader("Data Fim"))
	assert.Equal(t, "", CanonicalHeader("unknown column"))
}

func TestPayloadNormalizeDropsUnusableRows(t *testing.T) {
	p := &Payload{
		Classes: []models.ClassEntry{
			{Period: " 1 ", Weekday: "segunda", Discipline: " Anatomy ", StartTime: "8:00", EndTime: "9h40"},
			{Period: "1", Weekday: "segunda"},
		},
		Events:    []models.Event{{Date: "2024-04-01", Type: "Exam"}, {Type: "Orphan"}},
		Electives: []models.ElectiveEntry{{Discipline: "Music", Weekday: "sexta", StartTime: "19:00", EndTime: "21:00"}, {Weekday: "sexta"}},
	}

	p.Normalize()

	assert.Equal(t, 3, p.Skipped)
	assert.Equal(t, []models.ClassEntry{{Period: "1", Weekday: models.Monday, Discipline: "Anatomy", StartTime: "08:00", EndTime: "09:40"}}, p.Classes)
	assert.Equal(t, "01/04/2024", p.Events[0].Date)
	assert.Equal(t, models.Friday, p.Electives[0].Weekday)
}
