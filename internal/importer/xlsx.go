package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/internal/timetable"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
)

// Sheet names accepted for each collection, compared without case or accents.
var (
	classSheets    = []string{"aulas", "classes"}
	eventSheets    = []string{"eventos", "avaliacoes", "events"}
	electiveSheets = []string{"eletivas", "electives"}
)

// Payload is the content of one import.
type Payload struct {
	Classes   []models.ClassEntry    `json:"classes" yaml:"classes"`
	Events    []models.Event         `json:"events" yaml:"events"`
	Electives []models.ElectiveEntry `json:"electives" yaml:"electives"`
	// Skipped counts rows dropped for missing required cells.
	Skipped int `json:"skipped" yaml:"-"`
	// EventsSheet is the workbook sheet events were read from, if any.
	EventsSheet string `json:"events_sheet,omitempty" yaml:"-"`
}

// Normalize cleans every record in place and drops unusable rows.
func (p *Payload) Normalize() {
	classes := p.Classes[:0]
	for _, c := range p.Classes {
		c = NormalizeClass(c)
		if c.Period == "" || c.Weekday == "" || c.Discipline == "" {
			p.Skipped++
			continue
		}
		classes = append(classes, c)
	}
	p.Classes = classes

	events := p.Events[:0]
	for _, e := range p.Events {
		e = NormalizeEvent(e)
		e.Time = NormalizeTime(e.Time)
		if e.Date == "" {
			p.Skipped++
			continue
		}
		events = append(events, e)
	}
	p.Events = events

	electives := p.Electives[:0]
	for _, e := range p.Electives {
		e = NormalizeElective(e)
		if e.Discipline == "" || e.Weekday == "" {
			p.Skipped++
			continue
		}
		electives = append(electives, e)
	}
	p.Electives = electives
}

// ReadWorkbook parses an xlsx workbook. The classes sheet ("Aulas") is
// required; events ("Eventos" or "Avaliações") and electives ("Eletivas") are
// optional. Headers are matched case and accent insensitively.
func ReadWorkbook(r io.Reader) (*Payload, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWorkbook.Code, appErrors.ErrInvalidWorkbook.Status, "unable to read spreadsheet, check that the file is a valid xlsx workbook")
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	classSheet := findSheet(sheets, classSheets)
	if classSheet == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidWorkbook, "sheet 'Aulas' not found in spreadsheet")
	}

	payload := &Payload{}

	rows, headers, err := readSheet(f, classSheet)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && !(headers[colWeekday] && headers[colStart] && headers[colDiscipline]) {
		return nil, wrongHeaders(classSheet)
	}
	for _, row := range rows {
		payload.Classes = append(payload.Classes, ClassFromRow(row))
	}

	if name := findSheet(sheets, eventSheets); name != "" {
		rows, headers, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && !(headers[colDate] && headers[colType]) {
			return nil, wrongHeaders(name)
		}
		payload.EventsSheet = name
		for _, row := range rows {
			payload.Events = append(payload.Events, EventFromRow(row))
		}
	}

	if name := findSheet(sheets, electiveSheets); name != "" {
		rows, headers, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 && !(headers[colWeekday] && (headers[colModule] || headers[colDiscipline])) {
			return nil, wrongHeaders(name)
		}
		for _, row := range rows {
			payload.Electives = append(payload.Electives, ElectiveFromRow(row))
		}
	}

	payload.Normalize()
	return payload, nil
}

func findSheet(sheets []string, accepted []string) string {
	for _, name := range sheets {
		folded := timetable.Fold(name)
		for _, want := range accepted {
			if folded == want {
				return name
			}
		}
	}
	return ""
}

// readSheet returns the non-blank data rows keyed by canonical header, plus
// the set of recognised headers.
func readSheet(f *excelize.File, sheet string) ([]Row, map[string]bool, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInvalidWorkbook.Code, appErrors.ErrInvalidWorkbook.Status, fmt.Sprintf("unable to read sheet '%s'", sheet))
	}
	if len(raw) == 0 {
		return nil, map[string]bool{}, nil
	}

	keys := make([]string, len(raw[0]))
	headers := make(map[string]bool, len(raw[0]))
	for i, cell := range raw[0] {
		keys[i] = CanonicalHeader(cell)
		if keys[i] != "" {
			headers[keys[i]] = true
		}
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		if blankCells(cells) {
			continue
		}
		row := make(Row, len(keys))
		for i, cell := range cells {
			if i >= len(keys) || keys[i] == "" || row[keys[i]] != "" {
				continue
			}
			row[keys[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows, headers, nil
}

func wrongHeaders(sheet string) error {
	return appErrors.Clone(appErrors.ErrInvalidWorkbook, fmt.Sprintf("wrong format in sheet '%s', check the column headers", sheet))
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
