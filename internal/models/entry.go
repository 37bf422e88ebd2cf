package models

import "strings"

// ElectiveModule is the module label given to entries synthesized from the elective catalog.
const ElectiveModule = "Eletiva"

// ClassEntry is one row of the timetable: a period, group and weekday occurrence of a class.
type ClassEntry struct {
	Period     string `db:"period" json:"period" yaml:"period" validate:"required"`
	Module     string `db:"module" json:"module" yaml:"module"`
	Group      string `db:"group_label" json:"group" yaml:"group"`
	Weekday    string `db:"weekday" json:"weekday" yaml:"weekday" validate:"required"`
	Discipline string `db:"discipline" json:"discipline" yaml:"discipline" validate:"required"`
	Room       string `db:"room" json:"room" yaml:"room"`
	StartTime  string `db:"start_time" json:"start_time" yaml:"start_time"`
	EndTime    string `db:"end_time" json:"end_time" yaml:"end_time"`
	Type       string `db:"class_type" json:"type,omitempty" yaml:"type"`
	Teacher    string `db:"teacher" json:"teacher,omitempty" yaml:"teacher"`
	Note       string `db:"note" json:"note,omitempty" yaml:"note"`
}

// ElectiveEntry is a catalog row for an elective discipline, offered across periods.
type ElectiveEntry struct {
	Discipline string `db:"discipline" json:"discipline" yaml:"discipline" validate:"required"`
	Weekday    string `db:"weekday" json:"weekday" yaml:"weekday" validate:"required"`
	StartTime  string `db:"start_time" json:"start_time" yaml:"start_time"`
	EndTime    string `db:"end_time" json:"end_time" yaml:"end_time"`
	Teacher    string `db:"teacher" json:"teacher,omitempty" yaml:"teacher"`
	Room       string `db:"room" json:"room" yaml:"room"`
	Type       string `db:"class_type" json:"type,omitempty" yaml:"type"`
}

// ClassEntry converts a catalog row into a timetable entry for the given
// period. The group is left empty so it occupies every group track.
func (e ElectiveEntry) ClassEntry(period string) ClassEntry {
	return ClassEntry{
		Period:     period,
		Module:     ElectiveModule,
		Weekday:    e.Weekday,
		Discipline: e.Discipline,
		Room:       e.Room,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		Type:       e.Type,
		Teacher:    e.Teacher,
	}
}

// IsElective reports whether the module label marks an elective.
func IsElective(module string) bool {
	return strings.EqualFold(strings.TrimSpace(module), ElectiveModule)
}
