package models

// Event is an assessment or calendar item attached to a period. Dates use the
// DD/MM/YYYY layout of the source spreadsheets.
type Event struct {
	Period     string `db:"period" json:"period" yaml:"period" validate:"required"`
	Date       string `db:"event_date" json:"date" yaml:"date" validate:"required"`
	EndDate    string `db:"end_date" json:"end_date,omitempty" yaml:"end_date"`
	Time       string `db:"event_time" json:"time,omitempty" yaml:"time"`
	Discipline string `db:"discipline" json:"discipline" yaml:"discipline"`
	Type       string `db:"event_type" json:"type" yaml:"type"`
	Location   string `db:"location" json:"location,omitempty" yaml:"location"`
	Module     string `db:"module" json:"module,omitempty" yaml:"module"`
	Group      string `db:"group_label" json:"group,omitempty" yaml:"group"`
}

// EventFilter narrows an already period-filtered event list.
type EventFilter struct {
	Type  string
	Query string
}

// EventList is the response body for period events.
type EventList struct {
	Period string   `json:"period"`
	Events []Event  `json:"events"`
	Types  []string `json:"types"`
}
