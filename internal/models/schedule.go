package models

// Canonical weekday labels.
const (
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
	Saturday  = "Saturday"
	Sunday    = "Sunday"
)

// Weekdays lists the scheduled days in order.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday}

// Free slot track labels.
const (
	TrackNumeric = "Numeric Groups"
	TrackAlpha   = "Alpha Groups"
)

// GroupSession is one merged sitting of a discipline: every group attending
// the same time range in the same room.
type GroupSession struct {
	GroupLabel   string   `json:"group_label"`
	Groups       []string `json:"groups"`
	Room         string   `json:"room"`
	TimeRange    string   `json:"time_range"`
	Teacher      string   `json:"teacher,omitempty"`
	Type         string   `json:"type,omitempty"`
	Note         string   `json:"note,omitempty"`
	StartMinutes int      `json:"start_minutes"`
	EndMinutes   int      `json:"end_minutes"`
	// Invalid marks sessions whose times are unknown or inverted. They are
	// rendered but never count as occupied time.
	Invalid bool `json:"invalid,omitempty"`
}

// ClassCard holds every session of one discipline on one day.
type ClassCard struct {
	Discipline   string         `json:"discipline"`
	Module       string         `json:"module"`
	TimeRange    string         `json:"time_range"`
	GroupSummary string         `json:"group_summary,omitempty"`
	Elective     bool           `json:"elective,omitempty"`
	Note         string         `json:"note,omitempty"`
	Sessions     []GroupSession `json:"sessions"`
}

// StartMinutes is the card's effective start: its earliest session with
// valid times, or 0 when no session has valid times.
func (c ClassCard) StartMinutes() int {
	start, found := 0, false
	for _, s := range c.Sessions {
		if s.Invalid {
			continue
		}
		if !found || s.StartMinutes < start {
			start, found = s.StartMinutes, true
		}
	}
	return start
}

// FreeSlot is an unscheduled interval. An empty label means every group is free.
type FreeSlot struct {
	IsFreeSlot   bool   `json:"is_free_slot"`
	TimeRange    string `json:"time_range"`
	Label        string `json:"label"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
}

// ScheduleItem kinds.
const (
	ItemClass    = "class"
	ItemFreeSlot = "free"
)

// ScheduleItem is either a class card or a free slot.
type ScheduleItem struct {
	Kind     string     `json:"kind"`
	Class    *ClassCard `json:"class,omitempty"`
	FreeSlot *FreeSlot  `json:"free_slot,omitempty"`
}

// DaySchedule is the time-ordered content of one weekday.
type DaySchedule struct {
	Weekday string         `json:"weekday"`
	Items   []ScheduleItem `json:"items"`
}

// ScheduleFilters narrows the entries fed to the schedule builder.
type ScheduleFilters struct {
	// Groups keeps only entries of these groups (cleaned, case-insensitive).
	// Entries without a group are always kept. Empty means no filter.
	Groups []string
	// Electives are extra entries appended to the period's entries.
	Electives []ClassEntry
}
