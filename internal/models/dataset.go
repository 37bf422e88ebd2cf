package models

import "time"

// Dataset sources, in cascade order.
const (
	SourceDatabase = "database"
	SourceSnapshot = "snapshot"
	SourceDefaults = "defaults"
	SourceImport   = "import"
	// SourceMixed marks a dataset whose collections came from different sources.
	SourceMixed = "mixed"
)

// Dataset is an immutable snapshot of every timetable collection.
type Dataset struct {
	Version   string          `json:"version"`
	Source    string          `json:"source"`
	LoadedAt  time.Time       `json:"loaded_at"`
	Classes   []ClassEntry    `json:"classes"`
	Events    []Event         `json:"events"`
	Electives []ElectiveEntry `json:"electives"`
	// Sources records where each collection came from.
	Sources map[string]string `json:"sources,omitempty"`
}

// DatasetInfo summarizes the loaded dataset.
type DatasetInfo struct {
	Version       string            `json:"version"`
	Source        string            `json:"source"`
	LoadedAt      time.Time         `json:"loaded_at"`
	ClassCount    int               `json:"class_count"`
	EventCount    int               `json:"event_count"`
	ElectiveCount int               `json:"elective_count"`
	Periods       []string          `json:"periods"`
	Sources       map[string]string `json:"sources,omitempty"`
}

// Info builds the dataset summary.
func (d *Dataset) Info(periods []string) DatasetInfo {
	if d == nil {
		return DatasetInfo{}
	}
	return DatasetInfo{
		Version:       d.Version,
		Source:        d.Source,
		LoadedAt:      d.LoadedAt,
		ClassCount:    len(d.Classes),
		EventCount:    len(d.Events),
		ElectiveCount: len(d.Electives),
		Periods:       periods,
		Sources:       d.Sources,
	}
}

// Collection names.
const (
	CollectionClasses   = "classes"
	CollectionEvents    = "events"
	CollectionElectives = "electives"
)
