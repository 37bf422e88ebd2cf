package models

import "time"

// ExportKind selects what an export renders.
type ExportKind string

const (
	ExportKindSchedule ExportKind = "schedule"
	ExportKindEvents   ExportKind = "events"
)

// ExportFormat enumerates supported export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatICS ExportFormat = "ics"
)

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv; charset=utf-8"
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatICS:
		return "text/calendar; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// ExportRequest describes an export to render.
type ExportRequest struct {
	Kind      ExportKind   `json:"kind" validate:"required,oneof=schedule events"`
	Format    ExportFormat `json:"format" validate:"required,oneof=csv pdf ics"`
	Period    string       `json:"period" validate:"required"`
	Groups    []string     `json:"groups,omitempty"`
	Electives []string     `json:"electives,omitempty"`
}

// ExportResult describes a rendered export and its signed download link.
type ExportResult struct {
	ID        string       `json:"id"`
	Kind      ExportKind   `json:"kind"`
	Format    ExportFormat `json:"format"`
	Filename  string       `json:"filename"`
	Token     string       `json:"token"`
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expires_at"`
}
