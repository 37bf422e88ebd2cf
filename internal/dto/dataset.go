package dto

import "github.com/noah-isme/cronograma-api/internal/models"

// ImportJSONRequest carries dataset rows posted as JSON. Classes are required;
// empty events or electives keep the current collections.
type ImportJSONRequest struct {
	Classes   []models.ClassEntry    `json:"classes" validate:"required,min=1,dive"`
	Events    []models.Event         `json:"events" validate:"omitempty,dive"`
	Electives []models.ElectiveEntry `json:"electives" validate:"omitempty,dive"`
}

// ImportResponse summarizes an accepted import.
type ImportResponse struct {
	Dataset     models.DatasetInfo `json:"dataset"`
	Skipped     int                `json:"skipped"`
	EventsSheet string             `json:"events_sheet,omitempty"`
}
