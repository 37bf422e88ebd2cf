package dto

import "github.com/noah-isme/cronograma-api/internal/models"

// ScheduleQuery is the parsed query string of a schedule request.
type ScheduleQuery struct {
	Period    string   `validate:"required,max=64"`
	Groups    []string `validate:"max=50,dive,max=64"`
	Electives []string `validate:"max=20,dive,max=128"`
}

// ScheduleResponse is the body of a schedule request.
type ScheduleResponse struct {
	Period    string               `json:"period"`
	Version   string               `json:"version"`
	Groups    []string             `json:"groups,omitempty"`
	Electives []string             `json:"electives,omitempty"`
	Days      []models.DaySchedule `json:"days"`
}

// EventQuery is the parsed query string of an event list request.
type EventQuery struct {
	Period string `validate:"required,max=64"`
	Type   string `validate:"max=64"`
	Query  string `validate:"max=128"`
}
