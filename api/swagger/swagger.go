package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Cronograma API",
        "description": "Course timetable and event calendar service.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Weekly schedules, periods and electives"},
        {"name": "Events", "description": "Exams and calendar events"},
        {"name": "Dataset", "description": "Timetable imports and metadata"},
        {"name": "Exports", "description": "CSV, PDF and iCalendar downloads"}
    ],
    "paths": {
        "/periods": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List periods",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "No dataset loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{period}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Weekly schedule of a period",
                "parameters": [
                    {"name": "period", "in": "path", "required": true, "type": "string"},
                    {"name": "groups", "in": "query", "type": "string", "description": "Comma separated groups"},
                    {"name": "electives", "in": "query", "type": "string", "description": "Comma separated elective disciplines"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/electives": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List the elective catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{period}": {
            "get": {
                "tags": ["Events"],
                "summary": "Events of a period",
                "parameters": [
                    {"name": "period", "in": "path", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{period}/ics": {
            "get": {
                "tags": ["Events"],
                "summary": "iCalendar feed of a period's events",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "period", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}}
                }
            }
        },
        "/dataset": {
            "get": {
                "tags": ["Dataset"],
                "summary": "Dataset metadata",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dataset/import": {
            "post": {
                "tags": ["Dataset"],
                "summary": "Import a timetable workbook",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing file", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Invalid workbook", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dataset/import/json": {
            "post": {
                "tags": ["Dataset"],
                "summary": "Import timetable rows as JSON",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportJSONRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Render an export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a rendered export",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Unknown export", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Link expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ClassEntry": {
            "type": "object",
            "properties": {
                "period": {"type": "string"},
                "module": {"type": "string"},
                "group": {"type": "string"},
                "weekday": {"type": "string"},
                "discipline": {"type": "string"},
                "room": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "type": {"type": "string"},
                "teacher": {"type": "string"},
                "note": {"type": "string"}
            },
            "required": ["period", "weekday", "discipline"]
        },
        "ElectiveEntry": {
            "type": "object",
            "properties": {
                "discipline": {"type": "string"},
                "weekday": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "teacher": {"type": "string"},
                "room": {"type": "string"},
                "type": {"type": "string"}
            },
            "required": ["discipline", "weekday"]
        },
        "Event": {
            "type": "object",
            "properties": {
                "period": {"type": "string"},
                "date": {"type": "string"},
                "end_date": {"type": "string"},
                "time": {"type": "string"},
                "discipline": {"type": "string"},
                "type": {"type": "string"},
                "location": {"type": "string"},
                "module": {"type": "string"},
                "group": {"type": "string"}
            },
            "required": ["period", "date"]
        },
        "ImportJSONRequest": {
            "type": "object",
            "properties": {
                "classes": {"type": "array", "items": {"$ref": "#/definitions/ClassEntry"}},
                "events": {"type": "array", "items": {"$ref": "#/definitions/Event"}},
                "electives": {"type": "array", "items": {"$ref": "#/definitions/ElectiveEntry"}}
            },
            "required": ["classes"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["schedule", "events"]},
                "format": {"type": "string", "enum": ["csv", "pdf", "ics"]},
                "period": {"type": "string"},
                "groups": {"type": "array", "items": {"type": "string"}},
                "electives": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["kind", "format", "period"]
        },
        "DaySchedule": {
            "type": "object",
            "properties": {
                "weekday": {"type": "string"},
                "items": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ScheduleEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object",
                    "properties": {
                        "period": {"type": "string"},
                        "version": {"type": "string"},
                        "groups": {"type": "array", "items": {"type": "string"}},
                        "electives": {"type": "array", "items": {"type": "string"}},
                        "days": {"type": "array", "items": {"$ref": "#/definitions/DaySchedule"}}
                    }
                },
                "meta": {"type": "object"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
