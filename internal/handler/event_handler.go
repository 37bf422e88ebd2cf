package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, q dto.EventQuery) (*models.EventList, error)
	Calendar(ctx context.Context, q dto.EventQuery) ([]byte, error)
}

// EventHandler exposes period events.
type EventHandler struct {
	service eventService
}

// NewEventHandler builds a new handler.
func NewEventHandler(service eventService) *EventHandler {
	return &EventHandler{service: service}
}

func eventQuery(c *gin.Context) dto.EventQuery {
	return dto.EventQuery{Period: c.Param("period"), Type: c.Query("type"), Query: c.Query("q")}
}

// List godoc
// @Summary Events of a period
// @Tags Events
// @Produce json
// @Param period path string true "Period"
// @Param type query string false "Event type"
// @Param q query string false "Free text filter"
// @Success 200 {object} response.Envelope{data=models.EventList}
// @Router /events/{period} [get]
func (h *EventHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), eventQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, map[string]interface{}{"total": len(list.Events)})
}

// Calendar godoc
// @Summary iCalendar feed of a period's events
// @Tags Events
// @Produce text/calendar
// @Param period path string true "Period"
// @Success 200 {file} file
// @Router /events/{period}/ics [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	q := eventQuery(c)
	body, err := h.service.Calendar(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, "events-"+safeName(q.Period)+".ics", models.ExportFormatICS.ContentType(), body)
}
