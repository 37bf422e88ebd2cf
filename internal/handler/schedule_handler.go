package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/middleware"
	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/pkg/response"
)

type scheduleService interface {
	Schedule(ctx context.Context, q dto.ScheduleQuery) (*dto.ScheduleResponse, bool, error)
}

type catalogService interface {
	Periods() ([]string, error)
	Electives() ([]models.ElectiveEntry, error)
}

// ScheduleHandler exposes period schedules and their lookup lists.
type ScheduleHandler struct {
	schedules scheduleService
	catalog   catalogService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(schedules scheduleService, catalog catalogService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, catalog: catalog}
}

// Periods godoc
// @Summary List periods
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /periods [get]
func (h *ScheduleHandler) Periods(c *gin.Context) {
	periods, err := h.catalog.Periods()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, map[string]interface{}{"total": len(periods)})
}

// Schedule godoc
// @Summary Weekly schedule of a period
// @Description Five weekday schedules with merged class cards and free slots.
// @Tags Schedules
// @Produce json
// @Param period path string true "Period"
// @Param groups query string false "Comma separated groups"
// @Param electives query string false "Comma separated elective disciplines"
// @Success 200 {object} response.Envelope{data=dto.ScheduleResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{period} [get]
func (h *ScheduleHandler) Schedule(c *gin.Context) {
	query := dto.ScheduleQuery{
		Period:    c.Param("period"),
		Groups:    listQuery(c, "groups"),
		Electives: listQuery(c, "electives"),
	}
	resp, hit, err := h.schedules.Schedule(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, resp, nil)
}

// Electives godoc
// @Summary List the elective catalog
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /electives [get]
func (h *ScheduleHandler) Electives(c *gin.Context) {
	electives, err := h.catalog.Electives()
	if err != nil {
		response.Error(c, err)
		return
	}
	if electives == nil {
		electives = []models.ElectiveEntry{}
	}
	response.JSON(c, http.StatusOK, electives, map[string]interface{}{"total": len(electives)})
}
