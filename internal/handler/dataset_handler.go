package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/models"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
	"github.com/noah-isme/cronograma-api/pkg/response"
)

type datasetService interface {
	ImportWorkbook(ctx context.Context, r io.Reader, size int64) (*dto.ImportResponse, error)
	ImportJSON(ctx context.Context, req dto.ImportJSONRequest) (*dto.ImportResponse, error)
	Info() (models.DatasetInfo, error)
	MaxUploadBytes() int64
}

// DatasetHandler exposes dataset import and metadata endpoints.
type DatasetHandler struct {
	service datasetService
}

// NewDatasetHandler builds a new handler.
func NewDatasetHandler(service datasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// Import godoc
// @Summary Import a timetable workbook
// @Description Replaces the dataset with the sheets Aulas, Eventos/Avaliações and Eletivas.
// @Tags Dataset
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 201 {object} response.Envelope{data=dto.ImportResponse}
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /dataset/import [post]
func (h *DatasetHandler) Import(c *gin.Context) {
	limit := h.service.MaxUploadBytes()
	// multipart overhead on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.ErrPayloadTooLarge)
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "multipart field 'file' is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to open uploaded file"))
		return
	}
	defer file.Close() //nolint:errcheck

	resp, err := h.service.ImportWorkbook(c.Request.Context(), file, header.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// ImportJSON godoc
// @Summary Import timetable rows as JSON
// @Tags Dataset
// @Accept json
// @Produce json
// @Param payload body dto.ImportJSONRequest true "Dataset rows"
// @Success 201 {object} response.Envelope{data=dto.ImportResponse}
// @Failure 400 {object} response.Envelope
// @Router /dataset/import/json [post]
func (h *DatasetHandler) ImportJSON(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxUploadBytes())

	var req dto.ImportJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.ErrPayloadTooLarge)
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}
	resp, err := h.service.ImportJSON(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Info godoc
// @Summary Dataset metadata
// @Tags Dataset
// @Produce json
// @Success 200 {object} response.Envelope{data=models.DatasetInfo}
// @Router /dataset [get]
func (h *DatasetHandler) Info(c *gin.Context) {
	info, err := h.service.Info()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
