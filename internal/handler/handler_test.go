package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cronograma-api/internal/dto"
	"github.com/noah-isme/cronograma-api/internal/models"
	"github.com/noah-isme/cronograma-api/internal/service"
	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
	"github.com/noah-isme/cronograma-api/pkg/response"
)

type scheduleServiceMock struct {
	lastQuery dto.ScheduleQuery
	err       error
}

func (m *scheduleServiceMock) Schedule(ctx context.Context, q dto.ScheduleQuery) (*dto.ScheduleResponse, bool, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, false, m.err
	}
	days := make([]models.DaySchedule, 0, len(models.Weekdays))
	for _, d := range models.Weekdays {
		days = append(days, models.DaySchedule{Weekday: d})
	}
	return &dto.ScheduleResponse{Period: q.Period, Version: "v-1", Days: days}, true, nil
}

type catalogServiceMock struct {
	err error
}

func (m catalogServiceMock) Periods() ([]string, error) {
	return []string{"1", "2"}, m.err
}

func (m catalogServiceMock) Electives() ([]models.ElectiveEntry, error) {
	return nil, m.err
}

type eventServiceMock struct {
	lastQuery dto.EventQuery
}

func (m *eventServiceMock) List(ctx context.Context, q dto.EventQuery) (*models.EventList, error) {
	m.lastQuery = q
	return &models.EventList{Period: q.Period, Events: []models.Event{{Date: "01/04/2024", Type: "Exam"}}, Types: []string{"Exam"}}, nil
}

func (m *eventServiceMock) Calendar(ctx context.Context, q dto.EventQuery) ([]byte, error) {
	return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), nil
}

type datasetServiceMock struct {
	imported  []byte
	jsonReq   dto.ImportJSONRequest
	importErr error
}

func (m *datasetServiceMock) ImportWorkbook(ctx context.Context, r io.Reader, size int64) (*dto.ImportResponse, error) {
	if m.importErr != nil {
		return nil, m.importErr
	}
	m.imported, _ = io.ReadAll(r)
	return &dto.ImportResponse{Dataset: models.DatasetInfo{Version: "v-2", ClassCount: 3}}, nil
}

func (m *datasetServiceMock) ImportJSON(ctx context.Context, req dto.ImportJSONRequest) (*dto.ImportResponse, error) {
	m.jsonReq = req
	return &dto.ImportResponse{Dataset: models.DatasetInfo{Version: "v-3", ClassCount: len(req.Classes)}}, nil
}

func (m *datasetServiceMock) Info() (models.DatasetInfo, error) {
	return models.DatasetInfo{Version: "v-1", Source: models.SourceDefaults}, nil
}

func (m *datasetServiceMock) MaxUploadBytes() int64 { return 1 << 20 }

type exportServiceMock struct {
	err error
}

func (m exportServiceMock) Generate(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.ExportResult{ID: "id", Kind: req.Kind, Format: req.Format, Token: "tok", URL: "/api/v1/exports/tok"}, nil
}

func (m exportServiceMock) Download(token string) (*service.Download, error) {
	if token != "tok" {
		return nil, appErrors.ErrLinkExpired
	}
	return &service.Download{Filename: "schedule_1.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("a,b\n")}, nil
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestScheduleHandlerParsesListQueries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scheduleServiceMock{}
	h := NewScheduleHandler(mock, catalogServiceMock{})
	router := gin.New()
	router.GET("/schedules/:period", h.Schedule)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schedules/1?groups=A,%201&groups=B&electives=M%C3%BAsica", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", mock.lastQuery.Period)
	assert.Equal(t, []string{"A", "1", "B"}, mock.lastQuery.Groups)
	assert.Equal(t, []string{"Música"}, mock.lastQuery.Electives)

	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	data := env.Data.(map[string]interface{})
	assert.Len(t, data["days"], 5)
}

func TestScheduleHandlerMapsErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(&scheduleServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "period not found")}, catalogServiceMock{err: appErrors.ErrDatasetEmpty})
	router := gin.New()
	router.GET("/schedules/:period", h.Schedule)
	router.GET("/periods", h.Periods)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schedules/9", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, decodeEnvelope(t, w).Error.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/periods", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestScheduleHandlerCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(&scheduleServiceMock{}, catalogServiceMock{})
	router := gin.New()
	router.GET("/periods", h.Periods)
	router.GET("/electives", h.Electives)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/periods", nil))
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, []interface{}{"1", "2"}, env.Data)
	assert.EqualValues(t, 2, env.Meta["total"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/electives", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decodeEnvelope(t, w).Data)
}

func TestEventHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &eventServiceMock{}
	h := NewEventHandler(mock)
	router := gin.New()
	router.GET("/events/:period", h.List)
	router.GET("/events/:period/ics", h.Calendar)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/1?type=Exam&q=anat", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.EventQuery{Period: "1", Type: "Exam", Query: "anat"}, mock.lastQuery)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/1%C2%BA%20Per%C3%ADodo/ics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="events-1_Perodo.ics"`, w.Header().Get("Content-Disposition"))
}

func TestDatasetHandlerImportWorkbook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &datasetServiceMock{}
	h := NewDatasetHandler(mock)
	router := gin.New()
	router.POST("/dataset/import", h.Import)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "timetable.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("xlsx-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/dataset/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []byte("xlsx-bytes"), mock.imported)
}

func TestDatasetHandlerImportErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &datasetServiceMock{importErr: appErrors.Clone(appErrors.ErrInvalidWorkbook, "sheet 'Aulas' not found in spreadsheet")}
	h := NewDatasetHandler(mock)
	router := gin.New()
	router.POST("/dataset/import", h.Import)
	router.POST("/dataset/import/json", h.ImportJSON)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/dataset/import", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "bad.xlsx")
	_, _ = part.Write([]byte("x"))
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/dataset/import", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "sheet 'Aulas' not found in spreadsheet", decodeEnvelope(t, w).Error.Message)

	req = httptest.NewRequest(http.MethodPost, "/dataset/import/json", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDatasetHandlerImportJSONAndInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &datasetServiceMock{}
	h := NewDatasetHandler(mock)
	router := gin.New()
	router.POST("/dataset/import/json", h.ImportJSON)
	router.GET("/dataset", h.Info)

	payload, _ := json.Marshal(dto.ImportJSONRequest{Classes: []models.ClassEntry{{Period: "1", Weekday: "Monday", Discipline: "Anatomy"}}})
	req := httptest.NewRequest(http.MethodPost, "/dataset/import/json", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, mock.jsonReq.Classes, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dataset", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w).Data.(map[string]interface{})
	assert.Equal(t, "v-1", data["version"])
}

func TestExportHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewExportHandler(exportServiceMock{})
	router := gin.New()
	router.POST("/exports", h.Create)
	router.GET("/exports/:token", h.Download)

	payload := []byte(`{"kind":"schedule","format":"csv","period":"1"}`)
	req := httptest.NewRequest(http.MethodPost, "/exports", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w).Data.(map[string]interface{})
	assert.Equal(t, "/api/v1/exports/tok", data["url"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exports/tok", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a,b\n", w.Body.String())
	assert.Equal(t, `attachment; filename="schedule_1.csv"`, w.Header().Get("Content-Disposition"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exports/old", nil))
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestExportHandlerRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewExportHandler(exportServiceMock{err: appErrors.ErrUnsupportedFormat})
	router := gin.New()
	router.POST("/exports", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/exports", bytes.NewReader([]byte(`{"kind":"schedule","format":"docx","period":"1"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrUnsupportedFormat.Code, decodeEnvelope(t, w).Error.Code)
}

type readyStub bool

func (r readyStub) Ready() bool { return bool(r) }

func TestMetricsHandlerProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	loading := NewMetricsHandler(metrics, readyStub(false))
	ready := NewMetricsHandler(metrics, readyStub(true))
	router.GET("/health", loading.Health)
	router.GET("/ready-loading", loading.Ready)
	router.GET("/ready", ready.Ready)
	router.GET("/metrics", ready.Prometheus)
	router.GET("/metrics/summary", ready.Snapshot)

	for path, status := range map[string]int{
		"/health":          http.StatusOK,
		"/ready-loading":   http.StatusServiceUnavailable,
		"/ready":           http.StatusOK,
		"/metrics":         http.StatusOK,
		"/metrics/summary": http.StatusOK,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}
