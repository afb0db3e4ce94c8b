package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/internal/sop"
)

type mockPipeline struct {
	outcome *models.ResolutionOutcome
	lastReq *models.TaskRequest
}

func (m *mockPipeline) Process(ctx context.Context, req *models.TaskRequest) *models.ResolutionOutcome {
	m.lastReq = req
	return m.outcome
}

type mockSOPService struct {
	outcome *models.ResolutionOutcome
	status  sop.CacheStatus
	report  *sop.SyncReport
	err     error
}

func (m *mockSOPService) Resolve(ctx context.Context, issue string, extra map[string]interface{}, autoExecute bool) *models.ResolutionOutcome {
	return m.outcome
}

func (m *mockSOPService) Status() sop.CacheStatus { return m.status }

func (m *mockSOPService) Refresh(ctx context.Context) (*sop.SyncReport, error) {
	return m.report, m.err
}

type mockTicketService struct {
	tickets   []*models.Ticket
	created   *models.Ticket
	byID      *models.Ticket
	createErr error
	listErr   error
	priority  string
}

func (m *mockTicketService) Create(ctx context.Context, title, description, priority string, tags []string, notify bool) (*models.Ticket, error) {
	m.priority = priority
	return m.created, m.createErr
}

func (m *mockTicketService) Get(ctx context.Context, id string) (*models.Ticket, error) {
	if m.byID != nil && m.byID.ID == id {
		return m.byID, nil
	}
	return nil, nil
}

func (m *mockTicketService) List(ctx context.Context) ([]*models.Ticket, error) {
	return m.tickets, m.listErr
}

func (m *mockTicketService) ToggleStatus(ctx context.Context, id string) (*models.Ticket, error) {
	return &models.Ticket{ID: id, Status: "inactive"}, nil
}

type mockExporter struct {
	err error
}

func (m *mockExporter) Export(w io.Writer, tickets []*models.Ticket) error {
	if m.err != nil {
		return m.err
	}
	_, err := w.Write([]byte("sheet-bytes"))
	return err
}

func newTestRouter(pipeline Pipeline, sops SOPService, tickets TicketService, exporter TicketExporter) *gin.Engine {
	handlers := NewHandlers(pipeline, sops, tickets, exporter, zap.NewNop())
	server := NewServer(DefaultServerConfig(), handlers, zap.NewNop())
	return server.Router()
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "1.0.0", data["version"])
}

func TestProcessTask(t *testing.T) {
	outcome := &models.ResolutionOutcome{
		Status:     models.StatusApproved,
		Confidence: 0.5,
		Metadata:   map[string]interface{}{"request_id": "req-42"},
	}
	pipeline := &mockPipeline{outcome: outcome}
	router := newTestRouter(pipeline, &mockSOPService{}, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/process", gin.H{
		"task":    "order more tees",
		"toggles": gin.H{"use_llm": false},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "req-42", data["request_id"])
	require.NotNil(t, pipeline.lastReq)
	assert.Equal(t, "order more tees", pipeline.lastReq.Task)
	assert.False(t, pipeline.lastReq.Toggles["use_llm"])
}

func TestProcessTaskMissingTask(t *testing.T) {
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/process", gin.H{"priority": "high"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "task is required", resp.Error)
}

func TestResolveSOP(t *testing.T) {
	sops := &mockSOPService{outcome: &models.ResolutionOutcome{Status: models.StatusApproved, Confidence: 0.9}}
	router := newTestRouter(&mockPipeline{}, sops, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/sop/resolve", gin.H{
		"issue_description": "trackman not tracking",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)
}

func TestResolveSOPMissingDescription(t *testing.T) {
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/sop/resolve", gin.H{"auto_execute": true})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "issue_description is required", decodeResponse(t, rec).Error)
}

func TestRefreshSOPsFailure(t *testing.T) {
	sops := &mockSOPService{err: errors.New("docs directory unreachable")}
	router := newTestRouter(&mockPipeline{}, sops, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/sop/refresh", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "document sync failed", decodeResponse(t, rec).Error)
}

func TestCreateTicketDefaultsPriority(t *testing.T) {
	tickets := &mockTicketService{created: &models.Ticket{ID: "TKT-1"}}
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, tickets, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/tickets", gin.H{
		"title":       "Broken screen",
		"description": "screen cracked in bay 1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "medium", tickets.priority)
}

func TestCreateTicketValidation(t *testing.T) {
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/tickets", gin.H{"title": "no description"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title and description are required", decodeResponse(t, rec).Error)
}

func TestListTickets(t *testing.T) {
	tickets := &mockTicketService{tickets: []*models.Ticket{{ID: "TKT-1"}, {ID: "TKT-2"}}}
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, tickets, &mockExporter{})

	rec := doRequest(router, http.MethodGet, "/api/tickets", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.([]interface{}), 2)
}

func TestGetTicket(t *testing.T) {
	tickets := &mockTicketService{byID: &models.Ticket{ID: "TKT-7", Title: "Projector out"}}
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, tickets, &mockExporter{})

	rec := doRequest(router, http.MethodGet, "/api/tickets/TKT-7", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "TKT-7", data["id"])
}

func TestGetTicketNotFound(t *testing.T) {
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodGet, "/api/tickets/TKT-404", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "ticket not found", resp.Error)
}

func TestToggleTicket(t *testing.T) {
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, &mockTicketService{}, &mockExporter{})

	rec := doRequest(router, http.MethodPost, "/api/tickets/TKT-9/toggle", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "TKT-9", data["id"])
	assert.Equal(t, "inactive", data["status"])
}

func TestExportTickets(t *testing.T) {
	tickets := &mockTicketService{tickets: []*models.Ticket{{ID: "TKT-1"}}}
	router := newTestRouter(&mockPipeline{}, &mockSOPService{}, tickets, &mockExporter{})

	rec := doRequest(router, http.MethodGet, "/api/tickets/export", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ticket-report-")
	assert.Equal(t, "sheet-bytes", rec.Body.String())
}
