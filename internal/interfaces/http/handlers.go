package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/internal/report"
	"github.com/clubhousegolfcanada/ClubOS/internal/sop"
)

// Pipeline is the task resolution pipeline
type Pipeline interface {
	Process(ctx context.Context, req *models.TaskRequest) *models.ResolutionOutcome
}

// SOPService is the SOP sub-pipeline
type SOPService interface {
	Resolve(ctx context.Context, issue string, extra map[string]interface{}, autoExecute bool) *models.ResolutionOutcome
	Status() sop.CacheStatus
	Refresh(ctx context.Context) (*sop.SyncReport, error)
}

// TicketService manages tickets directly (outside the pipeline)
type TicketService interface {
	Create(ctx context.Context, title, description, priority string, tags []string, notify bool) (*models.Ticket, error)
	Get(ctx context.Context, id string) (*models.Ticket, error)
	List(ctx context.Context) ([]*models.Ticket, error)
	ToggleStatus(ctx context.Context, id string) (*models.Ticket, error)
}

// TicketExporter writes ticket reports
type TicketExporter interface {
	Export(w io.Writer, tickets []*models.Ticket) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	pipeline Pipeline
	sops     SOPService
	tickets  TicketService
	exporter TicketExporter
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(pipeline Pipeline, sops SOPService, tickets TicketService, exporter TicketExporter, logger *zap.Logger) *Handlers {
	return &Handlers{
		pipeline: pipeline,
		sops:     sops,
		tickets:  tickets,
		exporter: exporter,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ProcessResponse wraps the pipeline outcome with its request ID
type ProcessResponse struct {
	RequestID string                    `json:"request_id"`
	Response  *models.ResolutionOutcome `json:"response"`
}

// ResolveSOPRequest is the SOP sub-pipeline input
type ResolveSOPRequest struct {
	IssueDescription string                 `json:"issue_description" binding:"required"`
	Context          map[string]interface{} `json:"context"`
	AutoExecute      bool                   `json:"auto_execute"`
}

// CreateTicketRequest is the direct ticket creation input
type CreateTicketRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
	Notify      bool     `json:"notify"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ProcessTask handles POST /api/process
func (h *Handlers) ProcessTask(c *gin.Context) {
	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid process request", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "task is required",
		})
		return
	}

	outcome := h.pipeline.Process(c.Request.Context(), &req)

	requestID, _ := outcome.Metadata["request_id"].(string)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ProcessResponse{
			RequestID: requestID,
			Response:  outcome,
		},
	})
}

// ResolveSOP handles POST /api/sop/resolve
func (h *Handlers) ResolveSOP(c *gin.Context) {
	var req ResolveSOPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid SOP resolve request", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "issue_description is required",
		})
		return
	}

	outcome := h.sops.Resolve(c.Request.Context(), req.IssueDescription, req.Context, req.AutoExecute)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    outcome,
	})
}

// SOPSyncStatus handles GET /api/sop/sync-status
func (h *Handlers) SOPSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.sops.Status(),
	})
}

// RefreshSOPs handles POST /api/sop/refresh
func (h *Handlers) RefreshSOPs(c *gin.Context) {
	result, err := h.sops.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("SOP refresh failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "document sync failed",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ListTickets handles GET /api/tickets
func (h *Handlers) ListTickets(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list tickets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve tickets",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    tickets,
	})
}

// CreateTicket handles POST /api/tickets
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid ticket request", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "title and description are required",
		})
		return
	}

	if req.Priority == "" {
		req.Priority = "medium"
	}

	ticket, err := h.tickets.Create(c.Request.Context(), req.Title, req.Description, req.Priority, req.Tags, req.Notify)
	if err != nil {
		h.logger.Error("Ticket creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to create ticket",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    ticket,
	})
}

// GetTicket handles GET /api/tickets/:id
func (h *Handlers) GetTicket(c *gin.Context) {
	id := c.Param("id")

	ticket, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Ticket lookup failed", zap.String("ticket_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve ticket",
		})
		return
	}
	if ticket == nil {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "ticket not found",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    ticket,
	})
}

// ToggleTicket handles POST /api/tickets/:id/toggle
func (h *Handlers) ToggleTicket(c *gin.Context) {
	id := c.Param("id")

	ticket, err := h.tickets.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Ticket toggle failed", zap.String("ticket_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to toggle ticket status",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    ticket,
	})
}

// ExportTickets handles GET /api/tickets/export
func (h *Handlers) ExportTickets(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list tickets for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve tickets",
		})
		return
	}

	fileName := report.FileName(time.Now())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)

	if err := h.exporter.Export(c.Writer, tickets); err != nil {
		h.logger.Error("Ticket export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to export tickets",
		})
		return
	}
}
