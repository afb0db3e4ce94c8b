package sop

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
	"go.uber.org/zap"
)

// Action types, in classification precedence order.
const (
	ActionRefund           = "refund"
	ActionContactCustomer  = "contact_customer"
	ActionEquipmentRestart = "equipment_restart"
	ActionVerification     = "verification"
	ActionGenericStep      = "generic_step"
)

// stepRule maps trigger keywords to an action type and the subsystem layers
// it touches. First match wins: refund beats contact beats restart beats
// verification.
type stepRule struct {
	action   string
	layers   []string
	keywords []string
}

var stepRules = []stepRule{
	{ActionRefund, []string{"financial"}, []string{"refund"}},
	{ActionContactCustomer, []string{"customer_service"}, []string{"call", "contact", "email", "notify"}},
	{ActionEquipmentRestart, []string{"equipment", "facilities"}, []string{"restart", "reboot", "power"}},
	{ActionVerification, []string{"quality_control"}, []string{"check", "verify", "confirm"}},
}

var criticalWords = []string{"must", "critical", "essential"}

// StepAnalysis is the classification of one SOP step.
type StepAnalysis struct {
	Action   string
	Layers   []string
	Critical bool
}

// AnalyzeStep classifies a step into an action type by keyword precedence.
func AnalyzeStep(step string) StepAnalysis {
	lower := strings.ToLower(step)

	analysis := StepAnalysis{
		Action: ActionGenericStep,
		Layers: []string{"operations"},
	}

	for _, rule := range stepRules {
		if containsAnyWord(lower, rule.keywords) {
			analysis.Action = rule.action
			analysis.Layers = rule.layers
			break
		}
	}

	for _, word := range criticalWords {
		if strings.Contains(lower, word) {
			analysis.Critical = true
			break
		}
	}

	return analysis
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ActionContext carries a step into its handler.
type ActionContext struct {
	Step       string
	StepNumber int
	SOPTitle   string
	Extra      map[string]interface{}
}

// ActionResult is a handler's outcome. Handlers never return errors; failures
// surface as Success=false with Error set.
type ActionResult struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Dispatcher routes classified steps to action handlers.
type Dispatcher interface {
	Dispatch(ctx context.Context, actionType string, actx ActionContext) ActionResult
}

// TicketCreator is what action handlers need from the ticketing collaborator.
type TicketCreator interface {
	Create(ctx context.Context, title, description, priority string, tags []string, notify bool) (*models.Ticket, error)
}

// ActionHandler is the standard dispatcher. Refund and customer-contact
// actions open their own tickets; restart and verification actions only log.
type ActionHandler struct {
	tickets TicketCreator
	logger  *zap.Logger
}

// NewActionHandler creates the standard dispatcher.
func NewActionHandler(tickets TicketCreator, logger *zap.Logger) *ActionHandler {
	return &ActionHandler{tickets: tickets, logger: logger}
}

var refundAmountRegex = regexp.MustCompile(`\$(\d+(?:\.\d{2})?)`)

// Dispatch routes an action to its handler. Never panics or errors.
func (h *ActionHandler) Dispatch(ctx context.Context, actionType string, actx ActionContext) ActionResult {
	var result ActionResult

	switch actionType {
	case ActionRefund:
		result = h.handleRefund(ctx, actx)
	case ActionContactCustomer:
		result = h.handleCustomerContact(ctx, actx)
	case ActionEquipmentRestart:
		result = h.handleEquipmentRestart(actx)
	case ActionVerification:
		result = h.handleVerification(actx)
	default:
		result = h.handleGeneric(actx)
	}

	if result.Payload == nil {
		result.Payload = make(map[string]interface{})
	}
	result.Payload["action_type"] = actionType
	result.Payload["timestamp"] = time.Now().Format(time.RFC3339)
	return result
}

func (h *ActionHandler) handleRefund(ctx context.Context, actx ActionContext) ActionResult {
	amount := 0.0
	if match := refundAmountRegex.FindStringSubmatch(actx.Step); match != nil {
		amount, _ = strconv.ParseFloat(match[1], 64)
	}

	ticket, err := h.tickets.Create(ctx,
		fmt.Sprintf("Refund Request - $%.2f", amount),
		fmt.Sprintf("SOP-triggered refund\nSOP: %s\nStep %d: %s", actx.SOPTitle, actx.StepNumber, actx.Step),
		"high",
		[]string{"refund", "financial", "sop-triggered"},
		true,
	)
	if err != nil {
		h.logger.Error("Refund ticket creation failed", zap.Error(err))
		return ActionResult{Success: false, Error: err.Error()}
	}

	return ActionResult{
		Success: true,
		Payload: map[string]interface{}{
			"ticket_id": ticket.ID,
			"amount":    amount,
			"message":   fmt.Sprintf("Refund ticket created: %s", ticket.ID),
		},
	}
}

func (h *ActionHandler) handleCustomerContact(ctx context.Context, actx ActionContext) ActionResult {
	lower := strings.ToLower(actx.Step)
	method := "general"
	if strings.Contains(lower, "email") {
		method = "email"
	} else if strings.Contains(lower, "call") || strings.Contains(lower, "phone") {
		method = "phone"
	}

	ticket, err := h.tickets.Create(ctx,
		fmt.Sprintf("Customer Contact Required - %s", strings.ToUpper(method)),
		fmt.Sprintf("SOP requires customer contact\nMethod: %s\nStep %d: %s", method, actx.StepNumber, actx.Step),
		"medium",
		[]string{"customer-contact", method, "sop-triggered"},
		false,
	)
	if err != nil {
		h.logger.Error("Contact ticket creation failed", zap.Error(err))
		return ActionResult{Success: false, Error: err.Error()}
	}

	return ActionResult{
		Success: true,
		Payload: map[string]interface{}{
			"ticket_id":      ticket.ID,
			"contact_method": method,
			"message":        fmt.Sprintf("Contact ticket created: %s", ticket.ID),
		},
	}
}

func (h *ActionHandler) handleEquipmentRestart(actx ActionContext) ActionResult {
	lower := strings.ToLower(actx.Step)

	equipment := "unknown"
	for _, keyword := range []string{"trackman", "projector", "simulator", "pos", "hvac"} {
		if strings.Contains(lower, keyword) {
			equipment = keyword
			break
		}
	}

	bay := "all"
	if match := regexp.MustCompile(`bay\s*(\d+)`).FindStringSubmatch(lower); match != nil {
		bay = match[1]
	}

	h.logger.Info("Equipment restart initiated",
		zap.String("equipment", equipment),
		zap.String("bay", bay))

	return ActionResult{
		Success: true,
		Payload: map[string]interface{}{
			"equipment":            equipment,
			"bay":                  bay,
			"message":              fmt.Sprintf("Restart command sent for %s", equipment),
			"estimated_completion": "5 minutes",
		},
	}
}

func (h *ActionHandler) handleVerification(actx ActionContext) ActionResult {
	item := utils.TruncateString(actx.Step, 100)

	return ActionResult{
		Success: true,
		Payload: map[string]interface{}{
			"verified": true,
			"item":     item,
			"message":  "Verification logged",
		},
	}
}

func (h *ActionHandler) handleGeneric(actx ActionContext) ActionResult {
	summary := utils.TruncateString(actx.Step, 100)

	h.logger.Info("Generic step executed", zap.String("step", summary))

	return ActionResult{
		Success: true,
		Payload: map[string]interface{}{
			"message":      "Step executed",
			"step_summary": summary,
		},
	}
}
