package resolver

import (
	"fmt"
	"strings"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"go.uber.org/zap"
)

// RuleEngine is the deterministic fallback strategy: a decision table matched
// against keyword presence, in fixed precedence order. It is total — every
// input lands in some branch and yields a complete outcome.
type RuleEngine struct {
	priceCeiling int
	logger       *zap.Logger
}

// NewRuleEngine creates the rule-based strategy.
func NewRuleEngine(priceCeiling int, logger *zap.Logger) *RuleEngine {
	return &RuleEngine{priceCeiling: priceCeiling, logger: logger}
}

// Resolve walks the decision table. Precedence: pricing violation >
// equipment/bay issue > installation > procedure reference > partnership >
// default general task.
func (r *RuleEngine) Resolve(req *models.TaskRequest, cc *models.ClassifiedContext, taskContext map[string]interface{}) *models.ResolutionOutcome {
	r.logger.Info("Using rule-based resolution", zap.String("task_type", cc.TaskType))

	task := strings.ToLower(req.Task)

	if outcome := r.pricingBranch(req, task, taskContext); outcome != nil {
		return outcome
	}
	if outcome := r.equipmentBranch(req, task, cc); outcome != nil {
		return outcome
	}
	if outcome := r.installationBranch(req, task); outcome != nil {
		return outcome
	}
	if outcome := r.procedureBranch(task); outcome != nil {
		return outcome
	}
	if outcome := r.partnershipBranch(req, task); outcome != nil {
		return outcome
	}

	return r.defaultBranch()
}

func (r *RuleEngine) pricingBranch(req *models.TaskRequest, task string, taskContext map[string]interface{}) *models.ResolutionOutcome {
	if !strings.Contains(task, "price") && !strings.Contains(task, "pricing") {
		return nil
	}

	price, ok := numericContext(taskContext, "current_price")
	if !ok || price <= float64(r.priceCeiling) {
		return nil
	}

	return &models.ResolutionOutcome{
		Layers: []models.Layer{
			{
				Name:    "pricing",
				Status:  "violation",
				Details: fmt.Sprintf("Price $%.0f/hr exceeds $%d/hr cap", price, r.priceCeiling),
			},
		},
		Recommendations: []models.Recommendation{
			{
				Action:   fmt.Sprintf("Reduce pricing to $%d/hr maximum", r.priceCeiling),
				Reason:   "Corporate pricing cap exceeded",
				Priority: "high",
			},
		},
		Ticket: &models.TicketDraft{
			Title:       "Pricing Cap Violation",
			Description: fmt.Sprintf("Bay pricing of $%.0f/hr exceeds corporate maximum of $%d/hr", price, r.priceCeiling),
			Priority:    "high",
			Tags:        []string{"pricing", "compliance", "urgent"},
		},
		Status:       models.StatusReviewRequired,
		Confidence:   1.0,
		TimeEstimate: "Immediate",
		Fallback:     true,
	}
}

func (r *RuleEngine) equipmentBranch(req *models.TaskRequest, task string, cc *models.ClassifiedContext) *models.ResolutionOutcome {
	if !containsAny(task, []string{"trackman", "projector", "simulator", "bay"}) {
		return nil
	}

	equipmentType := "equipment"
	for _, eq := range []string{"trackman", "projector", "simulator"} {
		if strings.Contains(task, eq) {
			equipmentType = eq
			break
		}
	}

	bayLabel := "Unknown"
	bayTag := "bay-unknown"
	if cc.Bay > 0 {
		bayLabel = fmt.Sprintf("%d", cc.Bay)
		bayTag = fmt.Sprintf("bay-%d", cc.Bay)
	}

	title := titleCase(equipmentType)

	return &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "equipment", Status: "malfunction", Details: fmt.Sprintf("%s issue detected", title)},
			{Name: "facilities", Status: "affected", Details: fmt.Sprintf("Bay %s impacted", bayLabel)},
		},
		Recommendations: []models.Recommendation{
			{
				Action:   "Initiate diagnostic protocol",
				Reason:   "Equipment malfunction reported",
				Priority: "high",
			},
			{
				Action:   "Contact technical support",
				Reason:   "Specialized equipment requires expert attention",
				Priority: "high",
			},
		},
		Ticket: &models.TicketDraft{
			Title:       fmt.Sprintf("%s Malfunction - Bay %s", title, bayLabel),
			Description: fmt.Sprintf("Staff reported: %s", req.Task),
			Priority:    "high",
			Tags:        []string{"equipment", equipmentType, "technical", bayTag},
		},
		Status:       models.StatusReviewRequired,
		Confidence:   0.9,
		TimeEstimate: "1-2 hours",
		Fallback:     true,
	}
}

func (r *RuleEngine) installationBranch(req *models.TaskRequest, task string) *models.ResolutionOutcome {
	if !strings.Contains(task, "install") {
		return nil
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	return &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "operations", Status: "active"},
			{Name: "facilities", Status: "planning"},
		},
		Recommendations: []models.Recommendation{
			{
				Action:   "Schedule installation window",
				Reason:   "Minimize operational disruption",
				Priority: "medium",
			},
			{
				Action:   "Prepare installation checklist",
				Reason:   "Ensure all components ready",
				Priority: "medium",
			},
		},
		Ticket: &models.TicketDraft{
			Title:       "Installation Request",
			Description: req.Task,
			Priority:    priority,
			Tags:        []string{"installation", "facilities", "planning"},
		},
		Status:       models.StatusApproved,
		Confidence:   0.85,
		TimeEstimate: "2-4 hours",
		Fallback:     true,
	}
}

func (r *RuleEngine) procedureBranch(task string) *models.ResolutionOutcome {
	if !strings.Contains(task, "sop") && !strings.Contains(task, "procedure") {
		return nil
	}

	return &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "operations", Status: "active"},
			{Name: "compliance", Status: "referenced"},
		},
		Recommendations: []models.Recommendation{
			{
				Action:   "Follow standard operating procedure",
				Reason:   "Established protocol exists",
				Priority: "medium",
			},
			{
				Action:   "Document completion in log",
				Reason:   "Maintain compliance records",
				Priority: "low",
			},
		},
		Status:       models.StatusApproved,
		Confidence:   0.95,
		TimeEstimate: "As per SOP",
		Fallback:     true,
	}
}

func (r *RuleEngine) partnershipBranch(req *models.TaskRequest, task string) *models.ResolutionOutcome {
	if !containsAny(task, []string{"partnership", "partner", "strategy"}) {
		return nil
	}

	return &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "strategic", Status: "evaluation"},
			{Name: "management", Status: "required"},
		},
		Recommendations: []models.Recommendation{
			{
				Action:   "Prepare partnership proposal",
				Reason:   "Strategic decision requires documentation",
				Priority: "medium",
			},
			{
				Action:   "Schedule management review",
				Reason:   "Executive approval required",
				Priority: "high",
			},
		},
		Ticket: &models.TicketDraft{
			Title:       "Strategic Initiative Review",
			Description: req.Task,
			Priority:    "medium",
			Tags:        []string{"strategic", "management", "review"},
		},
		Status:       models.StatusReviewRequired,
		Confidence:   0.7,
		TimeEstimate: "1-2 weeks",
		Fallback:     true,
	}
}

// defaultBranch handles anything the table doesn't recognize. Always approved
// at floor confidence, never a ticket.
func (r *RuleEngine) defaultBranch() *models.ResolutionOutcome {
	return &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "general", Status: "active"},
		},
		Recommendations: []models.Recommendation{
			{
				Action: "Process using standard workflow",
				Reason: "No specific protocol identified",
			},
		},
		Status:       models.StatusApproved,
		Confidence:   0.5,
		TimeEstimate: "Variable",
		Fallback:     true,
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
