package engine

import (
	"context"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/internal/tone"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskResolver picks the resolution strategy for a classified task.
// Implemented by the resolver package; never returns nil.
type TaskResolver interface {
	Resolve(ctx context.Context, req *models.TaskRequest, cc *models.ClassifiedContext, taskContext map[string]interface{}) *models.ResolutionOutcome
}

// Ticketing materializes ticket drafts into persisted tickets.
type Ticketing interface {
	CreateFromDraft(ctx context.Context, draft *models.TicketDraft, taskID string, nextSteps []string, notify bool) (*models.Ticket, error)
}

// IncidentLog records every processed request.
type IncidentLog interface {
	Create(ctx context.Context, incident *models.Incident) error
	MarkAssigned(ctx context.Context, id int64) error
}

// Engine coordinates the resolution pipeline: boundary check, classification,
// strategy resolution, enrichment, tone normalization and ticket assembly.
// Stages run in fixed order within a request.
type Engine struct {
	guard      *BoundaryGuard
	classifier *Classifier
	knowledge  *KnowledgeBase
	enricher   *Enricher
	normalizer *tone.Normalizer
	resolver   TaskResolver
	tickets    Ticketing
	incidents  IncidentLog
	logger     *zap.Logger
}

// New creates the pipeline engine. tickets and incidents may be nil in
// reduced deployments; the matching stages are then skipped.
func New(guard *BoundaryGuard, classifier *Classifier, knowledge *KnowledgeBase, enricher *Enricher, resolver TaskResolver, tickets Ticketing, incidents IncidentLog, logger *zap.Logger) *Engine {
	return &Engine{
		guard:      guard,
		classifier: classifier,
		knowledge:  knowledge,
		enricher:   enricher,
		normalizer: tone.NewNormalizer(),
		resolver:   resolver,
		tickets:    tickets,
		incidents:  incidents,
		logger:     logger,
	}
}

// Process runs one request through every pipeline stage and always returns a
// structured outcome. Side-effect failures degrade the response, never abort it.
func (e *Engine) Process(ctx context.Context, req *models.TaskRequest) *models.ResolutionOutcome {
	start := time.Now()
	requestID := uuid.NewString()

	e.logger.Info("Processing task",
		zap.String("request_id", requestID),
		zap.String("task", utils.TruncateString(req.Task, 50)))

	if verdict := e.guard.Check(req); verdict.Blocked {
		e.logger.Warn("Request blocked at boundary",
			zap.String("request_id", requestID),
			zap.String("reason", verdict.Reason))
		return e.blockedOutcome(requestID, verdict, start)
	}

	cc := e.classifier.Analyze(req.Task)
	taskContext := buildTaskContext(req, cc)

	outcome := e.resolver.Resolve(ctx, req, cc, taskContext)

	solution := e.knowledge.Solution(cc)
	enriched := e.enricher.Enhance(cc, solution)

	steps := e.normalizer.NormalizeList(enriched.Steps)
	outcome.Recommendations = e.normalizer.NormalizeRecommendations(outcome.Recommendations)
	if outcome.Ticket != nil {
		e.normalizer.NormalizeDraft(outcome.Ticket)
	}

	if outcome.TimeEstimate == "" || outcome.TimeEstimate == "Variable" {
		outcome.TimeEstimate = enriched.Time
	}

	outcome.SetMeta("request_id", requestID)
	outcome.SetMeta("category", cc.TaskType)
	outcome.SetMeta("priority", enriched.Priority)
	outcome.SetMeta("solution_steps", steps)
	outcome.SetMeta("resources", enriched.Resources)
	outcome.SetMeta("prevention", enriched.Prevention)
	outcome.SetMeta("contact_if_fails", enriched.ContactDirect)

	incident := e.recordIncident(ctx, req, cc, enriched.Priority)

	e.assembleTicket(ctx, req, outcome, requestID, steps, incident)

	elapsed := time.Since(start)
	outcome.SetMeta("processing_time", elapsed.Seconds())
	outcome.SetMeta("layers_processed", layerNames(outcome))

	e.logger.Info("Processing complete",
		zap.String("request_id", requestID),
		zap.String("status", outcome.Status),
		zap.Duration("elapsed", elapsed))

	return outcome
}

func (e *Engine) blockedOutcome(requestID string, verdict BoundaryResult, start time.Time) *models.ResolutionOutcome {
	outcome := &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "boundary", Status: "blocked", Details: verdict.Reason},
		},
		Recommendations: []models.Recommendation{
			{Action: verdict.Recommendation, Reason: verdict.Reason, Priority: "high"},
		},
		Status:       models.StatusBlocked,
		Confidence:   1.0,
		TimeEstimate: "N/A",
	}
	outcome.SetMeta("request_id", requestID)
	outcome.SetMeta("category", "policy_violation")
	outcome.SetMeta("contact_if_fails", "Management")
	outcome.SetMeta("processing_time", time.Since(start).Seconds())
	return outcome
}

// buildTaskContext copies the caller context and injects the request location
// and the dollar amount found in the task text as current_price. The request
// context is never mutated; explicit keys from the caller win.
func buildTaskContext(req *models.TaskRequest, cc *models.ClassifiedContext) map[string]interface{} {
	taskContext := make(map[string]interface{}, len(req.Context)+3)
	for k, v := range req.Context {
		taskContext[k] = v
	}

	if _, ok := taskContext["location"]; !ok && req.Location != "" {
		taskContext["location"] = req.Location
	}
	if _, ok := taskContext["current_price"]; !ok {
		if amount := ExtractDollarAmount(req.Task); amount > 0 {
			taskContext["current_price"] = amount
		}
	}
	if cc.Bay > 0 {
		taskContext["bay"] = cc.Bay
	}

	return taskContext
}

// recordIncident writes the incident row. Failure is logged and the pipeline
// continues without one.
func (e *Engine) recordIncident(ctx context.Context, req *models.TaskRequest, cc *models.ClassifiedContext, priority string) *models.Incident {
	if e.incidents == nil {
		return nil
	}

	incident := &models.Incident{
		Description: req.Task,
		Location:    cc.Location,
		Category:    cc.TaskType,
		Priority:    priority,
		Confidence:  cc.Confidence,
		Status:      "open",
	}
	if err := e.incidents.Create(ctx, incident); err != nil {
		e.logger.Warn("Incident log write failed", zap.Error(err))
		return nil
	}
	return incident
}

// assembleTicket persists the outcome's ticket draft. Ticket generation is on
// unless the caller toggles it off. A persistence failure leaves the draft
// without a confirmed ID; the outcome is still returned.
func (e *Engine) assembleTicket(ctx context.Context, req *models.TaskRequest, outcome *models.ResolutionOutcome, requestID string, nextSteps []string, incident *models.Incident) {
	if outcome.Ticket == nil || e.tickets == nil || !req.Toggle("generate_ticket", true) {
		return
	}

	notify := req.Toggle("send_notification", false)
	ticket, err := e.tickets.CreateFromDraft(ctx, outcome.Ticket, requestID, nextSteps, notify)
	if err != nil {
		e.logger.Error("Ticket persistence failed, returning degraded response",
			zap.String("request_id", requestID),
			zap.Error(err))
		outcome.SetMeta("ticket_error", "ticket could not be persisted")
		return
	}

	outcome.Ticket.ID = ticket.ID
	outcome.SetMeta("ticket_created", ticket.ID)

	if incident != nil {
		if err := e.incidents.MarkAssigned(ctx, incident.ID); err != nil {
			e.logger.Warn("Failed to link incident to ticket",
				zap.Int64("incident_id", incident.ID),
				zap.Error(err))
		}
	}
}

func layerNames(outcome *models.ResolutionOutcome) []string {
	names := make([]string, 0, len(outcome.Layers))
	for _, layer := range outcome.Layers {
		names = append(names, layer.Name)
	}
	return names
}
