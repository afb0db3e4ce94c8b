package sop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/internal/tone"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
	"go.uber.org/zap"
)

// DocumentSource is the external sync collaborator. It returns the full
// document set plus per-document errors; the resolver does not know where
// documents come from.
type DocumentSource interface {
	SyncAll(ctx context.Context) ([]models.ProcedureDocument, []string, error)
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	SyncedCount int       `json:"synced_count"`
	Errors      []string  `json:"errors"`
	LastSync    time.Time `json:"last_sync"`
}

// Resolver is the SOP sub-pipeline: match an issue against cached procedure
// documents, then either cite the best match or execute its steps through the
// action dispatcher.
type Resolver struct {
	cache      *Cache
	source     DocumentSource
	dispatcher Dispatcher
	tickets    TicketCreator
	logger     *zap.Logger
}

// NewResolver creates the SOP resolver.
func NewResolver(cache *Cache, source DocumentSource, dispatcher Dispatcher, tickets TicketCreator, logger *zap.Logger) *Resolver {
	return &Resolver{
		cache:      cache,
		source:     source,
		dispatcher: dispatcher,
		tickets:    tickets,
		logger:     logger,
	}
}

// Refresh re-syncs the document set and atomically swaps the cache.
func (r *Resolver) Refresh(ctx context.Context) (*SyncReport, error) {
	docs, errs, err := r.source.SyncAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("document sync failed: %w", err)
	}

	r.cache.Replace(docs)
	r.logger.Info("SOP cache refreshed",
		zap.Int("synced", len(docs)),
		zap.Int("errors", len(errs)))

	return &SyncReport{
		SyncedCount: len(docs),
		Errors:      errs,
		LastSync:    time.Now(),
	}, nil
}

// Status reports the cache state.
func (r *Resolver) Status() CacheStatus {
	return r.cache.Status()
}

// Resolve matches issue text against the cached documents. An unreachable
// sync source or empty cache is handled like "no matching document", never a
// fatal error.
func (r *Resolver) Resolve(ctx context.Context, issue string, extra map[string]interface{}, autoExecute bool) *models.ResolutionOutcome {
	if r.cache.Stale() {
		if _, err := r.Refresh(ctx); err != nil {
			r.logger.Warn("SOP sync unavailable, resolving against current cache", zap.Error(err))
		}
	}

	match := BestMatch(r.cache.Documents(), issue)
	if match == nil {
		return r.noSOPOutcome(ctx, issue, extra)
	}

	r.logger.Info("SOP matched",
		zap.String("title", match.Doc.Title),
		zap.Int("score", match.Score))

	if !autoExecute {
		return r.referenceOutcome(match)
	}

	return r.executeOutcome(ctx, match, issue, extra)
}

// noSOPOutcome escalates when nothing matches. The escalation ticket is
// created immediately (the draft carries its ID); a persistence failure
// degrades to a draft without a confirmed ID.
func (r *Resolver) noSOPOutcome(ctx context.Context, issue string, extra map[string]interface{}) *models.ResolutionOutcome {
	short := utils.TruncateString(issue, 50)

	draft := &models.TicketDraft{
		Title:       "Manual Resolution Required",
		Description: fmt.Sprintf("No SOP found for: %s", issue),
		Priority:    "medium",
		Tags:        []string{"manual", "no-sop"},
	}

	ticket, err := r.tickets.Create(ctx,
		fmt.Sprintf("No SOP Available: %s", short),
		fmt.Sprintf("Issue reported without existing SOP:\n%s\n\nContext: %v", issue, extra),
		"medium",
		[]string{"no-sop", "documentation-needed", "manual-resolution"},
		false,
	)
	if err != nil {
		r.logger.Error("Escalation ticket creation failed", zap.Error(err))
	} else {
		draft.ID = ticket.ID
	}

	return &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "escalation", Status: "required"},
		},
		Recommendations: []models.Recommendation{
			{
				Action:   "Create SOP for this issue type",
				Reason:   "No existing procedure found",
				Priority: "medium",
			},
			{
				Action:   "Handle manually per staff judgment",
				Reason:   "Automated resolution unavailable",
				Priority: "high",
			},
		},
		Ticket:       draft,
		Status:       models.StatusReviewRequired,
		Confidence:   0.3,
		TimeEstimate: "Manual review required",
		Fallback:     true,
	}
}

// referenceOutcome cites the matched document without side effects.
func (r *Resolver) referenceOutcome(match *Match) *models.ResolutionOutcome {
	outcome := &models.ResolutionOutcome{
		Layers: []models.Layer{
			{Name: "sop", Status: "found"},
		},
		Recommendations: []models.Recommendation{
			{
				Action:   fmt.Sprintf("Follow SOP: %s", match.Doc.Title),
				Reason:   fmt.Sprintf("Relevance score: %d", match.Score),
				Priority: "high",
			},
		},
		Status:       models.StatusApproved,
		Confidence:   0.9,
		TimeEstimate: fmt.Sprintf("%d steps", len(match.Doc.Steps)),
	}
	outcome.SetMeta("sop_title", match.Doc.Title)
	outcome.SetMeta("sop_link", match.Doc.SourceLink)
	outcome.SetMeta("steps", match.Doc.Steps)
	return outcome
}

// executeOutcome runs every non-blank step through the dispatcher. A failed
// step never aborts the loop; partial failure is reflected in the success
// rate, the status mapping and a summary ticket.
func (r *Resolver) executeOutcome(ctx context.Context, match *Match, issue string, extra map[string]interface{}) *models.ResolutionOutcome {
	layerNames := []string{"sop", "operations"}
	seenLayers := map[string]bool{"sop": true, "operations": true}

	var results []models.ExecutionResult

	for idx, step := range match.Doc.Steps {
		if strings.TrimSpace(step) == "" {
			continue
		}

		analysis := AnalyzeStep(step)
		for _, layer := range analysis.Layers {
			if !seenLayers[layer] {
				seenLayers[layer] = true
				layerNames = append(layerNames, layer)
			}
		}

		result := r.dispatcher.Dispatch(ctx, analysis.Action, ActionContext{
			Step:       step,
			StepNumber: idx + 1,
			SOPTitle:   match.Doc.Title,
			Extra:      extra,
		})

		results = append(results, models.ExecutionResult{
			Step:    idx + 1,
			Action:  analysis.Action,
			Success: result.Success,
			Error:   result.Error,
			Payload: result.Payload,
		})
	}

	successRate := 0.0
	if len(results) > 0 {
		successful := 0
		for _, res := range results {
			if res.Success {
				successful++
			}
		}
		successRate = float64(successful) / float64(len(results))
	}

	var status string
	switch {
	case successRate == 1.0:
		status = models.StatusApproved
	case successRate >= 0.5:
		status = models.StatusReviewRequired
	default:
		status = models.StatusRejected
	}

	var recommendations []models.Recommendation
	for _, res := range results {
		if res.Success {
			continue
		}
		reason := res.Error
		if reason == "" {
			reason = "Unknown error"
		}
		recommendations = append(recommendations, models.Recommendation{
			Action:   fmt.Sprintf("Manually complete step %d", res.Step),
			Reason:   fmt.Sprintf("Automated execution failed: %s", reason),
			Priority: "high",
		})
	}
	if len(recommendations) == 0 {
		recommendations = []models.Recommendation{
			{
				Action:   "SOP executed successfully",
				Reason:   fmt.Sprintf("All %d steps completed", len(results)),
				Priority: "low",
			},
		}
	}

	var draft *models.TicketDraft
	if successRate < 1.0 {
		draft = r.partialExecutionTicket(ctx, match, results, successRate)
	}

	outcome := &models.ResolutionOutcome{
		Layers:          make([]models.Layer, 0, len(layerNames)),
		Recommendations: recommendations,
		Ticket:          draft,
		Status:          status,
		Confidence:      successRate,
		TimeEstimate:    fmt.Sprintf("%d steps executed", len(results)),
	}
	for _, name := range layerNames {
		outcome.Layers = append(outcome.Layers, models.Layer{Name: name, Status: "active"})
	}

	outcome.SetMeta("sop_title", match.Doc.Title)
	outcome.SetMeta("sop_link", match.Doc.SourceLink)
	outcome.SetMeta("success_rate", successRate)
	outcome.SetMeta("execution_results", results)
	outcome.SetMeta("execution_summary", tone.OperationalSummary(issue, status, layerNames))

	return outcome
}

func (r *Resolver) partialExecutionTicket(ctx context.Context, match *Match, results []models.ExecutionResult, successRate float64) *models.TicketDraft {
	short := utils.TruncateString(match.Doc.Title, 30)

	priority := "medium"
	if successRate < 0.5 {
		priority = "high"
	}

	description := formatExecutionSummary(match.Doc, results)

	draft := &models.TicketDraft{
		Title:       fmt.Sprintf("SOP Partial Execution: %s", short),
		Description: description,
		Priority:    priority,
		Tags:        []string{"sop-execution", "partial-success"},
	}

	ticket, err := r.tickets.Create(ctx, draft.Title, description, priority, draft.Tags, false)
	if err != nil {
		r.logger.Error("Partial-execution ticket creation failed", zap.Error(err))
		return draft
	}
	draft.ID = ticket.ID
	return draft
}

// formatExecutionSummary lists every step's outcome for the ticket body.
func formatExecutionSummary(doc *models.ProcedureDocument, results []models.ExecutionResult) string {
	lines := []string{
		fmt.Sprintf("SOP: %s", doc.Title),
		fmt.Sprintf("Source: %s", doc.SourceLink),
		"",
		"EXECUTION RESULTS:",
	}

	for _, res := range results {
		mark := "OK"
		detail := "Success"
		if !res.Success {
			mark = "FAIL"
			detail = res.Error
			if detail == "" {
				detail = "Failed"
			}
		}
		lines = append(lines, fmt.Sprintf("[%s] Step %d: %s - %s", mark, res.Step, res.Action, detail))
	}

	return strings.Join(lines, "\n")
}
