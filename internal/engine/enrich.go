package engine

import (
	"fmt"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
)

// Priority bands produced by the additive score.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Enricher derives strategic context from a classified task. Pure and
// deterministic: no I/O, no randomness.
type Enricher struct{}

// NewEnricher creates an enricher.
func NewEnricher() *Enricher {
	return &Enricher{}
}

// Enhance attaches priority, resources and prevention hints to a solution.
func (e *Enricher) Enhance(ctx *models.ClassifiedContext, solution models.Solution) models.EnrichedSolution {
	enriched := models.EnrichedSolution{
		Solution:   solution,
		Priority:   e.AssessPriority(ctx),
		Resources:  e.identifyResources(ctx),
		Prevention: e.suggestPrevention(ctx),
	}
	if solution.Contact != "" {
		enriched.ContactDirect = fmt.Sprintf("Call %s immediately if steps don't work", solution.Contact)
	}
	return enriched
}

// AssessPriority maps the additive impact score to a four-level band.
// Weights: emergency +5, equipment issue +3, multiple equipment +2, bay +2.
func (e *Enricher) AssessPriority(ctx *models.ClassifiedContext) string {
	score := 0

	if ctx.TaskType == models.TaskEmergency {
		score += 5
	}
	if ctx.TaskType == models.TaskEquipmentIssue {
		score += 3
	}
	if len(ctx.Equipment) > 1 {
		score += 2
	}
	if ctx.Bay > 0 {
		score += 2
	}

	switch {
	case score >= 5:
		return PriorityCritical
	case score >= 3:
		return PriorityHigh
	case score >= 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func (e *Enricher) identifyResources(ctx *models.ClassifiedContext) []string {
	var resources []string
	if ctx.TaskType == models.TaskEquipmentIssue {
		resources = append(resources, "Technical staff", "Replacement parts", "Tools")
	}
	if ctx.Bay > 0 {
		resources = append(resources, "Bay downtime coordination")
	}
	return resources
}

func (e *Enricher) suggestPrevention(ctx *models.ClassifiedContext) []string {
	if ctx.TaskType == models.TaskEquipmentIssue {
		return []string{
			"Schedule regular maintenance",
			"Update equipment monitoring",
			"Staff training on early detection",
		}
	}
	return []string{"Review procedures", "Consider process improvements"}
}
