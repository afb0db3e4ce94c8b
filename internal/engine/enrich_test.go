package engine

import (
	"testing"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAssessPriority(t *testing.T) {
	enricher := NewEnricher()

	tests := []struct {
		name string
		ctx  models.ClassifiedContext
		want string
	}{
		{
			name: "emergency alone is critical",
			ctx:  models.ClassifiedContext{TaskType: models.TaskEmergency},
			want: PriorityCritical,
		},
		{
			name: "equipment issue alone is high",
			ctx:  models.ClassifiedContext{TaskType: models.TaskEquipmentIssue},
			want: PriorityHigh,
		},
		{
			name: "equipment issue with bay is critical",
			ctx:  models.ClassifiedContext{TaskType: models.TaskEquipmentIssue, Bay: 3},
			want: PriorityCritical,
		},
		{
			name: "multiple equipment in bay without issue type is medium",
			ctx:  models.ClassifiedContext{TaskType: models.TaskGeneral, Equipment: []string{"trackman", "projector"}},
			want: PriorityMedium,
		},
		{
			name: "bay mention alone is medium",
			ctx:  models.ClassifiedContext{TaskType: models.TaskProcedure, Bay: 1},
			want: PriorityMedium,
		},
		{
			name: "plain general task is low",
			ctx:  models.ClassifiedContext{TaskType: models.TaskGeneral},
			want: PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, enricher.AssessPriority(&tt.ctx))
		})
	}
}

func TestEnhance(t *testing.T) {
	enricher := NewEnricher()

	ctx := &models.ClassifiedContext{
		TaskType:  models.TaskEquipmentIssue,
		Equipment: []string{"trackman"},
		Bay:       3,
	}
	solution := models.Solution{
		Steps:   []string{"1. Power cycle the unit"},
		Time:    "10-15 minutes",
		Contact: "Technical Support",
	}

	enriched := enricher.Enhance(ctx, solution)

	assert.Equal(t, PriorityCritical, enriched.Priority)
	assert.Contains(t, enriched.Resources, "Technical staff")
	assert.Contains(t, enriched.Resources, "Bay downtime coordination")
	assert.Contains(t, enriched.Prevention, "Schedule regular maintenance")
	assert.Equal(t, "Call Technical Support immediately if steps don't work", enriched.ContactDirect)
	assert.Equal(t, solution.Steps, enriched.Steps)
}

func TestEnhanceWithoutContact(t *testing.T) {
	enricher := NewEnricher()

	enriched := enricher.Enhance(&models.ClassifiedContext{TaskType: models.TaskGeneral}, models.Solution{})
	assert.Empty(t, enriched.ContactDirect)
	assert.Equal(t, []string{"Review procedures", "Consider process improvements"}, enriched.Prevention)
}
