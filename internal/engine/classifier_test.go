package engine

import (
	"testing"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifierPrecedence(t *testing.T) {
	classifier := NewClassifier(DefaultVocabulary())

	tests := []struct {
		name           string
		text           string
		wantType       string
		wantConfidence float64
	}{
		{
			name:           "emergency outranks equipment issue",
			text:           "emergency: trackman broken in bay 2",
			wantType:       models.TaskEmergency,
			wantConfidence: 0.95,
		},
		{
			name:           "equipment issue needs equipment and issue terms",
			text:           "trackman not reading shots",
			wantType:       models.TaskEquipmentIssue,
			wantConfidence: 0.9,
		},
		{
			name:           "equipment term alone is not an issue",
			text:           "schedule trackman calibration next week",
			wantType:       models.TaskGeneral,
			wantConfidence: 0.5,
		},
		{
			name:           "procedure lookup",
			text:           "how to run the closing checklist",
			wantType:       models.TaskProcedure,
			wantConfidence: 0.8,
		},
		{
			name:           "unclassifiable falls to general",
			text:           "customer asked about membership rates",
			wantType:       models.TaskGeneral,
			wantConfidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Analyze(tt.text)
			assert.Equal(t, tt.wantType, got.TaskType)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.Equal(t, tt.text, got.RawText)
		})
	}
}

func TestClassifierEntityExtraction(t *testing.T) {
	classifier := NewClassifier(DefaultVocabulary())

	got := classifier.Analyze("Projector and screen showing no image in bay 7 at river oaks")

	assert.Equal(t, models.TaskEquipmentIssue, got.TaskType)
	assert.Equal(t, []string{"projector", "screen"}, got.Equipment)
	assert.Equal(t, "River Oaks", got.Location)
	assert.Equal(t, 7, got.Bay)
}

func TestClassifierNoEntities(t *testing.T) {
	classifier := NewClassifier(DefaultVocabulary())

	got := classifier.Analyze("restock the front desk supplies")

	assert.Empty(t, got.Equipment)
	assert.Empty(t, got.Location)
	assert.Zero(t, got.Bay)
}
