package resolver

import (
	"testing"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRuleEngineEquipmentBranch(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	req := &models.TaskRequest{Task: "TrackMan in bay 3 not working"}
	cc := &models.ClassifiedContext{TaskType: models.TaskEquipmentIssue, Bay: 3}

	outcome := rules.Resolve(req, cc, map[string]interface{}{})

	require.Len(t, outcome.Layers, 2)
	assert.Equal(t, "equipment", outcome.Layers[0].Name)
	assert.Equal(t, "malfunction", outcome.Layers[0].Status)
	assert.Equal(t, "facilities", outcome.Layers[1].Name)
	assert.Equal(t, "affected", outcome.Layers[1].Status)

	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, "Trackman Malfunction - Bay 3", outcome.Ticket.Title)
	assert.Equal(t, "Staff reported: TrackMan in bay 3 not working", outcome.Ticket.Description)
	assert.Contains(t, outcome.Ticket.Tags, "bay-3")

	assert.Equal(t, models.StatusReviewRequired, outcome.Status)
	assert.Equal(t, 0.9, outcome.Confidence)
	assert.True(t, outcome.Fallback)
}

func TestRuleEngineEquipmentBranchUnknownBay(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	outcome := rules.Resolve(
		&models.TaskRequest{Task: "projector showing no image"},
		&models.ClassifiedContext{TaskType: models.TaskEquipmentIssue},
		map[string]interface{}{})

	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, "Projector Malfunction - Bay Unknown", outcome.Ticket.Title)
	assert.Contains(t, outcome.Ticket.Tags, "bay-unknown")
}

func TestRuleEnginePricingBranch(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	outcome := rules.Resolve(
		&models.TaskRequest{Task: "Review the new bay price"},
		&models.ClassifiedContext{TaskType: models.TaskGeneral},
		map[string]interface{}{"current_price": 50})

	require.Len(t, outcome.Layers, 1)
	assert.Equal(t, "pricing", outcome.Layers[0].Name)
	assert.Equal(t, "violation", outcome.Layers[0].Status)

	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, "Pricing Cap Violation", outcome.Ticket.Title)
	assert.Equal(t, models.StatusReviewRequired, outcome.Status)
	assert.Equal(t, 1.0, outcome.Confidence)
	assert.Equal(t, "Immediate", outcome.TimeEstimate)
}

func TestRuleEnginePricingBranchAtCeiling(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	// at the ceiling is compliant; falls through to the default branch
	outcome := rules.Resolve(
		&models.TaskRequest{Task: "Review the new price"},
		&models.ClassifiedContext{TaskType: models.TaskGeneral},
		map[string]interface{}{"current_price": 35})

	assert.Equal(t, models.StatusApproved, outcome.Status)
	assert.Nil(t, outcome.Ticket)
}

func TestRuleEnginePricingBeatsEquipment(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	outcome := rules.Resolve(
		&models.TaskRequest{Task: "Set the trackman bay price higher"},
		&models.ClassifiedContext{TaskType: models.TaskEquipmentIssue},
		map[string]interface{}{"current_price": 60})

	assert.Equal(t, "pricing", outcome.Layers[0].Name)
}

func TestRuleEngineInstallationBranch(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	outcome := rules.Resolve(
		&models.TaskRequest{Task: "Install new screens in the lounge", Priority: "high"},
		&models.ClassifiedContext{TaskType: models.TaskGeneral},
		map[string]interface{}{})

	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, "Installation Request", outcome.Ticket.Title)
	assert.Equal(t, "high", outcome.Ticket.Priority)
	assert.Equal(t, models.StatusApproved, outcome.Status)
	assert.Equal(t, 0.85, outcome.Confidence)
}

func TestRuleEngineProcedureBranch(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	outcome := rules.Resolve(
		&models.TaskRequest{Task: "What is the closing procedure?"},
		&models.ClassifiedContext{TaskType: models.TaskProcedure},
		map[string]interface{}{})

	assert.Nil(t, outcome.Ticket)
	assert.Equal(t, models.StatusApproved, outcome.Status)
	assert.Equal(t, 0.95, outcome.Confidence)
	assert.Equal(t, "As per SOP", outcome.TimeEstimate)
}

func TestRuleEnginePartnershipBranch(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	outcome := rules.Resolve(
		&models.TaskRequest{Task: "Evaluate the new partnership offer"},
		&models.ClassifiedContext{TaskType: models.TaskGeneral},
		map[string]interface{}{})

	require.NotNil(t, outcome.Ticket)
	assert.Equal(t, "Strategic Initiative Review", outcome.Ticket.Title)
	assert.Equal(t, models.StatusReviewRequired, outcome.Status)
	assert.Equal(t, 0.7, outcome.Confidence)
}

func TestRuleEngineDefaultBranch(t *testing.T) {
	rules := NewRuleEngine(35, zap.NewNop())

	outcome := rules.Resolve(
		&models.TaskRequest{Task: "Order more paper towels"},
		&models.ClassifiedContext{TaskType: models.TaskGeneral},
		map[string]interface{}{})

	require.Len(t, outcome.Layers, 1)
	assert.Equal(t, "general", outcome.Layers[0].Name)
	assert.Nil(t, outcome.Ticket)
	assert.Equal(t, models.StatusApproved, outcome.Status)
	assert.Equal(t, 0.5, outcome.Confidence)
	assert.Equal(t, "Variable", outcome.TimeEstimate)
	assert.True(t, outcome.Fallback)
}
