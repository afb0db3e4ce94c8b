package sop

import (
	"context"
	"errors"
	"testing"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTicketCreator struct {
	tickets []string
	err     error
}

func (m *mockTicketCreator) Create(ctx context.Context, title, description, priority string, tags []string, notify bool) (*models.Ticket, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.tickets = append(m.tickets, title)
	return &models.Ticket{ID: "TKT-00000001", Title: title}, nil
}

func TestAnalyzeStep(t *testing.T) {
	tests := []struct {
		name     string
		step     string
		action   string
		layers   []string
		critical bool
	}{
		{
			name:   "refund",
			step:   "Process a refund of $35 to the customer",
			action: ActionRefund,
			layers: []string{"financial"},
		},
		{
			name:   "customer contact",
			step:   "Call the customer to confirm availability",
			action: ActionContactCustomer,
			layers: []string{"customer_service"},
		},
		{
			name:   "equipment restart",
			step:   "Restart the TrackMan unit in bay 4",
			action: ActionEquipmentRestart,
			layers: []string{"equipment", "facilities"},
		},
		{
			name:   "verification",
			step:   "Verify the calibration readings",
			action: ActionVerification,
			layers: []string{"quality_control"},
		},
		{
			name:   "generic",
			step:   "Wipe down the hitting mats",
			action: ActionGenericStep,
			layers: []string{"operations"},
		},
		{
			// refund outranks the contact keyword in the same step
			name:   "refund beats contact",
			step:   "Contact the customer and issue a refund",
			action: ActionRefund,
			layers: []string{"financial"},
		},
		{
			name:     "critical flag",
			step:     "You must restart the projector immediately",
			action:   ActionEquipmentRestart,
			layers:   []string{"equipment", "facilities"},
			critical: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := AnalyzeStep(tt.step)
			assert.Equal(t, tt.action, analysis.Action)
			assert.Equal(t, tt.layers, analysis.Layers)
			assert.Equal(t, tt.critical, analysis.Critical)
		})
	}
}

func TestDispatchRefund(t *testing.T) {
	tickets := &mockTicketCreator{}
	handler := NewActionHandler(tickets, zap.NewNop())

	result := handler.Dispatch(context.Background(), ActionRefund, ActionContext{
		Step:       "Process a refund of $35.00 for the lost session",
		StepNumber: 3,
		SOPTitle:   "Refund Procedure",
	})

	assert.True(t, result.Success)
	assert.Equal(t, 35.0, result.Payload["amount"])
	assert.Equal(t, "TKT-00000001", result.Payload["ticket_id"])
	assert.Equal(t, ActionRefund, result.Payload["action_type"])
	require.Len(t, tickets.tickets, 1)
	assert.Equal(t, "Refund Request - $35.00", tickets.tickets[0])
}

func TestDispatchRefundTicketFailure(t *testing.T) {
	handler := NewActionHandler(&mockTicketCreator{err: errors.New("db closed")}, zap.NewNop())

	result := handler.Dispatch(context.Background(), ActionRefund, ActionContext{
		Step: "Issue a refund of $20",
	})

	assert.False(t, result.Success)
	assert.Equal(t, "db closed", result.Error)
	assert.Equal(t, ActionRefund, result.Payload["action_type"])
}

func TestDispatchCustomerContact(t *testing.T) {
	tickets := &mockTicketCreator{}
	handler := NewActionHandler(tickets, zap.NewNop())

	result := handler.Dispatch(context.Background(), ActionContactCustomer, ActionContext{
		Step: "Email the customer with the updated booking",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "email", result.Payload["contact_method"])
	require.Len(t, tickets.tickets, 1)
	assert.Equal(t, "Customer Contact Required - EMAIL", tickets.tickets[0])
}

func TestDispatchEquipmentRestart(t *testing.T) {
	handler := NewActionHandler(&mockTicketCreator{}, zap.NewNop())

	result := handler.Dispatch(context.Background(), ActionEquipmentRestart, ActionContext{
		Step: "Restart the projector in bay 7",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "projector", result.Payload["equipment"])
	assert.Equal(t, "7", result.Payload["bay"])
}

func TestDispatchEquipmentRestartDefaults(t *testing.T) {
	handler := NewActionHandler(&mockTicketCreator{}, zap.NewNop())

	result := handler.Dispatch(context.Background(), ActionEquipmentRestart, ActionContext{
		Step: "Power cycle the unit",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "unknown", result.Payload["equipment"])
	assert.Equal(t, "all", result.Payload["bay"])
}

func TestDispatchGeneric(t *testing.T) {
	handler := NewActionHandler(&mockTicketCreator{}, zap.NewNop())

	result := handler.Dispatch(context.Background(), ActionGenericStep, ActionContext{
		Step: "Sweep the hitting area",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "Sweep the hitting area", result.Payload["step_summary"])
	assert.Contains(t, result.Payload, "timestamp")
}
