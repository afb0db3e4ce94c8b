package engine

import (
	"testing"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPricingRule(t *testing.T) {
	rule := &PricingRule{Ceiling: 35}

	tests := []struct {
		name        string
		task        string
		wantBlocked bool
	}{
		{"price above ceiling", "Set bay price to $50 per hour", true},
		{"cost above ceiling", "What would it cost at $40?", true},
		{"price at ceiling", "Set bay price to $35 per hour", false},
		{"price below ceiling", "Set bay price to $30 per hour", false},
		{"amount without price wording", "Refund the customer $50", false},
		{"no dollar amount", "Update the price list", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rule.Check(&models.TaskRequest{Task: tt.task})
			assert.Equal(t, tt.wantBlocked, result.Blocked)
			if tt.wantBlocked {
				assert.NotEmpty(t, result.Reason)
				assert.NotEmpty(t, result.Recommendation)
			}
		})
	}
}

func TestContentRule(t *testing.T) {
	rule := &ContentRule{Prohibited: []string{"off-white", "corporate tone", "dynamic pricing"}}

	blocked := rule.Check(&models.TaskRequest{Task: "Enable dynamic pricing for weekend bays"})
	assert.True(t, blocked.Blocked)
	assert.Contains(t, blocked.Reason, "dynamic pricing")

	clear := rule.Check(&models.TaskRequest{Task: "TrackMan in bay 3 not working"})
	assert.False(t, clear.Blocked)
}

func TestBoundaryGuardShortCircuit(t *testing.T) {
	guard := NewBoundaryGuard(35, DefaultVocabulary())

	// A $50 pricing request never clears the guard.
	result := guard.Check(&models.TaskRequest{Task: "Raise the bay price to $50"})
	assert.True(t, result.Blocked)
	assert.Contains(t, result.Reason, "$50")

	result = guard.Check(&models.TaskRequest{Task: "Check the bay 3 projector"})
	assert.False(t, result.Blocked)
}

func TestExtractDollarAmount(t *testing.T) {
	assert.Equal(t, 50, ExtractDollarAmount("price is $50 per hour"))
	assert.Equal(t, 35, ExtractDollarAmount("$35 then $40"))
	assert.Equal(t, 0, ExtractDollarAmount("no amount here"))
}
