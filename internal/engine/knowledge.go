package engine

import (
	"strings"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
)

// knowledgeEntry ties a keyword set to a solution template. An entry matches
// when any of its keywords appears in the task text.
type knowledgeEntry struct {
	keywords []string
	solution models.Solution
}

// KnowledgeBase holds the facility's procedural answers per task type.
type KnowledgeBase struct {
	equipment  []knowledgeEntry
	procedures []knowledgeEntry
	emergency  []knowledgeEntry
}

// NewKnowledgeBase returns the built-in clubhouse knowledge.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		equipment: []knowledgeEntry{
			{
				keywords: []string{"trackman", "not reading"},
				solution: models.Solution{
					Steps: []string{
						"1. Check ball/club dots are clean and visible",
						"2. Hold power button 5 seconds to restart",
						"3. Verify green alignment box visible on screen",
						"4. Clean camera lens with microfiber cloth (in supply drawer)",
						"5. If not resolved, swap with unit from Bay 7",
					},
					Time:    "5-10 minutes",
					Contact: "Jason: 281-555-0102",
				},
			},
			{
				keywords: []string{"projector", "no image"},
				solution: models.Solution{
					Steps: []string{
						"1. Check projector power (green LED should be on)",
						"2. Press INPUT button - select HDMI 2",
						"3. Check PC in cabinet is powered on",
						"4. Restart both PC and projector",
						"5. Check HDMI cable at both ends",
					},
					Time:    "10 minutes",
					Contact: "Tech Support",
				},
			},
		},
		procedures: []knowledgeEntry{
			{
				keywords: []string{"open"},
				solution: models.Solution{
					Steps: []string{
						"1. Disarm alarm (code in manager book)",
						"2. Turn on main power switches (behind bar)",
						"3. Boot up all simulators",
						"4. Check each bay for left items",
						"5. Test each Trackman (hit one shot)",
						"6. Turn on music system",
						"7. Unlock front door",
						"8. Flip OPEN sign",
					},
					Time:    "30 minutes",
					Contact: "Manager",
				},
			},
			{
				keywords: []string{"close"},
				solution: models.Solution{
					Steps: []string{
						"1. Announce closing 30 min prior",
						"2. Stop new customers 1 hour before close",
						"3. Shut down simulators in order (1-8)",
						"4. Clean all hitting areas",
						"5. Lock alcohol cabinet",
						"6. Set alarm to AWAY mode",
						"7. Text manager when leaving",
					},
					Time:    "45 minutes",
					Contact: "Manager",
				},
			},
		},
		emergency: []knowledgeEntry{
			{
				keywords: []string{"power"},
				solution: models.Solution{
					Steps: []string{
						"1. Check scope (partial or full outage)",
						"2. Main breaker: Behind Bay 3 (gray panel)",
						"3. Emergency lights should activate",
						"4. Call Mike: 281-555-0104",
					},
					Time:    "Immediate",
					Contact: "Mike first, then Building Mgmt",
				},
			},
		},
	}
}

// Solution returns the procedural answer for a classified task. There is
// always a generic branch per type, so a solution is never missing.
func (kb *KnowledgeBase) Solution(ctx *models.ClassifiedContext) models.Solution {
	lower := strings.ToLower(ctx.RawText)

	switch ctx.TaskType {
	case models.TaskEquipmentIssue:
		if s, ok := matchEntry(kb.equipment, lower); ok {
			return s
		}
		return models.Solution{
			Steps: []string{
				"1. Power cycle the equipment (hold power button 10 seconds)",
				"2. Check all cable connections",
				"3. Clean any sensors or lenses",
				"4. Restart associated computer/software",
				"5. Contact technical support if issue persists",
			},
			Time:    "10-15 minutes",
			Contact: "Technical Support",
		}

	case models.TaskEmergency:
		if s, ok := matchEntry(kb.emergency, lower); ok {
			return s
		}
		return models.Solution{
			Steps: []string{
				"1. Ensure immediate safety of staff and customers",
				"2. Contact emergency services if needed (911)",
				"3. Notify management immediately",
				"4. Document the incident",
				"5. Follow up with detailed report",
			},
			Time:    "Immediate",
			Contact: "Emergency Services / Management",
		}

	case models.TaskProcedure:
		if s, ok := matchEntry(kb.procedures, lower); ok {
			return s
		}
		return models.Solution{
			Steps: []string{
				"1. Refer to standard operating procedures manual",
				"2. Contact manager for guidance",
			},
			Time:    "Variable",
			Contact: "Manager",
		}

	default:
		return models.Solution{
			Steps: []string{
				"1. Gather more specific information about the issue",
				"2. Check relevant documentation or procedures",
				"3. Escalate to appropriate staff member",
				"4. Document any actions taken",
			},
			Time:    "5-10 minutes",
			Contact: "Manager",
		}
	}
}

func matchEntry(entries []knowledgeEntry, text string) (models.Solution, bool) {
	for _, entry := range entries {
		if containsAny(text, entry.keywords) {
			return entry.solution, true
		}
	}
	return models.Solution{}, false
}
