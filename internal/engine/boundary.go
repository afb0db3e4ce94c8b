package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
)

var dollarAmountRegex = regexp.MustCompile(`\$(\d+)`)

// BoundaryResult is the verdict of a single boundary rule.
type BoundaryResult struct {
	Blocked        bool
	Reason         string
	Recommendation string
}

// BoundaryRule is one independent policy predicate. Rules must be
// side-effect-free; the guard evaluates them in registration order.
type BoundaryRule interface {
	Name() string
	Check(req *models.TaskRequest) BoundaryResult
}

// PricingRule rejects pricing requests above the configured hourly ceiling.
type PricingRule struct {
	Ceiling int
}

func (r *PricingRule) Name() string { return "pricing" }

func (r *PricingRule) Check(req *models.TaskRequest) BoundaryResult {
	task := strings.ToLower(req.Task)
	if !strings.Contains(task, "price") && !strings.Contains(task, "cost") {
		return BoundaryResult{}
	}

	for _, match := range dollarAmountRegex.FindAllStringSubmatch(task, -1) {
		amount, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if amount > r.Ceiling {
			return BoundaryResult{
				Blocked:        true,
				Reason:         fmt.Sprintf("Pricing request $%d exceeds maximum allowed $%d", amount, r.Ceiling),
				Recommendation: fmt.Sprintf("Contact management for pricing above $%d/hour", r.Ceiling),
			}
		}
	}
	return BoundaryResult{}
}

// ContentRule rejects requests containing banned phrases.
type ContentRule struct {
	Prohibited []string
}

func (r *ContentRule) Name() string { return "content" }

func (r *ContentRule) Check(req *models.TaskRequest) BoundaryResult {
	task := strings.ToLower(req.Task)
	for _, phrase := range r.Prohibited {
		if strings.Contains(task, phrase) {
			return BoundaryResult{
				Blocked:        true,
				Reason:         fmt.Sprintf("Request contains prohibited element: %s", phrase),
				Recommendation: "Refer to brand guidelines for approved alternatives",
			}
		}
	}
	return BoundaryResult{}
}

// BoundaryGuard runs the ordered rule list. The first rule that blocks
// short-circuits the rest of the pipeline.
type BoundaryGuard struct {
	rules []BoundaryRule
}

// NewBoundaryGuard creates a guard with the standard rule set.
func NewBoundaryGuard(priceCeiling int, vocab *Vocabulary) *BoundaryGuard {
	return &BoundaryGuard{
		rules: []BoundaryRule{
			&PricingRule{Ceiling: priceCeiling},
			&ContentRule{Prohibited: vocab.ProhibitedPhrases},
		},
	}
}

// AddRule appends a rule without touching existing ones.
func (g *BoundaryGuard) AddRule(rule BoundaryRule) {
	g.rules = append(g.rules, rule)
}

// Check evaluates rules in order and returns the first blocking result.
func (g *BoundaryGuard) Check(req *models.TaskRequest) BoundaryResult {
	for _, rule := range g.rules {
		if result := rule.Check(req); result.Blocked {
			return result
		}
	}
	return BoundaryResult{}
}

// ExtractDollarAmount returns the first dollar amount in text, or 0.
func ExtractDollarAmount(text string) int {
	match := dollarAmountRegex.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return amount
}
