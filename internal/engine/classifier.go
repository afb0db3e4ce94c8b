package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
)

var bayNumberRegex = regexp.MustCompile(`bay\s*(\d+)`)

// detectionRule pairs a task type with its predicate. Rules are evaluated in
// priority order and the first match wins; emergencies outrank equipment
// issues, which outrank procedure lookups.
type detectionRule struct {
	taskType   string
	confidence float64
	match      func(text string) bool
}

// Classifier categorizes free-text tasks and extracts entities. The keyword
// sets come from the vocabulary, not from code.
type Classifier struct {
	vocab *Vocabulary
	rules []detectionRule
}

// NewClassifier creates a classifier over the given vocabulary.
func NewClassifier(vocab *Vocabulary) *Classifier {
	c := &Classifier{vocab: vocab}
	c.rules = []detectionRule{
		{
			taskType:   models.TaskEmergency,
			confidence: 0.95,
			match: func(text string) bool {
				return containsAny(text, vocab.EmergencyTerms)
			},
		},
		{
			taskType:   models.TaskEquipmentIssue,
			confidence: 0.9,
			match: func(text string) bool {
				return containsAny(text, vocab.EquipmentTerms) && containsAny(text, vocab.IssueTerms)
			},
		},
		{
			taskType:   models.TaskProcedure,
			confidence: 0.8,
			match: func(text string) bool {
				return containsAny(text, vocab.ProcedureTerms)
			},
		},
	}
	return c
}

// Analyze classifies text into a task type and extracts entities. Entity
// extraction runs regardless of which rule matched. Unmatched text is never an
// error; it resolves to the general type with floor confidence.
func (c *Classifier) Analyze(text string) *models.ClassifiedContext {
	lower := strings.ToLower(text)

	ctx := &models.ClassifiedContext{
		TaskType:   models.TaskGeneral,
		RawText:    text,
		Equipment:  c.extractEquipment(lower),
		Location:   c.extractLocation(lower),
		Bay:        extractBay(lower),
		Confidence: 0.5,
	}

	for _, rule := range c.rules {
		if rule.match(lower) {
			ctx.TaskType = rule.taskType
			ctx.Confidence = rule.confidence
			break
		}
	}

	return ctx
}

func (c *Classifier) extractEquipment(text string) []string {
	var found []string
	for _, eq := range c.vocab.EquipmentTerms {
		if strings.Contains(text, eq) {
			found = append(found, eq)
		}
	}
	return found
}

func (c *Classifier) extractLocation(text string) string {
	for _, loc := range c.vocab.Locations {
		if strings.Contains(text, loc) {
			return titleCase(loc)
		}
	}
	return ""
}

func extractBay(text string) int {
	match := bayNumberRegex.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	bay, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return bay
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
