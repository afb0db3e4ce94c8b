// Package tone rewrites free text into the facility's operational voice:
// direct, brief, no corporate fluff. All transforms are deterministic string
// rewrites, and Normalize is idempotent — the pipeline may run it over ticket
// fields that were already normalized in an earlier request.
package tone

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/clubhousegolfcanada/ClubOS/pkg/utils"
)

// fluffPhrases are removed together with the rest of their sentence.
var fluffPhrases = []string{
	"I understand your",
	"I'd be happy to",
	"Let me help you with",
	"Thank you for",
	"Please feel free to",
	"If you have any questions",
	"Is there anything else",
	"I hope this helps",
	"Just to clarify",
	"As an AI assistant",
	"I appreciate your",
	"Would you like me to",
	"It seems like",
	"I think that",
	"In my opinion",
}

// replacements maps corporate speak to operational speak. Replacement values
// must never contain a key, or normalization would not reach a fixed point.
var replacements = [][2]string{
	{"leverage", "use"},
	{"utilize", "use"},
	{"implement", "do"},
	{"facilitate", "help"},
	{"optimize", "improve"},
	{"synergize", "work together"},
	{"ideate", "think"},
	{"circle back", "follow up"},
	{"touch base", "talk"},
	{"deep dive", "review"},
	{"bandwidth", "time"},
	{"deliverables", "work"},
	{"action items", "tasks"},
	{"going forward", "next"},
	{"at the end of the day", ""},
	{"low hanging fruit", "easy fixes"},
	{"move the needle", "make progress"},
	{"think outside the box", "try new approaches"},
}

var weakWords = []string{"might", "perhaps", "maybe", "possibly", "could"}

var (
	fluffRegexes   []*regexp.Regexp
	replaceRegexes []*regexp.Regexp
	weakRegexes    []*regexp.Regexp
	leadingModal   = regexp.MustCompile(`(?i)\byou (can|should|need to) `)
	thereIsARegex  = regexp.MustCompile(`(?i)\bthere (is a|are) `)
	multiSpace     = regexp.MustCompile(`\s+`)
	spaceBeforeP   = regexp.MustCompile(`\s+([.,!?;:])`)
	leadingPunct   = regexp.MustCompile(`^[.,\s]+`)
)

func init() {
	for _, phrase := range fluffPhrases {
		fluffRegexes = append(fluffRegexes,
			regexp.MustCompile(`(?i)`+regexp.QuoteMeta(phrase)+`[^.!?]*[.!?]?`))
	}
	for _, pair := range replacements {
		replaceRegexes = append(replaceRegexes,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(pair[0])+`\b`))
	}
	for _, word := range weakWords {
		weakRegexes = append(weakRegexes,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
}

// Normalizer applies the facility tone filter.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize rewrites text in operational voice. Applying it twice yields the
// same result as applying it once.
func (n *Normalizer) Normalize(text string) string {
	out := text

	// 1. Strip fluff phrases through the end of the sentence.
	for _, re := range fluffRegexes {
		out = re.ReplaceAllString(out, "")
	}

	// 2. Corporate speak to plain language.
	for i, re := range replaceRegexes {
		out = re.ReplaceAllString(out, replacements[i][1])
	}

	// 3. Remove weak modal words.
	for _, re := range weakRegexes {
		out = re.ReplaceAllString(out, "")
	}

	// 4. Imperative voice: drop leading hedges, collapse "there is/are".
	out = leadingModal.ReplaceAllString(out, "")
	out = thereIsARegex.ReplaceAllString(out, "")

	// 5. Whitespace and punctuation cleanup.
	out = multiSpace.ReplaceAllString(out, " ")
	out = spaceBeforeP.ReplaceAllString(out, "$1")
	out = leadingPunct.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// NormalizeList normalizes each element, preserving order and length.
func (n *Normalizer) NormalizeList(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = n.Normalize(item)
	}
	return out
}

// NormalizeRecommendations rewrites action and reason fields in place-order.
func (n *Normalizer) NormalizeRecommendations(recs []models.Recommendation) []models.Recommendation {
	out := make([]models.Recommendation, len(recs))
	for i, rec := range recs {
		out[i] = models.Recommendation{
			Action:   capitalize(n.Normalize(rec.Action)),
			Reason:   n.Normalize(rec.Reason),
			Priority: rec.Priority,
		}
	}
	return out
}

// NormalizeDraft rewrites a ticket draft's title and description.
func (n *Normalizer) NormalizeDraft(draft *models.TicketDraft) {
	if draft == nil {
		return
	}
	draft.Title = n.Normalize(draft.Title)
	draft.Description = n.Normalize(draft.Description)
}

// OperationalSummary produces a one-line status brief:
// [STATUS] task… | layer/layer
func OperationalSummary(task, status string, layers []string) string {
	short := utils.TruncateString(task, 40)
	if short != task {
		short += "..."
	}

	if len(layers) > 3 {
		layers = layers[:3]
	}

	statusText := strings.ToUpper(status)
	switch status {
	case models.StatusApproved:
		statusText = "CLEAR"
	case models.StatusRejected:
		statusText = "BLOCKED"
	case models.StatusReviewRequired:
		statusText = "REVIEW"
	}

	return fmt.Sprintf("[%s] %s | %s", statusText, short, strings.Join(layers, "/"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
