package sop

import (
	"strings"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
)

// Relevance weights. Title word matches dominate, equipment mentions beat
// generic keywords, a full-query substring match is a weak signal.
const (
	titleWordWeight = 10
	keywordWeight   = 5
	equipmentWeight = 8
	contentWeight   = 3
)

// Score computes the relevance of one document against a query. Zero means
// the document is not a candidate.
func Score(doc *models.ProcedureDocument, query string) int {
	queryLower := strings.ToLower(query)

	titleWords := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(doc.Title)) {
		titleWords[word] = true
	}

	score := 0

	// Whole-word title matches only; substring matching would let filler
	// words ("a", "the") score against every document.
	for _, word := range strings.Fields(queryLower) {
		if titleWords[word] {
			score += titleWordWeight
		}
	}

	for _, keyword := range doc.Keywords {
		if strings.Contains(queryLower, strings.ToLower(keyword)) {
			score += keywordWeight
		}
	}

	for _, equipment := range doc.Equipment {
		if strings.Contains(queryLower, strings.ToLower(equipment)) {
			score += equipmentWeight
		}
	}

	if strings.Contains(strings.ToLower(doc.Content), queryLower) {
		score += contentWeight
	}

	return score
}

// Match is a scored candidate document.
type Match struct {
	Doc   *models.ProcedureDocument
	Score int
}

// BestMatch returns the highest-scoring document for the query, or nil when
// nothing scores above zero. Ties go to the earlier document in sync order,
// so selection is deterministic run to run.
func BestMatch(docs []models.ProcedureDocument, query string) *Match {
	var best *Match
	for i := range docs {
		score := Score(&docs[i], query)
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{Doc: &docs[i], Score: score}
		}
	}
	return best
}
