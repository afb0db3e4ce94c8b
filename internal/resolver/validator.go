package resolver

import (
	"encoding/json"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ValidateLLMResponse checks the raw completion payload against the
// ResolutionOutcome shape and decodes it. Returns nil on any violation; the
// caller treats nil as a strategy failure and falls back.
//
// gjson does the shape inspection first so a structurally broken payload is
// rejected before the strict decode.
func ValidateLLMResponse(payload string, logger *zap.Logger) *models.ResolutionOutcome {
	if payload == "" || !gjson.Valid(payload) {
		logger.Warn("LLM payload is not valid JSON")
		return nil
	}

	root := gjson.Parse(payload)

	layers := root.Get("layers")
	if !layers.Exists() || !layers.IsArray() {
		logger.Warn("LLM payload missing layers array")
		return nil
	}

	recs := root.Get("recommendation")
	if !recs.Exists() || !recs.IsArray() {
		logger.Warn("LLM payload missing recommendation array")
		return nil
	}

	status := root.Get("status")
	if !status.Exists() || !models.ValidStatus(status.String()) {
		logger.Warn("LLM payload has invalid status", zap.String("status", status.String()))
		return nil
	}

	confidence := root.Get("confidence")
	if confidence.Type != gjson.Number || confidence.Float() < 0 || confidence.Float() > 1 {
		logger.Warn("LLM payload has invalid confidence", zap.String("confidence", confidence.Raw))
		return nil
	}

	var outcome models.ResolutionOutcome
	if err := json.Unmarshal([]byte(payload), &outcome); err != nil {
		logger.Warn("Failed to decode LLM payload", zap.Error(err))
		return nil
	}

	return &outcome
}
