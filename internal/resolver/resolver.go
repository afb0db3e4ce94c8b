// Package resolver selects between the LLM-backed strategy and the
// deterministic rule table, and guarantees that every request yields a valid
// outcome regardless of how the LLM path fails.
package resolver

import (
	"context"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"go.uber.org/zap"
)

// completer is what Resolver needs from the LLM client.
type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Resolver runs the chosen strategy with total fallback. Resolve never
// returns an error: any LLM failure (timeout, transport, malformed payload,
// schema violation) lands in the rule table, which is total.
type Resolver struct {
	llm          completer // nil when the LLM strategy is unavailable
	prompts      *PromptConfig
	rules        *RuleEngine
	priceCeiling int
	logger       *zap.Logger
}

// New creates a resolver. llm may be nil.
func New(llm *LLMClient, prompts *PromptConfig, rules *RuleEngine, priceCeiling int, logger *zap.Logger) *Resolver {
	r := &Resolver{
		prompts:      prompts,
		rules:        rules,
		priceCeiling: priceCeiling,
		logger:       logger,
	}
	if llm != nil {
		r.llm = llm
	}
	return r
}

// Resolve produces an outcome for the request. The use_llm toggle selects the
// strategy; when it is off or the client is absent, the rule table runs
// directly without attempting the network call.
func (r *Resolver) Resolve(ctx context.Context, req *models.TaskRequest, cc *models.ClassifiedContext, taskContext map[string]interface{}) *models.ResolutionOutcome {
	if r.llm == nil || !req.Toggle("use_llm", true) {
		return r.rules.Resolve(req, cc, taskContext)
	}

	if outcome := r.tryLLM(ctx, req, taskContext); outcome != nil {
		return outcome
	}

	r.logger.Warn("LLM strategy failed, falling back to rules")
	return r.rules.Resolve(req, cc, taskContext)
}

// tryLLM makes exactly one completion attempt. Returns nil on any failure.
func (r *Resolver) tryLLM(ctx context.Context, req *models.TaskRequest, taskContext map[string]interface{}) *models.ResolutionOutcome {
	userPrompt, err := r.prompts.BuildTaskPrompt(req, taskContext, r.priceCeiling)
	if err != nil {
		r.logger.Error("Failed to build task prompt", zap.Error(err))
		return nil
	}

	payload, err := r.llm.Complete(ctx, r.prompts.System, userPrompt)
	if err != nil {
		r.logger.Warn("LLM completion failed", zap.Error(err))
		return nil
	}

	outcome := ValidateLLMResponse(payload, r.logger)
	if outcome == nil {
		return nil
	}

	r.logger.Info("LLM strategy produced valid outcome",
		zap.String("status", outcome.Status),
		zap.Float64("confidence", outcome.Confidence))
	return outcome
}
