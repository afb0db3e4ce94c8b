package resolver

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LLMConfig holds completion service parameters.
type LLMConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// LLMClient wraps the OpenAI chat completion API. One attempt per request,
// bounded by the configured timeout; the caller falls back on any failure.
type LLMClient struct {
	client  *openai.Client
	model   string
	temp    float32
	maxTok  int
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMClient creates an LLM client. Returns nil when no API key is
// configured; the resolver treats a nil client as "strategy disabled".
func NewLLMClient(cfg LLMConfig, logger *zap.Logger) *LLMClient {
	if cfg.APIKey == "" {
		logger.Warn("OpenAI API key not configured, LLM strategy disabled")
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &LLMClient{
		client:  openai.NewClient(cfg.APIKey),
		model:   cfg.Model,
		temp:    cfg.Temperature,
		maxTok:  cfg.MaxTokens,
		timeout: timeout,
		logger:  logger,
	}
}

// Complete sends the prompt pair and returns the raw response content.
func (c *LLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temp,
		MaxTokens:   c.maxTok,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
