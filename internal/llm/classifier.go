// Package llm implements the advisory intent classifier on top of an
// OpenAI-compatible chat API. It is strictly a second opinion: slow or
// broken responses surface as errors that the dialogue machine swallows.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/RuhiModi/exotel-voice-agent/internal/metrics"
	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

const systemPrompt = `You classify a Gujarati caller utterance about an administrative task.
Answer with exactly one word: DONE if the task is finished, PENDING if it is not finished, UNCLEAR otherwise.`

// Classifier asks a chat model whether the task sounds done or pending.
type Classifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewClassifier creates the advisory classifier, or nil when no API key
// is configured so callers can skip it entirely.
func NewClassifier(apiKey, model string, timeout time.Duration, logger zerolog.Logger) *Classifier {
	if apiKey == "" {
		return nil
	}
	return &Classifier{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Classify returns the model's intent label for the utterance. The call
// is bounded by the configured timeout regardless of the caller's ctx.
func (c *Classifier) Classify(ctx context.Context, utterance string) (types.IntentLabel, error) {
	metrics.Get().RecordAdvisorCall()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 4,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: utterance},
		},
	})
	if err != nil {
		metrics.Get().RecordAdvisorFailure()
		return types.IntentUnclear, fmt.Errorf("advisory completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.Get().RecordAdvisorFailure()
		return types.IntentUnclear, fmt.Errorf("advisory completion returned no choices")
	}

	answer := strings.ToUpper(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch {
	case strings.HasPrefix(answer, "DONE"):
		return types.IntentDone, nil
	case strings.HasPrefix(answer, "PENDING"):
		return types.IntentPending, nil
	case strings.HasPrefix(answer, "UNCLEAR"):
		return types.IntentUnclear, nil
	}

	metrics.Get().RecordAdvisorFailure()
	return types.IntentUnclear, fmt.Errorf("advisory completion malformed: %q", answer)
}
