package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"rebelbot/internal/config"
	"rebelbot/internal/metrics"
)

const (
	completionTemperature = 0.7
	completionMaxTokens   = 500
)

// CompletionClient sends one system instruction and one user message to the
// completion provider and returns the text of the first choice.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type llmCompletionClient struct {
	llm     llms.Model
	timeout time.Duration
}

func NewCompletionClient(llm llms.Model, timeout time.Duration) CompletionClient {
	return &llmCompletionClient{llm: llm, timeout: timeout}
}

// NewLLM builds the provider selected by cfg.LLMProvider.
func NewLLM(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	if cfg.LLMAPIKey == "" {
		return nil, errors.New("missing api key")
	}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		llm, err := openai.New(
			openai.WithToken(cfg.LLMAPIKey),
			openai.WithBaseURL(cfg.LLMBaseURL),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI-compatible LLM: %w", err)
		}
		return llm, nil
	case config.ProviderGoogleAI:
		llm, err := googleai.New(ctx, googleai.WithAPIKey(cfg.LLMAPIKey), googleai.WithDefaultModel(cfg.LLMModel))
		if err != nil {
			return nil, fmt.Errorf("failed to create Google AI LLM: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func (c *llmCompletionClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(completionTemperature),
		llms.WithMaxTokens(completionMaxTokens),
	)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			metrics.CompletionDurationSeconds.WithLabelValues("timeout").Observe(elapsed.Seconds())
			log.Error().Err(err).Dur("elapsed", elapsed).Msg("Completion call timed out")
			return "", fmt.Errorf("%w after %s", ErrUpstreamTimeout, c.timeout)
		}
		metrics.CompletionDurationSeconds.WithLabelValues("error").Observe(elapsed.Seconds())
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("Completion call failed")
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	metrics.CompletionDurationSeconds.WithLabelValues("ok").Observe(elapsed.Seconds())

	if resp == nil || len(resp.Choices) == 0 {
		log.Warn().Msg("Completion returned no choices")
		return "", fmt.Errorf("%w: no choices", ErrParseFailure)
	}
	log.Debug().Dur("elapsed", elapsed).Int("length", len(resp.Choices[0].Content)).Msg("Completion received")
	return resp.Choices[0].Content, nil
}
