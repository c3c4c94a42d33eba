package genai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/garyellow/date-linebot-go/internal/metrics"
)

// openaiSuggester calls an OpenAI-compatible chat completions endpoint.
type openaiSuggester struct {
	client  openai.Client
	model   string
	metrics *metrics.Metrics
}

// newOpenAISuggester returns nil when apiKey is empty (provider disabled).
func newOpenAISuggester(cfg Config) *openaiSuggester {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}

	model := cfg.OpenAIModel
	if model == "" {
		model = DefaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithMaxRetries(0), // one attempt per call
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &openaiSuggester{
		client:  openai.NewClient(opts...),
		model:   model,
		metrics: cfg.Metrics,
	}
}

func (s *openaiSuggester) Suggest(ctx context.Context, message string) ([]string, error) {
	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(message),
		},
		Temperature: openai.Float(Temperature),
		MaxTokens:   openai.Int(MaxTokens),
	}

	start := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordUpstream(ProviderOpenAI.String(), "error", duration.Seconds())
		return nil, &LLMError{Provider: ProviderOpenAI, StatusCode: statusCodeOf(err), Err: fmt.Errorf("chat completion failed: %w", err)}
	}
	s.metrics.RecordUpstream(ProviderOpenAI.String(), "success", duration.Seconds())

	if len(resp.Choices) == 0 {
		return []string{}, nil
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "reply suggestion completed",
			"provider", ProviderOpenAI,
			"model", s.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"duration_ms", duration.Milliseconds())
	}

	return splitSuggestions(resp.Choices[0].Message.Content), nil
}

func (s *openaiSuggester) Provider() Provider {
	return ProviderOpenAI
}

func (s *openaiSuggester) Close() error {
	return nil
}
