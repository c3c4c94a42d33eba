package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/garyellow/date-linebot-go/internal/metrics"
)

// geminiSuggester calls the Gemini generateContent API.
type geminiSuggester struct {
	client  *genai.Client
	model   string
	metrics *metrics.Metrics
}

// newGeminiSuggester returns nil when apiKey is empty (provider disabled).
func newGeminiSuggester(ctx context.Context, cfg Config) (*geminiSuggester, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, nil //nolint:nilnil // provider disabled without an API key
	}

	model := cfg.GeminiModel
	if model == "" {
		model = DefaultGeminiModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.GeminiBaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.GeminiBaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiSuggester{
		client:  client,
		model:   model,
		metrics: cfg.Metrics,
	}, nil
}

func (s *geminiSuggester) Suggest(ctx context.Context, message string) ([]string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		MaxOutputTokens:   MaxTokens,
		// Thinking tokens count against MaxOutputTokens on 2.5 models.
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(message), config)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordUpstream(ProviderGemini.String(), "error", duration.Seconds())
		return nil, &LLMError{Provider: ProviderGemini, StatusCode: statusCodeOf(err), Err: fmt.Errorf("generate content failed: %w", err)}
	}
	s.metrics.RecordUpstream(ProviderGemini.String(), "success", duration.Seconds())

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return []string{}, nil
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "reply suggestion completed",
			"provider", ProviderGemini,
			"model", s.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return splitSuggestions(text.String()), nil
}

func (s *geminiSuggester) Provider() Provider {
	return ProviderGemini
}

func (s *geminiSuggester) Close() error {
	return nil
}
