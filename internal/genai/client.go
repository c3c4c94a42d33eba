package genai

import (
	"context"
	"log/slog"

	"github.com/garyellow/date-linebot-go/internal/metrics"
)

const fallbackService = "suggest"

// NewSuggester builds the provider chain from cfg: OpenAI first, then Gemini.
// It returns nil (and no error) when no provider has an API key.
func NewSuggester(ctx context.Context, cfg Config) (Suggester, error) {
	var chain []Suggester

	if s := newOpenAISuggester(cfg); s != nil {
		chain = append(chain, s)
	}

	gemini, err := newGeminiSuggester(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if gemini != nil {
		chain = append(chain, gemini)
	}

	switch len(chain) {
	case 0:
		return nil, nil //nolint:nilnil // feature disabled without API keys
	case 1:
		return chain[0], nil
	default:
		return NewFallbackSuggester(chain...), nil
	}
}

// Client is the boundary used by the bot: it always yields suggestions.
type Client struct {
	suggester Suggester
	metrics   *metrics.Metrics
}

// NewClient wraps s, which may be nil when no provider is configured.
func NewClient(s Suggester, m *metrics.Metrics) *Client {
	return &Client{suggester: s, metrics: m}
}

// Enabled reports whether any provider is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.suggester != nil
}

// SuggestReplies returns between 0 and MaxSuggestions candidate replies.
//
//   - no provider configured: NoKeyFallback, without network access
//   - every provider failed: DegradedFallback, logged at error level
//   - success: the model's non-blank lines, at most MaxSuggestions
func (c *Client) SuggestReplies(ctx context.Context, message string) []string {
	if !c.Enabled() {
		c.metrics.RecordFallback(fallbackService, "not_configured")
		return clone(NoKeyFallback)
	}

	lines, err := c.suggester.Suggest(ctx, message)
	if err != nil {
		class := ClassifyError(err)
		slog.ErrorContext(ctx, "reply suggestion failed",
			"provider", c.suggester.Provider(),
			"class", class,
			"status", statusCodeOf(err),
			"error", err)
		c.metrics.RecordFallback(fallbackService, string(class))
		return clone(DegradedFallback)
	}
	if len(lines) > MaxSuggestions {
		lines = lines[:MaxSuggestions]
	}
	return lines
}

// Close releases the underlying suggesters.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.suggester.Close()
}

// SuggestReplies is Client.SuggestReplies without metrics.
func SuggestReplies(ctx context.Context, s Suggester, message string) []string {
	return NewClient(s, nil).SuggestReplies(ctx, message)
}

func clone(lines []string) []string {
	return append([]string(nil), lines...)
}
