// Package genai generates reply suggestions with hosted LLM APIs.
//
// Architecture:
//   - OpenAI (and compatible endpoints): github.com/openai/openai-go/v3
//   - Gemini: google.golang.org/genai (official SDK)
//
// Providers are tried in order, each exactly once. Callers use
// Client.SuggestReplies, which never fails: missing keys and upstream
// errors both resolve to fixed suggestion lists.
package genai

import (
	"context"
	"net/http"

	"github.com/garyellow/date-linebot-go/internal/metrics"
)

// Provider represents an LLM provider.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Suggester produces up to MaxSuggestions candidate replies to a message.
type Suggester interface {
	// Suggest returns the trimmed, non-empty lines of the model output.
	Suggest(ctx context.Context, message string) ([]string, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the suggester.
	Close() error
}

// Config holds credentials and tuning for every provider.
type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string // empty = api.openai.com
	OpenAIModel   string

	GeminiAPIKey  string
	GeminiBaseURL string // empty = SDK default
	GeminiModel   string

	// HTTPClient is shared by both SDKs. nil uses each SDK's default client.
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Generation parameters shared by both providers.
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-2.5-flash"

	Temperature    = 0.7
	MaxTokens      = 200
	MaxSuggestions = 3
)
