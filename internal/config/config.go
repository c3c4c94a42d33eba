// Package config provides application configuration management.
// It loads settings from a .env file (when present) and environment
// variables, applying defaults for everything except the LINE secrets.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelSecret string `env:"LINE_CHANNEL_SECRET"`
	LineChannelToken  string `env:"LINE_CHANNEL_ACCESS_TOKEN"`

	// Generative providers. OpenAI is tried first, Gemini second.
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// HotPepper Gourmet search
	HotPepperAPIKey  string `env:"HOTPEPPER_API_KEY"`
	HotPepperBaseURL string `env:"HOTPEPPER_BASE_URL" envDefault:"https://webservice.recruit.co.jp"`

	// Server Configuration
	Port            string        `env:"PORT" envDefault:"10000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"0s"` // 0 = no client timeout

	// Metrics Authentication
	MetricsUsername string `env:"METRICS_USERNAME" envDefault:"prometheus"`
	MetricsPassword string `env:"METRICS_PASSWORD"` // empty = no auth

	// Sentry
	SentryDSN         string  `env:"SENTRY_DSN"`
	SentryEnvironment string  `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	SentrySampleRate  float64 `env:"SENTRY_SAMPLE_RATE" envDefault:"1.0"`

	// Better Stack log shipping
	BetterStackToken    string `env:"BETTERSTACK_TOKEN"`
	BetterStackEndpoint string `env:"BETTERSTACK_ENDPOINT"`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first; a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelSecret == "" {
		errs = append(errs, errors.New(EnvLineChannelSecret+" is required"))
	}
	if c.LineChannelToken == "" {
		errs = append(errs, errors.New(EnvLineChannelAccessToken+" is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.UpstreamTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvUpstreamTimeout, c.UpstreamTimeout))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}
	for key, raw := range map[string]string{
		EnvHotPepperBaseURL: c.HotPepperBaseURL,
		EnvOpenAIBaseURL:    c.OpenAIBaseURL,
		EnvGeminiBaseURL:    c.GeminiBaseURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", key, raw))
		}
	}

	return errors.Join(errs...)
}

// HasLLMProvider reports whether at least one generative provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.OpenAIAPIKey != "" || c.GeminiAPIKey != ""
}

// HasShopSearch reports whether the HotPepper search is configured.
func (c *Config) HasShopSearch() bool {
	return c.HotPepperAPIKey != ""
}
