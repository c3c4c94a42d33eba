package config

// Environment variable keys read by Load.
//
//nolint:gosec // Keys, not credentials.
const (
	// Core (Required)
	EnvLineChannelSecret      = "LINE_CHANNEL_SECRET"
	EnvLineChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"

	// Generative providers
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvOpenAIModel   = "OPENAI_MODEL"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvGeminiBaseURL = "GEMINI_BASE_URL"
	EnvGeminiModel   = "GEMINI_MODEL"

	// Shop search
	EnvHotPepperAPIKey  = "HOTPEPPER_API_KEY"
	EnvHotPepperBaseURL = "HOTPEPPER_BASE_URL"

	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvUpstreamTimeout = "UPSTREAM_TIMEOUT"

	// Observability
	EnvMetricsUsername     = "METRICS_USERNAME"
	EnvMetricsPassword     = "METRICS_PASSWORD"
	EnvSentryDSN           = "SENTRY_DSN"
	EnvSentryEnvironment   = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate    = "SENTRY_SAMPLE_RATE"
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"
)
