// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/garyellow/date-linebot-go/internal/bot"
	"github.com/garyellow/date-linebot-go/internal/buildinfo"
	"github.com/garyellow/date-linebot-go/internal/config"
	"github.com/garyellow/date-linebot-go/internal/genai"
	"github.com/garyellow/date-linebot-go/internal/hotpepper"
	"github.com/garyellow/date-linebot-go/internal/httpclient"
	"github.com/garyellow/date-linebot-go/internal/logger"
	"github.com/garyellow/date-linebot-go/internal/metrics"
	"github.com/garyellow/date-linebot-go/internal/modules/shop"
	"github.com/garyellow/date-linebot-go/internal/modules/suggest"
	"github.com/garyellow/date-linebot-go/internal/sentry"
	"github.com/garyellow/date-linebot-go/internal/webhook"
)

const (
	serviceName = "date-linebot-go"
	projectURL  = "https://github.com/garyellow/date-linebot-go"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg       *config.Config
	logger    *logger.Logger
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	suggester *genai.Client
	shops     *hotpepper.Client
	router    *gin.Engine
	server    *http.Server
}

// Dependencies lets callers replace outbound clients. Nil fields are built from config.
type Dependencies struct {
	Replier    webhook.Replier
	HTTPClient *http.Client
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	return InitializeWith(ctx, cfg, Dependencies{})
}

// InitializeWith is Initialize with injectable outbound clients.
func InitializeWith(ctx context.Context, cfg *config.Config, deps Dependencies) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", serviceName)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog calls (genai, hotpepper) pick up context values through ContextHandler.
	slog.SetDefault(log.Logger)

	log.WithField("release", buildinfo.Release()).Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error reporting enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = httpclient.New(cfg.UpstreamTimeout)
	}

	s, err := genai.NewSuggester(ctx, genai.Config{
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		GeminiModel:   cfg.GeminiModel,
		HTTPClient:    httpClient,
		Metrics:       m,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: %w", err)
	}
	suggester := genai.NewClient(s, m)
	if cfg.HasLLMProvider() {
		log.WithField("provider", s.Provider()).Info("Reply suggestions enabled")
	} else {
		log.Info("No generative provider configured, using fixed suggestions")
	}

	shops := hotpepper.NewClient(hotpepper.Config{
		APIKey:     cfg.HotPepperAPIKey,
		BaseURL:    cfg.HotPepperBaseURL,
		HTTPClient: httpClient,
		Metrics:    m,
	})
	if !cfg.HasShopSearch() {
		log.Info("HotPepper API key not configured, shop search disabled")
	}

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Suggest: suggest.NewHandler(suggester),
		Shop:    shop.NewHandler(shops, m, log),
		Logger:  log,
	})

	replier := deps.Replier
	if replier == nil {
		client, err := webhook.NewReplier(cfg.LineChannelToken, httpClient)
		if err != nil {
			return nil, fmt.Errorf("webhook: %w", err)
		}
		replier = client
	}

	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret: cfg.LineChannelSecret,
		Replier:       replier,
		Processor:     processor,
		Metrics:       m,
		Logger:        log.WithModule("webhook"),
	})

	app := &Application{
		cfg:       cfg,
		logger:    log,
		metrics:   m,
		registry:  registry,
		suggester: suggester,
		shops:     shops,
	}
	app.router = app.newRouter(webhookHandler)

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router,
		ReadHeaderTimeout: config.WebhookHTTPReadHeader,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

func (a *Application) newRouter(webhookHandler *webhook.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/", a.redirectToProject)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.POST("/webhook", webhookHandler.Handle)
	router.POST("/api/line-webhook", webhookHandler.Handle)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return router
}

// Handler returns the HTTP handler serving all routes.
func (a *Application) Handler() http.Handler {
	return a.router
}

func (a *Application) redirectToProject(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, projectURL)
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) getFeatures() map[string]bool {
	return map[string]bool{
		"suggest_llm": a.suggester.Enabled(),
		"shop_search": a.shops != nil && a.shops.Enabled(),
		"sentry":      sentry.IsEnabled(),
	}
}

func (a *Application) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"features": a.getFeatures(),
		"build": gin.H{
			"version":    buildinfo.Version,
			"commit":     buildinfo.Commit,
			"build_date": buildinfo.BuildDate,
			"release":    buildinfo.Release(),
		},
	})
}

// Run serves HTTP until ctx is canceled or SIGINT/SIGTERM arrives, then shuts down.
//
// Shutdown order:
//  1. Stop accepting requests and drain in-flight webhooks
//  2. Close generative clients
//  3. Flush Sentry and remote logs
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Received shutdown signal")
		return a.shutdown()
	})

	return g.Wait()
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	if err := a.suggester.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "suggester").Error("Component close error")
	}

	if sentry.IsEnabled() && !sentry.Flush(2*time.Second) {
		a.logger.Warn("Sentry flush timed out")
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("logger shutdown: %w", err))
	}

	return errors.Join(errs...)
}
