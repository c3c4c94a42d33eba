package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal *prometheus.CounterVec

	// Event metrics
	EventsTotal          *prometheus.CounterVec
	EventDurationSeconds *prometheus.HistogramVec
	ReplyTotal           *prometheus.CounterVec

	// Upstream API metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamDurationSeconds *prometheus.HistogramVec
	FallbackTotal           *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_webhook_requests_total",
				Help: "Total number of webhook requests by outcome",
			},
			[]string{"status"}, // status: ok, invalid_signature, invalid_payload
		),

		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_events_total",
				Help: "Total number of handled text events by command and status",
			},
			[]string{"command", "status"}, // status: success, fallback
		),

		EventDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linebot_event_duration_seconds",
				Help:    "Time to build and send a reply, by command",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"command"},
		),

		ReplyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_reply_total",
				Help: "Total number of reply API calls by status",
			},
			[]string{"status"}, // status: success, error
		),

		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_upstream_requests_total",
				Help: "Total number of third-party API calls by service and status",
			},
			[]string{"service", "status"}, // service: openai, gemini, hotpepper
		),

		UpstreamDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linebot_upstream_duration_seconds",
				Help:    "Third-party API call duration in seconds by service",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"service"},
		),

		FallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linebot_fallback_total",
				Help: "Total number of fixed fallback replies by service and reason",
			},
			[]string{"service", "reason"}, // reason: not_configured, error, empty
		),
	}
}

// RecordWebhook records a webhook request outcome.
func (m *Metrics) RecordWebhook(status string) {
	if m == nil {
		return
	}
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
}

// RecordEvent records a handled event and how long it took.
func (m *Metrics) RecordEvent(command, status string, duration float64) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(command, status).Inc()
	m.EventDurationSeconds.WithLabelValues(command).Observe(duration)
}

// RecordReply records a reply API call outcome.
func (m *Metrics) RecordReply(status string) {
	if m == nil {
		return
	}
	m.ReplyTotal.WithLabelValues(status).Inc()
}

// RecordUpstream records a third-party API call.
func (m *Metrics) RecordUpstream(service, status string, duration float64) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(service, status).Inc()
	m.UpstreamDurationSeconds.WithLabelValues(service).Observe(duration)
}

// RecordFallback records a fixed fallback reply.
func (m *Metrics) RecordFallback(service, reason string) {
	if m == nil {
		return
	}
	m.FallbackTotal.WithLabelValues(service, reason).Inc()
}
