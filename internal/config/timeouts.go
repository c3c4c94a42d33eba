package config

import "time"

// HTTP server timeouts for the webhook listener.
const (
	// WebhookHTTPRead covers reading the small JSON bodies LINE sends.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite must exceed the time spent replying to every event in a batch.
	WebhookHTTPWrite = 65 * time.Second

	// WebhookHTTPIdle is the keep-alive idle timeout.
	WebhookHTTPIdle = 120 * time.Second

	// WebhookHTTPReadHeader bounds slow header delivery.
	WebhookHTTPReadHeader = 5 * time.Second
)

// MaxWebhookBodyBytes caps the webhook request body.
const MaxWebhookBodyBytes = 1 << 20
