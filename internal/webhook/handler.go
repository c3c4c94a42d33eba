// Package webhook receives LINE webhook callbacks and replies to each text message.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/garyellow/date-linebot-go/internal/bot"
	"github.com/garyellow/date-linebot-go/internal/config"
	"github.com/garyellow/date-linebot-go/internal/ctxutil"
	domerrors "github.com/garyellow/date-linebot-go/internal/errors"
	"github.com/garyellow/date-linebot-go/internal/logger"
	"github.com/garyellow/date-linebot-go/internal/metrics"
	"github.com/garyellow/date-linebot-go/internal/sentry"
)

// Replier sends a reply. *messaging_api.MessagingApiAPI satisfies it.
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Processor turns message text into the messages of one reply.
type Processor interface {
	ProcessText(ctx context.Context, text string) (bot.Command, []messaging_api.MessageInterface)
}

// Handler handles LINE webhook events
type Handler struct {
	channelSecret string
	replier       Replier
	processor     Processor
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	ChannelSecret string
	Replier       Replier
	Processor     Processor
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		channelSecret: cfg.ChannelSecret,
		replier:       cfg.Replier,
		processor:     cfg.Processor,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
	}
}

// NewReplier creates the LINE reply client for a channel access token.
func NewReplier(channelToken string, httpClient *http.Client) (*messaging_api.MessagingApiAPI, error) {
	var opts []messaging_api.MessagingApiAPIOption
	if httpClient != nil {
		opts = append(opts, messaging_api.WithHTTPClient(httpClient))
	}
	client, err := messaging_api.NewMessagingApiAPI(channelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return client, nil
}

// envelope is the callback body with events left undecoded, so one bad
// event is skipped instead of failing the whole batch.
type envelope struct {
	Destination string            `json:"destination"`
	Events      []json.RawMessage `json:"events"`
}

type response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Handle is the Gin handler for the webhook endpoint.
// Events are processed in payload order before the response is written.
func (h *Handler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxWebhookBodyBytes))
	if err != nil {
		h.fail(c, fmt.Errorf("%w: read body: %w", domerrors.ErrMalformedPayload, err))
		return
	}

	if !VerifySignature(h.channelSecret, c.GetHeader(SignatureHeader), body) {
		h.logger.WarnContext(ctx, "Invalid webhook signature")
		h.metrics.RecordWebhook("invalid_signature")
		c.JSON(http.StatusUnauthorized, response{Error: domerrors.ErrInvalidSignature.Error()})
		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.fail(c, fmt.Errorf("%w: %w", domerrors.ErrMalformedPayload, err))
		return
	}

	start := time.Now()
	processingCtx := ctxutil.PreserveTracing(ctx)
	for i, raw := range env.Events {
		event, err := webhook.UnmarshalEvent(raw)
		if err != nil {
			h.logger.WithError(err).WarnContext(ctx, "Skipping undecodable event", "index", i)
			continue
		}
		h.processEvent(processingCtx, event)
	}

	h.metrics.RecordWebhook("ok")
	h.logger.DebugContext(ctx, "Webhook processed",
		"event_count", len(env.Events),
		"duration_ms", time.Since(start).Milliseconds())
	c.JSON(http.StatusOK, response{OK: true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	ctx := c.Request.Context()
	h.logger.WithError(err).ErrorContext(ctx, "Failed to parse webhook request")
	h.metrics.RecordWebhook("invalid_payload")
	sentry.CaptureException(ctx, err, map[string]string{"component": "webhook"})
	c.JSON(http.StatusInternalServerError, response{Error: domerrors.ErrMalformedPayload.Error()})
}

// textEvent is the part of a text message event the bot uses.
type textEvent struct {
	id         string
	replyToken string
	source     webhook.SourceInterface
	text       string
}

// asTextEvent reports whether event is a message event carrying text.
func asTextEvent(event webhook.EventInterface) (textEvent, bool) {
	var e *webhook.MessageEvent
	switch v := event.(type) {
	case webhook.MessageEvent:
		e = &v
	case *webhook.MessageEvent:
		e = v
	default:
		return textEvent{}, false
	}

	var text string
	switch m := e.Message.(type) {
	case webhook.TextMessageContent:
		text = m.Text
	case *webhook.TextMessageContent:
		text = m.Text
	default:
		return textEvent{}, false
	}

	return textEvent{
		id:         e.WebhookEventId,
		replyToken: e.ReplyToken,
		source:     e.Source,
		text:       text,
	}, true
}

// processEvent answers a single event with at most one reply call.
func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) {
	ev, ok := asTextEvent(event)
	if !ok {
		h.logger.DebugContext(ctx, "Skipping unsupported event", "event_type", fmt.Sprintf("%T", event))
		return
	}

	if userID := bot.GetUserID(ev.source); userID != "" {
		ctx = ctxutil.WithUserID(ctx, userID)
	}
	if chatID := bot.GetChatID(ev.source); chatID != "" {
		ctx = ctxutil.WithChatID(ctx, chatID)
	}

	log := h.logger
	if ev.id != "" {
		log = log.WithField("webhook_event_id", ev.id)
	}

	start := time.Now()
	cmd, messages := h.processor.ProcessText(ctx, ev.text)
	h.metrics.RecordEvent(string(cmd.Kind), "success", time.Since(start).Seconds())

	if ev.replyToken == "" {
		log.DebugContext(ctx, "Empty reply token, skipping reply")
		return
	}

	if _, err := h.replier.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: ev.replyToken,
		Messages:   messages,
	}); err != nil {
		h.metrics.RecordReply("error")
		log.WithError(err).
			WithField("reply_token", tokenPrefix(ev.replyToken)).
			WithField("command", cmd.Kind).
			ErrorContext(ctx, "Failed to send reply")
		return
	}
	h.metrics.RecordReply("success")

	log.InfoContext(ctx, "Event processed",
		"command", cmd.Kind,
		"message_count", len(messages),
		"duration_ms", time.Since(start).Milliseconds())
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
