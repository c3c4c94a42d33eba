package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyellow/date-linebot-go/internal/config"
)

const testSecret = "test_channel_secret"

type recordingReplier struct {
	mu     sync.Mutex
	tokens []string
	texts  []string
}

func (r *recordingReplier) ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, req.ReplyToken)
	for _, m := range req.Messages {
		if text, ok := m.(*messaging_api.TextMessage); ok {
			r.texts = append(r.texts, text.Text)
		}
	}
	return &messaging_api.ReplyMessageResponse{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LineChannelSecret: testSecret,
		LineChannelToken:  "test_channel_token",
		Port:              "0",
		LogLevel:          "error",
		ShutdownTimeout:   5 * time.Second,
		MetricsUsername:   "prometheus",
	}
}

// setupTestApp builds a full Application with a recording reply client.
// Tests in this package do not run in parallel because gin mode and the
// default slog logger are process-wide.
func setupTestApp(t *testing.T, cfg *config.Config) (*Application, *recordingReplier) {
	t.Helper()
	replier := &recordingReplier{}
	app, err := InitializeWith(context.Background(), cfg, Dependencies{Replier: replier})
	require.NoError(t, err)
	return app, replier
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	return w
}

func signedWebhook(path, text string) *http.Request {
	body := `{"destination":"U0","events":[{"type":"message","mode":"active","timestamp":1700000000000,` +
		`"webhookEventId":"01HAPPTEST","deliveryContext":{"isRedelivery":false},` +
		`"source":{"type":"user","userId":"U1"},"replyToken":"reply-token-1",` +
		`"message":{"id":"1","type":"text","quoteToken":"q","text":"` + text + `"}}]}`
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	return req
}

func TestLivenessCheck(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := serve(app, httptest.NewRequest(method, "/livez", nil))
		assert.Equal(t, http.StatusOK, w.Code, method)
	}

	w := serve(app, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

func TestReadinessCheck_Features(t *testing.T) {
	cfg := testConfig()
	cfg.HotPepperAPIKey = "hp-key"
	app, _ := setupTestApp(t, cfg)

	w := serve(app, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Status   string          `json:"status"`
		Features map[string]bool `json:"features"`
		Build    map[string]any  `json:"build"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "ready", response.Status)
	assert.False(t, response.Features["suggest_llm"])
	assert.True(t, response.Features["shop_search"])
	assert.Contains(t, response.Build, "release")
}

func TestRootRedirect(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	w := serve(app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, projectURL, w.Header().Get("Location"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		app, _ := setupTestApp(t, testConfig())
		w := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("protected", func(t *testing.T) {
		cfg := testConfig()
		cfg.MetricsPassword = "secret"
		app, _ := setupTestApp(t, cfg)

		w := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("prometheus", "secret")
		w = serve(app, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestWebhookRoutes(t *testing.T) {
	for _, path := range []string{"/webhook", "/api/line-webhook"} {
		t.Run(path, func(t *testing.T) {
			app, replier := setupTestApp(t, testConfig())

			w := serve(app, signedWebhook(path, "ping"))

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"ok":true}`, w.Body.String())
			assert.Equal(t, []string{"reply-token-1"}, replier.tokens)
			assert.Equal(t, []string{"pong"}, replier.texts)
		})
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	app, replier := setupTestApp(t, testConfig())

	req := signedWebhook("/webhook", "ping")
	req.Header.Set("X-Line-Signature", "bogus")
	w := serve(app, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, replier.tokens)
}

func TestRequestIDMiddleware(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	w := serve(app, httptest.NewRequest(http.MethodGet, "/livez", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36, "expected a UUID, got %q", generated)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set(RequestIDHeader, "req-from-proxy")
	w = serve(app, req)
	assert.Equal(t, "req-from-proxy", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	w = serve(app, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestSecurityHeaders(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	w := serve(app, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'", w.Header().Get("Content-Security-Policy"))
}

func TestUnknownRoute(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	w := serve(app, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	app, _ := setupTestApp(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
