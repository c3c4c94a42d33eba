package hotpepper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/garyellow/date-linebot-go/internal/metrics"
)

func shopsJSON(n int) string {
	parts := make([]string, 0, n)
	for i := range n {
		parts = append(parts, fmt.Sprintf(`{"name":"店%d","address":"東京都%d","urls":{"pc":"https://example.com/%d"},"photo":{"pc":{"l":"https://img.example.com/%d_l.jpg"}}}`, i, i, i, i))
	}
	return `{"results":{"shop":[` + strings.Join(parts, ",") + `]}}`
}

func TestSearch_QueryParameters(t *testing.T) {
	t.Parallel()

	var captured atomic.Pointer[http.Request]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Store(r.Clone(context.Background()))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(shopsJSON(1)))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "hp-key", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	shops := c.Search(context.Background(), "渋谷", "焼肉")

	if len(shops) != 1 {
		t.Fatalf("len(shops) = %d, want 1", len(shops))
	}
	got := captured.Load()
	if got == nil {
		t.Fatal("server was not called")
	}
	if got.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", got.Method)
	}
	if got.URL.Path != "/hotpepper/gourmet/v1/" {
		t.Errorf("path = %q", got.URL.Path)
	}

	q := got.URL.Query()
	want := map[string]string{
		"key":     "hp-key",
		"keyword": "渋谷 焼肉",
		"count":   "5",
		"format":  "json",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestSearch_CapsAtFive(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(shopsJSON(7)))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	shops := c.Search(context.Background(), "新宿", "カフェ")

	if len(shops) != MaxShops {
		t.Fatalf("len(shops) = %d, want %d", len(shops), MaxShops)
	}
	if shops[0].Name != "店0" || shops[4].Name != "店4" {
		t.Errorf("unexpected order: %q .. %q", shops[0].Name, shops[4].Name)
	}
	if shops[2].Photo != "https://img.example.com/2_l.jpg" {
		t.Errorf("Photo = %q", shops[2].Photo)
	}
}

func TestSearch_FallbackChains(t *testing.T) {
	t.Parallel()

	const body = `{"results":{"shop":[
	  {"name":"","urls":{"pc":""},"coupon_urls":{"pc":"https://coupon.example.com/1"},"photo":{"pc":{"l":"","m":"https://img.example.com/m.jpg","s":"https://img.example.com/s.jpg"}}},
	  {"name":"NoLinks","address":"大阪","photo":{"pc":{"s":"https://img.example.com/s.jpg"}}},
	  {"name":"Bare"}
	]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	shops := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()}).
		Search(context.Background(), "梅田", "居酒屋")

	want := []Shop{
		{Name: UnknownShopName, URL: "https://coupon.example.com/1", Photo: "https://img.example.com/m.jpg"},
		{Name: "NoLinks", URL: DefaultShopURL, Address: "大阪", Photo: "https://img.example.com/s.jpg"},
		{Name: "Bare", URL: DefaultShopURL},
	}
	if len(shops) != len(want) {
		t.Fatalf("len(shops) = %d, want %d", len(shops), len(want))
	}
	for i := range want {
		if shops[i] != want[i] {
			t.Errorf("shops[%d] = %+v, want %+v", i, shops[i], want[i])
		}
	}
}

func TestSearch_ServerErrorReturnsEmpty(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client(), Metrics: m})

	shops := c.Search(context.Background(), "渋谷", "焼肉")
	if shops == nil || len(shops) != 0 {
		t.Errorf("Search() = %v, want empty non-nil slice", shops)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", calls.Load())
	}
	if v := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("hotpepper", "error")); v != 1 {
		t.Errorf("upstream error count = %v, want 1", v)
	}
}

func TestSearch_MalformedJSONReturnsEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":`))
	}))
	defer srv.Close()

	shops := NewClient(Config{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()}).
		Search(context.Background(), "a", "b")
	if len(shops) != 0 {
		t.Errorf("len(shops) = %d, want 0", len(shops))
	}
}

func TestSearch_NoKeySkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	if c.Enabled() {
		t.Error("Enabled() = true without key")
	}
	if shops := c.Search(context.Background(), "渋谷", "焼肉"); len(shops) != 0 {
		t.Errorf("len(shops) = %d, want 0", len(shops))
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times without key", calls.Load())
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{APIKey: "k"})
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.httpClient == nil {
		t.Error("httpClient is nil")
	}
}
