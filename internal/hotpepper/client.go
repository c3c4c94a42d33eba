// Package hotpepper searches restaurants with the HotPepper Gourmet API.
package hotpepper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domerrors "github.com/garyellow/date-linebot-go/internal/errors"
	"github.com/garyellow/date-linebot-go/internal/metrics"
)

const (
	// DefaultBaseURL is the Recruit web service host.
	DefaultBaseURL = "https://webservice.recruit.co.jp"
	// DefaultShopURL is used when a shop has no page of its own.
	DefaultShopURL = "https://www.hotpepper.jp/"
	// UnknownShopName is used when a shop has no name.
	UnknownShopName = "店舗名不明"
	// MaxShops caps both the request and the mapped result.
	MaxShops = 5

	gourmetPath = "/hotpepper/gourmet/v1/"
	serviceName = "hotpepper"
)

// Shop is one normalized search result.
type Shop struct {
	Name    string
	URL     string // never empty
	Address string // may be empty
	Photo   string // may be empty
}

// Client calls the gourmet search endpoint.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	metrics    *metrics.Metrics
}

// Config holds client settings. Empty fields fall back to defaults.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// NewClient creates a new HotPepper client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		metrics:    cfg.Metrics,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Search returns at most MaxShops shops for area and keyword.
// Any failure, including a missing API key, yields an empty slice, so
// "no match" and "service unavailable" look the same to callers.
func (c *Client) Search(ctx context.Context, area, keyword string) []Shop {
	if !c.Enabled() {
		c.metrics.RecordFallback(serviceName, "not_configured")
		return []Shop{}
	}

	start := time.Now()
	shops, err := c.search(ctx, area, keyword)
	duration := time.Since(start)

	if err != nil {
		c.metrics.RecordUpstream(serviceName, "error", duration.Seconds())
		c.metrics.RecordFallback(serviceName, "error")
		slog.ErrorContext(ctx, "HotPepper search failed",
			"area", area,
			"keyword", keyword,
			"status", domerrors.StatusCode(err),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return []Shop{}
	}

	c.metrics.RecordUpstream(serviceName, "success", duration.Seconds())
	slog.DebugContext(ctx, "HotPepper search completed",
		"results", len(shops),
		"duration_ms", duration.Milliseconds())
	return shops
}

func (c *Client) search(ctx context.Context, area, keyword string) ([]Shop, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("keyword", area+" "+keyword)
	query.Set("count", strconv.Itoa(MaxShops))
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+gourmetPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domerrors.NewUpstreamError(serviceName, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, domerrors.NewUpstreamError(serviceName, resp.StatusCode,
			fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(snippet))))
	}

	var payload gourmetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, domerrors.NewUpstreamError(serviceName, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	raw := payload.Results.Shop
	if len(raw) > MaxShops {
		raw = raw[:MaxShops]
	}
	shops := make([]Shop, 0, len(raw))
	for _, s := range raw {
		shops = append(shops, s.toShop())
	}
	return shops, nil
}

type gourmetResponse struct {
	Results struct {
		Shop []gourmetShop `json:"shop"`
	} `json:"results"`
}

type gourmetShop struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	URLs    struct {
		PC string `json:"pc"`
	} `json:"urls"`
	CouponURLs struct {
		PC string `json:"pc"`
	} `json:"coupon_urls"`
	Photo struct {
		PC struct {
			L string `json:"l"`
			M string `json:"m"`
			S string `json:"s"`
		} `json:"pc"`
	} `json:"photo"`
}

func (s gourmetShop) toShop() Shop {
	return Shop{
		Name:    firstNonEmpty(s.Name, UnknownShopName),
		URL:     firstNonEmpty(s.URLs.PC, s.CouponURLs.PC, DefaultShopURL),
		Address: s.Address,
		Photo:   firstNonEmpty(s.Photo.PC.L, s.Photo.PC.M, s.Photo.PC.S),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
