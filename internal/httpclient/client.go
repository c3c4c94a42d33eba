// Package httpclient builds the outbound HTTP client shared by upstream API clients.
package httpclient

import (
	"net/http"
	"time"

	"github.com/corpix/uarand"
	"github.com/klauspost/compress/gzhttp"
)

// New returns a client with gzip support and a browser User-Agent.
// A zero timeout means no client-side timeout.
func New(timeout time.Duration) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.MaxIdleConns = 100
	base.MaxIdleConnsPerHost = 10
	base.IdleConnTimeout = 90 * time.Second

	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{next: gzhttp.Transport(base)},
	}
}

// userAgentTransport fills in a random User-Agent when the caller set none.
type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", uarand.GetRandom())
	return t.next.RoundTrip(clone)
}
