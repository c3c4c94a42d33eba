package app

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestMetricsAuthMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		header   string
		want     int
	}{
		{"open without password", "", "", http.StatusOK},
		{"open ignores credentials", "", basicAuth("x", "y"), http.StatusOK},
		{"valid credentials", "secret123", basicAuth("prometheus", "secret123"), http.StatusOK},
		{"missing header", "secret123", "", http.StatusUnauthorized},
		{"wrong username", "secret123", basicAuth("wronguser", "secret123"), http.StatusUnauthorized},
		{"wrong password", "secret123", basicAuth("prometheus", "wrongpass"), http.StatusUnauthorized},
		{"only scheme", "secret123", "Basic", http.StatusUnauthorized},
		{"invalid base64", "secret123", "Basic notbase64!!!", http.StatusUnauthorized},
		{"bearer token", "secret123", "Bearer sometoken", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := gin.New()
			router.GET("/metrics", metricsAuthMiddleware("prometheus", tt.password), func(c *gin.Context) {
				c.String(http.StatusOK, "metrics")
			})

			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, metricsRealm, w.Header().Get("WWW-Authenticate"))
			} else {
				assert.Equal(t, "metrics", w.Body.String())
			}
		})
	}
}
