package genai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	domerrors "github.com/garyellow/date-linebot-go/internal/errors"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ClassNone},
		{"canceled", fmt.Errorf("call: %w", context.Canceled), ClassCanceled},
		{"deadline", context.DeadlineExceeded, ClassTimeout},
		{"429", &LLMError{StatusCode: 429, Err: errors.New("x")}, ClassRateLimited},
		{"401", &LLMError{StatusCode: 401, Err: errors.New("x")}, ClassAuth},
		{"403", &LLMError{StatusCode: 403, Err: errors.New("x")}, ClassAuth},
		{"400", &LLMError{StatusCode: 400, Err: errors.New("x")}, ClassClient},
		{"408", &LLMError{StatusCode: 408, Err: errors.New("x")}, ClassTimeout},
		{"500", &LLMError{StatusCode: 500, Err: errors.New("x")}, ClassServer},
		{"upstream error", domerrors.NewUpstreamError("openai", 502, errors.New("x")), ClassServer},
		{"net op", &net.OpError{Op: "dial", Err: errors.New("refused")}, ClassNetwork},
		{"plain", errors.New("mystery"), ClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestLLMError(t *testing.T) {
	t.Parallel()

	inner := errors.New("bad gateway")
	err := &LLMError{Provider: ProviderGemini, StatusCode: 502, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("LLMError should unwrap to the inner error")
	}
	if msg := err.Error(); !strings.Contains(msg, "gemini") || !strings.Contains(msg, "502") {
		t.Errorf("Error() = %q", msg)
	}
	if msg := (&LLMError{Provider: ProviderOpenAI, Err: inner}).Error(); strings.Contains(msg, "status") {
		t.Errorf("Error() without status = %q", msg)
	}
}
