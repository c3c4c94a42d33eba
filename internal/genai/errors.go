package genai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	domerrors "github.com/garyellow/date-linebot-go/internal/errors"
)

// ErrorClass buckets provider failures for logs and metric labels.
type ErrorClass string

const (
	ClassNone        ErrorClass = "none"
	ClassCanceled    ErrorClass = "canceled"
	ClassTimeout     ErrorClass = "timeout"
	ClassRateLimited ErrorClass = "rate_limited"
	ClassAuth        ErrorClass = "auth"
	ClassClient      ErrorClass = "client_error"
	ClassServer      ErrorClass = "server_error"
	ClassNetwork     ErrorClass = "network"
	ClassUnknown     ErrorClass = "unknown"
)

// LLMError wraps a provider failure with the HTTP status, when there was one.
type LLMError struct {
	Err        error
	StatusCode int
	Provider   Provider
}

// Error implements the error interface.
func (e *LLMError) Error() string {
	msg := string(e.Provider) + ": " + e.Err.Error()
	if e.StatusCode > 0 {
		msg += " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error {
	return e.Err
}

// statusCodeOf extracts the HTTP status from either SDK's error type.
func statusCodeOf(err error) int {
	var llmErr *LLMError
	if errors.As(err, &llmErr) && llmErr.StatusCode > 0 {
		return llmErr.StatusCode
	}
	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return oaiErr.StatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) && gErrPtr != nil {
		return gErrPtr.Code
	}
	return domerrors.StatusCode(err)
}

// ClassifyError maps a provider error to an ErrorClass.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}
	if errors.Is(err, context.Canceled) {
		return ClassCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}

	if code := statusCodeOf(err); code > 0 {
		return classifyStatusCode(code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ClassTimeout
		}
		return ClassNetwork
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ClassNetwork
	}
	return ClassUnknown
}

func classifyStatusCode(code int) ErrorClass {
	switch {
	case code == http.StatusTooManyRequests:
		return ClassRateLimited
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ClassAuth
	case code == http.StatusRequestTimeout:
		return ClassTimeout
	case code >= 500:
		return ClassServer
	case code >= 400:
		return ClassClient
	default:
		return ClassUnknown
	}
}
