// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidSignature indicates the webhook body did not match x-line-signature.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMalformedPayload indicates the webhook body could not be read or decoded.
	ErrMalformedPayload = errors.New("invalid payload")

	// ErrProviderUnavailable indicates every configured generative provider failed.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// UpstreamError represents a failed call to a third-party HTTP API.
type UpstreamError struct {
	Service    string // hotpepper, openai, gemini, line
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s upstream error (status=%d): %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream error: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a new upstream error.
func NewUpstreamError(service string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{
		Service:    service,
		StatusCode: statusCode,
		Err:        err,
	}
}

// StatusCode extracts the HTTP status carried by an UpstreamError in err's chain.
// Returns 0 when there is none.
func StatusCode(err error) int {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode
	}
	return 0
}
