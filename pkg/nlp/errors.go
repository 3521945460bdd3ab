package nlp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"github.com/soundprediction/verity/pkg/types"
)

// Common LLM client errors
var (
	// ErrRateLimit indicates the rate limit has been exceeded
	ErrRateLimit = errors.New("rate limit exceeded. Please try again later")

	// ErrEmptyResponse indicates the LLM returned an empty response
	ErrEmptyResponse = errors.New("the LLM returned an empty response")

	// ErrMissingAPIKey indicates no API key was configured
	ErrMissingAPIKey = errors.New("openai API key is missing")
)

// RateLimitError represents a rate limit error with optional custom message
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return "rate limit exceeded. Please try again later"
	}
	return e.Message
}

// Is implements errors.Is support for RateLimitError.
// This allows errors.Is(err, &RateLimitError{}) to work with wrapped errors.
func (e *RateLimitError) Is(target error) bool {
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a new rate limit error with optional custom message
func NewRateLimitError(message ...string) *RateLimitError {
	err := &RateLimitError{}
	if len(message) > 0 {
		err.Message = message[0]
	}
	return err
}

// AuthError represents a rejected or missing credential.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Is implements errors.Is support for AuthError.
func (e *AuthError) Is(target error) bool {
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new auth error (message is required)
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// EmptyResponseError represents an empty response error
type EmptyResponseError struct {
	Message string
}

func (e *EmptyResponseError) Error() string {
	return e.Message
}

// Is implements errors.Is support for EmptyResponseError.
// This allows errors.Is(err, &EmptyResponseError{}) to work with wrapped errors.
func (e *EmptyResponseError) Is(target error) bool {
	_, ok := target.(*EmptyResponseError)
	return ok
}

// NewEmptyResponseError creates a new empty response error (message is required)
func NewEmptyResponseError(message string) *EmptyResponseError {
	return &EmptyResponseError{Message: message}
}

// Classify maps a completion error onto a coarse category. It inspects typed
// errors first and falls back to matching the error text, so the result is
// best-effort.
func Classify(err error) types.ErrorCategory {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	if errors.As(err, &authErr) || errors.Is(err, ErrMissingAPIKey) {
		return types.CategoryAuth
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) || errors.Is(err, ErrRateLimit) {
		return types.CategoryRateLimit
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.CategoryTimeout
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.CategoryNetwork
	}

	if code := statusCode(err); code != 0 {
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return types.CategoryAuth
		case code == http.StatusTooManyRequests:
			return types.CategoryRateLimit
		case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
			return types.CategoryTimeout
		case code >= 500:
			return types.CategoryNetwork
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return types.CategoryTimeout
		}
		return types.CategoryNetwork
	}

	msg := strings.ToLower(err.Error())
	patterns := []struct {
		category types.ErrorCategory
		needles  []string
	}{
		{types.CategoryAuth, []string{"api key", "unauthorized", "authentication", "401", "403"}},
		{types.CategoryRateLimit, []string{"rate limit", "too many requests", "429", "quota"}},
		{types.CategoryTimeout, []string{"timeout", "timed out", "deadline exceeded"}},
		{types.CategoryNetwork, []string{"connection refused", "connection reset", "no such host", "network", "eof"}},
	}
	for _, p := range patterns {
		for _, n := range p.needles {
			if strings.Contains(msg, n) {
				return p.category
			}
		}
	}

	return types.CategoryUnknown
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
