package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/verity/pkg/types"
)

// RetryConfig controls how a RetryClient backs off between completion
// attempts. Zero or negative fields fall back to DefaultRetryConfig values.
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig allows three retries starting at one second, doubling up
// to a minute.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          60 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient re-sends a completion request when the failure is transient.
type RetryClient struct {
	client Client
	config *RetryConfig
}

func NewRetryClient(client Client, config *RetryConfig) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	defaults := DefaultRetryConfig()
	if config.MaxRetries < 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = defaults.InitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = defaults.MaxDelay
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = defaults.BackoffMultiplier
	}
	return &RetryClient{client: client, config: config}
}

func (r *RetryClient) Chat(ctx context.Context, messages []types.Message, opts *types.CompletionOptions) (*types.Response, error) {
	resp, err := r.client.Chat(ctx, messages, opts)
	for attempt := 1; err != nil && attempt <= r.config.MaxRetries; attempt++ {
		if !isRetryableError(err) {
			return nil, err
		}
		select {
		case <-time.After(r.calculateDelay(attempt)):
		case <-ctx.Done():
			return nil, fmt.Errorf("completion backoff interrupted: %w", ctx.Err())
		}
		resp, err = r.client.Chat(ctx, messages, opts)
	}
	if err != nil {
		if !isRetryableError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("completion still failing after %d retries: %w", r.config.MaxRetries, err)
	}
	return resp, nil
}

func (r *RetryClient) Close() error {
	return r.client.Close()
}

// calculateDelay returns InitialDelay * BackoffMultiplier^(attempt-1), bounded
// by MaxDelay. attempt is 1 for the first retry.
func (r *RetryClient) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay) * math.Pow(r.config.BackoffMultiplier, float64(attempt-1))
	return time.Duration(math.Min(delay, float64(r.config.MaxDelay)))
}

// upstreamFailures are gateway and server responses that only surface as text
// when the provider sits behind a proxy.
var upstreamFailures = []string{
	"internal server error", "bad gateway", "service unavailable",
	"500", "502", "503", "504", "temporary failure",
}

// isRetryableError reports whether another attempt could succeed. Rate limits,
// timeouts and network or server failures qualify; auth failures, caller
// cancellation and an open circuit breaker do not.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) {
		return false
	}

	switch Classify(err) {
	case types.CategoryRateLimit, types.CategoryTimeout, types.CategoryNetwork:
		return true
	case types.CategoryAuth:
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, s := range upstreamFailures {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
