package nlp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"github.com/soundprediction/verity/pkg/types"
)

// mockClient is a mock LLM client for testing
type mockClient struct {
	callCount        int
	failUntilCall    int
	errorToReturn    error
	responseToReturn *types.Response
	lastOpts         *types.CompletionOptions
}

func (m *mockClient) Chat(ctx context.Context, messages []types.Message, opts *types.CompletionOptions) (*types.Response, error) {
	m.callCount++
	m.lastOpts = opts
	if m.callCount <= m.failUntilCall {
		return nil, m.errorToReturn
	}
	if m.responseToReturn != nil {
		return m.responseToReturn, nil
	}
	return &types.Response{Content: "success"}, nil
}

func (m *mockClient) Close() error {
	return nil
}

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      10 * time.Millisecond,
		MaxDelay:          100 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClient_SuccessOnFirstAttempt(t *testing.T) {
	mock := &mockClient{}
	retryClient := NewRetryClient(mock, fastRetryConfig())

	resp, err := retryClient.Chat(context.Background(), []types.Message{{Role: RoleUser, Content: "test"}}, nil)
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if resp.Content != "success" {
		t.Errorf("expected content 'success', got '%s'", resp.Content)
	}
	if mock.callCount != 1 {
		t.Errorf("expected 1 call, got %d", mock.callCount)
	}
}

func TestRetryClient_SuccessAfterRetries(t *testing.T) {
	mock := &mockClient{
		failUntilCall: 2,
		errorToReturn: errors.New("500 internal server error"),
	}
	retryClient := NewRetryClient(mock, fastRetryConfig())

	start := time.Now()
	opts := &types.CompletionOptions{Temperature: 0.3, MaxTokens: 1000}
	resp, err := retryClient.Chat(context.Background(), []types.Message{{Role: RoleUser, Content: "test"}}, opts)
	duration := time.Since(start)

	if err != nil {
		t.Fatalf("expected success after retries, got error: %v", err)
	}
	if resp.Content != "success" {
		t.Errorf("expected content 'success', got '%s'", resp.Content)
	}
	if mock.callCount != 3 {
		t.Errorf("expected 3 calls (1 initial + 2 retries), got %d", mock.callCount)
	}
	if mock.lastOpts != opts {
		t.Error("expected completion options to be passed through")
	}
	// First retry: 10ms, second retry: 20ms
	if duration < 30*time.Millisecond {
		t.Errorf("expected at least 30ms duration for backoff, got %v", duration)
	}
}

func TestRetryClient_FailAfterMaxRetries(t *testing.T) {
	mock := &mockClient{
		failUntilCall: 10,
		errorToReturn: errors.New("503 service unavailable"),
	}
	retryClient := NewRetryClient(mock, fastRetryConfig())

	_, err := retryClient.Chat(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected error after max retries")
	}
	if mock.callCount != 4 {
		t.Errorf("expected 4 calls (1 initial + 3 retries), got %d", mock.callCount)
	}
}

func TestRetryClient_NonRetryableError(t *testing.T) {
	mock := &mockClient{
		failUntilCall: 10,
		errorToReturn: NewAuthError("401 unauthorized"),
	}
	retryClient := NewRetryClient(mock, fastRetryConfig())

	_, err := retryClient.Chat(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.callCount != 1 {
		t.Errorf("expected 1 call for non-retryable error, got %d", mock.callCount)
	}
}

func TestRetryClient_ContextCancellation(t *testing.T) {
	mock := &mockClient{
		failUntilCall: 10,
		errorToReturn: errors.New("503 service unavailable"),
	}
	config := fastRetryConfig()
	config.InitialDelay = time.Second
	retryClient := NewRetryClient(mock, config)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := retryClient.Chat(ctx, nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if mock.callCount != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", mock.callCount)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit type", NewRateLimitError(), true},
		{"rate limit sentinel", ErrRateLimit, true},
		{"bad gateway text", errors.New("502 bad gateway"), true},
		{"timeout text", errors.New("request timeout"), true},
		{"api 429", &openai.APIError{HTTPStatusCode: 429}, true},
		{"api 500", &openai.APIError{HTTPStatusCode: 500}, true},
		{"api 400", &openai.APIError{HTTPStatusCode: 400, Message: "bad request"}, false},
		{"auth", NewAuthError("invalid key"), false},
		{"plain", errors.New("invalid prompt"), false},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"caller cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("chat: %w", context.DeadlineExceeded), false},
		{"breaker open", gobreaker.ErrOpenState, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryClient_ExponentialBackoff(t *testing.T) {
	retryClient := NewRetryClient(&mockClient{}, &RetryConfig{
		MaxRetries:        5,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          300 * time.Millisecond,
		BackoffMultiplier: 2.0,
	})

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	for i, w := range want {
		if got := retryClient.calculateDelay(i + 1); got != w {
			t.Errorf("attempt %d: expected delay %v, got %v", i+1, w, got)
		}
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()
	if config.MaxRetries != 3 {
		t.Errorf("expected MaxRetries 3, got %d", config.MaxRetries)
	}
	if config.InitialDelay != time.Second {
		t.Errorf("expected InitialDelay 1s, got %v", config.InitialDelay)
	}
	if config.BackoffMultiplier != 2.0 {
		t.Errorf("expected BackoffMultiplier 2.0, got %v", config.BackoffMultiplier)
	}
}
