package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/verity/pkg/alert"
	"github.com/soundprediction/verity/pkg/config"
	"github.com/soundprediction/verity/pkg/types"
)

// CircuitBreakerClient wraps a Client with circuit breaking logic
type CircuitBreakerClient struct {
	client  Client
	cb      *gobreaker.CircuitBreaker
	alerter alert.Alerter
	name    string
}

// NewCircuitBreakerClient creates a new circuit breaker client
func NewCircuitBreakerClient(client Client, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string, logger *slog.Logger) *CircuitBreakerClient {
	if logger == nil {
		logger = slog.Default()
	}
	if alerter == nil {
		alerter = &alert.NoOpAlerter{}
	}

	ratio := cfg.ReadyToTripRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				msg := fmt.Sprintf("Circuit Breaker '%s' changed status from %s to %s. Too many failures detected.", name, from, to)
				if err := alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg); err != nil {
					logger.Error("failed to send circuit breaker alert", "error", err)
				}
			}
		},
	}

	return &CircuitBreakerClient{
		client:  client,
		cb:      gobreaker.NewCircuitBreaker(st),
		alerter: alerter,
		name:    name,
	}
}

// Chat implements Client
func (c *CircuitBreakerClient) Chat(ctx context.Context, messages []types.Message, opts *types.CompletionOptions) (*types.Response, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Chat(ctx, messages, opts)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.Response), nil
}

// State reports the breaker state.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.cb.State()
}

// Close implements Client
func (c *CircuitBreakerClient) Close() error {
	return c.client.Close()
}
