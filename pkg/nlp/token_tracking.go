package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/soundprediction/verity/pkg/types"
)

// TokenUsageRecord represents a single log entry for token usage
type TokenUsageRecord struct {
	ID               string    `parquet:"id"`
	Timestamp        time.Time `parquet:"timestamp"`
	Model            string    `parquet:"model"`
	TotalTokens      int       `parquet:"total_tokens"`
	PromptTokens     int       `parquet:"prompt_tokens"`
	CompletionTokens int       `parquet:"completion_tokens"`
	UserID           string    `parquet:"user_id"`
	SessionID        string    `parquet:"session_id"`
	RequestSource    string    `parquet:"request_source"`
}

// ParquetTokenTracker handles persistence of token usage stats to Parquet files
type ParquetTokenTracker struct {
	outputDir string
	mu        sync.Mutex
	buffer    []TokenUsageRecord
	batchSize int
}

// NewTokenTracker creates a new token tracker writing to a directory
func NewTokenTracker(outputDir string) (*ParquetTokenTracker, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create token tracking directory: %w", err)
	}

	return &ParquetTokenTracker{
		outputDir: outputDir,
		buffer:    make([]TokenUsageRecord, 0, 100),
		batchSize: 100,
	}, nil
}

// AddUsage adds usage to the tracker
func (t *ParquetTokenTracker) AddUsage(ctx context.Context, usage *types.TokenUsage, model string) error {
	if usage == nil {
		return nil
	}

	record := TokenUsageRecord{
		ID:               uuid.New().String(),
		Timestamp:        time.Now().UTC(),
		Model:            model,
		TotalTokens:      usage.TotalTokens,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}

	if v, ok := ctx.Value(types.ContextKeyUserID).(string); ok {
		record.UserID = v
	}
	if v, ok := ctx.Value(types.ContextKeySessionID).(string); ok {
		record.SessionID = v
	}
	if v, ok := ctx.Value(types.ContextKeyRequestSource).(string); ok {
		record.RequestSource = v
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.buffer = append(t.buffer, record)

	if len(t.buffer) >= t.batchSize {
		return t.flush()
	}

	return nil
}

// Flush writes any buffered records.
func (t *ParquetTokenTracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flush()
}

// flush writes the current buffer to a new Parquet file
// Caller must hold the lock
func (t *ParquetTokenTracker) flush() error {
	if len(t.buffer) == 0 {
		return nil
	}

	now := time.Now()
	filename := fmt.Sprintf("token_usage_%s_%d.parquet", now.Format("20060102_150405"), now.UnixNano())

	if err := parquet.WriteFile(filepath.Join(t.outputDir, filename), t.buffer); err != nil {
		return fmt.Errorf("failed to write token usage parquet file: %w", err)
	}

	t.buffer = t.buffer[:0]
	return nil
}

// TokenTrackingClient wraps a Client to track usage
type TokenTrackingClient struct {
	client  Client
	tracker *ParquetTokenTracker
	logger  *slog.Logger
}

// NewTokenTrackingClient creates a wrapper client
func NewTokenTrackingClient(client Client, tracker *ParquetTokenTracker, logger *slog.Logger) *TokenTrackingClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenTrackingClient{
		client:  client,
		tracker: tracker,
		logger:  logger,
	}
}

// Chat implements Client
func (c *TokenTrackingClient) Chat(ctx context.Context, messages []types.Message, opts *types.CompletionOptions) (*types.Response, error) {
	resp, err := c.client.Chat(ctx, messages, opts)
	if err != nil {
		return nil, err
	}

	if resp.TokensUsed != nil {
		model := resp.Model
		if model == "" {
			model = "unknown"
		}

		if err := c.tracker.AddUsage(ctx, resp.TokensUsed, model); err != nil {
			c.logger.Warn("failed to log token usage", "error", err)
		}
	}

	return resp, nil
}

// Close flushes buffered usage and closes the wrapped client.
func (c *TokenTrackingClient) Close() error {
	if err := c.tracker.Flush(); err != nil {
		c.logger.Warn("failed to flush token usage", "error", err)
	}
	return c.client.Close()
}
