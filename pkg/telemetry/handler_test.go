package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/soundprediction/verity/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, batch int) (*ParquetHandler, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	next := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	h, err := NewParquetHandler(next, dir, batch)
	require.NoError(t, err)
	return h, &buf, dir
}

func readRecords(t *testing.T, dir string) []ErrorRecord {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "error_log_*.parquet"))
	require.NoError(t, err)

	var out []ErrorRecord
	for _, f := range files {
		rows, err := parquet.ReadFile[ErrorRecord](f)
		require.NoError(t, err)
		out = append(out, rows...)
	}
	return out
}

func TestOnlyErrorsAreRecorded(t *testing.T) {
	h, buf, dir := newTestHandler(t, 10)
	logger := slog.New(h)

	logger.Info("search completed", "results", 3)
	logger.Warn("cache cleanup failed")
	assert.Equal(t, 0, h.Pending())

	logger.Error("search failed", "prompt", "nature", "error", types.NewExecutionError(errors.New("syntax error")))
	assert.Equal(t, 1, h.Pending())
	assert.Contains(t, buf.String(), "search completed")

	require.NoError(t, h.Close())
	assert.Equal(t, 0, h.Pending())

	records := readRecords(t, dir)
	require.Len(t, records, 1)
	assert.Equal(t, "search failed", records[0].Message)
	assert.Equal(t, "execution_error", records[0].Kind)
	assert.Contains(t, records[0].Attributes, `"prompt":"nature"`)
	assert.Contains(t, records[0].Attributes, "syntax error")
}

func TestGenerationCategoryAndContext(t *testing.T) {
	h, _, dir := newTestHandler(t, 10)
	logger := slog.New(h).With("component", "search")

	ctx := context.WithValue(context.Background(), types.ContextKeyUserID, "u-1")
	ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "server")
	err := types.NewGenerationError(types.CategoryRateLimit, "failed to generate query", errors.New("429"))
	logger.ErrorContext(ctx, "search failed", "error", err)
	require.NoError(t, h.Flush())

	records := readRecords(t, dir)
	require.Len(t, records, 1)
	assert.Equal(t, "generation_error", records[0].Kind)
	assert.Equal(t, "rate_limit", records[0].Category)
	assert.Equal(t, "u-1", records[0].UserID)
	assert.Equal(t, "server", records[0].RequestSource)
	assert.Contains(t, records[0].Attributes, `"component":"search"`)
}

func TestBatchFlushSharedAcrossDerivedHandlers(t *testing.T) {
	h, _, dir := newTestHandler(t, 2)
	base := slog.New(h)
	child := base.With("component", "cache").WithGroup("g")

	base.Error("first")
	child.Error("second")

	assert.Equal(t, 0, h.Pending(), "batch of two should have been written")
	assert.Len(t, readRecords(t, dir), 2)
}

func TestNewParquetHandlerCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "telemetry")
	h, err := NewParquetHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), dir, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, h.sink.batchSize)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
