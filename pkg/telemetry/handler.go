package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/soundprediction/verity/pkg/types"
)

// DefaultBatchSize is the number of error records buffered before a file is written.
const DefaultBatchSize = 100

// ErrorRecord is a single failed operation as stored in Parquet.
type ErrorRecord struct {
	ID            string    `parquet:"id"`
	Timestamp     time.Time `parquet:"timestamp"`
	Level         string    `parquet:"level"`
	Message       string    `parquet:"message"`
	Kind          string    `parquet:"kind"`
	Category      string    `parquet:"category"`
	UserID        string    `parquet:"user_id"`
	SessionID     string    `parquet:"session_id"`
	RequestSource string    `parquet:"request_source"`
	SourceFile    string    `parquet:"source_file"`
	LineNumber    int       `parquet:"line_number"`
	Attributes    string    `parquet:"attributes"` // JSON string
}

// sink is shared by a handler and every handler derived from it.
type sink struct {
	dir       string
	batchSize int

	mu     sync.Mutex
	buffer []ErrorRecord
}

// ParquetHandler is a slog.Handler that forwards every record to next and
// additionally batches Error-level records into Parquet files.
type ParquetHandler struct {
	next  slog.Handler
	sink  *sink
	attrs []slog.Attr
}

// NewParquetHandler creates a handler writing error_log_*.parquet files under outputDir.
func NewParquetHandler(next slog.Handler, outputDir string, batchSize int) (*ParquetHandler, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &ParquetHandler{
		next: next,
		sink: &sink{
			dir:       outputDir,
			batchSize: batchSize,
			buffer:    make([]ErrorRecord, 0, batchSize),
		},
	}, nil
}

// Enabled implements slog.Handler
func (h *ParquetHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *ParquetHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.next.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level < slog.LevelError {
		return nil
	}

	record := ErrorRecord{
		ID:        uuid.NewString(),
		Timestamp: r.Time.UTC(),
		Level:     r.Level.String(),
		Message:   r.Message,
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

	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	collect := func(a slog.Attr) bool {
		v := a.Value.Resolve().Any()
		if err, ok := v.(error); ok {
			var se *types.SearchError
			if errors.As(err, &se) {
				record.Kind = string(se.Kind)
				record.Category = string(se.Category)
			}
			v = err.Error()
		}
		attrs[a.Key] = v
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if b, err := json.Marshal(attrs); err == nil {
		record.Attributes = string(b)
	}

	if r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		record.SourceFile = f.File
		record.LineNumber = f.Line
	}

	return h.sink.add(record)
}

// WithAttrs implements slog.Handler
func (h *ParquetHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ParquetHandler{
		next:  h.next.WithAttrs(attrs),
		sink:  h.sink,
		attrs: merged,
	}
}

// WithGroup implements slog.Handler. Grouped attributes are recorded flat.
func (h *ParquetHandler) WithGroup(name string) slog.Handler {
	return &ParquetHandler{
		next:  h.next.WithGroup(name),
		sink:  h.sink,
		attrs: h.attrs,
	}
}

// Flush writes any buffered records.
func (h *ParquetHandler) Flush() error {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return h.sink.flush()
}

// Close flushes buffered records.
func (h *ParquetHandler) Close() error {
	return h.Flush()
}

// Pending reports the number of buffered records.
func (h *ParquetHandler) Pending() int {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return len(h.sink.buffer)
}

func (s *sink) add(record ErrorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = append(s.buffer, record)
	if len(s.buffer) >= s.batchSize {
		return s.flush()
	}
	return nil
}

// flush writes the buffer to a new file. Caller must hold the lock.
func (s *sink) flush() error {
	if len(s.buffer) == 0 {
		return nil
	}

	now := time.Now()
	name := fmt.Sprintf("error_log_%s_%d.parquet", now.Format("20060102_150405"), now.UnixNano())
	if err := parquet.WriteFile(filepath.Join(s.dir, name), s.buffer); err != nil {
		return fmt.Errorf("failed to write telemetry parquet file: %w", err)
	}

	s.buffer = s.buffer[:0]
	return nil
}
