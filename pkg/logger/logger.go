package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ColorHandler is a slog.Handler that writes one colored line per record.
// Warnings are yellow, errors red, and info lines about the graph store or
// the cache are green.
type ColorHandler struct {
	opts   slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	storeColor = color.New(color.FgGreen)
	keyColor   = color.New(color.Faint)
)

var storeKeywords = []string{"persist", "database", "neo4j", "cache", "query executed"}

// NewColorHandler creates a ColorHandler writing to w.
func NewColorHandler(w io.Writer, opts *slog.HandlerOptions) *ColorHandler {
	h := &ColorHandler{w: w, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

// NewDefaultLogger returns a colored logger on stderr at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return slog.New(NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// New builds a logger from a level name and format (text, json or color).
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	case "text":
		return slog.New(slog.NewTextHandler(w, opts))
	default:
		return slog.New(NewColorHandler(w, opts))
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Enabled implements slog.Handler
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements slog.Handler
func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format("15:04:05.000"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s ", r.Level.String())

	b.WriteString(colorFor(r.Level, r.Message).Sprint(r.Message))

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs implements slog.Handler
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup implements slog.Handler
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func colorFor(level slog.Level, msg string) *color.Color {
	switch {
	case level >= slog.LevelError:
		return errorColor
	case level >= slog.LevelWarn:
		return warnColor
	}
	lower := strings.ToLower(msg)
	for _, kw := range storeKeywords {
		if strings.Contains(lower, kw) {
			return storeColor
		}
	}
	return color.New(color.Reset)
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(keyColor.Sprint(key + "="))
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteString(val)
}
