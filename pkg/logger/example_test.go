package logger_test

import (
	"log/slog"

	"github.com/soundprediction/verity/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("Generated query", "query", "MATCH (s:Scrap) RETURN s")
	log.Info("Search completed", "results", 3)
	log.Info("Query executed against neo4j") // Will be green in terminal
	log.Warn("Completion returned no fenced block")
	log.Error("Search failed", "error", "timeout")
}

func ExampleNew() {
	// Create a logger from configuration values
	log := logger.New(nil, "info", "json")
	_ = log
}
