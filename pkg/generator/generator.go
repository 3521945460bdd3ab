// Package generator translates natural-language prompts into graph queries
// using a completion service.
package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/soundprediction/verity/pkg/cypher"
	"github.com/soundprediction/verity/pkg/nlp"
	"github.com/soundprediction/verity/pkg/prompts"
	"github.com/soundprediction/verity/pkg/types"
)

// Config holds the sampling settings for query translation.
type Config struct {
	Style       prompts.Style
	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns low-temperature terse settings.
func DefaultConfig() Config {
	return Config{
		Style:       prompts.StyleTerse,
		Temperature: nlp.DefaultTemperature,
		MaxTokens:   nlp.DefaultMaxTokens,
	}
}

// Generator is the QueryGenerator.
type Generator struct {
	client  nlp.Client
	prompts prompts.TranslateCypherPrompt
	config  Config
	logger  *slog.Logger
}

// New creates a Generator. Zero values in cfg fall back to DefaultConfig.
func New(client nlp.Client, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Style == "" {
		cfg.Style = def.Style
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	return &Generator{
		client:  client,
		prompts: prompts.NewTranslateCypherVersions(),
		config:  cfg,
		logger:  logger,
	}
}

// Style reports the prompt style in use.
func (g *Generator) Style() prompts.Style {
	return g.config.Style
}

// Generate asks the completion service for a query answering prompt.
//
// Both reply shapes are accepted: a fenced block (with optional trailing
// explanation) or a bare query. Completion failures are returned as
// generation errors carrying a best-effort category.
func (g *Generator) Generate(ctx context.Context, prompt string) (*types.QueryInfo, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, types.NewInvalidInputError(types.ErrEmptyPrompt.Error())
	}

	messages, err := g.prompts.ForStyle(g.config.Style).Call(map[string]interface{}{
		"prompt": prompt,
		"logger": g.logger,
	})
	if err != nil {
		return nil, types.NewGenerationError(types.CategoryUnknown, "failed to build translation prompt", err)
	}

	resp, err := g.client.Chat(ctx, messages, &types.CompletionOptions{
		Temperature: g.config.Temperature,
		MaxTokens:   g.config.MaxTokens,
	})
	if err != nil {
		category := nlp.Classify(err)
		g.logger.Warn("completion failed", "category", category, "error", err)
		return nil, types.NewGenerationError(category, "failed to generate query", err)
	}

	info := cypher.ExtractQuery(resp.Content)
	g.logger.Debug("generated query",
		"query", info.Query,
		"has_explanation", info.Explanation != nil,
		"style", g.config.Style)

	return &info, nil
}

// Close closes the underlying completion client.
func (g *Generator) Close() error {
	return g.client.Close()
}
