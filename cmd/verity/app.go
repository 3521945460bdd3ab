package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundprediction/verity"
	"github.com/soundprediction/verity/pkg/alert"
	"github.com/soundprediction/verity/pkg/config"
	"github.com/soundprediction/verity/pkg/driver"
	"github.com/soundprediction/verity/pkg/generator"
	"github.com/soundprediction/verity/pkg/nlp"
	"github.com/soundprediction/verity/pkg/prompts"
	"github.com/soundprediction/verity/pkg/telemetry"
	"github.com/soundprediction/verity/pkg/types"
)

// app holds the long-lived components shared by the commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *driver.Neo4jDriver
	client *verity.Client

	errorLog *telemetry.ParquetHandler

	// completionConfigured is false when the pipeline runs without a
	// completion client and every search fails with a generation error.
	completionConfigured bool
}

// newApp connects to the graph store and assembles the search pipeline.
// When requireCompletion is false a missing API key is tolerated and the
// client only serves direct scrap reads.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, requireCompletion bool) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if cfg.Telemetry.ParquetPath != "" {
		h, err := telemetry.NewParquetHandler(logger.Handler(), cfg.Telemetry.ParquetPath, telemetry.DefaultBatchSize)
		if err != nil {
			logger.Warn("error tracking disabled", "error", err)
		} else {
			a.errorLog = h
			a.logger = slog.New(h)
			logger = a.logger
		}
	}

	store, err := driver.NewNeo4jDriver(cfg.Database.URI, cfg.Database.Username, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	a.store = store

	if err := store.VerifyConnectivity(ctx); err != nil {
		logger.Warn("graph store not reachable yet", "uri", cfg.Database.URI, "error", err)
	}

	var gen verity.QueryGenerator = unavailableGenerator{}
	completion, err := buildCompletionClient(cfg, logger)
	switch {
	case err == nil:
		style, err := prompts.ParseStyle(cfg.NLP.PromptStyle)
		if err != nil {
			completion.Close()
			store.Close(ctx)
			return nil, err
		}
		gen = generator.New(completion, generator.Config{
			Style:       style,
			Temperature: cfg.NLP.Temperature,
			MaxTokens:   cfg.NLP.MaxTokens,
		}, logger)
		a.completionConfigured = true
		logger.Info("completion client ready", "model", cfg.NLP.Model, "style", style)
	case errors.Is(err, nlp.ErrMissingAPIKey) && !requireCompletion:
		logger.Warn("no completion API key configured; natural-language search is disabled")
	default:
		store.Close(ctx)
		return nil, err
	}

	client, err := verity.NewClient(store, gen, logger, verity.WithMetadataRepair(cfg.Database.RepairMetadata))
	if err != nil {
		store.Close(ctx)
		return nil, fmt.Errorf("failed to create verity client: %w", err)
	}
	a.client = client

	logger.Info("verity initialized", "uri", cfg.Database.URI, "database", store.Database())
	return a, nil
}

// Close releases the client and flushes buffered telemetry.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close(ctx))
	}
	if a.errorLog != nil {
		errs = append(errs, a.errorLog.Close())
	}
	return errors.Join(errs...)
}

// buildCompletionClient wraps the OpenAI client in the optional layers
// configured for it, innermost first.
func buildCompletionClient(cfg *config.Config, logger *slog.Logger) (nlp.Client, error) {
	llmConfig := nlp.NewLLMConfig().
		WithAPIKey(cfg.NLP.APIKey).
		WithModel(cfg.NLP.Model).
		WithBaseURL(cfg.NLP.BaseURL).
		WithTemperature(cfg.NLP.Temperature).
		WithMaxTokens(cfg.NLP.MaxTokens)
	if cfg.NLP.Timeout > 0 {
		llmConfig.WithTimeout(cfg.NLP.Timeout)
	}

	base, err := nlp.NewOpenAIClient(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	var client nlp.Client = base

	if cfg.NLP.MaxRetries > 0 {
		retryConfig := nlp.DefaultRetryConfig()
		retryConfig.MaxRetries = cfg.NLP.MaxRetries
		client = nlp.NewRetryClient(client, retryConfig)
	}

	if cfg.CircuitBreaker.Enabled {
		client = nlp.NewCircuitBreakerClient(client, cfg.CircuitBreaker, alert.New(cfg.Alert, logger), "completion", logger)
	}

	if cfg.Telemetry.ParquetPath != "" {
		tracker, err := nlp.NewTokenTracker(cfg.Telemetry.ParquetPath)
		if err != nil {
			logger.Warn("token tracking disabled", "error", err)
		} else {
			client = nlp.NewTokenTrackingClient(client, tracker, logger)
			logger.Info("token tracking enabled", "path", cfg.Telemetry.ParquetPath)
		}
	}

	return client, nil
}

// unavailableGenerator stands in when no completion client is configured.
type unavailableGenerator struct{}

func (unavailableGenerator) Generate(context.Context, string) (*types.QueryInfo, error) {
	return nil, types.NewGenerationError(types.CategoryAuth, "completion client not configured", nlp.ErrMissingAPIKey)
}
