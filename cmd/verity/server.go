package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundprediction/verity/pkg/cache"
	"github.com/soundprediction/verity/pkg/config"
	"github.com/soundprediction/verity/pkg/metrics"
	"github.com/soundprediction/verity/pkg/server"
	"github.com/soundprediction/verity/pkg/utils"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Verity HTTP server",
	Long: `Start the Verity HTTP server.

The server provides endpoints for:
- Natural-language search (POST /search) and cached results (GET /results)
- Direct scrap reads (GET /scraps, /scraps/:id, /scraps/:id/related)
- Health, readiness and Prometheus metrics

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")

	// Database flags
	serverCmd.Flags().String("db-uri", "", "Neo4j URI")
	serverCmd.Flags().String("db-username", "", "Neo4j username")
	serverCmd.Flags().String("db-password", "", "Neo4j password")
	serverCmd.Flags().String("db-database", "", "Neo4j database name")

	// NLP flags
	serverCmd.Flags().String("nlp-model", "", "Completion model")
	serverCmd.Flags().String("nlp-api-key", "", "Completion API key")
	serverCmd.Flags().String("nlp-base-url", "", "Base URL of an OpenAI-compatible service")
	serverCmd.Flags().String("prompt-style", "", "Prompt style (terse, explain)")

	// Cache flags
	serverCmd.Flags().String("cache-backend", "", "Result cache backend (memory, badger)")
	serverCmd.Flags().String("cache-path", "", "Directory for the badger result cache")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for token usage and error log files")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg, logger, false)
	if err != nil {
		return fmt.Errorf("failed to initialize verity: %w", err)
	}
	logger = a.logger

	resultCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		a.Close(ctx)
		return fmt.Errorf("failed to create result cache: %w", err)
	}

	srv := server.New(cfg, server.Dependencies{
		Client:               a.client,
		Cache:                resultCache,
		Health:               a.store,
		Metrics:              metrics.NewCollector("verity"),
		Logger:               logger,
		CompletionConfigured: a.completionConfigured,
	})
	srv.Setup()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	utils.SafeGo(func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}, func(err error) { serverErrChan <- err }, logger)

	select {
	case err := <-serverErrChan:
		a.Close(ctx)
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			a.Close(shutdownCtx)
			return fmt.Errorf("server shutdown error: %w", err)
		}
		if err := a.Close(shutdownCtx); err != nil {
			logger.Warn("error while closing verity", "error", err)
		}

		logger.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Server flags
	if flags.Changed("host") {
		cfg.Server.Host = serverHost
	}
	if flags.Changed("port") {
		cfg.Server.Port = serverPort
	}
	if flags.Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Database flags
	if flags.Changed("db-uri") {
		cfg.Database.URI, _ = flags.GetString("db-uri")
	}
	if flags.Changed("db-username") {
		cfg.Database.Username, _ = flags.GetString("db-username")
	}
	if flags.Changed("db-password") {
		cfg.Database.Password, _ = flags.GetString("db-password")
	}
	if flags.Changed("db-database") {
		cfg.Database.Database, _ = flags.GetString("db-database")
	}

	// NLP flags
	if flags.Changed("nlp-model") {
		cfg.NLP.Model, _ = flags.GetString("nlp-model")
	}
	if flags.Changed("nlp-api-key") {
		cfg.NLP.APIKey, _ = flags.GetString("nlp-api-key")
	}
	if flags.Changed("nlp-base-url") {
		cfg.NLP.BaseURL, _ = flags.GetString("nlp-base-url")
	}
	if flags.Changed("prompt-style") {
		cfg.NLP.PromptStyle, _ = flags.GetString("prompt-style")
	}

	// Cache flags
	if flags.Changed("cache-backend") {
		cfg.Cache.Backend, _ = flags.GetString("cache-backend")
	}
	if flags.Changed("cache-path") {
		cfg.Cache.Path, _ = flags.GetString("cache-path")
	}

	// Telemetry flags
	if flags.Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = flags.GetString("telemetry-parquet-path")
	}
}
