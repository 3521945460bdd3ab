package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/verity"
	"github.com/soundprediction/verity/pkg/cache"
	"github.com/soundprediction/verity/pkg/config"
	"github.com/soundprediction/verity/pkg/driver"
	"github.com/soundprediction/verity/pkg/metrics"
	"github.com/soundprediction/verity/pkg/server/handlers"
	"github.com/soundprediction/verity/pkg/types"
)

// Dependencies are the shared components handed to every handler. Cache
// is created once at startup and shared across requests.
type Dependencies struct {
	Client  verity.Verity
	Cache   cache.Store
	Health  driver.HealthChecker
	Metrics *metrics.Collector
	Logger  *slog.Logger

	// CompletionConfigured is reported by the readiness check.
	CompletionConfigured bool
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	deps   Dependencies
	router *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryStore(cache.Options{
			MaxAge: cfg.Cache.MaxAge,
			Logger: deps.Logger,
		})
	}
	return &Server{
		config: cfg,
		deps:   deps,
		logger: deps.Logger,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	mode := s.config.Server.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	// Create router
	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(loggingMiddleware(s.logger))
	if s.deps.Metrics != nil {
		s.router.Use(metricsMiddleware(s.deps.Metrics))
	}
	s.router.Use(corsMiddleware())
	s.router.Use(contextMiddleware())

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Handler returns the configured router. Setup must be called first.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) debug() bool {
	return s.config.Server.Mode == gin.DebugMode
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	// Create handlers
	healthHandler := handlers.NewHealthHandler(s.deps.Health, s.deps.CompletionConfigured)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	if s.deps.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	if s.deps.Client == nil {
		return
	}

	searchHandler := handlers.NewSearchHandler(s.deps.Client, s.deps.Cache, s.deps.Metrics, s.logger, s.debug())
	scrapsHandler := handlers.NewScrapsHandler(s.deps.Client)

	s.router.POST("/search", searchHandler.Search)
	s.router.GET("/results", searchHandler.Results)

	s.router.GET("/scraps", scrapsHandler.ListScraps)
	s.router.GET("/scraps/:id", scrapsHandler.GetScrap)
	s.router.GET("/scraps/:id/related", scrapsHandler.GetRelatedScraps)

	if s.debug() {
		s.router.POST("/debug/query", searchHandler.DebugQuery)
	}
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr, "mode", gin.Mode())
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully and closes the result cache.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	err := s.server.Shutdown(ctx)
	if cerr := s.deps.Cache.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-ID, X-Session-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextMiddleware extracts context information from headers
func contextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		userID := c.GetHeader("X-User-ID")
		if userID != "" {
			ctx = context.WithValue(ctx, types.ContextKeyUserID, userID)
		}

		sessionID := c.GetHeader("X-Session-ID")
		if sessionID != "" {
			ctx = context.WithValue(ctx, types.ContextKeySessionID, sessionID)
		}

		ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "server")

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// loggingMiddleware writes one structured line per request
func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP())
	}
}

// metricsMiddleware records request counts and latency by route
func metricsMiddleware(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
