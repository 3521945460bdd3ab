package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/verity/pkg/driver"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

const serviceName = "verity"

// HealthHandler handles health check requests
type HealthHandler struct {
	store                driver.HealthChecker
	completionConfigured bool
}

// NewHealthHandler creates a new health handler. store may be nil, in which
// case readiness reports the database as unavailable.
func NewHealthHandler(store driver.HealthChecker, completionConfigured bool) *HealthHandler {
	return &HealthHandler{
		store:                store,
		completionConfigured: completionConfigured,
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"build": gin.H{
			"version":    Version,
			"git_commit": GitCommit,
			"build_time": BuildTime,
			"go_version": GoVersion,
		},
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	allHealthy := true

	if h.store != nil {
		start := time.Now()
		err := h.store.VerifyConnectivity(ctx)
		duration := time.Since(start)
		if err != nil {
			checks["database"] = gin.H{
				"status":   "unhealthy",
				"error":    err.Error(),
				"duration": duration.String(),
			}
			allHealthy = false
		} else {
			checks["database"] = gin.H{
				"status":   "healthy",
				"duration": duration.String(),
			}
		}
	} else {
		checks["database"] = gin.H{
			"status": "unhealthy",
			"error":  "graph store not initialized",
		}
		allHealthy = false
	}

	if h.completionConfigured {
		checks["completion"] = gin.H{"status": "configured"}
	} else {
		checks["completion"] = gin.H{
			"status": "unhealthy",
			"error":  "completion client not configured",
		}
		allHealthy = false
	}

	status := "ready"
	code := http.StatusOK
	if !allHealthy {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}
