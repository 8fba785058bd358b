package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrov/user-service/internal/logger"
	"github.com/mpetrov/user-service/internal/model"
)

// Version reported by /health.
const Version = "1.0.0"

// SystemService defines monitoring operations.
type SystemService interface {
	Metrics(ctx context.Context) model.Metrics
	DatabaseHealth(ctx context.Context) model.DatabaseHealthReport
}

// System handles health, metrics and diagnostic endpoints.
type System struct {
	service  SystemService
	logger   *logger.Logger
	dbBacked bool
}

// NewSystem creates a new System handler. dbBacked controls whether the
// metrics payload carries database connectivity.
func NewSystem(service SystemService, logger *logger.Logger, dbBacked bool) *System {
	return &System{
		service:  service,
		logger:   logger,
		dbBacked: dbBacked,
	}
}

// Health reports static liveness. It never checks dependencies and always
// answers 200.
func (h *System) Health(c *gin.Context) {
	h.logger.Info("health check requested")

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// Root returns the welcome payload.
func (h *System) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Welcome to the user service!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"health":    "/health",
		"metrics":   "/metrics",
		"error":     "/error",
	})
}

// Metrics returns the application metrics snapshot.
func (h *System) Metrics(c *gin.Context) {
	metrics := h.service.Metrics(c.Request.Context())

	payload := gin.H{
		"total_users":                     metrics.TotalUsers,
		"timestamp":                       time.Now().UTC().Format(time.RFC3339),
		"application_insights_configured": metrics.TelemetryConfigured,
		"environment":                     metrics.Environment,
	}
	if h.dbBacked {
		payload["database_connected"] = metrics.DatabaseConnected
	}

	c.JSON(http.StatusOK, payload)
}

// DatabaseHealth probes the database and reports statistics. Failures are
// reported in the body with status "unhealthy", still as 200.
func (h *System) DatabaseHealth(c *gin.Context) {
	report := h.service.DatabaseHealth(c.Request.Context())

	payload := gin.H{
		"status":    report.Status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if report.Status == "healthy" {
		payload["total_users"] = report.TotalUsers
		payload["table_size_mb"] = report.TableSizeMB
		if report.FirstUserCreated != nil {
			payload["first_user_created"] = report.FirstUserCreated.UTC().Format(time.RFC3339)
		}
		if report.LastUserCreated != nil {
			payload["last_user_created"] = report.LastUserCreated.UTC().Format(time.RFC3339)
		}
	} else {
		payload["error"] = report.Error
	}

	c.JSON(http.StatusOK, payload)
}

// Error always fails with the generic 500 envelope, for testing the error
// path and logging pipeline.
func (h *System) Error(c *gin.Context) {
	h.logger.Error("simulated error occurred")

	c.JSON(http.StatusInternalServerError,
		NewErrorResponse("HTTP Exception", "This is a simulated error for testing"))
}
