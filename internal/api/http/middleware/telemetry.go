package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpetrov/user-service/internal/telemetry"
)

// Telemetry traces requests and records request metrics when a telemetry
// sink is configured. Disabled telemetry makes this a pass-through.
type Telemetry struct {
	telemetry *telemetry.Telemetry
}

// NewTelemetry creates a new Telemetry middleware.
func NewTelemetry(t *telemetry.Telemetry) *Telemetry {
	return &Telemetry{telemetry: t}
}

// Handle wraps the request in a span and records counters and duration.
func (m *Telemetry) Handle(c *gin.Context) {
	if !m.telemetry.Enabled() {
		c.Next()
		return
	}

	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}

	ctx, span := m.telemetry.Tracer.Start(c.Request.Context(), c.Request.Method+" "+route)
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", c.Request.Method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)

	m.telemetry.Metrics.RequestCount.Add(ctx, 1, attrs)
	m.telemetry.Metrics.RequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)

	span.SetAttributes(
		attribute.String("http.request.method", c.Request.Method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)

	if status >= http.StatusInternalServerError {
		m.telemetry.Metrics.RequestErrors.Add(ctx, 1, attrs)
		span.SetStatus(codes.Error, http.StatusText(status))
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
