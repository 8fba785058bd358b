package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/mpetrov/user-service"
	meterName  = "github.com/mpetrov/user-service"
)

// Metrics holds the OpenTelemetry metric instruments.
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram
	RequestErrors   metric.Int64Counter
}

// Telemetry bundles the tracer and metric instruments used by the HTTP
// middleware. Without a connection string it stays disabled and the
// middleware skips all instrumentation.
type Telemetry struct {
	enabled bool
	Tracer  trace.Tracer
	Metrics *Metrics
}

// New creates a Telemetry instance. An empty connection string yields a
// disabled instance.
func New(connectionString string) (*Telemetry, error) {
	if connectionString == "" {
		return &Telemetry{}, nil
	}

	metrics, err := initMetrics(otel.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("failed to init metric instruments: %w", err)
	}

	return &Telemetry{
		enabled: true,
		Tracer:  otel.Tracer(tracerName),
		Metrics: metrics,
	}, nil
}

// Enabled reports whether a telemetry sink is configured.
func (t *Telemetry) Enabled() bool {
	return t != nil && t.enabled
}

func initMetrics(meter metric.Meter) (*Metrics, error) {
	requestCount, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of HTTP requests handled"))
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	requestErrors, err := meter.Int64Counter("http.server.request.errors",
		metric.WithDescription("Number of HTTP requests that failed with a server error"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:    requestCount,
		RequestDuration: requestDuration,
		RequestErrors:   requestErrors,
	}, nil
}
