package model

import (
	"context"
	"time"
)

// DatabaseHealth defines connectivity and statistics probes. It is
// implemented by the postgres repository only; in-memory deployments have
// nothing to probe.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (DatabaseStats, error)
}

// DatabaseStats holds row and size statistics for the users table.
type DatabaseStats struct {
	TotalUsers       int64
	FirstUserCreated *time.Time
	LastUserCreated  *time.Time
	TableSizeMB      float64
}

// DatabaseHealthReport is the result of a health probe. A failed probe is a
// report with status "unhealthy", not an error.
type DatabaseHealthReport struct {
	Status           string
	TotalUsers       int64
	FirstUserCreated *time.Time
	LastUserCreated  *time.Time
	TableSizeMB      float64
	Error            string
}

// Metrics is a point-in-time application metrics snapshot.
type Metrics struct {
	TotalUsers          int64
	TelemetryConfigured bool
	DatabaseConnected   bool
	Environment         string
}
