package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel       int       `env:"LOG_LEVEL" envDefault:"0"`
	Port           string    `env:"PORT" envDefault:"8000"`
	Environment    string    `env:"ENVIRONMENT" envDefault:"development"`
	StorageBackend string    `env:"STORAGE_BACKEND" envDefault:"memory"`
	HTTP           HTTP      `envPrefix:"HTTP_"`
	Database       Database  `envPrefix:"DB_"`
	Telemetry      Telemetry
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters.
type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:""`
	Name     string `env:"NAME" envDefault:"users_db"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// DSN builds a postgres connection URL from the parts.
func (d Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Telemetry contains external telemetry sink parameters. An empty connection
// string leaves telemetry disabled.
type Telemetry struct {
	ConnectionString string `env:"APPLICATIONINSIGHTS_CONNECTION_STRING"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.StorageBackend != BackendMemory && cfg.StorageBackend != BackendPostgres {
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}

	return &cfg, nil
}
