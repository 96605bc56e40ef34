// Package config loads runtime configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Server holds configuration of the catalog API server.
type Server struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	AppAddr         string        `envconfig:"APP_ADDR" default:":8000" validate:"required"`
	ReadTimeout     time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"memory" validate:"oneof=memory postgres"`
	PGDSN         string `envconfig:"PG_DSN" validate:"required_if=StorageDriver postgres"`
	PGMaxConns    int32  `envconfig:"PG_MAX_CONNS" default:"10" validate:"gte=1"`
	PGMigrate     bool   `envconfig:"PG_MIGRATE" default:"true"`

	// CounterStrategy selects how code counters reserve numbers (strict|cached).
	CounterStrategy  string `envconfig:"COUNTER_STRATEGY" default:"strict" validate:"oneof=strict cached"`
	CounterRangeSize int64  `envconfig:"COUNTER_RANGE_SIZE" default:"50" validate:"gte=1"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
	GzipEnabled    bool `envconfig:"GZIP_ENABLED" default:"true"`

	// AuditCompressThreshold is the payload size in bytes above which audit
	// changes are stored zstd-compressed.
	AuditCompressThreshold int `envconfig:"AUDIT_COMPRESS_THRESHOLD" default:"1024" validate:"gte=0"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Server) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

// Client holds configuration of the admin CLI.
type Client struct {
	AppEnv     string        `envconfig:"APP_ENV" default:"development"`
	APIBaseURL string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000" validate:"required,url"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	LogLevel   string        `envconfig:"LOG_LEVEL" default:"warn" validate:"oneof=debug info warn error"`
}

// LoadServer reads the server configuration.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient reads the admin CLI configuration.
func LoadClient() (*Client, error) {
	var cfg Client
	if err := load(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(cfg any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("process env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
