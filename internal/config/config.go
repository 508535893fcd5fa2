package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Input holds input file configuration.
type Input struct {
	Path string
}

// Database holds the backing store connection settings.
type Database struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

// Logging configures the dual-sink logger: an append-only file at fine
// granularity plus a console stream at coarse granularity.
type Logging struct {
	FilePath     string
	FileLevel    string
	ConsoleLevel string
}

// Observability contains tracing and metrics configuration.
type Observability struct {
	ServiceName     string
	Environment     string
	EnableTracing   bool
	TraceExporter   string
	TraceEndpoint   string
	TraceInsecure   bool
	EnableMetrics   bool
	MetricsExporter string
}

// Config wraps all application configuration knobs.
type Config struct {
	Input         Input
	Database      Database
	Logging       Logging
	Observability Observability
}

// Module wires the configuration loader into the Fx graph.
var Module = fx.Provide(New)

var loadEnvOnce sync.Once

// New builds a Config from environment variables or defaults.
func New() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	cfg := Config{
		Input: Input{
			Path: getEnv("LOADER_INPUT_PATH", "orders.json"),
		},
		Database: Database{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			DSN:             getEnv("DB_DSN", "file:orders.db?cache=shared&_fk=1"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 1),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Minute*5),
		},
		Logging: Logging{
			FilePath:     getEnv("LOG_FILE", "orders_loader.log"),
			FileLevel:    getEnv("LOG_LEVEL", "debug"),
			ConsoleLevel: getEnv("LOG_CONSOLE_LEVEL", "info"),
		},
		Observability: Observability{
			ServiceName:     getEnv("OBS_SERVICE_NAME", "orderloader"),
			Environment:     getEnv("OBS_ENVIRONMENT", "local"),
			EnableTracing:   getEnvAsBool("OBS_ENABLE_TRACING", false),
			TraceExporter:   getEnv("OBS_TRACE_EXPORTER", "stdout"),
			TraceEndpoint:   getEnv("OBS_OTLP_ENDPOINT", "localhost:4317"),
			TraceInsecure:   getEnvAsBool("OBS_OTLP_INSECURE", true),
			EnableMetrics:   getEnvAsBool("OBS_ENABLE_METRICS", false),
			MetricsExporter: getEnv("OBS_METRICS_EXPORTER", "stdout"),
		},
	}

	if cfg.Input.Path == "" {
		return Config{}, fmt.Errorf("missing LOADER_INPUT_PATH")
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres", "mysql":
		// supported
	default:
		return Config{}, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	if cfg.Database.DSN == "" {
		return Config{}, fmt.Errorf("missing DB_DSN")
	}

	cfg.Logging.FileLevel = strings.ToLower(strings.TrimSpace(cfg.Logging.FileLevel))
	if cfg.Logging.FileLevel == "" {
		cfg.Logging.FileLevel = "debug"
	}
	cfg.Logging.ConsoleLevel = strings.ToLower(strings.TrimSpace(cfg.Logging.ConsoleLevel))
	if cfg.Logging.ConsoleLevel == "" {
		cfg.Logging.ConsoleLevel = "info"
	}
	if cfg.Logging.FilePath == "" {
		return Config{}, fmt.Errorf("missing LOG_FILE")
	}

	cfg.Observability.TraceExporter = strings.ToLower(strings.TrimSpace(cfg.Observability.TraceExporter))
	if cfg.Observability.TraceExporter == "" {
		cfg.Observability.TraceExporter = "stdout"
	}
	cfg.Observability.MetricsExporter = strings.ToLower(strings.TrimSpace(cfg.Observability.MetricsExporter))
	if cfg.Observability.MetricsExporter == "" {
		cfg.Observability.MetricsExporter = "stdout"
	}

	if cfg.Observability.EnableTracing && cfg.Observability.TraceExporter == "otlp" && cfg.Observability.TraceEndpoint == "" {
		return Config{}, fmt.Errorf("OBS_OTLP_ENDPOINT must be set for otlp exporter")
	}

	return cfg, nil
}
