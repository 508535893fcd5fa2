package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "orders.json", cfg.Input.Path)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:orders.db?cache=shared&_fk=1", cfg.Database.DSN)
	assert.Equal(t, "orders_loader.log", cfg.Logging.FilePath)
	assert.Equal(t, "debug", cfg.Logging.FileLevel)
	assert.Equal(t, "info", cfg.Logging.ConsoleLevel)
	assert.False(t, cfg.Observability.EnableTracing)
	assert.False(t, cfg.Observability.EnableMetrics)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("LOADER_INPUT_PATH", "/data/batch.json")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://loader@localhost:5432/orders?sslmode=disable")
	t.Setenv("DB_MAX_CONN_LIFETIME", "90s")
	t.Setenv("LOG_CONSOLE_LEVEL", "WARN")
	t.Setenv("OBS_ENABLE_TRACING", "true")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/data/batch.json", cfg.Input.Path)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 90*time.Second, cfg.Database.MaxConnLifetime)
	assert.Equal(t, "warn", cfg.Logging.ConsoleLevel)
	assert.True(t, cfg.Observability.EnableTracing)
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNew_RejectsEmptyDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestNew_RequiresOTLPEndpoint(t *testing.T) {
	t.Setenv("OBS_ENABLE_TRACING", "true")
	t.Setenv("OBS_TRACE_EXPORTER", "otlp")
	t.Setenv("OBS_OTLP_ENDPOINT", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OBS_OTLP_ENDPOINT")
}
