package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/orderloader/internal/config"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Database: config.Database{
			Driver:          "sqlite",
			DSN:             "file:" + filepath.Join(t.TempDir(), "orders.db"),
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			MaxConnLifetime: time.Minute,
		},
	}
}

func TestNew_SQLiteLifecycle(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	conn, err := New(lc, sqliteConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, conn.DB)

	lc.RequireStart()
	lc.RequireStop()
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := New(fxtest.NewLifecycle(t), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenSQLDB_EmptyDSN(t *testing.T) {
	_, err := openSQLDB("sqlite", "")
	assert.Error(t, err)
}

func TestSelectDialect(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			dial, err := selectDialect(driver)
			require.NoError(t, err)
			assert.NotNil(t, dial)
		})
	}
}
