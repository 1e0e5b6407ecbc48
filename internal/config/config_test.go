package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8000), cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
	assert.Equal(t, DefaultCatalogPath, cfg.Catalog.Path)
	assert.Equal(t, BackendJSON, cfg.Catalog.Backend)
	assert.True(t, cfg.Lookup.Enabled)
	assert.Equal(t, "https://openlibrary.org", cfg.Lookup.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, 1.0, cfg.Lookup.RatePerSecond)
	assert.Empty(t, cfg.Audit.Dir)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, "0 * * * *", cfg.Backup.Schedule)
	assert.Equal(t, 24, cfg.Backup.Keep)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_PATH", "/tmp/books.db")
	t.Setenv("CATALOG_BACKEND", "SQLite")
	t.Setenv("LOOKUP_TIMEOUT", "3s")
	t.Setenv("LOOKUP_RATE_PER_SECOND", "0.5")
	t.Setenv("BACKUP_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/books.db", cfg.Catalog.Path)
	assert.Equal(t, BackendSQLite, cfg.Catalog.Backend)
	assert.Equal(t, 3*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, 0.5, cfg.Lookup.RatePerSecond)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	cfg.Catalog.Backend = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "unknown catalog backend")

	cfg = NewConfig()
	cfg.Catalog.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.Backup.Enabled = true
	cfg.Backup.Dir = ""
	assert.Error(t, cfg.Validate())
}
