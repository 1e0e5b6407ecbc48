package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Catalog
		Lookup
		Audit
		Backup
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Catalog struct {
		Path    string
		Backend string // "json" or "sqlite"
	}
	Lookup struct {
		Enabled       bool
		BaseURL       string
		Timeout       time.Duration
		RatePerSecond float64
	}
	Audit struct {
		Dir string // Empty disables the mutation journal
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
		Dir      string
		Keep     int
	}
	Log struct {
		Level string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("catalog_path", DefaultCatalogPath)
	v.SetDefault("catalog_backend", BackendJSON)

	// OpenLibrary lookups
	v.SetDefault("lookup_enabled", true)
	v.SetDefault("openlibrary_base_url", "https://openlibrary.org")
	v.SetDefault("lookup_timeout", "10s")
	v.SetDefault("lookup_rate_per_second", 1)

	v.SetDefault("audit_dir", "")

	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("backup_dir", "./backups")
	v.SetDefault("backup_keep", 24)

	v.SetDefault("log_level", "info")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Catalog: Catalog{
			Path:    v.GetString("CATALOG_PATH"),
			Backend: strings.ToLower(v.GetString("CATALOG_BACKEND")),
		},
		Lookup: Lookup{
			Enabled:       v.GetBool("LOOKUP_ENABLED"),
			BaseURL:       v.GetString("OPENLIBRARY_BASE_URL"),
			Timeout:       v.GetDuration("LOOKUP_TIMEOUT"),
			RatePerSecond: v.GetFloat64("LOOKUP_RATE_PER_SECOND"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Dir:      v.GetString("BACKUP_DIR"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown catalog backend %q (use %s or %s)", c.Catalog.Backend, BackendJSON, BackendSQLite)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path must not be empty")
	}
	if c.Backup.Enabled && c.Backup.Dir == "" {
		return fmt.Errorf("backup directory must be set when backups are enabled")
	}
	return nil
}
