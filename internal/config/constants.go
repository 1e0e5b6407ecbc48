package config

// Default locations and backends
const (
	// DefaultCatalogPath is the default catalog file, or SQLite database when
	// the sqlite backend is selected
	DefaultCatalogPath = "./library.json"

	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)
