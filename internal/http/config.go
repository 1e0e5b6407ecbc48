package http

import (
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog BookService

	// Backend health check (optional, e.g. the SQLite connection)
	Pinger Pinger

	// Metrics endpoint (optional)
	MetricsGatherer prometheus.Gatherer

	// Application info
	Version string

	Logger *log.Logger
}
