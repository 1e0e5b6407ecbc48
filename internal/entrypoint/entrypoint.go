package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	http_controllers "github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/logging"
	"github.com/mrlokans/bookcatalog/internal/metadata"
	"github.com/mrlokans/bookcatalog/internal/metrics"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/storage"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Components is a fully wired catalog and the resources behind it.
type Components struct {
	Catalog  *catalog.Catalog
	Database *database.Database // nil for the JSON backend
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

// Close releases the backend.
func (c *Components) Close() error {
	if c.Database != nil {
		return c.Database.Close()
	}
	return nil
}

// Build loads the catalog from the configured backend and attaches the
// enricher, metrics and audit journal.
func Build(cfg *config.Config, logger *log.Logger) (*Components, error) {
	logger = logging.OrDefault(logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	components := &Components{Registry: prometheus.NewRegistry()}

	var backend storage.Backend
	switch cfg.Catalog.Backend {
	case config.BackendSQLite:
		db, err := database.NewDatabase(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("open catalog database: %w", err)
		}
		components.Database = db
		backend = db
	default:
		backend = storage.NewJSONFile(cfg.Catalog.Path)
	}

	store := catalog.NewStore(backend, logger)
	if err := store.Load(); err != nil {
		_ = components.Close()
		return nil, err
	}

	components.Metrics = metrics.New(components.Registry)

	var fetcher catalog.Fetcher
	if cfg.Lookup.Enabled {
		client := metadata.NewOpenLibraryClient(metadata.ClientConfig{
			BaseURL:       cfg.Lookup.BaseURL,
			Timeout:       cfg.Lookup.Timeout,
			RatePerSecond: cfg.Lookup.RatePerSecond,
		})
		enricher := metadata.NewEnricher(client, logger)
		enricher.SetMetrics(components.Metrics)
		fetcher = enricher
	} else {
		logger.Warn("ISBN lookups are disabled; adding by ISBN will report not found")
	}

	components.Catalog = catalog.New(store, fetcher, logger)
	components.Catalog.SetMetrics(components.Metrics)

	if cfg.Audit.Dir != "" {
		components.Catalog.SetAuditor(audit.NewAuditor(cfg.Audit.Dir, logger))
		logger.Info("audit journal enabled", "dir", cfg.Audit.Dir)
	}

	logger.Info("catalog loaded", "location", backend.Location(), "books", store.Len())
	return components, nil
}

// Serve runs the HTTP server until ctx ends or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func Serve(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *log.Logger, onShutdown ShutdownFunc) error {
	logger = logging.OrDefault(logger)
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "timeout", timeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// Run builds every component from cfg and serves the REST API.
func Run(ctx context.Context, cfg *config.Config, version string, logger *log.Logger) error {
	logger = logging.OrDefault(logger)
	logger.Info("starting book catalog", "version", version)

	components, err := Build(cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()

	components.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var backups *scheduler.BackupScheduler
	if cfg.Backup.Enabled {
		backups = scheduler.NewBackupScheduler(components.Catalog, scheduler.BackupConfig{
			Schedule: cfg.Backup.Schedule,
			Dir:      cfg.Backup.Dir,
			Keep:     cfg.Backup.Keep,
		}, logger)
		if err := backups.Start(ctx); err != nil {
			return fmt.Errorf("start backup scheduler: %w", err)
		}
	} else {
		logger.Debug("backup scheduler: disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:         components.Catalog,
		MetricsGatherer: components.Registry,
		Version:         version,
		Logger:          logger,
	}
	if components.Database != nil {
		routerCfg.Pinger = components.Database
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if backups != nil {
			backups.Stop()
		}
	}

	return Serve(ctx, router, cfg, logger, onShutdown)
}
