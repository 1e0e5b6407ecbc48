// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Persistence
//
//   - storage.Backend: Load and save the whole collection (internal/storage/backend.go).
//     Implemented by the JSON file and by the SQLite database.
//
// ## External Service Interfaces
//
//   - metadata.LookupProvider: Raw OpenLibrary edition and author lookups (internal/metadata/enricher.go)
//   - catalog.Fetcher: Turns an ISBN into a book (internal/catalog/catalog.go)
//
// ## Catalog Collaborators
//
//   - catalog.MutationRecorder: Notified after each successful change (internal/catalog/catalog.go)
//   - scheduler.SnapshotSource: Supplies books for periodic backups (internal/scheduler/backup.go)
//
// ## HTTP Layer
//
//   - http.BookService: Everything the REST handlers call (internal/http/books.go)
//   - http.Pinger: Storage health probe (internal/http/health.go)
//
// # Adding a New Storage Backend
//
// To persist the catalog somewhere else (e.g., PostgreSQL):
//
//  1. Implement Backend in its own package:
//
//     type PostgresBackend struct {
//         db *gorm.DB
//     }
//
//     func (p *PostgresBackend) Load() ([]storage.Row, error)
//     func (p *PostgresBackend) Save(rows []storage.Row) error
//     func (p *PostgresBackend) Location() string
//
//  2. Add a CATALOG_BACKEND value in internal/config and select it in entrypoint.Build.
//
// # Adding a New Metadata Provider
//
// To look books up somewhere other than OpenLibrary, implement catalog.Fetcher
// and pass it to catalog.New. Lookups that find nothing must wrap
// entities.ErrNotFound.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
