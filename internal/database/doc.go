// Package database provides the SQLite persistence backend for the catalog.
//
// The catalog is small and always held in memory, so the table is used as a
// snapshot store rather than a queryable index: every save rewrites the table
// inside one transaction, and a position column preserves insertion order.
//
//	db, err := database.NewDatabase("./library.db")
//	store := catalog.NewStore(db, logger)
//
// Database implements storage.Backend, so it is interchangeable with the JSON
// flat-file backend; the choice is made by CATALOG_BACKEND in entrypoint.
package database
