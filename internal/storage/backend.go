// Package storage defines how the catalog is persisted between runs.
//
// A Backend stores the whole catalog as an ordered list of Rows and replaces
// it wholesale on every save. Two backends exist: JSONFile (this package), the
// default flat file compatible with library.json files written by earlier
// versions, and database.Database, which keeps the same rows in SQLite.
package storage

import "errors"

// ErrCorrupt is returned by Backend.Load when the stored content exists but
// cannot be parsed as a list of rows.
var ErrCorrupt = errors.New("corrupt catalog data")

// Backend persists the full list of catalog rows.
type Backend interface {
	// Load returns the stored rows in order. A missing resource yields
	// (nil, nil); unparsable content yields an error wrapping ErrCorrupt.
	Load() ([]Row, error)

	// Save replaces the stored rows with rows.
	Save(rows []Row) error

	// Location describes where the rows live, for logs and health output.
	Location() string
}
