package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/metadata"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/storage"
)

// =============================================================================
// Persistence
// =============================================================================

// Backend implementations
var _ storage.Backend = (*storage.JSONFile)(nil)
var _ storage.Backend = (*database.Database)(nil)

// =============================================================================
// External Services
// =============================================================================

// LookupProvider implementations
var _ metadata.LookupProvider = (*metadata.OpenLibraryClient)(nil)

// =============================================================================
// Catalog Collaborators
// =============================================================================

var _ catalog.Fetcher = (*metadata.Enricher)(nil)
var _ catalog.MutationRecorder = (*audit.Auditor)(nil)
var _ scheduler.SnapshotSource = (*catalog.Catalog)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.BookService = (*catalog.Catalog)(nil)
var _ http.Pinger = (*database.Database)(nil)
