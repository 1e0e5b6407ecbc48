package entrypoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Catalog.Backend = backend
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "library")
	cfg.Lookup.Enabled = false
	cfg.HTTP.Port = 0
	return cfg
}

func TestBuild_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			cfg.Audit.Dir = filepath.Join(t.TempDir(), "audit")

			components, err := Build(cfg, nil)
			require.NoError(t, err)

			_, err = components.Catalog.AddManual(entities.NewBook("1", "Dune", "Frank Herbert"))
			require.NoError(t, err)
			require.NoError(t, components.Close())

			// A second build sees what the first one persisted.
			again, err := Build(cfg, nil)
			require.NoError(t, err)
			defer again.Close()

			book, err := again.Catalog.Get("1")
			require.NoError(t, err)
			assert.Equal(t, "Dune", book.Title)

			files, err := filepath.Glob(filepath.Join(cfg.Audit.Dir, "*.json"))
			require.NoError(t, err)
			assert.Len(t, files, 1)
		})
	}
}

func TestBuild_SQLiteExposesPinger(t *testing.T) {
	components, err := Build(testConfig(t, config.BackendSQLite), nil)
	require.NoError(t, err)
	defer components.Close()

	require.NotNil(t, components.Database)
	assert.NoError(t, components.Database.Ping())
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	_, err := Build(testConfig(t, "postgres"), nil)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestServe_StopsWhenContextEnds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t, config.BackendJSON)
	cfg.HTTP.Host = "127.0.0.1"

	ctx, cancel := context.WithCancel(context.Background())
	shutdownCalled := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, gin.New(), cfg, nil, func(context.Context) { close(shutdownCalled) })
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	<-shutdownCalled
}
