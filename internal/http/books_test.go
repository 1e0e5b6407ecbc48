package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/metadata"
	"github.com/mrlokans/bookcatalog/internal/storage"
)

// fakeOpenLibrary serves Fantastic Mr. Fox and 404s everything else.
func fakeOpenLibrary(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/isbn/9780140328721.json":
			_, _ = w.Write([]byte(`{"title": "Fantastic Mr. Fox", "authors": [{"key": "/authors/A1"}]}`))
		case "/authors/A1.json":
			_, _ = w.Write([]byte(`{"name": "Roald Dahl"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func setupBooksRouter(t *testing.T) (*gin.Engine, *catalog.Catalog, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "library.json")
	store := catalog.NewStore(storage.NewJSONFile(path), nil)
	require.NoError(t, store.Load())

	client := metadata.NewOpenLibraryClient(metadata.ClientConfig{BaseURL: fakeOpenLibrary(t).URL})
	c := catalog.New(store, metadata.NewEnricher(client, nil), nil)

	router := NewRouter(RouterConfig{Catalog: c, Version: "test"})
	return router, c, path
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeBook(t *testing.T, w *httptest.ResponseRecorder) entities.Book {
	t.Helper()
	var book entities.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	return book
}

func TestBooksController_ListBooks(t *testing.T) {
	t.Run("returns empty list when no books", func(t *testing.T) {
		router, _, _ := setupBooksRouter(t)

		w := doJSON(t, router, "GET", "/books", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("returns books in insertion order", func(t *testing.T) {
		router, c, _ := setupBooksRouter(t)
		_, err := c.AddManual(entities.NewBook("2", "Second", "B"))
		require.NoError(t, err)
		_, err = c.AddManual(entities.NewBook("1", "First", "A"))
		require.NoError(t, err)

		w := doJSON(t, router, "GET", "/books", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var books []entities.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
		require.Len(t, books, 2)
		assert.Equal(t, "2", books[0].ISBN)
		assert.Equal(t, "1", books[1].ISBN)
	})
}

func TestBooksController_AddBook(t *testing.T) {
	t.Run("adds a book found by ISBN", func(t *testing.T) {
		router, _, _ := setupBooksRouter(t)

		w := doJSON(t, router, "POST", "/books", map[string]any{
			"isbn":             "9780140328721",
			"book_type":        "Audio",
			"narrator":         "Stephen Fry",
			"duration_minutes": 95,
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		book := decodeBook(t, w)
		assert.Equal(t, "Fantastic Mr. Fox", book.Title)
		assert.Equal(t, []string{"Roald Dahl"}, book.Authors)
		assert.Equal(t, entities.CategoryAudio, book.Category)
		assert.Equal(t, "Stephen Fry", book.Narrator)
		require.NotNil(t, book.DurationMinutes)
		assert.Equal(t, 95, *book.DurationMinutes)
	})

	t.Run("unknown ISBN is 404", func(t *testing.T) {
		router, c, _ := setupBooksRouter(t)

		w := doJSON(t, router, "POST", "/books", map[string]any{"isbn": "0000000000"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"not_found"`)
		assert.Empty(t, c.List())
	})

	t.Run("duplicate is 409", func(t *testing.T) {
		router, _, _ := setupBooksRouter(t)

		first := doJSON(t, router, "POST", "/books", map[string]any{"isbn": "9780140328721"})
		require.Equal(t, http.StatusCreated, first.Code)

		w := doJSON(t, router, "POST", "/books", map[string]any{"isbn": "9780140328721"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("validates the request", func(t *testing.T) {
		router, _, _ := setupBooksRouter(t)

		for _, body := range []map[string]any{
			{},
			{"isbn": "123"},
			{"isbn": "9780140328721", "book_type": "Scroll"},
		} {
			w := doJSON(t, router, "POST", "/books", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
	})

	t.Run("wrong-typed extra reports the binding error", func(t *testing.T) {
		router, c, _ := setupBooksRouter(t)

		w := doJSON(t, router, "POST", "/books", map[string]any{
			"isbn":         "9780140328721",
			"file_size_mb": "x",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "invalid request body", body.Error)
		assert.Equal(t, CodeValidation, body.Code)
		assert.Contains(t, body.Details, "file_size_mb")
		assert.NotContains(t, body.Error, "isbn")
		assert.Empty(t, c.List())
	})
}

func TestBooksController_AddManualBook(t *testing.T) {
	t.Run("filters extras by category and trims authors", func(t *testing.T) {
		router, _, path := setupBooksRouter(t)

		w := doJSON(t, router, "POST", "/books/manual", map[string]any{
			"isbn":           "978-0345339683",
			"title":          "The Hobbit",
			"authors":        []string{" J.R.R. Tolkien ", ""},
			"shelf_location": "A-1",
			"narrator":       "dropped for physical books",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		book := decodeBook(t, w)
		assert.Equal(t, []string{"J.R.R. Tolkien"}, book.Authors)
		assert.Equal(t, entities.CategoryPhysical, book.Category)
		assert.Equal(t, "A-1", book.ShelfLocation)
		assert.Empty(t, book.Narrator)

		rows, err := storage.NewJSONFile(path).Load()
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "J.R.R. Tolkien", *rows[0].Author)
	})

	t.Run("requires a non-blank author", func(t *testing.T) {
		router, _, _ := setupBooksRouter(t)

		w := doJSON(t, router, "POST", "/books/manual", map[string]any{
			"isbn": "1", "title": "Nobody", "authors": []string{"  "},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "author")
	})

	t.Run("duplicate is 409", func(t *testing.T) {
		router, c, _ := setupBooksRouter(t)
		_, err := c.AddManual(entities.NewBook("1", "One", "A"))
		require.NoError(t, err)

		w := doJSON(t, router, "POST", "/books/manual", map[string]any{
			"isbn": "1", "title": "Other", "authors": []string{"B"},
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestBooksController_GetUpdateDelete(t *testing.T) {
	router, c, _ := setupBooksRouter(t)
	_, err := c.AddManual(entities.NewBook("1", "Dune", "Frank Herbert"))
	require.NoError(t, err)

	w := doJSON(t, router, "GET", "/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune", decodeBook(t, w).Title)

	w = doJSON(t, router, "GET", "/books/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "PUT", "/books/1", map[string]any{
		"title":        "Dune Messiah",
		"book_type":    "digital",
		"file_size_mb": 1.2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBook(t, w)
	assert.Equal(t, "Dune Messiah", updated.Title)
	assert.Equal(t, []string{"Frank Herbert"}, updated.Authors)
	assert.Equal(t, entities.CategoryDigital, updated.Category)
	require.NotNil(t, updated.FileSizeMB)
	assert.Equal(t, 1.2, *updated.FileSizeMB)

	w = doJSON(t, router, "PUT", "/books/1", map[string]any{"book_type": "Scroll"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "PUT", "/books/404", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, "DELETE", "/books/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, "DELETE", "/books/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_BorrowOrReturn(t *testing.T) {
	router, c, _ := setupBooksRouter(t)
	_, err := c.AddManual(entities.NewBook("978-0345339683", "The Hobbit", "J.R.R. Tolkien"))
	require.NoError(t, err)

	w := doJSON(t, router, "POST", "/books/978-0345339683/borrow", map[string]string{"action": "borrow"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeBook(t, w).Borrowed)

	w = doJSON(t, router, "POST", "/books/978-0345339683/borrow", map[string]string{"action": "borrow"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "'The Hobbit' is already borrowed")

	w = doJSON(t, router, "POST", "/books/978-0345339683/borrow", map[string]string{"action": "return"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeBook(t, w).Borrowed)

	w = doJSON(t, router, "POST", "/books/978-0345339683/borrow", map[string]string{"action": "steal"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/books/404/borrow", map[string]string{"action": "borrow"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RootAndUnknownRoutes(t *testing.T) {
	router, _, _ := setupBooksRouter(t)

	w := doJSON(t, router, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book Catalog API")

	w = doJSON(t, router, "GET", "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
