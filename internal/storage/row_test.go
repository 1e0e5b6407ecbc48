package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

func decodeRow(t *testing.T, raw string) Row {
	t.Helper()
	var row Row
	require.NoError(t, json.Unmarshal([]byte(raw), &row))
	return row
}

func TestRow_ToBook_LegacyShapes(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		expectedAuthors []string
	}{
		{
			name:            "first generation row with single author",
			raw:             `{"title": "Ulysses", "author": "James Joyce", "isbn": "978-0199535675"}`,
			expectedAuthors: []string{"James Joyce"},
		},
		{
			name:            "authors list",
			raw:             `{"isbn": "1", "title": "Good Omens", "authors": ["Terry Pratchett", "Neil Gaiman"]}`,
			expectedAuthors: []string{"Terry Pratchett", "Neil Gaiman"},
		},
		{
			name:            "authors list wins over legacy author",
			raw:             `{"isbn": "1", "title": "T", "authors": ["A", "B"], "author": "A"}`,
			expectedAuthors: []string{"A", "B"},
		},
		{
			name:            "empty authors list with sentinel author",
			raw:             `{"isbn": "1", "title": "T", "authors": [], "author": "Unknown Author"}`,
			expectedAuthors: []string{},
		},
		{
			name:            "no author information",
			raw:             `{"isbn": "1", "title": "T"}`,
			expectedAuthors: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := decodeRow(t, tt.raw).ToBook()
			assert.Equal(t, tt.expectedAuthors, book.Authors)
			assert.Equal(t, entities.CategoryPhysical, book.Category)
			assert.False(t, book.Borrowed)
		})
	}
}

func TestRow_ToBook_CategoryFields(t *testing.T) {
	row := decodeRow(t, `{
		"isbn": "9780743273565",
		"title": "The Great Gatsby",
		"authors": ["F. Scott Fitzgerald"],
		"is_borrowed": true,
		"book_type": "Audio",
		"duration_minutes": 300,
		"narrator": "Jake Gyllenhaal"
	}`)

	book := row.ToBook()
	assert.True(t, book.Borrowed)
	assert.Equal(t, entities.CategoryAudio, book.Category)
	require.NotNil(t, book.DurationMinutes)
	assert.Equal(t, 300, *book.DurationMinutes)
	assert.Equal(t, "Jake Gyllenhaal", book.Narrator)
	assert.Nil(t, book.FileSizeMB)
}

func TestRow_ToBook_UnknownCategoryFallsBackToPhysical(t *testing.T) {
	book := decodeRow(t, `{"isbn": "1", "title": "T", "book_type": "Scroll"}`).ToBook()
	assert.Equal(t, entities.CategoryPhysical, book.Category)
}

func TestFromBook_WritesBothAuthorFields(t *testing.T) {
	t.Run("with authors", func(t *testing.T) {
		row := FromBook(entities.NewBook("1", "Good Omens", "Terry Pratchett", "Neil Gaiman"))

		require.NotNil(t, row.Authors)
		require.NotNil(t, row.Author)
		assert.Equal(t, []string{"Terry Pratchett", "Neil Gaiman"}, *row.Authors)
		assert.Equal(t, "Terry Pratchett", *row.Author)
	})

	t.Run("without authors", func(t *testing.T) {
		row := FromBook(entities.NewBook("1", "Anonymous"))

		require.NotNil(t, row.Authors)
		assert.Empty(t, *row.Authors)
		assert.Equal(t, entities.UnknownAuthor, *row.Author)

		// The sentinel is written for old readers but never read back as an author.
		assert.Empty(t, row.ToBook().Authors)
	})

	t.Run("missing category defaults to Physical", func(t *testing.T) {
		row := FromBook(&entities.Book{ISBN: "1", Title: "T"})
		assert.Equal(t, "Physical", row.BookType)
	})
}
