package storage

import (
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Row is the persisted shape of a book. It accepts every historical shape:
// rows with only a legacy "author" string, rows with an "authors" list, and
// rows with or without the category fields.
type Row struct {
	ISBN     string    `json:"isbn"`
	Title    string    `json:"title"`
	Authors  *[]string `json:"authors,omitempty"`
	Author   *string   `json:"author,omitempty"`
	Borrowed bool      `json:"is_borrowed"`
	BookType string    `json:"book_type,omitempty"`

	ShelfLocation   string  `json:"shelf_location,omitempty"`
	FileSizeMB      float64 `json:"file_size_mb,omitempty"`
	FileFormat      string  `json:"file_format,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	Narrator        string  `json:"narrator,omitempty"`
}

// FromBook builds the row written for b. Both "authors" and the legacy
// "author" field are always populated so older readers keep working.
func FromBook(b *entities.Book) Row {
	authors := append([]string{}, b.Authors...)
	author := b.Author()

	category := b.Category
	if category == "" {
		category = entities.CategoryPhysical
	}

	row := Row{
		ISBN:          b.ISBN,
		Title:         b.Title,
		Authors:       &authors,
		Author:        &author,
		Borrowed:      b.Borrowed,
		BookType:      string(category),
		ShelfLocation: b.ShelfLocation,
		FileFormat:    b.FileFormat,
		Narrator:      b.Narrator,
	}
	if b.FileSizeMB != nil {
		row.FileSizeMB = *b.FileSizeMB
	}
	if b.DurationMinutes != nil {
		row.DurationMinutes = *b.DurationMinutes
	}
	return row
}

// ToBook converts a row of any historical shape into the canonical Book.
// An "authors" list wins over the legacy "author" string when both exist.
func (r Row) ToBook() *entities.Book {
	var authors []string
	switch {
	case r.Authors != nil:
		authors = append([]string{}, *r.Authors...)
	case r.Author != nil:
		authors = []string{*r.Author}
	default:
		authors = []string{}
	}

	category := entities.Category(r.BookType)
	if !category.Valid() {
		category = entities.CategoryPhysical
	}

	book := &entities.Book{
		ISBN:          r.ISBN,
		Title:         r.Title,
		Authors:       authors,
		Borrowed:      r.Borrowed,
		Category:      category,
		ShelfLocation: r.ShelfLocation,
		FileFormat:    r.FileFormat,
		Narrator:      r.Narrator,
	}
	if r.FileSizeMB != 0 {
		size := r.FileSizeMB
		book.FileSizeMB = &size
	}
	if r.DurationMinutes != 0 {
		minutes := r.DurationMinutes
		book.DurationMinutes = &minutes
	}
	return book
}
