package entities

import (
	"fmt"
	"strings"
)

// UnknownAuthor is shown in place of an empty author list. It is never stored.
const UnknownAuthor = "Unknown Author"

type Category string

const (
	CategoryPhysical Category = "Physical"
	CategoryDigital  Category = "Digital"
	CategoryAudio    Category = "Audio"
)

// Categories lists every supported category in display order.
var Categories = []Category{CategoryPhysical, CategoryDigital, CategoryAudio}

// ParseCategory maps a category name to a Category. An empty name yields
// CategoryPhysical; unknown names fail with ErrValidation.
func ParseCategory(name string) (Category, error) {
	if name == "" {
		return CategoryPhysical, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown book type %q (use Physical, Digital or Audio)", ErrValidation, name)
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Book is a single catalog entry. Category-specific attributes are free-form
// and are not checked against Category.
type Book struct {
	ISBN     string   `json:"isbn"`
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Borrowed bool     `json:"is_borrowed"`
	Category Category `json:"book_type"`

	// Physical
	ShelfLocation string `json:"shelf_location,omitempty"`

	// Digital
	FileSizeMB *float64 `json:"file_size_mb,omitempty"`
	FileFormat string   `json:"file_format,omitempty"`

	// Audio
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	Narrator        string `json:"narrator,omitempty"`
}

// NewBook returns an available Physical book.
func NewBook(isbn, title string, authors ...string) *Book {
	if authors == nil {
		authors = []string{}
	}
	return &Book{
		ISBN:     isbn,
		Title:    title,
		Authors:  authors,
		Category: CategoryPhysical,
	}
}

// Author returns the primary author, or UnknownAuthor when there is none.
func (b *Book) Author() string {
	if len(b.Authors) == 0 {
		return UnknownAuthor
	}
	return b.Authors[0]
}

// AuthorList joins all authors for display.
func (b *Book) AuthorList() string {
	if len(b.Authors) == 0 {
		return UnknownAuthor
	}
	return strings.Join(b.Authors, ", ")
}

func (b *Book) String() string {
	return fmt.Sprintf("%s by %s (%s)", b.Title, b.AuthorList(), b.ISBN)
}

// Borrow marks an available book as borrowed.
func (b *Book) Borrow() error {
	if b.Borrowed {
		return fmt.Errorf("%w: '%s' is already borrowed", ErrInvalidState, b.Title)
	}
	b.Borrowed = true
	return nil
}

// Return marks a borrowed book as available again.
func (b *Book) Return() error {
	if !b.Borrowed {
		return fmt.Errorf("%w: '%s' was not borrowed", ErrInvalidState, b.Title)
	}
	b.Borrowed = false
	return nil
}

// Clone returns a deep copy that shares no memory with b.
func (b *Book) Clone() *Book {
	c := *b
	if b.Authors != nil {
		c.Authors = append([]string(nil), b.Authors...)
	}
	if b.FileSizeMB != nil {
		v := *b.FileSizeMB
		c.FileSizeMB = &v
	}
	if b.DurationMinutes != nil {
		v := *b.DurationMinutes
		c.DurationMinutes = &v
	}
	return &c
}

// Extras carries the optional category-specific attributes. Nil fields are
// left untouched by Apply.
type Extras struct {
	ShelfLocation   *string
	FileSizeMB      *float64
	FileFormat      *string
	DurationMinutes *int
	Narrator        *string
}

// Apply copies every set field onto b.
func (e Extras) Apply(b *Book) {
	if e.ShelfLocation != nil {
		b.ShelfLocation = *e.ShelfLocation
	}
	if e.FileSizeMB != nil {
		v := *e.FileSizeMB
		b.FileSizeMB = &v
	}
	if e.FileFormat != nil {
		b.FileFormat = *e.FileFormat
	}
	if e.DurationMinutes != nil {
		v := *e.DurationMinutes
		b.DurationMinutes = &v
	}
	if e.Narrator != nil {
		b.Narrator = *e.Narrator
	}
}

// ForCategory drops the attributes that do not belong to c.
func (e Extras) ForCategory(c Category) Extras {
	switch c {
	case CategoryPhysical:
		return Extras{ShelfLocation: e.ShelfLocation}
	case CategoryDigital:
		return Extras{FileSizeMB: e.FileSizeMB, FileFormat: e.FileFormat}
	case CategoryAudio:
		return Extras{DurationMinutes: e.DurationMinutes, Narrator: e.Narrator}
	}
	return Extras{}
}

// BookUpdate is a partial update: only non-nil fields are applied.
type BookUpdate struct {
	Title    *string
	Authors  []string
	Borrowed *bool
	Category *Category
	Extras
}

// Apply copies every set field onto b. A nil Authors slice means "unchanged".
func (u BookUpdate) Apply(b *Book) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Authors != nil {
		b.Authors = append([]string(nil), u.Authors...)
	}
	if u.Borrowed != nil {
		b.Borrowed = *u.Borrowed
	}
	if u.Category != nil {
		b.Category = *u.Category
	}
	u.Extras.Apply(b)
}

// IsEmpty reports whether the update changes nothing.
func (u BookUpdate) IsEmpty() bool {
	return u.Title == nil && u.Authors == nil && u.Borrowed == nil && u.Category == nil &&
		u.ShelfLocation == nil && u.FileSizeMB == nil && u.FileFormat == nil &&
		u.DurationMinutes == nil && u.Narrator == nil
}
