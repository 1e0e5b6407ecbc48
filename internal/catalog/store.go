// Package catalog holds the in-memory book collection and the operations
// the transports call on it.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
	"github.com/mrlokans/bookcatalog/internal/storage"
)

// Store keeps books in insertion order and writes the whole collection to its
// backend after every change. It is not safe for concurrent use.
type Store struct {
	backend storage.Backend
	logger  *log.Logger
	books   []*entities.Book
}

func NewStore(backend storage.Backend, logger *log.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logging.OrDefault(logger).WithPrefix("store"),
	}
}

// Load replaces the in-memory collection with the backend's content.
// Corrupt content is logged and treated as an empty catalog. Only the first
// row of a repeated ISBN is kept.
func (s *Store) Load() error {
	rows, err := s.backend.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrCorrupt) {
			return fmt.Errorf("load catalog from %s: %w", s.backend.Location(), err)
		}
		s.logger.Warn("catalog content is corrupt, starting empty", "location", s.backend.Location(), "err", err)
		rows = nil
	}

	books := make([]*entities.Book, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.ISBN] {
			s.logger.Warn("dropping duplicate ISBN from catalog", "location", s.backend.Location(), "isbn", row.ISBN, "title", row.Title)
			continue
		}
		seen[row.ISBN] = true
		books = append(books, row.ToBook())
	}
	s.books = books

	s.logger.Debug("catalog loaded", "location", s.backend.Location(), "books", len(books))
	return nil
}

// Save writes every book to the backend, replacing what was there.
func (s *Store) Save() error {
	rows := make([]storage.Row, 0, len(s.books))
	for _, b := range s.books {
		rows = append(rows, storage.FromBook(b))
	}
	if err := s.backend.Save(rows); err != nil {
		return fmt.Errorf("save catalog to %s: %w", s.backend.Location(), err)
	}
	return nil
}

// Insert appends a copy of book and persists. The store is left unchanged
// when the ISBN is taken or the write fails.
func (s *Store) Insert(book *entities.Book) error {
	if s.index(book.ISBN) >= 0 {
		return fmt.Errorf("book with ISBN %s already exists: %w", book.ISBN, entities.ErrAlreadyExists)
	}

	s.books = append(s.books, book.Clone())
	if err := s.Save(); err != nil {
		s.books = s.books[:len(s.books)-1]
		return err
	}
	return nil
}

// Remove deletes the book with isbn and persists.
func (s *Store) Remove(isbn string) error {
	i := s.index(isbn)
	if i < 0 {
		return notFound(isbn)
	}

	previous := s.books
	s.books = slices.Delete(slices.Clone(s.books), i, i+1)
	if err := s.Save(); err != nil {
		s.books = previous
		return err
	}
	return nil
}

// Find returns a copy of the book with isbn.
func (s *Store) Find(isbn string) (*entities.Book, error) {
	i := s.index(isbn)
	if i < 0 {
		return nil, notFound(isbn)
	}
	return s.books[i].Clone(), nil
}

// List returns copies of all books in insertion order.
func (s *Store) List() []*entities.Book {
	out := make([]*entities.Book, len(s.books))
	for i, b := range s.books {
		out[i] = b.Clone()
	}
	return out
}

// Mutate applies fn to the stored book and persists the result. If fn or the
// write fails, the book is restored to its previous state.
func (s *Store) Mutate(isbn string, fn func(*entities.Book) error) (*entities.Book, error) {
	i := s.index(isbn)
	if i < 0 {
		return nil, notFound(isbn)
	}

	original := s.books[i]
	working := original.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	s.books[i] = working
	if err := s.Save(); err != nil {
		s.books[i] = original
		return nil, err
	}
	return working.Clone(), nil
}

func (s *Store) Len() int {
	return len(s.books)
}

// Location reports where the backend keeps the catalog.
func (s *Store) Location() string {
	return s.backend.Location()
}

func (s *Store) index(isbn string) int {
	return slices.IndexFunc(s.books, func(b *entities.Book) bool {
		return b.ISBN == isbn
	})
}

func notFound(isbn string) error {
	return fmt.Errorf("book with ISBN %s not found: %w", isbn, entities.ErrNotFound)
}
