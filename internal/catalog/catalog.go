package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
	"github.com/mrlokans/bookcatalog/internal/metrics"
)

// Operation names used for metrics and the audit journal.
const (
	OpAddByISBN = "add_isbn"
	OpAddManual = "add_manual"
	OpUpdate    = "update"
	OpBorrow    = "borrow"
	OpReturn    = "return"
	OpRemove    = "remove"
)

// Fetcher describes a book from its ISBN. A lookup that finds nothing
// returns an error wrapping entities.ErrNotFound.
type Fetcher interface {
	Fetch(ctx context.Context, isbn string) (*entities.Book, error)
}

// MutationRecorder is notified after every successful change.
type MutationRecorder interface {
	RecordMutation(op string, book *entities.Book) error
}

// Stats summarizes the collection.
type Stats struct {
	Total      int                       `json:"total"`
	Borrowed   int                       `json:"borrowed"`
	Available  int                       `json:"available"`
	ByCategory map[entities.Category]int `json:"by_category"`
}

// Catalog is the entry point for every transport. Each call holds a single
// lock for its whole duration, including remote lookups.
type Catalog struct {
	mu       sync.Mutex
	store    *Store
	fetcher  Fetcher
	logger   *log.Logger
	recorder MutationRecorder
	metrics  *metrics.Metrics
}

// New creates a Catalog over a loaded store. fetcher may be nil, in which
// case every ISBN lookup reports not found.
func New(store *Store, fetcher Fetcher, logger *log.Logger) *Catalog {
	return &Catalog{
		store:   store,
		fetcher: fetcher,
		logger:  logging.OrDefault(logger).WithPrefix("catalog"),
	}
}

// SetAuditor sets the mutation recorder (optional).
func (c *Catalog) SetAuditor(r MutationRecorder) {
	c.recorder = r
}

// SetMetrics sets the metrics recorder (optional).
func (c *Catalog) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
	c.mu.Lock()
	m.SetBooks(c.store.Len())
	c.mu.Unlock()
}

// AddByISBN looks the ISBN up and stores the result with the given category
// and extras.
func (c *Catalog) AddByISBN(ctx context.Context, isbn string, category entities.Category, extras entities.Extras) (*entities.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, err := c.addByISBN(ctx, isbn, category, extras)
	return c.finish(OpAddByISBN, book, err)
}

func (c *Catalog) addByISBN(ctx context.Context, isbn string, category entities.Category, extras entities.Extras) (*entities.Book, error) {
	if _, err := c.store.Find(isbn); err == nil {
		return nil, fmt.Errorf("book with ISBN %s already exists: %w", isbn, entities.ErrAlreadyExists)
	}
	if c.fetcher == nil {
		return nil, fmt.Errorf("book with ISBN %s not found: %w", isbn, entities.ErrNotFound)
	}

	book, err := c.fetcher.Fetch(ctx, isbn)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("book with ISBN %s not found: %w", isbn, entities.ErrNotFound)
		}
		return nil, err
	}

	if category == "" {
		category = entities.CategoryPhysical
	}
	book.Category = category
	extras.Apply(book)

	if err := c.store.Insert(book); err != nil {
		return nil, err
	}
	return book, nil
}

// AddManual stores a book built by the caller. No lookup is made.
func (c *Catalog) AddManual(book *entities.Book) (*entities.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book = book.Clone()
	if book.Category == "" {
		book.Category = entities.CategoryPhysical
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}

	err := c.store.Insert(book)
	if err != nil {
		book = nil
	}
	return c.finish(OpAddManual, book, err)
}

// Get returns the book with isbn.
func (c *Catalog) Get(isbn string) (*entities.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Find(isbn)
}

// List returns every book in insertion order.
func (c *Catalog) List() []*entities.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.List()
}

// Update applies the set fields of u to the book with isbn.
func (c *Catalog) Update(isbn string, u entities.BookUpdate) (*entities.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, err := c.store.Mutate(isbn, func(b *entities.Book) error {
		u.Apply(b)
		return nil
	})
	return c.finish(OpUpdate, book, err)
}

// Borrow marks the book with isbn as borrowed.
func (c *Catalog) Borrow(isbn string) (*entities.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, err := c.store.Mutate(isbn, (*entities.Book).Borrow)
	return c.finish(OpBorrow, book, err)
}

// Return marks the book with isbn as available.
func (c *Catalog) Return(isbn string) (*entities.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, err := c.store.Mutate(isbn, (*entities.Book).Return)
	return c.finish(OpReturn, book, err)
}

// Remove deletes the book with isbn.
func (c *Catalog) Remove(isbn string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	book, err := c.store.Find(isbn)
	if err == nil {
		err = c.store.Remove(isbn)
	}
	if err != nil {
		book = nil
	}
	_, err = c.finish(OpRemove, book, err)
	return err
}

func (c *Catalog) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{ByCategory: make(map[entities.Category]int, len(entities.Categories))}
	for _, category := range entities.Categories {
		stats.ByCategory[category] = 0
	}
	for _, b := range c.store.books {
		stats.Total++
		if b.Borrowed {
			stats.Borrowed++
		}
		stats.ByCategory[b.Category]++
	}
	stats.Available = stats.Total - stats.Borrowed
	return stats
}

// Snapshot returns a copy of every book, for backups.
func (c *Catalog) Snapshot() []*entities.Book {
	return c.List()
}

// Location reports where the catalog is persisted.
func (c *Catalog) Location() string {
	return c.store.Location()
}

// finish records the outcome of a mutation. It must be called with the lock
// held.
func (c *Catalog) finish(op string, book *entities.Book, err error) (*entities.Book, error) {
	c.metrics.Operation(op, resultOf(err))
	if err != nil {
		c.logger.Debug("operation failed", "op", op, "err", err)
		return nil, err
	}

	c.metrics.SetBooks(c.store.Len())
	c.logger.Info("catalog changed", "op", op, "isbn", book.ISBN, "title", book.Title)

	if c.recorder != nil {
		if recErr := c.recorder.RecordMutation(op, book); recErr != nil {
			c.logger.Warn("failed to record mutation", "op", op, "isbn", book.ISBN, "err", recErr)
		}
	}
	return book, nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, entities.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, entities.ErrAlreadyExists):
		return metrics.ResultExists
	case errors.Is(err, entities.ErrInvalidState):
		return metrics.ResultBadState
	case errors.Is(err, entities.ErrValidation):
		return metrics.ResultValidation
	}
	return metrics.ResultError
}

// CleanAuthors trims names and drops blank ones. A nil result means no
// usable author was given.
func CleanAuthors(names []string) []string {
	var out []string
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
