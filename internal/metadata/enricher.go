package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
	"github.com/mrlokans/bookcatalog/internal/metrics"
)

// LookupProvider defines the interface for fetching bibliographic records.
type LookupProvider interface {
	GetEdition(ctx context.Context, isbn string) (*Edition, error)
	GetAuthorName(ctx context.Context, authorKey string) (string, error)
}

// Enricher turns a bare ISBN into a described Book using a LookupProvider.
type Enricher struct {
	provider LookupProvider
	logger   *log.Logger
	metrics  *metrics.Metrics
}

// NewEnricher creates a new Enricher with the given lookup provider.
func NewEnricher(provider LookupProvider, logger *log.Logger) *Enricher {
	return &Enricher{
		provider: provider,
		logger:   logging.OrDefault(logger).WithPrefix("enricher"),
	}
}

// SetMetrics sets the metrics recorder (optional).
func (e *Enricher) SetMetrics(m *metrics.Metrics) {
	e.metrics = m
}

// Fetch looks up isbn and builds an available Physical book from the result.
//
// Every failure of the edition lookup (404, network, bad status, bad body,
// missing title) is reported as entities.ErrNotFound; the cause is only
// logged. Author references are resolved one by one and a reference that
// fails in an expected way is dropped. When no author resolves, the
// edition's by-statement is used as the single author.
//
// Errors other than ErrNotFound mean the caller's context ended or an author
// reference could not even be turned into a request.
func (e *Enricher) Fetch(ctx context.Context, isbn string) (*entities.Book, error) {
	edition, err := e.provider.GetEdition(ctx, isbn)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("lookup %s: %w", isbn, ctxErr)
		}
		if errors.Is(err, ErrNotFound) {
			e.metrics.Lookup(metrics.OutcomeNotFound)
			e.logger.Info("ISBN not found", "isbn", isbn)
		} else {
			e.metrics.Lookup(metrics.OutcomeFailed)
			e.logger.Warn("ISBN lookup failed", "isbn", isbn, "err", err)
		}
		return nil, fmt.Errorf("book with ISBN %s: %w", isbn, entities.ErrNotFound)
	}

	if edition.Title == "" {
		e.metrics.Lookup(metrics.OutcomeFailed)
		e.logger.Warn("lookup response has no title", "isbn", isbn)
		return nil, fmt.Errorf("book with ISBN %s: %w", isbn, entities.ErrNotFound)
	}

	authors, err := e.resolveAuthors(ctx, edition.Authors)
	if err != nil {
		return nil, fmt.Errorf("resolve authors for %s: %w", isbn, err)
	}

	if len(authors) == 0 && edition.ByStatement != "" {
		authors = []string{edition.ByStatement}
		e.metrics.AuthorLookup(metrics.OutcomeFallback)
	}

	e.metrics.Lookup(metrics.OutcomeFound)
	e.logger.Debug("ISBN resolved", "isbn", isbn, "title", edition.Title, "authors", len(authors))

	return entities.NewBook(isbn, edition.Title, authors...), nil
}

// resolveAuthors fetches author names sequentially, in reference order.
func (e *Enricher) resolveAuthors(ctx context.Context, refs []AuthorRef) ([]string, error) {
	authors := []string{}
	for _, ref := range refs {
		if ref.Key == "" {
			e.metrics.AuthorLookup(metrics.OutcomeSkipped)
			continue
		}

		name, err := e.provider.GetAuthorName(ctx, ref.Key)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// The key comes from the remote payload, so a bad one only
			// loses this reference.
			if errors.Is(err, ErrInvalidRequest) {
				e.metrics.AuthorLookup(metrics.OutcomeSkipped)
				e.logger.Debug("unusable author reference, skipping", "key", ref.Key, "err", err)
				continue
			}
			if !isExpectedFailure(err) {
				return nil, err
			}
			e.metrics.AuthorLookup(metrics.OutcomeFailed)
			e.logger.Debug("author lookup failed, skipping", "key", ref.Key, "err", err)
			continue
		}
		if name == "" {
			e.metrics.AuthorLookup(metrics.OutcomeSkipped)
			continue
		}

		e.metrics.AuthorLookup(metrics.OutcomeResolved)
		authors = append(authors, name)
	}
	return authors, nil
}
