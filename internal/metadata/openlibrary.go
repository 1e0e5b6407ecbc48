package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://openlibrary.org"
	DefaultTimeout = 10 * time.Second
	userAgent      = "BookCatalog/1.0 (https://github.com/mrlokans/bookcatalog)"
)

// Edition is the subset of an OpenLibrary edition record the catalog uses.
type Edition struct {
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	Authors     []AuthorRef `json:"authors"`
	ByStatement string      `json:"by_statement"`
}

// AuthorRef points at an author record, e.g. {"key": "/authors/OL34184A"}.
type AuthorRef struct {
	Key string `json:"key"`
}

// UnmarshalJSON accepts any JSON value. Entries that are not objects with a
// string key decode to an empty reference instead of failing the edition.
func (a *AuthorRef) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key any `json:"key"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*a = AuthorRef{}
		return nil
	}
	key, _ := raw.Key.(string)
	*a = AuthorRef{Key: key}
	return nil
}

// ClientConfig configures an OpenLibraryClient. Zero values select defaults.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// RatePerSecond caps outgoing requests. Zero or negative disables limiting.
	RatePerSecond float64
}

// OpenLibraryClient fetches edition and author records from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewOpenLibraryClient creates a new OpenLibrary API client with rate limiting.
func NewOpenLibraryClient(cfg ClientConfig) *OpenLibraryClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &OpenLibraryClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// GetEdition looks up an edition by ISBN. Hyphens and spaces are removed
// from the ISBN before it is placed in the URL.
func (c *OpenLibraryClient) GetEdition(ctx context.Context, isbn string) (*Edition, error) {
	key := lookupKey(isbn)
	if key == "" {
		return nil, fmt.Errorf("%w: empty ISBN", ErrInvalidRequest)
	}

	var edition Edition
	if err := c.getJSON(ctx, "/isbn/"+url.PathEscape(key)+".json", &edition); err != nil {
		return nil, err
	}
	return &edition, nil
}

// GetAuthorName resolves an author reference key to the author's name.
func (c *OpenLibraryClient) GetAuthorName(ctx context.Context, authorKey string) (string, error) {
	if !strings.HasPrefix(authorKey, "/") {
		return "", fmt.Errorf("%w: author key %q is not a path", ErrInvalidRequest, authorKey)
	}

	var author struct {
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, authorKey+".json", &author); err != nil {
		return "", err
	}
	return author.Name, nil
}

func (c *OpenLibraryClient) getJSON(ctx context.Context, path string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, URL: target}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

// lookupKey strips hyphens and spaces from an ISBN for use in a URL.
func lookupKey(isbn string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(isbn) {
		if r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
