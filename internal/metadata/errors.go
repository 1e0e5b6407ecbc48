package metadata

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the lookup service answered 404.
var ErrNotFound = errors.New("resource not found at lookup service")

// ErrMalformedResponse indicates a response body that could not be decoded.
var ErrMalformedResponse = errors.New("malformed lookup response")

// ErrInvalidRequest indicates a request that could not be built, such as an
// empty ISBN or an author reference that is not a path.
var ErrInvalidRequest = errors.New("invalid lookup request")

// StatusError represents a non-200, non-404 response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// TransportError wraps a failure to get any response at all: DNS, connection
// refused, timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lookup request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// isExpectedFailure reports whether err is one of the failures a remote lookup
// is expected to produce. Anything else points at a bug or bad input.
func isExpectedFailure(err error) bool {
	var statusErr *StatusError
	var transportErr *TransportError
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrMalformedResponse),
		errors.As(err, &statusErr),
		errors.As(err, &transportErr):
		return true
	}
	return false
}
