package planalto

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the Planalto client.
var (
	// ErrUnsupportedType indicates the normative type has no routing rule.
	ErrUnsupportedType = errors.New("no Planalto route for normative type")

	// ErrInvalidCitation indicates the number or year is not numeric.
	ErrInvalidCitation = errors.New("invalid citation")

	// ErrNetwork indicates a network connectivity issue.
	ErrNetwork = errors.New("network error communicating with Planalto")

	// ErrFetch indicates a non-success HTTP response.
	ErrFetch = errors.New("Planalto fetch failed")
)

// FetchError is returned when the portal answers with a non-success status.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// IsNotFound returns true if the portal has no page at the routed path.
func IsNotFound(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnsupported returns true if the citation type cannot be routed.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}
