// Package geocode provides the geocoding backends the picker queries.
package geocode

import (
	"context"
	"errors"
	"fmt"

	"locsearch/internal/domain"
)

// ErrEmptyQuery is returned when a backend is asked to search for nothing.
var ErrEmptyQuery = errors.New("geocode: empty query")

// Client turns free text into candidate locations. Result order is the
// backend's ranking and must be preserved by callers.
type Client interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
	Name() string
}

// Func adapts a function into a Client.
type Func func(ctx context.Context, query string) ([]domain.SearchResult, error)

// Search calls f.
func (f Func) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return f(ctx, query)
}

// Name identifies the adapter in logs.
func (f Func) Name() string { return "func" }

// StatusError reports a non-200 response from an HTTP backend.
type StatusError struct {
	Backend    string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned non-200 status: %s", e.Backend, e.Status)
}
