package search

import (
	"context"
	"time"

	"locsearch/internal/domain"
	"locsearch/internal/selection"
)

// State is the widget state owned by the orchestrator.
type State struct {
	Query     string
	Results   []domain.SearchResult
	Loading   bool
	Selection int
}

func initialState() State {
	return State{Selection: selection.None}
}

// Request is one issued search. Epoch identifies it against later ones.
type Request struct {
	ID      string
	Epoch   uint64
	Query   string
	Started time.Time

	ctx context.Context
}

// Response carries the outcome of a Request back to the owner.
type Response struct {
	Request Request
	Results []domain.SearchResult
	Err     error
}
