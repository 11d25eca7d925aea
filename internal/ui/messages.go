package ui

import (
	"locsearch/internal/search"
)

// searchDueMsg is posted by the debouncer once typing has paused
type searchDueMsg struct {
	query string
}

// searchResultMsg carries a finished geocoder call back to the loop
type searchResultMsg struct {
	resp search.Response
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	what string
	err  error
}
