package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locsearch/internal/coords"
	"locsearch/internal/domain"
)

var paris = domain.SearchResult{
	PlaceID:     42,
	Lat:         48.8566,
	Lon:         2.3522,
	DisplayName: "Paris, Île-de-France, Metropolitan France, France",
	Class:       "boundary",
	Type:        "administrative",
	Importance:  0.88,
	Address:     &domain.Address{CountryCode: "fr", Postcode: "75001", City: "Paris", Country: "France"},
	BoundingBox: []float64{48.81, 48.90, 2.22, 2.47},
}

func TestRenderRowShowsFlagNamePostcode(t *testing.T) {
	r := NewResultRenderer(NewStyles(), true, nil)
	row := r.RenderRow(paris, "par", false, 0)

	assert.True(t, strings.HasPrefix(row, "  🇫🇷 "))
	assert.Contains(t, row, "Paris, Île-de-France")
	assert.Contains(t, row, "75001")
	assert.NotContains(t, row, "\n")
}

func TestRenderRowMarksActive(t *testing.T) {
	r := NewResultRenderer(NewStyles(), false, nil)
	assert.True(t, strings.HasPrefix(r.RenderRow(paris, "", true, 0), "▸ Paris"))
	assert.True(t, strings.HasPrefix(r.RenderRow(paris, "", false, 0), "  Paris"))
}

func TestRenderRowDistanceFromOrigin(t *testing.T) {
	london := coords.Point{Lat: 51.5072, Lon: -0.1276}
	r := NewResultRenderer(NewStyles(), false, &london)
	assert.Contains(t, r.RenderRow(paris, "", false, 0), " km")
}

func TestRenderRowTruncatesToWidth(t *testing.T) {
	r := NewResultRenderer(NewStyles(), false, nil)
	row := r.RenderRow(paris, "", false, 30)
	assert.LessOrEqual(t, lipgloss.Width(row), 30)
	assert.Contains(t, row, "…")
	assert.Contains(t, row, "75001")
}

func TestRenderRowWithoutAddress(t *testing.T) {
	r := NewResultRenderer(NewStyles(), true, nil)
	row := r.RenderRow(domain.SearchResult{DisplayName: "Atlantis"}, "x", false, 0)
	assert.Equal(t, "     Atlantis", row)
}

func TestFit(t *testing.T) {
	main, sec := fit("Paris", "Île-de-France, France", 12)
	assert.Equal(t, "Paris", main)
	assert.Equal(t, "Île-…", sec)

	main, sec = fit("Constantinople", "Turkey", 6)
	assert.Equal(t, "Const…", main)
	assert.Empty(t, sec)

	main, sec = fit("Paris", "France", 0)
	assert.Empty(t, main)
	assert.Empty(t, sec)
}

func TestRenderHeaderStates(t *testing.T) {
	r := NewRenderer(false, nil)

	collapsed := r.Render(ViewState{Input: "> ", Selection: -1})
	assert.Contains(t, collapsed, "collapsed")

	expanded := r.Render(ViewState{Results: []domain.SearchResult{paris}, Selection: 0, Expanded: true, ActiveDescendant: "result-0"})
	assert.Contains(t, expanded, "1 results · result-0")

	loading := r.Render(ViewState{Loading: true, Spinner: "*", Selection: -1})
	assert.Contains(t, loading, "* searching")
}

func TestRenderKeepsResultRowsAtOffset(t *testing.T) {
	r := NewRenderer(false, nil)
	results := []domain.SearchResult{{DisplayName: "One"}, {DisplayName: "Two"}}
	lines := strings.Split(r.Render(ViewState{Input: "> o", Results: results, Selection: -1, Expanded: true}), "\n")

	assert.Contains(t, lines[ResultsOffset], "One")
	assert.Contains(t, lines[ResultsOffset+1], "Two")
}

func TestVisibleRowsOverflow(t *testing.T) {
	r := NewRenderer(false, nil)
	results := make([]domain.SearchResult, 10)
	for i := range results {
		results[i].DisplayName = "Place"
	}

	state := ViewState{Results: results, Height: 8, Selection: -1}
	assert.Equal(t, 3, r.VisibleRows(state))
	assert.Contains(t, r.Render(state), "… 7 more")

	state.Height = 0
	assert.Equal(t, 10, r.VisibleRows(state))
}

func TestVisibleRowsKeepsOneRowOnShortTerminals(t *testing.T) {
	r := NewRenderer(false, nil)
	results := []domain.SearchResult{{DisplayName: "One"}, {DisplayName: "Two"}, {DisplayName: "Three"}}

	for _, height := range []int{1, 5, 6} {
		state := ViewState{Results: results, Height: height, Selection: -1, Expanded: true}
		require.Equal(t, 1, r.VisibleRows(state), "height %d", height)

		lines := strings.Split(r.Render(state), "\n")
		assert.Contains(t, lines[ResultsOffset], "One", "height %d", height)
		assert.Contains(t, lines[ResultsOffset+1], "… 2 more", "height %d", height)
	}

	state := ViewState{Results: results[:2], Height: 6, Selection: -1}
	assert.Equal(t, 2, r.VisibleRows(state), "rows that fit need no overflow line")
}

func TestRenderSelections(t *testing.T) {
	r := NewRenderer(true, nil)
	out := r.Render(ViewState{Selection: -1, Selections: []domain.Location{paris}})
	assert.Contains(t, out, "Selected")
	assert.Contains(t, out, "✓ 🇫🇷 Paris")
}

func TestRenderDetails(t *testing.T) {
	origin := coords.Point{Lat: 48.8584, Lon: 2.2945}
	out := RenderDetails(NewStyles(), paris, &origin)

	for _, want := range []string{
		"🇫🇷 Paris",
		"Île-de-France, Metropolitan France, France",
		"48.85660, 2.35220",
		"geohash",
		"u09tvw",
		"distance",
		"75001",
		"FR",
		"boundary/administrative",
		"0.8800",
		"42",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderHelpListsKeys(t *testing.T) {
	out := NewRenderer(false, nil).RenderHelp()
	for _, want := range []string{"ctrl+n", "enter", "esc", "ctrl+o", "ctrl+c"} {
		assert.Contains(t, out, want)
	}
}
