package views

import (
	"fmt"
	"strings"

	"locsearch/internal/coords"
	"locsearch/internal/domain"
	"locsearch/internal/textfmt"
)

// ResultsOffset is the screen line of the first result row: one header
// line and one input line precede the list.
const ResultsOffset = 2

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width            int
	Height           int
	Input            string // rendered text input
	Query            string
	Results          []domain.SearchResult
	Selection        int
	Loading          bool
	Spinner          string
	Expanded         bool
	ActiveDescendant string
	Backend          string
	Selections       []domain.Location
	Help             string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	rows   *ResultRenderer
	origin *coords.Point
}

// NewRenderer creates a new renderer. origin may be nil.
func NewRenderer(showFlags bool, origin *coords.Point) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles: styles,
		rows:   NewResultRenderer(styles, showFlags, origin),
		origin: origin,
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var lines []string

	lines = append(lines, r.renderHeader(state))
	lines = append(lines, state.Input)

	visible := r.VisibleRows(state)
	for i, result := range state.Results[:visible] {
		lines = append(lines, r.rows.RenderRow(result, state.Query, i == state.Selection, state.Width))
	}
	if hidden := len(state.Results) - visible; hidden > 0 {
		lines = append(lines, r.styles.Dim.Render(fmt.Sprintf("  … %d more", hidden)))
	}

	if len(state.Selections) > 0 {
		lines = append(lines, "")
		lines = append(lines, r.styles.SectionHead.Render("Selected"))
		for _, loc := range state.Selections {
			lines = append(lines, r.renderSelection(loc, state.Width))
		}
	}

	if state.Help != "" {
		lines = append(lines, "")
		lines = append(lines, r.styles.Help.Render(state.Help))
	}

	return strings.Join(lines, "\n")
}

// renderHeader shows the title, backend and list state on one line
func (r *Renderer) renderHeader(state ViewState) string {
	parts := []string{r.styles.Title.Render("locsearch")}
	if state.Backend != "" {
		parts = append(parts, r.styles.Dim.Render(state.Backend))
	}

	switch {
	case state.Loading:
		parts = append(parts, r.styles.Loading.Render(state.Spinner+" searching"))
	case state.Expanded:
		status := fmt.Sprintf("▾ %d results", len(state.Results))
		if state.ActiveDescendant != "" {
			status += " · " + state.ActiveDescendant
		}
		parts = append(parts, r.styles.Expanded.Render(status))
	default:
		parts = append(parts, r.styles.Collapsed.Render("▸ collapsed"))
	}
	return strings.Join(parts, "  ")
}

// VisibleRows is how many result rows fit under the header and input.
// Height 0 means unknown, in which case everything is shown.
func (r *Renderer) VisibleRows(state ViewState) int {
	n := len(state.Results)
	if state.Height <= 0 {
		return n
	}
	room := state.Height - ResultsOffset - 2 // blank line and help
	if n <= room {
		return n
	}
	// one line goes to "… N more"; keep at least one clickable row
	return max(room-1, 1)
}

func (r *Renderer) renderSelection(loc domain.Location, width int) string {
	text := loc.DisplayName
	if flag := textfmt.FlagEmoji(loc.CountryCode()); flag != "" {
		text = flag + " " + text
	}
	if width > 4 {
		text = textfmt.Truncate(text, width-4)
	}
	return r.styles.Selected.Render("  ✓ " + text)
}

// RenderHelp renders the key reference shown in the pager
func (r *Renderer) RenderHelp() string {
	var help strings.Builder

	help.WriteString(r.styles.Title.Render("locsearch help"))
	help.WriteString("\n\n")

	section := func(name string, rows [][2]string) {
		help.WriteString(r.styles.SectionHead.Render(name))
		help.WriteString("\n")
		for _, row := range rows {
			help.WriteString(fmt.Sprintf("  %s  %s\n", r.styles.Key.Render(fmt.Sprintf("%-12s", row[0])), r.styles.Desc.Render(row[1])))
		}
		help.WriteString("\n")
	}

	section("Search", [][2]string{
		{"type", "search as you type"},
		{"esc", "close the result list, keep the text"},
	})
	section("Results", [][2]string{
		{"↓ / ctrl+n", "next result"},
		{"↑ / ctrl+p", "previous result"},
		{"enter", "select the highlighted result"},
		{"click", "select a result"},
		{"ctrl+o", "show details of the highlighted result"},
	})
	section("Other", [][2]string{
		{"?", "this help (when the input is empty)"},
		{"ctrl+c", "quit and print the selections"},
	})

	return help.String()
}
