package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"locsearch/internal/coords"
	"locsearch/internal/domain"
	"locsearch/internal/textfmt"
)

// ResultRenderer renders single result rows. Every row is exactly one line
// so that mouse coordinates map straight onto result indices.
type ResultRenderer struct {
	styles    *Styles
	showFlags bool
	origin    *coords.Point
}

// NewResultRenderer creates a row renderer. origin may be nil.
func NewResultRenderer(styles *Styles, showFlags bool, origin *coords.Point) *ResultRenderer {
	return &ResultRenderer{styles: styles, showFlags: showFlags, origin: origin}
}

// RenderRow renders result i. width <= 0 disables truncation.
func (r *ResultRenderer) RenderRow(result domain.SearchResult, query string, active bool, width int) string {
	bg := lipgloss.NewStyle()
	if active {
		bg = r.styles.ActiveRow
	}

	var parts []string

	marker := "  "
	if active {
		marker = "▸ "
	}
	parts = append(parts, r.styles.Marker.Inherit(bg).Render(marker))

	if r.showFlags {
		flag := textfmt.FlagEmoji(result.CountryCode())
		if flag == "" {
			flag = "  "
		}
		parts = append(parts, bg.Render(flag+" "))
	}

	// the tail is rendered first so the name can be truncated into what is left
	var tail []string
	if pc := result.Postcode(); pc != "" {
		tail = append(tail, r.styles.Postcode.Inherit(bg).Render(pc))
	}
	if d := r.distance(result); d != "" {
		tail = append(tail, r.styles.Distance.Inherit(bg).Render(d))
	}
	tailText := ""
	if len(tail) > 0 {
		tailText = bg.Render("  ") + strings.Join(tail, bg.Render("  "))
	}

	name := textfmt.Decompose(result.DisplayName)
	main, secondary := name.Main, name.Secondary
	if width > 0 {
		room := width - lipgloss.Width(strings.Join(parts, "")) - lipgloss.Width(tailText)
		main, secondary = fit(main, secondary, room)
	}

	parts = append(parts, r.highlight(main, query, r.styles.Main.Inherit(bg), bg))
	if secondary != "" {
		parts = append(parts, r.styles.Secondary.Inherit(bg).Render(", "))
		parts = append(parts, r.highlight(secondary, query, r.styles.Secondary.Inherit(bg), bg))
	}
	parts = append(parts, tailText)

	return strings.Join(parts, "")
}

// highlight renders text with the matched segments emphasised
func (r *ResultRenderer) highlight(text, query string, normal, bg lipgloss.Style) string {
	var b strings.Builder
	for _, seg := range textfmt.Highlight(text, query) {
		if seg.Matched {
			b.WriteString(r.styles.Highlight.Inherit(bg).Render(seg.Text))
			continue
		}
		b.WriteString(normal.Render(seg.Text))
	}
	return b.String()
}

func (r *ResultRenderer) distance(result domain.SearchResult) string {
	if r.origin == nil {
		return ""
	}
	p := coords.Point{Lat: result.Lat, Lon: result.Lon}
	if !p.Valid() {
		return ""
	}
	return coords.FormatDistance(coords.Distance(*r.origin, p))
}

// fit shortens the secondary part first, then the main part
func fit(main, secondary string, room int) (string, string) {
	if room <= 0 {
		return "", ""
	}
	mainWidth := lipgloss.Width(main)
	if mainWidth >= room {
		return textfmt.Truncate(main, room), ""
	}
	if secondary == "" {
		return main, ""
	}
	left := room - mainWidth - 2 // ", "
	if left <= 0 {
		return main, ""
	}
	return main, textfmt.Truncate(secondary, left)
}

// RenderDetails renders the full record of a result for the pager
func RenderDetails(styles *Styles, result domain.SearchResult, origin *coords.Point) string {
	var b strings.Builder
	field := func(name string, value any) {
		b.WriteString(fmt.Sprintf("  %s %v\n", styles.Key.Render(fmt.Sprintf("%-13s", name)), value))
	}

	name := textfmt.Decompose(result.DisplayName)
	title := name.Main
	if flag := textfmt.FlagEmoji(result.CountryCode()); flag != "" {
		title = flag + " " + title
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")
	if name.Secondary != "" {
		b.WriteString(styles.Secondary.Render(name.Secondary))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	p := coords.Point{Lat: result.Lat, Lon: result.Lon}
	b.WriteString(styles.SectionHead.Render("Position"))
	b.WriteString("\n")
	field("coordinates", coords.FormatPoint(p))
	if p.Valid() {
		field("geohash", coords.Geohash(p, 9))
		if origin != nil {
			field("distance", coords.FormatDistance(coords.Distance(*origin, p)))
		}
	}
	if len(result.BoundingBox) == 4 {
		field("bounding box", fmt.Sprintf("%.5f..%.5f lat, %.5f..%.5f lon",
			result.BoundingBox[0], result.BoundingBox[1], result.BoundingBox[2], result.BoundingBox[3]))
	}

	if a := result.Address; a != nil {
		b.WriteString("\n")
		b.WriteString(styles.SectionHead.Render("Address"))
		b.WriteString("\n")
		for _, f := range []struct{ name, value string }{
			{"city", a.City},
			{"state", a.State},
			{"postcode", a.Postcode},
			{"country", a.Country},
			{"country code", strings.ToUpper(a.CountryCode)},
		} {
			if f.value != "" {
				field(f.name, f.value)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.SectionHead.Render("Record"))
	b.WriteString("\n")
	if result.PlaceID != 0 {
		field("place id", result.PlaceID)
	}
	if result.Class != "" || result.Type != "" {
		field("kind", strings.Trim(result.Class+"/"+result.Type, "/"))
	}
	if result.Importance > 0 {
		field("importance", fmt.Sprintf("%.4f", result.Importance))
	}
	field("display name", result.DisplayName)

	return b.String()
}
