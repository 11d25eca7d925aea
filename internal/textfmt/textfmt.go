// Package textfmt holds the presentation transforms applied to geocoder
// results: display-name decomposition, query highlighting and flag emoji.
package textfmt

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

const nameSeparator = ", "

// regionalIndicatorOffset maps 'A' to U+1F1E6.
const regionalIndicatorOffset = 127397

// Parts is a display name split into its headline and the remainder.
type Parts struct {
	Main      string
	Secondary string
}

// Decompose splits a display name on ", ". The first segment is Main and
// the rest, rejoined, is Secondary.
func Decompose(displayName string) Parts {
	main, secondary, _ := strings.Cut(displayName, nameSeparator)
	return Parts{Main: main, Secondary: secondary}
}

// Segment is a run of text that either matched the query or did not.
type Segment struct {
	Text    string
	Matched bool
}

// Highlight splits text around every case-insensitive occurrence of query.
// The query is matched literally. A blank query, or any failure while
// matching, yields text as a single plain segment.
func Highlight(text, query string) (segments []Segment) {
	plain := []Segment{{Text: text}}
	if strings.TrimSpace(query) == "" {
		return plain
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("highlight failed, rendering plain text", "query", query, "panic", r)
			segments = plain
		}
	}()

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		slog.Warn("highlight pattern rejected", "query", query, "err", err)
		return plain
	}

	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return plain
	}

	segments = make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m[0] == m[1] {
			continue
		}
		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		segments = append(segments, Segment{Text: text[m[0]:m[1]], Matched: true})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	if len(segments) == 0 {
		return plain
	}
	return segments
}

// Plain reassembles highlighted segments.
func Plain(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// FlagEmoji converts an ISO 3166-1 alpha-2 code into its flag by mapping
// each letter to a regional indicator symbol. Codes are upper-cased first;
// runes outside A-Z pass through unchanged.
func FlagEmoji(countryCode string) string {
	if countryCode == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(countryCode) {
		if r >= 'A' && r <= 'Z' {
			r += regionalIndicatorOffset
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate shortens s to at most width runes, ending with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}
