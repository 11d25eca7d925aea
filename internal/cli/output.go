package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"locsearch/internal/domain"
	"locsearch/internal/textfmt"
)

// Output formats of the search command
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// writeJSONLines prints one JSON object per location
func writeJSONLines(w io.Writer, locations []domain.Location) error {
	enc := json.NewEncoder(w)
	for _, loc := range locations {
		if err := enc.Encode(loc); err != nil {
			return fmt.Errorf("failed to write selection: %w", err)
		}
	}
	return nil
}

// writeResults prints results in the requested format
func writeResults(w io.Writer, format string, results []domain.SearchResult) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []domain.SearchResult{}
		}
		return enc.Encode(results)

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(results)

	case FormatText, "":
		return writeText(w, results)

	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeText(w io.Writer, results []domain.SearchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no results")
		return err
	}
	for i, r := range results {
		parts := textfmt.Decompose(r.DisplayName)

		line := fmt.Sprintf("%2d. ", i+1)
		if flag := textfmt.FlagEmoji(r.CountryCode()); flag != "" {
			line += flag + " "
		}
		line += parts.Main
		if parts.Secondary != "" {
			line += " (" + parts.Secondary + ")"
		}

		var extra []string
		if pc := r.Postcode(); pc != "" {
			extra = append(extra, pc)
		}
		extra = append(extra, fmt.Sprintf("%.5f, %.5f", r.Lat, r.Lon))
		line += "  " + strings.Join(extra, "  ")

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
