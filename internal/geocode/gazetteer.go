package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"locsearch/internal/domain"
)

const gazetteerNameField = "name"

// Gazetteer answers queries from a fixed list of places held in an
// in-memory full-text index. It needs no network access.
type Gazetteer struct {
	places []domain.SearchResult
	index  bleve.Index
	limit  int
}

// LoadGazetteer reads a JSON array of places from path.
func LoadGazetteer(path string, limit int) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gazetteer: %w", err)
	}
	defer f.Close()
	return NewGazetteer(f, limit)
}

// NewGazetteer indexes the places decoded from r.
func NewGazetteer(r io.Reader, limit int) (*Gazetteer, error) {
	var places []domain.SearchResult
	if err := json.NewDecoder(r).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode gazetteer: %w", err)
	}
	return NewGazetteerFromPlaces(places, limit)
}

// NewGazetteerFromPlaces indexes places directly.
func NewGazetteerFromPlaces(places []domain.SearchResult, limit int) (*Gazetteer, error) {
	if limit <= 0 {
		limit = 8
	}

	index, err := bleve.NewMemOnly(gazetteerMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create gazetteer index: %w", err)
	}

	batch := index.NewBatch()
	for i, p := range places {
		doc := map[string]interface{}{gazetteerNameField: p.DisplayName}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index place %q: %w", p.DisplayName, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to build gazetteer index: %w", err)
	}

	return &Gazetteer{places: places, index: index, limit: limit}, nil
}

func gazetteerMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = standard.Name
	nameField.Store = false
	docMapping.AddFieldMappingsAt(gazetteerNameField, nameField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// Name identifies the backend in logs.
func (g *Gazetteer) Name() string { return "gazetteer" }

// Len returns the number of indexed places.
func (g *Gazetteer) Len() int { return len(g.places) }

// Search matches whole words anywhere in the display name, plus a prefix
// of the last word so partially typed names still hit.
func (g *Gazetteer) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	match := bleve.NewMatchQuery(query)
	match.SetField(gazetteerNameField)

	q := bleve.NewDisjunctionQuery(match)
	if last := lastWord(query); last != "" {
		prefix := bleve.NewPrefixQuery(last)
		prefix.SetField(gazetteerNameField)
		q.AddQuery(prefix)
	}

	req := bleve.NewSearchRequestOptions(q, g.limit, 0, false)
	res, err := g.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("gazetteer search failed: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(g.places) {
			continue
		}
		results = append(results, g.places[i])
	}
	return results, nil
}

// Close releases the index.
func (g *Gazetteer) Close() error {
	return g.index.Close()
}

func lastWord(query string) string {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimFunc(fields[len(fields)-1], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
