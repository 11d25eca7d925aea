package geocode

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locsearch/internal/domain"
)

func loadTestGazetteer(t *testing.T) *Gazetteer {
	t.Helper()
	g, err := LoadGazetteer("testdata/places.json", 5)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func names(results []domain.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.DisplayName)
	}
	return out
}

func TestGazetteerWholeWord(t *testing.T) {
	g := loadTestGazetteer(t)
	require.Equal(t, 8, g.Len())

	results, err := g.Search(context.Background(), "Berlin")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Berlin, Deutschland", results[0].DisplayName)
	assert.Equal(t, "de", results[0].CountryCode())
}

func TestGazetteerPrefixOfLastWord(t *testing.T) {
	g := loadTestGazetteer(t)

	results, err := g.Search(context.Background(), "par")
	require.NoError(t, err)

	got := names(results)
	assert.Contains(t, got, "Paris, Île-de-France, France métropolitaine, France")
	assert.Contains(t, got, "Paris, Lamar County, Texas, United States")
	for _, n := range got {
		assert.True(t, strings.Contains(strings.ToLower(n), "par"), n)
	}
}

func TestGazetteerNoMatch(t *testing.T) {
	g := loadTestGazetteer(t)

	results, err := g.Search(context.Background(), "zzzqx")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGazetteerRespectsLimit(t *testing.T) {
	places := make([]domain.SearchResult, 0, 20)
	for i := 0; i < 20; i++ {
		places = append(places, domain.SearchResult{PlaceID: int64(i), DisplayName: "Springfield, Somewhere"})
	}
	g, err := NewGazetteerFromPlaces(places, 3)
	require.NoError(t, err)
	defer g.Close()

	results, err := g.Search(context.Background(), "springfield")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestGazetteerEmptyQuery(t *testing.T) {
	g := loadTestGazetteer(t)
	_, err := g.Search(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestGazetteerBadInput(t *testing.T) {
	_, err := NewGazetteer(strings.NewReader("{"), 5)
	assert.Error(t, err)

	_, err = LoadGazetteer("testdata/missing.json", 5)
	assert.Error(t, err)
}

func TestFuncAdapter(t *testing.T) {
	var c Client = Func(func(ctx context.Context, q string) ([]domain.SearchResult, error) {
		return []domain.SearchResult{{DisplayName: q}}, nil
	})
	results, err := c.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", results[0].DisplayName)
	assert.Equal(t, "func", c.Name())
}
