package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"locsearch/internal/domain"
)

// DefaultNominatimEndpoint is the public OpenStreetMap instance.
const DefaultNominatimEndpoint = "https://nominatim.openstreetmap.org/"

// NominatimOptions configures a Nominatim client.
type NominatimOptions struct {
	Endpoint       string
	UserAgent      string
	Email          string
	Language       string
	CountryCodes   []string
	Limit          int
	MaxRetries     int
	RetryBaseDelay time.Duration
	HTTPClient     *http.Client
}

// Nominatim queries the /search endpoint of a Nominatim server.
type Nominatim struct {
	opts NominatimOptions
}

// NewNominatim creates a client, filling in defaults for zero options.
func NewNominatim(opts NominatimOptions) *Nominatim {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultNominatimEndpoint
	}
	if !strings.HasSuffix(opts.Endpoint, "/") {
		opts.Endpoint += "/"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "locsearch"
	}
	if opts.Limit <= 0 {
		opts.Limit = 8
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Nominatim{opts: opts}
}

// Name identifies the backend in logs.
func (n *Nominatim) Name() string { return "nominatim" }

// Search performs a forward geocoding request.
func (n *Nominatim) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	u, err := n.searchURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", n.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := doWithRetry(ctx, n.opts.HTTPClient, req, n.opts.MaxRetries, n.opts.RetryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Backend: n.Name(), StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(places))
	for _, p := range places {
		r, err := p.toResult()
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (n *Nominatim) searchURL(query string) (string, error) {
	base, err := url.Parse(n.opts.Endpoint + "search")
	if err != nil {
		return "", fmt.Errorf("failed to parse nominatim endpoint: %w", err)
	}

	q := base.Query()
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(n.opts.Limit))
	if len(n.opts.CountryCodes) > 0 {
		q.Set("countrycodes", strings.Join(n.opts.CountryCodes, ","))
	}
	if n.opts.Language != "" {
		q.Set("accept-language", n.opts.Language)
	}
	if n.opts.Email != "" {
		q.Set("email", n.opts.Email)
	}
	base.RawQuery = q.Encode()
	return base.String(), nil
}

// nominatimPlace mirrors the jsonv2 search payload; coordinates arrive as strings.
type nominatimPlace struct {
	PlaceID     int64           `json:"place_id"`
	Lat         string          `json:"lat"`
	Lon         string          `json:"lon"`
	DisplayName string          `json:"display_name"`
	Class       string          `json:"category"`
	LegacyClass string          `json:"class"`
	Type        string          `json:"type"`
	Importance  float64         `json:"importance"`
	BoundingBox []string        `json:"boundingbox"`
	Address     *domain.Address `json:"address"`
}

func (p nominatimPlace) toResult() (domain.SearchResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("invalid latitude %q for place %d: %w", p.Lat, p.PlaceID, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("invalid longitude %q for place %d: %w", p.Lon, p.PlaceID, err)
	}

	class := p.Class
	if class == "" {
		class = p.LegacyClass
	}

	var bbox []float64
	for _, s := range p.BoundingBox {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			bbox = nil
			break
		}
		bbox = append(bbox, v)
	}

	return domain.SearchResult{
		PlaceID:     p.PlaceID,
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
		Class:       class,
		Type:        p.Type,
		Importance:  p.Importance,
		Address:     p.Address,
		BoundingBox: bbox,
	}, nil
}
