package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"locsearch/internal/config"
	"locsearch/internal/geocode"
)

// newClient builds the configured geocoder. The returned func releases it.
func newClient(settings *config.Settings, logger *slog.Logger) (geocode.Client, func(), error) {
	g := settings.Geocoder
	switch g.Backend {
	case config.BackendGazetteer:
		gaz, err := geocode.LoadGazetteer(g.GazetteerPath, g.Limit)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load gazetteer: %w", err)
		}
		logger.Info("gazetteer loaded", "path", g.GazetteerPath, "places", gaz.Len())
		return gaz, func() {
			if err := gaz.Close(); err != nil {
				logger.Warn("failed to close gazetteer", "err", err)
			}
		}, nil

	case config.BackendNominatim:
		client := geocode.NewNominatim(geocode.NominatimOptions{
			Endpoint:     g.Endpoint,
			UserAgent:    g.UserAgent,
			Email:        g.Email,
			Language:     g.Language,
			CountryCodes: g.CountryCodes,
			Limit:        g.Limit,
			MaxRetries:   g.MaxRetries,
			HTTPClient:   &http.Client{Timeout: g.Timeout},
		})
		return client, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown geocoder backend %q", g.Backend)
	}
}
