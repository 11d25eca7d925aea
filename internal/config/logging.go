package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewLogger builds a slog logger writing to w in the configured format
func NewLogger(w io.Writer, s LogSettings) (*slog.Logger, error) {
	level, err := s.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch s.Format {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case LogFormatText, "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log.format %q", s.Format)
	}
	return slog.New(handler), nil
}

// OpenLogFile opens the log file for appending. The interactive picker
// owns the terminal, so its logs must never go to stdout or stderr.
func OpenLogFile(s LogSettings) (*slog.Logger, io.Closer, error) {
	if dir := filepath.Dir(s.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(s.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger, err := NewLogger(f, s)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// Log logs the resolved settings, skipping the ones that do not apply
func Log(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	if s.ConfigFile != "" {
		logger.InfoContext(ctx, "Config: file", "value", s.ConfigFile)
	}
	logger.InfoContext(ctx, "Config: geocoder.backend", "value", s.Geocoder.Backend)
	switch s.Geocoder.Backend {
	case BackendNominatim:
		logger.InfoContext(ctx, "Config: geocoder.endpoint", "value", s.Geocoder.Endpoint)
		logger.InfoContext(ctx, "Config: geocoder.user_agent", "value", s.Geocoder.UserAgent)
		if s.Geocoder.Email != "" {
			logger.InfoContext(ctx, "Config: geocoder.email", "value", "****")
		}
		if len(s.Geocoder.CountryCodes) > 0 {
			logger.InfoContext(ctx, "Config: geocoder.country_codes", "value", s.Geocoder.CountryCodes)
		}
	case BackendGazetteer:
		logger.InfoContext(ctx, "Config: geocoder.gazetteer_path", "value", s.Geocoder.GazetteerPath)
	}
	logger.InfoContext(ctx, "Config: geocoder.limit", "value", s.Geocoder.Limit)
	logger.InfoContext(ctx, "Config: search.debounce", "value", s.Search.Debounce)
	logger.InfoContext(ctx, "Config: search.up_policy", "value", s.Search.UpPolicy)
	if p, ok := s.UI.OriginPoint(); ok {
		logger.InfoContext(ctx, "Config: ui.origin", "lat", p.Lat, "lon", p.Lon)
	}
	if s.Metrics.Addr != "" {
		logger.InfoContext(ctx, "Config: metrics.addr", "value", s.Metrics.Addr)
	}
}
