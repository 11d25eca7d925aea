// Package metrics exposes search activity as Prometheus collectors fed
// from the event bus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"locsearch/internal/eventbus"
)

// Collectors holds the picker's metrics on a private registry.
type Collectors struct {
	Registry *prometheus.Registry

	QueriesIssued  prometheus.Counter
	StaleResponses prometheus.Counter
	Failures       prometheus.Counter
	Skipped        prometheus.Counter
	Selections     *prometheus.CounterVec
	Latency        prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		QueriesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locsearch_queries_issued_total",
			Help: "Total number of geocoding requests sent.",
		}),
		StaleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locsearch_stale_responses_total",
			Help: "Total number of responses dropped because a newer query superseded them.",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locsearch_search_failures_total",
			Help: "Total number of geocoding requests that failed.",
		}),
		Skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locsearch_searches_skipped_total",
			Help: "Total number of empty queries answered without a request.",
		}),
		Selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locsearch_selections_total",
			Help: "Total number of committed selections by country code.",
		}, []string{"country"}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "locsearch_search_latency_seconds",
			Help:    "Time from issuing a query to applying its response.",
			Buckets: prometheus.ExponentialBuckets(0.025, 2, 9),
		}),
	}
	c.Registry.MustRegister(c.QueriesIssued, c.StaleResponses, c.Failures, c.Skipped, c.Selections, c.Latency)
	return c
}

// Subscribe wires the collectors to bus. The returned function unsubscribes.
func (c *Collectors) Subscribe(bus eventbus.EventBus) func() {
	unsubs := []func(){
		bus.Subscribe(eventbus.EventQueryIssued, func(eventbus.DomainEvent) {
			c.QueriesIssued.Inc()
		}),
		bus.Subscribe(eventbus.EventStaleResponseDiscarded, func(eventbus.DomainEvent) {
			c.StaleResponses.Inc()
		}),
		bus.Subscribe(eventbus.EventSearchSkipped, func(eventbus.DomainEvent) {
			c.Skipped.Inc()
		}),
		bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
			c.Failures.Inc()
			if ev, ok := e.(eventbus.SearchFailedEvent); ok {
				c.Latency.Observe(ev.Elapsed.Seconds())
			}
		}),
		bus.Subscribe(eventbus.EventResultsApplied, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.ResultsAppliedEvent); ok {
				c.Latency.Observe(ev.Elapsed.Seconds())
			}
		}),
		bus.Subscribe(eventbus.EventLocationSelected, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.LocationSelectedEvent); ok {
				c.Selections.WithLabelValues(countryLabel(ev.Location.CountryCode())).Inc()
			}
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func countryLabel(code string) string {
	if code == "" {
		return "unknown"
	}
	return strings.ToLower(code)
}

// Handler serves the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collectors) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
		return nil
	}
}
