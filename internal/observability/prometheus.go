package observability

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"resumeinsight/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusServer serves the scrape endpoint on its own port
type PrometheusServer struct {
	server   *http.Server
	registry *prometheus.Registry
}

// NewPrometheusServer creates an OpenTelemetry reader that exports into a dedicated
// registry, and the HTTP server that exposes it. The server is not started.
func NewPrometheusServer(cfg config.PrometheusConfig) (sdkmetric.Reader, *PrometheusServer, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return exporter, &PrometheusServer{
		registry: registry,
		server: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Handler returns the scrape handler
func (p *PrometheusServer) Handler() http.Handler {
	return p.server.Handler
}

// Start serves metrics in the background
func (p *PrometheusServer) Start() {
	log.Printf("Starting Prometheus metrics server on %s", p.server.Addr)
	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Prometheus server error: %v", err)
		}
	}()
}

// Shutdown stops the metrics server
func (p *PrometheusServer) Shutdown(ctx context.Context) error {
	return p.server.Shutdown(ctx)
}
