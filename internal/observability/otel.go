package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumeinsight/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const defaultCollectionInterval = 15 * time.Second

// Manager owns the OpenTelemetry providers, exporters and business metrics
type Manager struct {
	cfg            config.ObservabilityConfig
	tracerProvider oteltrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	prometheus     *PrometheusServer
	shutdownFuncs  []func(context.Context) error
}

// NewManager sets up tracing and metrics from cfg. When observability is disabled
// the manager hands out no-op tracers and metrics.
func NewManager(ctx context.Context, cfg config.ObservabilityConfig, version string) (*Manager, error) {
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = version
	}
	om := &Manager{cfg: cfg, tracerProvider: tracenoop.NewTracerProvider()}

	if !cfg.Enabled {
		metrics, err := NewMetrics(metricnoop.NewMeterProvider().Meter(cfg.ServiceName))
		if err != nil {
			return nil, err
		}
		om.metrics = metrics
		return om, nil
	}

	res, err := om.resource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.Tracing.Enabled {
		if err := om.initTracing(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if err := om.initMetrics(ctx, res); err != nil {
		_ = om.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

func (om *Manager) resource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.cfg.ServiceName),
			semconv.ServiceVersion(om.cfg.ServiceVersion),
			attribute.String("service.instance.id", om.cfg.ServiceInstance),
		),
	)
}

func (om *Manager) initTracing(ctx context.Context, res *resource.Resource) error {
	var opts []sdktrace.TracerProviderOption

	if om.cfg.Console.Enabled {
		var stdoutOpts []stdouttrace.Option
		if om.cfg.Console.PrettyPrint {
			stdoutOpts = append(stdoutOpts, stdouttrace.WithPrettyPrint())
		}
		exporter, err := stdouttrace.New(stdoutOpts...)
		if err != nil {
			return fmt.Errorf("failed to create console trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	if om.cfg.OTLP.Enabled {
		exporterOpts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(om.cfg.OTLP.Endpoint)}
		if om.cfg.OTLP.Insecure {
			exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
		}
		if len(om.cfg.OTLP.Headers) > 0 {
			exporterOpts = append(exporterOpts, otlptracehttp.WithHeaders(om.cfg.OTLP.Headers))
		}
		exporter, err := otlptracehttp.New(ctx, exporterOpts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	opts = append(opts,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(om.cfg.Tracing.SampleRate))),
	)
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

func (om *Manager) initMetrics(ctx context.Context, res *resource.Resource) error {
	readers, err := om.metricReaders(ctx)
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(opts...)

	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	om.metrics, err = NewMetrics(mp.Meter(om.cfg.ServiceName))
	return err
}

func (om *Manager) metricReaders(ctx context.Context) ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	if !om.cfg.Metrics.Enabled {
		return []sdkmetric.Reader{sdkmetric.NewManualReader()}, nil
	}

	interval := om.cfg.Metrics.CollectionInterval
	if interval <= 0 {
		interval = defaultCollectionInterval
	}

	if om.cfg.Console.Enabled {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.cfg.OTLP.Enabled {
		exporterOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(om.cfg.OTLP.Endpoint)}
		if om.cfg.OTLP.Insecure {
			exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
		}
		if len(om.cfg.OTLP.Headers) > 0 {
			exporterOpts = append(exporterOpts, otlpmetrichttp.WithHeaders(om.cfg.OTLP.Headers))
		}
		exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.cfg.Prometheus.Enabled {
		reader, server, err := NewPrometheusServer(om.cfg.Prometheus)
		if err != nil {
			return nil, err
		}
		server.Start()
		om.prometheus = server
		om.shutdownFuncs = append(om.shutdownFuncs, server.Shutdown)
		readers = append(readers, reader)
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

// Metrics returns the business metrics. It is never nil.
func (om *Manager) Metrics() *Metrics {
	return om.metrics
}

// Tracer returns a named tracer, or a no-op tracer when tracing is off
func (om *Manager) Tracer(name string) oteltrace.Tracer {
	return om.tracerProvider.Tracer(name)
}

// HTTPMiddleware wraps handlers with otelhttp instrumentation
func (om *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.cfg.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	opts := []otelhttp.Option{otelhttp.WithTracerProvider(om.tracerProvider)}
	if om.meterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(om.meterProvider))
	}
	return otelhttp.NewMiddleware(om.cfg.ServiceName, opts...)
}

// Shutdown flushes exporters and stops the metrics server in reverse setup order
func (om *Manager) Shutdown(ctx context.Context) error {
	var firstErr error
	for i := len(om.shutdownFuncs) - 1; i >= 0; i-- {
		if err := om.shutdownFuncs[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	om.shutdownFuncs = nil
	return firstErr
}
