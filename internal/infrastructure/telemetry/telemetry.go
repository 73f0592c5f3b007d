package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/storefront-core/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// InstrumentationName names the tracer and meter of every storefront component
const InstrumentationName = "storefront-core"

// Telemetry holds the providers and logger shared by all components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger

	// conn is the collector connection; nil when OTLP export is disabled
	conn *grpc.ClientConn
}

// NewTelemetry exports traces and metrics over OTLP and serves metrics
// to the Prometheus scrape endpoint
func NewTelemetry(cfg *config.OTLPConfig) (*Telemetry, error) {
	logger := initLogger(cfg)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
		slog.Float64("sample_ratio", cfg.SampleRatio),
	)

	ctx := context.Background()

	conn, err := dialCollector(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	tp, err := initTracerProvider(ctx, cfg, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	mp, err := initMeterProvider(ctx, cfg, conn)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	t := &Telemetry{TracerProvider: tp, MeterProvider: mp, Logger: logger, conn: conn}
	t.install()
	logger.Info("OpenTelemetry initialized (OTLP + Prometheus exporters)")
	return t, nil
}

// NewNoOpTelemetry keeps spans local and metrics on /metrics only
func NewNoOpTelemetry(cfg *config.OTLPConfig) *Telemetry {
	logger := initLogger(cfg)

	mp, err := initPrometheusOnlyMeterProvider(cfg)
	if err != nil {
		logger.Warn("Prometheus exporter unavailable, metrics disabled",
			slog.String("error", err.Error()),
		)
		mp = metric.NewMeterProvider()
	}

	t := &Telemetry{
		TracerProvider: sdktrace.NewTracerProvider(),
		MeterProvider:  mp,
		Logger:         logger,
	}
	t.install()
	logger.Info("Telemetry initialized with OTLP export disabled")
	return t
}

// install registers the providers globally and propagates W3C trace
// context through the catalog client
func (t *Telemetry) install() {
	otel.SetTracerProvider(t.TracerProvider)
	otel.SetMeterProvider(t.MeterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// Tracer returns the storefront tracer
func (t *Telemetry) Tracer() trace.Tracer {
	return t.TracerProvider.Tracer(InstrumentationName)
}

// Meter returns the storefront meter
func (t *Telemetry) Meter() otelmetric.Meter {
	return t.MeterProvider.Meter(InstrumentationName)
}

// Shutdown flushes both providers, then closes the collector connection.
// Every step runs; their errors are joined.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer provider: %w", err))
	}
	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter provider: %w", err))
	}
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("collector connection: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		t.Logger.Error("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
		return err
	}
	t.Logger.Info("OpenTelemetry shutdown complete")
	return nil
}
