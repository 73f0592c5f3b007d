package telemetry

import (
	"context"
	"fmt"

	"github.com/mrops-br/storefront-core/internal/infrastructure/config"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// requestDurationBuckets spans cached reads (sub-millisecond) up to a slow
// catalog refresh bounded by CATALOG_HTTP_TIMEOUT
var requestDurationBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

// dialCollector opens the gRPC connection shared by the trace and metric
// exporters. The connection is lazy; no I/O happens until the first export.
func dialCollector(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}
	return conn, nil
}

// durationView rebuckets the request duration histogram in milliseconds;
// the SDK defaults are tuned for seconds.
func durationView() metric.View {
	return metric.NewView(
		metric.Instrument{Name: "http.server.request.duration.ms"},
		metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{
			Boundaries: requestDurationBuckets,
		}},
	)
}

// initMeterProvider pushes metrics to the collector and mirrors them on
// the Prometheus registry behind /metrics
func initMeterProvider(ctx context.Context, cfg *config.OTLPConfig, conn *grpc.ClientConn) (*metric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	promReader, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithReader(promReader),
		metric.WithResource(res),
		metric.WithView(durationView()),
	), nil
}

// initPrometheusOnlyMeterProvider keeps /metrics working when OTLP export is disabled
func initPrometheusOnlyMeterProvider(cfg *config.OTLPConfig) (*metric.MeterProvider, error) {
	promReader, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := newResource(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithReader(promReader),
		metric.WithResource(res),
		metric.WithView(durationView()),
	), nil
}
