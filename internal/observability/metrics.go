package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const (
	meterName = "github.com/fr0stylo/geocatalog"

	catalogServicesMetric = "geocatalog.catalog.services"
)

// catalogSizeBuckets suit directories holding a handful to a few hundred layers.
var catalogSizeBuckets = []float64{0, 1, 5, 10, 25, 50, 100, 250, 500}

// MetricViews customises aggregation of the geocatalog instruments.
func MetricViews() []sdkmetric.View {
	return []sdkmetric.View{
		sdkmetric.NewView(
			sdkmetric.Instrument{Name: catalogServicesMetric},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{Boundaries: catalogSizeBuckets}},
		),
	}
}

// CatalogMetrics counts catalog listings.
type CatalogMetrics struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
	services metric.Int64Histogram
}

// NewCatalogMetrics registers catalog instruments on the global meter provider.
func NewCatalogMetrics() CatalogMetrics {
	meter := otel.Meter(meterName)
	requests, _ := meter.Int64Counter("geocatalog.catalog.requests")
	failures, _ := meter.Int64Counter("geocatalog.catalog.failures")
	services, _ := meter.Int64Histogram(catalogServicesMetric,
		metric.WithDescription("Number of services returned by one catalog listing"),
	)
	return CatalogMetrics{requests: requests, failures: failures, services: services}
}

// RecordListing records a successful listing of n services.
func (m CatalogMetrics) RecordListing(ctx context.Context, n int) {
	if m.requests == nil {
		return
	}
	m.requests.Add(ctx, 1)
	m.services.Record(ctx, int64(n))
}

// RecordFailure records a listing that could not read the data directory.
func (m CatalogMetrics) RecordFailure(ctx context.Context) {
	if m.requests == nil {
		return
	}
	m.requests.Add(ctx, 1)
	m.failures.Add(ctx, 1)
}

// ProviderMetrics counts provider reads.
type ProviderMetrics struct {
	reads metric.Int64Counter
}

// NewProviderMetrics registers provider instruments on the global meter provider.
func NewProviderMetrics() ProviderMetrics {
	reads, _ := otel.Meter(meterName).Int64Counter("geocatalog.provider.reads")
	return ProviderMetrics{reads: reads}
}

// RecordRead records one dataset read with its outcome ("ok", "not_found", "invalid", "error").
func (m ProviderMetrics) RecordRead(ctx context.Context, provider, outcome string) {
	if m.reads == nil {
		return
	}
	m.reads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}
