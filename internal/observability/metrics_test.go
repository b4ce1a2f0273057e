package observability

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetricViewsBucketCatalogSize(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	options := []sdkmetric.Option{sdkmetric.WithReader(reader)}
	for _, view := range MetricViews() {
		options = append(options, sdkmetric.WithView(view))
	}
	provider := sdkmetric.NewMeterProvider(options...)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	histogram, err := provider.Meter(meterName).Int64Histogram(catalogServicesMetric)
	if err != nil {
		t.Fatalf("create histogram: %v", err)
	}
	histogram.Record(context.Background(), 3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(rm.ScopeMetrics) != 1 || len(rm.ScopeMetrics[0].Metrics) != 1 {
		t.Fatalf("unexpected metrics: %#v", rm.ScopeMetrics)
	}
	data, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Histogram[int64])
	if !ok || len(data.DataPoints) != 1 {
		t.Fatalf("expected one int64 histogram point, got %#v", rm.ScopeMetrics[0].Metrics[0].Data)
	}
	bounds := data.DataPoints[0].Bounds
	if len(bounds) != len(catalogSizeBuckets) || bounds[len(bounds)-1] != 500 {
		t.Fatalf("expected catalog size buckets, got %v", bounds)
	}
}

func TestCatalogMetricsZeroValueIsSafe(t *testing.T) {
	t.Parallel()

	var m CatalogMetrics
	m.RecordListing(context.Background(), 2)
	m.RecordFailure(context.Background())

	var p ProviderMetrics
	p.RecordRead(context.Background(), "file-geojson", "ok")
}
