// Package testing provides in-memory OpenTelemetry providers and lookup
// helpers for asserting spans and metrics without a collector.
//
//	tp := NewTestTraceProvider()
//	defer tp.Shutdown(context.Background())
//	// ... exercise code using tp ...
//	spans := tp.Exporter.GetSpans()
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTraceProvider wraps the SDK TracerProvider and in-memory exporter for testing.
type TestTraceProvider struct {
	*sdktrace.TracerProvider
	Exporter *tracetest.InMemoryExporter
}

// NewTestTraceProvider creates a TracerProvider exporting synchronously to memory.
func NewTestTraceProvider() *TestTraceProvider {
	exporter := tracetest.NewInMemoryExporter()
	return &TestTraceProvider{
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)),
		Exporter:       exporter,
	}
}

// TestMeterProvider wraps the SDK MeterProvider and manual reader for testing.
type TestMeterProvider struct {
	*sdkmetric.MeterProvider
	Reader *sdkmetric.ManualReader
}

// NewTestMeterProvider creates a MeterProvider collected on demand.
func NewTestMeterProvider() *TestMeterProvider {
	reader := sdkmetric.NewManualReader()
	return &TestMeterProvider{
		MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		Reader:        reader,
	}
}

// Collect reads all metrics from the provider.
func (tmp *TestMeterProvider) Collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tmp.Reader.Collect(context.Background(), &rm), "failed to collect metrics")
	return rm
}

// FindMetric returns the named metric, or nil.
func FindMetric(rm metricdata.ResourceMetrics, metricName string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == metricName {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// SumInt64 adds up the data points of an int64 sum whose attributes include
// every kv in match.
func SumInt64(t *testing.T, rm metricdata.ResourceMetrics, metricName string, match ...attribute.KeyValue) int64 {
	t.Helper()
	m := FindMetric(rm, metricName)
	require.NotNil(t, m, "metric %s not found", metricName)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is %T, not an int64 sum", metricName, m.Data)

	var total int64
	for _, dp := range sum.DataPoints {
		if hasAttributes(dp.Attributes, match) {
			total += dp.Value
		}
	}
	return total
}

// HistogramCount returns the number of recordings of a float64 histogram
// whose attributes include every kv in match.
func HistogramCount(t *testing.T, rm metricdata.ResourceMetrics, metricName string, match ...attribute.KeyValue) uint64 {
	t.Helper()
	m := FindMetric(rm, metricName)
	require.NotNil(t, m, "metric %s not found", metricName)
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is %T, not a float64 histogram", metricName, m.Data)

	var total uint64
	for _, dp := range hist.DataPoints {
		if hasAttributes(dp.Attributes, match) {
			total += dp.Count
		}
	}
	return total
}

func hasAttributes(set attribute.Set, match []attribute.KeyValue) bool {
	for _, kv := range match {
		v, ok := set.Value(kv.Key)
		if !ok || v.Type() != kv.Value.Type() || v.Emit() != kv.Value.Emit() {
			return false
		}
	}
	return true
}
