package interceptor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gaborage/netbricks/network"
	"github.com/gaborage/netbricks/observability"
)

const (
	clientMeterName = "netbricks/http-client"

	metricClientDuration  = "http.client.request.duration"
	metricClientResponses = "http.client.responses"

	attrHTTPRequestMethod  = "http.request.method"
	attrHTTPResponseStatus = "http.response.status_code"
	attrErrorType          = "error.type"
)

var clientDurationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10,
}

// Metrics records a duration histogram and a response counter for every
// response, error statuses included. Non-2xx responses carry the taxonomy
// kind they will be classified as in error.type.
type Metrics struct {
	duration  metric.Float64Histogram
	responses metric.Int64Counter
}

var _ network.ResponseInterceptor = (*Metrics)(nil)

// NewMetrics creates the instruments on mp, or the global provider when nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(clientMeterName)

	duration, err := observability.CreateHistogram(meter,
		metricClientDuration,
		"Duration of HTTP client requests",
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(clientDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricClientDuration, err)
	}

	responses, err := observability.CreateCounter(meter,
		metricClientResponses,
		"HTTP client responses by status",
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricClientResponses, err)
	}

	return &Metrics{duration: duration, responses: responses}, nil
}

// InterceptResponse implements network.ResponseInterceptor.
func (m *Metrics) InterceptResponse(ctx context.Context, resp network.Response) (network.Response, error) {
	attrs := []attribute.KeyValue{
		attribute.Int(attrHTTPResponseStatus, resp.StatusCode()),
	}
	if req := resp.Request(); req != nil {
		attrs = append(attrs, attribute.String(attrHTTPRequestMethod, req.Method().String()))
	}
	if netErr := network.FromStatusCode(resp.StatusCode(), nil); netErr != nil {
		attrs = append(attrs, attribute.String(attrErrorType, string(netErr.Kind)))
	}

	set := metric.WithAttributes(attrs...)
	m.responses.Add(ctx, 1, set)
	m.duration.Record(ctx, resp.Elapsed().Seconds(), set)
	return resp, nil
}
