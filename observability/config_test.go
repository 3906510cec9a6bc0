package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServiceName = "test-service"

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Enabled: true, Service: ServiceConfig{Name: testServiceName}}
	cfg.ApplyDefaults()

	assert.Equal(t, "unknown", cfg.Service.Version)
	assert.Equal(t, EnvironmentDevelopment, cfg.Environment)

	require.NotNil(t, cfg.Trace.Enabled)
	assert.True(t, *cfg.Trace.Enabled)
	assert.Equal(t, EndpointStdout, cfg.Trace.Endpoint)
	assert.Equal(t, ProtocolHTTP, cfg.Trace.Protocol)
	require.NotNil(t, cfg.Trace.SampleRate)
	assert.InDelta(t, 1.0, *cfg.Trace.SampleRate, 0)
	assert.Equal(t, defaultBatchTimeout, cfg.Trace.BatchTimeout)

	require.NotNil(t, cfg.Metrics.Enabled)
	assert.True(t, *cfg.Metrics.Enabled)
	assert.Equal(t, EndpointStdout, cfg.Metrics.Endpoint)
	assert.Equal(t, defaultMetricInterval, cfg.Metrics.Interval)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Enabled: true,
		Trace: TraceConfig{
			Enabled:    BoolPtr(false),
			SampleRate: Float64Ptr(0),
		},
		Metrics: MetricsConfig{Interval: time.Second},
	}
	cfg.ApplyDefaults()

	assert.False(t, *cfg.Trace.Enabled)
	assert.InDelta(t, 0.0, *cfg.Trace.SampleRate, 0)
	assert.Equal(t, time.Second, cfg.Metrics.Interval)
}

func TestMetricsInheritTraceSettings(t *testing.T) {
	cfg := &Config{
		Enabled: true,
		Trace: TraceConfig{
			Endpoint: "collector:4317",
			Protocol: ProtocolGRPC,
			Insecure: true,
			Headers:  map[string]string{"api-key": "k"},
		},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "collector:4317", cfg.Metrics.Endpoint)
	assert.Equal(t, ProtocolGRPC, cfg.Metrics.Protocol)
	require.NotNil(t, cfg.Metrics.Insecure)
	assert.True(t, *cfg.Metrics.Insecure)
	assert.Equal(t, map[string]string{"api-key": "k"}, cfg.Metrics.Headers)

	cfg.Metrics.Headers["api-key"] = "changed"
	assert.Equal(t, "k", cfg.Trace.Headers["api-key"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{name: "nil", cfg: nil, wantErr: ErrNilConfig},
		{name: "disabled", cfg: &Config{}},
		{name: "missing_service", cfg: &Config{Enabled: true}, wantErr: ErrMissingServiceName},
		{
			name: "sample_rate_out_of_range",
			cfg: &Config{Enabled: true, Service: ServiceConfig{Name: testServiceName},
				Trace: TraceConfig{SampleRate: Float64Ptr(1.5)}},
			wantErr: ErrInvalidSampleRate,
		},
		{
			name: "http_without_scheme",
			cfg: &Config{Enabled: true, Service: ServiceConfig{Name: testServiceName},
				Trace: TraceConfig{Endpoint: "localhost:4318", Protocol: ProtocolHTTP}},
			wantErr: ErrInvalidEndpointFormat,
		},
		{
			name: "grpc_with_scheme",
			cfg: &Config{Enabled: true, Service: ServiceConfig{Name: testServiceName},
				Trace: TraceConfig{Endpoint: "http://localhost:4317", Protocol: ProtocolGRPC}},
			wantErr: ErrInvalidEndpointFormat,
		},
		{
			name: "unknown_protocol",
			cfg: &Config{Enabled: true, Service: ServiceConfig{Name: testServiceName},
				Trace: TraceConfig{Endpoint: "localhost:4317", Protocol: "udp"}},
			wantErr: ErrInvalidProtocol,
		},
		{
			name: "valid_grpc",
			cfg: &Config{Enabled: true, Service: ServiceConfig{Name: testServiceName},
				Trace: TraceConfig{Endpoint: "localhost:4317", Protocol: ProtocolGRPC}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
