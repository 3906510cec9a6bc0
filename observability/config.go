package observability

import (
	"maps"
	"strings"
	"time"
)

const (
	// EndpointStdout is a special endpoint value that outputs to stdout (for local development).
	EndpointStdout = "stdout"

	// ProtocolHTTP specifies OTLP over HTTP/protobuf.
	ProtocolHTTP = "http"

	// ProtocolGRPC specifies OTLP over gRPC.
	ProtocolGRPC = "grpc"

	// EnvironmentDevelopment is the default environment name for development mode.
	EnvironmentDevelopment = "development"

	defaultSampleRate     = 1.0
	defaultBatchTimeout   = 5 * time.Second
	defaultExportTimeout  = 30 * time.Second
	defaultMetricInterval = 60 * time.Second
)

// BoolPtr returns a pointer to the provided bool value.
// Helpful when optional boolean configuration fields are used.
func BoolPtr(v bool) *bool {
	return &v
}

// Float64Ptr returns a pointer to the provided float64 value.
func Float64Ptr(v float64) *float64 {
	return &v
}

func cloneHeaderMap(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	clone := make(map[string]string, len(headers))
	maps.Copy(clone, headers)
	return clone
}

// Config defines the configuration for telemetry export of the network stack.
type Config struct {
	// Enabled controls whether observability is active.
	// When false, all observability operations become no-ops.
	Enabled bool `koanf:"enabled"`

	// Service contains service identification metadata.
	Service ServiceConfig `koanf:"service"`

	// Environment indicates the deployment environment (e.g., production, staging, development).
	Environment string `koanf:"environment"`

	Trace   TraceConfig   `koanf:"trace"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ServiceConfig contains service identification metadata.
type ServiceConfig struct {
	// Name identifies the service in traces and metrics.
	// This is required when observability is enabled.
	Name string `koanf:"name"`

	Version string `koanf:"version"`
}

// TraceConfig defines configuration for distributed tracing.
type TraceConfig struct {
	// Enabled is nil to apply the default (true when observability is enabled).
	Enabled *bool `koanf:"enabled"`

	// Endpoint specifies where to send trace data.
	// Special value "stdout" enables console output for local development.
	// For OTLP use "http://localhost:4318" (http) or "localhost:4317" (grpc).
	Endpoint string `koanf:"endpoint"`

	// Protocol is "http" or "grpc". Only used when Endpoint is not "stdout".
	Protocol string `koanf:"protocol"`

	// Insecure disables TLS for OTLP endpoints.
	Insecure bool `koanf:"insecure"`

	// Headers are sent with every OTLP export request (e.g. API keys).
	Headers map[string]string `koanf:"headers"`

	// SampleRate is the fraction of traces to record, within [0, 1].
	// nil applies the default of 1.0; an explicit 0 records nothing.
	SampleRate *float64 `koanf:"samplerate"`

	BatchTimeout  time.Duration `koanf:"batchtimeout"`
	ExportTimeout time.Duration `koanf:"exporttimeout"`
}

// MetricsConfig defines configuration for metrics collection.
type MetricsConfig struct {
	// Enabled is nil to apply the default (true when observability is enabled).
	Enabled *bool `koanf:"enabled"`

	// Endpoint defaults to the trace endpoint.
	Endpoint string `koanf:"endpoint"`

	// Protocol defaults to the trace protocol.
	Protocol string `koanf:"protocol"`

	// Insecure falls back to the trace setting when unset.
	Insecure *bool `koanf:"insecure"`

	// Headers default to the trace headers.
	Headers map[string]string `koanf:"headers"`

	// Interval specifies how often to export metrics.
	Interval time.Duration `koanf:"interval"`

	ExportTimeout time.Duration `koanf:"exporttimeout"`
}

// ApplyDefaults sets default values for any config fields that are not specified.
func (c *Config) ApplyDefaults() {
	if c.Service.Version == "" {
		c.Service.Version = "unknown"
	}
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}

	c.applyTraceDefaults()
	c.applyMetricsDefaults()
}

func (c *Config) applyTraceDefaults() {
	if c.Trace.Enabled == nil {
		c.Trace.Enabled = BoolPtr(c.Enabled)
	}
	if c.Trace.Endpoint == "" {
		c.Trace.Endpoint = EndpointStdout
	}
	if c.Trace.Protocol == "" {
		c.Trace.Protocol = ProtocolHTTP
	}
	if c.Trace.SampleRate == nil {
		c.Trace.SampleRate = Float64Ptr(defaultSampleRate)
	}
	if c.Trace.BatchTimeout == 0 {
		c.Trace.BatchTimeout = defaultBatchTimeout
	}
	if c.Trace.ExportTimeout == 0 {
		c.Trace.ExportTimeout = defaultExportTimeout
	}
	c.Trace.Headers = cloneHeaderMap(c.Trace.Headers)
}

// applyMetricsDefaults runs after the trace defaults so metrics can inherit them.
func (c *Config) applyMetricsDefaults() {
	if c.Metrics.Enabled == nil {
		c.Metrics.Enabled = BoolPtr(c.Enabled)
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = c.Trace.Endpoint
	}
	if c.Metrics.Protocol == "" {
		c.Metrics.Protocol = c.Trace.Protocol
	}
	if c.Metrics.Insecure == nil {
		c.Metrics.Insecure = BoolPtr(c.Trace.Insecure)
	}
	if len(c.Metrics.Headers) == 0 {
		c.Metrics.Headers = cloneHeaderMap(c.Trace.Headers)
	} else {
		c.Metrics.Headers = cloneHeaderMap(c.Metrics.Headers)
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = defaultMetricInterval
	}
	if c.Metrics.ExportTimeout == 0 {
		c.Metrics.ExportTimeout = defaultExportTimeout
	}
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}
	if c.Service.Name == "" {
		return ErrMissingServiceName
	}

	if rate := c.Trace.SampleRate; rate != nil && (*rate < 0.0 || *rate > 1.0) {
		return ErrInvalidSampleRate
	}
	if err := validateEndpoint(c.Trace.Endpoint, c.Trace.Protocol); err != nil {
		return err
	}
	return validateEndpoint(c.Metrics.Endpoint, c.Metrics.Protocol)
}

// validateEndpoint checks that the endpoint format matches the protocol.
// gRPC endpoints use "host:port"; HTTP endpoints carry an http(s) scheme.
func validateEndpoint(endpoint, protocol string) error {
	if endpoint == EndpointStdout || endpoint == "" {
		return nil
	}
	if protocol == "" {
		protocol = ProtocolHTTP
	}

	hasScheme := strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://")
	switch protocol {
	case ProtocolHTTP:
		if !hasScheme {
			return ErrInvalidEndpointFormat
		}
	case ProtocolGRPC:
		if hasScheme {
			return ErrInvalidEndpointFormat
		}
	default:
		return ErrInvalidProtocol
	}
	return nil
}
