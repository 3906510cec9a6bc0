package config

import (
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/gaborage/netbricks/observability"
)

// Config represents the overall configuration of a network stack.
// The koanf instance is kept for access to keys not modelled by the struct.
type Config struct {
	Client        ClientConfig         `koanf:"client" json:"client" yaml:"client"`
	Retry         RetryConfig          `koanf:"retry" json:"retry" yaml:"retry"`
	Log           LogConfig            `koanf:"log" json:"log" yaml:"log"`
	Observability observability.Config `koanf:"observability" json:"observability" yaml:"observability"`

	k *koanf.Koanf `json:"-" yaml:"-"`
}

// ClientConfig configures the HTTP client and its interceptor chain.
type ClientConfig struct {
	// BaseURL is the absolute URL relative request paths resolve against.
	// Empty means every request must carry an absolute URL.
	BaseURL string `koanf:"baseurl" json:"baseurl" yaml:"baseurl" validate:"omitempty,url"`

	// Timeout is the default per-request timeout. Default: 30s.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gte=0"`

	DefaultHeaders map[string]string `koanf:"defaultheaders" json:"defaultheaders" yaml:"defaultheaders"`

	// UserAgent is set on requests that do not carry one. Empty disables it.
	UserAgent string `koanf:"useragent" json:"useragent" yaml:"useragent"`

	// CachePolicy is one of default, reload, return-else-load, return-only.
	CachePolicy string `koanf:"cachepolicy" json:"cachepolicy" yaml:"cachepolicy" validate:"omitempty,oneof=default reload return-else-load return-only"`

	Logging   LoggingConfig   `koanf:"logging" json:"logging" yaml:"logging"`
	RequestID RequestIDConfig `koanf:"requestid" json:"requestid" yaml:"requestid"`
	RateLimit RateLimitConfig `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit"`
	Auth      AuthConfig      `koanf:"auth" json:"auth" yaml:"auth"`
}

// LoggingConfig configures the request/response logging interceptor.
type LoggingConfig struct {
	// Level is one of none, basic, headers, body. Default: none.
	Level string `koanf:"level" json:"level" yaml:"level" validate:"omitempty,oneof=none basic headers body"`

	// PreviewLimit caps body previews in characters. Default: 1000.
	PreviewLimit int `koanf:"previewlimit" json:"previewlimit" yaml:"previewlimit" validate:"gte=0"`
}

// RequestIDConfig configures the request ID interceptor.
type RequestIDConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Header  string `koanf:"header" json:"header" yaml:"header"`
}

// RateLimitConfig configures client-side throttling. A zero RPS disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" json:"rps" yaml:"rps" validate:"gte=0"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=0"`
}

// AuthConfig configures a static credential injected by the auth interceptor.
type AuthConfig struct {
	// Type is one of none, bearer, apikey. Default: none.
	Type  string `koanf:"type" json:"type" yaml:"type" validate:"omitempty,oneof=none bearer apikey"`
	Token string `koanf:"token" json:"-" yaml:"-"`

	// Header overrides the header name used for apikey. Default: X-API-Key.
	Header string `koanf:"header" json:"header" yaml:"header"`
}

// RetryConfig configures the retrying service decorator.
type RetryConfig struct {
	Enabled     bool          `koanf:"enabled" json:"enabled" yaml:"enabled"`
	MaxRetries  int           `koanf:"maxretries" json:"maxretries" yaml:"maxretries" validate:"gte=0"`
	BaseDelay   time.Duration `koanf:"basedelay" json:"basedelay" yaml:"basedelay" validate:"gte=0"`
	MaxDelay    time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" validate:"gte=0"`
	Exponential bool          `koanf:"exponential" json:"exponential" yaml:"exponential"`
	StatusCodes []int         `koanf:"statuscodes" json:"statuscodes" yaml:"statuscodes" validate:"dive,gte=100,lte=599"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}
