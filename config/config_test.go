package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.example.com"

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Client.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "netbricks", cfg.Client.UserAgent)
	assert.Equal(t, "default", cfg.Client.CachePolicy)
	assert.Equal(t, "none", cfg.Client.Logging.Level)
	assert.Equal(t, 1000, cfg.Client.Logging.PreviewLimit)
	assert.True(t, cfg.Client.RequestID.Enabled)
	assert.Equal(t, "X-Request-ID", cfg.Client.RequestID.Header)
	assert.Equal(t, "none", cfg.Client.Auth.Type)

	assert.False(t, cfg.Retry.Enabled)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxDelay)
	assert.True(t, cfg.Retry.Exponential)
	assert.Equal(t, []int{408, 429, 500, 502, 503, 504}, cfg.Retry.StatusCodes)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Observability.Enabled)
	assert.Equal(t, "netbricks", cfg.Observability.Service.Name)
}

func TestLoadBytes(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
client:
  baseurl: https://api.example.com/v1
  timeout: 5s
  defaultheaders:
    x-tenant: acme
  logging:
    level: headers
  ratelimit:
    rps: 10
    burst: 2
retry:
  enabled: true
  maxretries: 5
  statuscodes: [429, 503]
observability:
  enabled: true
  service:
    name: probe
  trace:
    endpoint: localhost:4317
    protocol: grpc
    samplerate: 0.5
`))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, map[string]string{"x-tenant": "acme"}, cfg.Client.DefaultHeaders)
	assert.Equal(t, "headers", cfg.Client.Logging.Level)
	assert.InDelta(t, 10.0, cfg.Client.RateLimit.RPS, 0)
	assert.Equal(t, 2, cfg.Client.RateLimit.Burst)
	assert.True(t, cfg.Retry.Enabled)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, []int{429, 503}, cfg.Retry.StatusCodes)

	assert.True(t, cfg.Observability.Enabled)
	assert.Equal(t, "probe", cfg.Observability.Service.Name)
	assert.Equal(t, "grpc", cfg.Observability.Trace.Protocol)
	require.NotNil(t, cfg.Observability.Trace.SampleRate)
	assert.InDelta(t, 0.5, *cfg.Observability.Trace.SampleRate, 0)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netbricks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  baseurl: "+testBaseURL+"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, testBaseURL, cfg.Client.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "missing", cfgErr.Category)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("NETBRICKS_CLIENT_BASEURL", "https://env.example.com")
	t.Setenv("NETBRICKS_RETRY_MAXRETRIES", "7")
	t.Setenv("NETBRICKS_RETRY_BASEDELAY", "250ms")
	t.Setenv("NETBRICKS_RETRY_STATUSCODES", "500,503")

	cfg, err := LoadBytes([]byte("client:\n  baseurl: " + testBaseURL + "\n"))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Client.BaseURL)
	assert.Equal(t, 7, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, []int{500, 503}, cfg.Retry.StatusCodes)
}

func TestEnvKey(t *testing.T) {
	key, value := envKey("NETBRICKS_CLIENT_LOGGING_LEVEL", "body")

	assert.Equal(t, "client.logging.level", key)
	assert.Equal(t, "body", value)
}

func TestLoadBytesInvalidYAML(t *testing.T) {
	_, err := LoadBytes([]byte("client: [unterminated"))
	assert.Error(t, err)
}

func TestAccessors(t *testing.T) {
	cfg, err := LoadBytes([]byte("custom:\n  name: probe\n  count: 4\n  enabled: true\n  wait: 2s\n"))
	require.NoError(t, err)

	assert.Equal(t, "probe", cfg.GetString("custom.name"))
	assert.Equal(t, "fallback", cfg.GetString("custom.absent", "fallback"))
	assert.Equal(t, 4, cfg.GetInt("custom.count"))
	assert.Equal(t, 9, cfg.GetInt("custom.absent", 9))
	assert.True(t, cfg.GetBool("custom.enabled"))
	assert.Equal(t, 2*time.Second, cfg.GetDuration("custom.wait"))
	assert.True(t, cfg.Exists("client.timeout"))
	assert.False(t, cfg.Exists("custom.absent"))
	assert.Contains(t, cfg.All(), "custom.name")

	var custom struct {
		Name string `koanf:"name"`
	}
	require.NoError(t, cfg.Unmarshal("custom", &custom))
	assert.Equal(t, "probe", custom.Name)
}

func TestAccessorsOnZeroConfig(t *testing.T) {
	var cfg Config

	assert.Equal(t, "d", cfg.GetString("any", "d"))
	assert.False(t, cfg.Exists("any"))
	assert.Empty(t, cfg.All())
	assert.True(t, errors.Is(cfg.Unmarshal("", &struct{}{}), ErrNotLoaded))
}
