package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Client: ClientConfig{BaseURL: testBaseURL, Timeout: time.Second},
		Retry:  RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second, StatusCodes: []int{503}},
		Log:    LogConfig{Level: "info"},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "relative_base_url", mutate: func(c *Config) { c.Client.BaseURL = "not a url" }, field: "client.baseurl"},
		{name: "negative_timeout", mutate: func(c *Config) { c.Client.Timeout = -time.Second }, field: "client.timeout"},
		{name: "cache_policy", mutate: func(c *Config) { c.Client.CachePolicy = "forever" }, field: "client.cachepolicy"},
		{name: "logging_level", mutate: func(c *Config) { c.Client.Logging.Level = "verbose" }, field: "client.logging.level"},
		{name: "negative_rps", mutate: func(c *Config) { c.Client.RateLimit.RPS = -1 }, field: "client.ratelimit.rps"},
		{name: "negative_retries", mutate: func(c *Config) { c.Retry.MaxRetries = -1 }, field: "retry.maxretries"},
		{name: "status_code_range", mutate: func(c *Config) { c.Retry.StatusCodes = []int{99} }, field: "retry.statuscodes[0]"},
		{name: "log_level", mutate: func(c *Config) { c.Log.Level = "loud" }, field: "log.level"},
		{name: "max_below_base", mutate: func(c *Config) { c.Retry.MaxDelay = time.Millisecond }, field: "retry.maxdelay"},
		{name: "auth_without_token", mutate: func(c *Config) { c.Client.Auth.Type = "bearer" }, field: "client.auth.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidateOneOfListsOptions(t *testing.T) {
	cfg := validConfig()
	cfg.Client.Logging.Level = "verbose"

	var cfgErr *ConfigError
	require.ErrorAs(t, Validate(cfg), &cfgErr)
	assert.Equal(t, "must be one of: none, basic, headers, body", cfgErr.Action)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Client.Timeout = -time.Second
	cfg.Retry.MaxRetries = -1

	err := Validate(cfg)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 2)
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := LoadBytes([]byte("retry:\n  maxretries: -2\n"))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "retry.maxretries", cfgErr.Field)
}

func TestConfigErrorFormatting(t *testing.T) {
	err := &ConfigError{
		Category: "invalid",
		Field:    "client.baseurl",
		Message:  "must be an absolute URL",
		Action:   "set " + envVarFor("client.baseurl"),
		Details:  []string{"example: https://api.example.com"},
	}

	assert.Equal(t,
		"config_invalid: client.baseurl must be an absolute URL set NETBRICKS_CLIENT_BASEURL example: https://api.example.com",
		err.Error())
}
