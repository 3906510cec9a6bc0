// Package config loads network stack configuration from defaults, a YAML file
// and NETBRICKS_ prefixed environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before mapping
// NETBRICKS_CLIENT_BASEURL to client.baseurl.
const EnvPrefix = "NETBRICKS_"

// Load reads configuration with priority:
// 1. Environment variables (highest priority)
// 2. The YAML file at path, when path is not empty
// 3. Default values (lowest priority)
//
// A missing file is an error only when path was given explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &ConfigError{
					Category: "missing",
					Field:    path,
					Message:  "config file not found",
					Action:   "check the --config path",
				}
			}
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return finish(k)
}

// LoadBytes is like Load with YAML content supplied in memory.
func LoadBytes(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// envKey converts NETBRICKS_RETRY_MAXRETRIES to retry.maxretries.
func envKey(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"client.timeout":              "30s",
		"client.useragent":            "netbricks",
		"client.cachepolicy":          "default",
		"client.logging.level":        "none",
		"client.logging.previewlimit": 1000,
		"client.requestid.enabled":    true,
		"client.requestid.header":     "X-Request-ID",
		"client.auth.type":            "none",
		"client.auth.header":          "X-API-Key",

		"retry.enabled":     false,
		"retry.maxretries":  3,
		"retry.basedelay":   "1s",
		"retry.maxdelay":    "30s",
		"retry.exponential": true,
		"retry.statuscodes": []int{408, 429, 500, 502, 503, 504},

		"log.level":  "info",
		"log.pretty": false,

		"observability.enabled":      false,
		"observability.service.name": "netbricks",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
