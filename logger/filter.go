package logger

import (
	nethttp "net/http"
	"net/url"
	"strings"
)

const (
	// DefaultMaskValue replaces sensitive values in log output.
	DefaultMaskValue = "***"
	// DefaultMaxDepth is the default maximum recursion depth for filtering
	DefaultMaxDepth = 8
)

// MatchMode selects how field names are compared with SensitiveFields.
type MatchMode int

const (
	// MatchContains treats a field as sensitive when its name contains any
	// configured entry, case-insensitively.
	MatchContains MatchMode = iota
	// MatchExact requires a case-insensitive match of the whole name.
	MatchExact
)

// FilterConfig defines the configuration for sensitive data filtering
type FilterConfig struct {
	// SensitiveFields contains field names that should be masked in logs
	SensitiveFields []string
	// MaskValue is the value used to replace sensitive data (default: "***")
	MaskValue string
	// Mode defaults to MatchContains
	Mode MatchMode
}

// DefaultFilterConfig returns a default configuration with common sensitive field names
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "apikey",
			"token", "access_token", "refresh_token",
			"auth", "authorization", "cookie",
			"credential", "credentials",
		},
		MaskValue: DefaultMaskValue,
	}
}

// HeaderFilterConfig returns the exact-match configuration used for HTTP
// header logging.
func HeaderFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"authorization", "x-api-key", "api-key",
			"x-auth-token", "cookie", "set-cookie",
		},
		MaskValue: DefaultMaskValue,
		Mode:      MatchExact,
	}
}

// SensitiveDataFilter masks sensitive values before they reach the log.
type SensitiveDataFilter struct {
	config *FilterConfig
	exact  map[string]struct{}
}

// NewSensitiveDataFilter creates a new filter with the given configuration
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}

	f := &SensitiveDataFilter{config: config}
	if config.Mode == MatchExact {
		f.exact = make(map[string]struct{}, len(config.SensitiveFields))
		for _, name := range config.SensitiveFields {
			f.exact[strings.ToLower(name)] = struct{}{}
		}
	}
	return f
}

// MaskValue returns the replacement used for sensitive values.
func (f *SensitiveDataFilter) MaskValue() string {
	return f.config.MaskValue
}

// IsSensitive reports whether values stored under name must be masked.
func (f *SensitiveDataFilter) IsSensitive(name string) bool {
	lower := strings.ToLower(name)
	if f.exact != nil {
		_, ok := f.exact[lower]
		return ok
	}
	for _, sensitiveField := range f.config.SensitiveFields {
		if strings.Contains(lower, strings.ToLower(sensitiveField)) {
			return true
		}
	}
	return false
}

// FilterString filters sensitive data from string values
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.IsSensitive(key) {
		return f.maskString(value)
	}
	return value
}

// FilterValue filters sensitive data from any values. Nested maps and slices
// are walked up to DefaultMaxDepth levels.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filterValue(key, value, DefaultMaxDepth)
}

// FilterFields filters a map of fields for sensitive data
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

// FilterHeaders returns a copy of h with sensitive header values masked.
func (f *SensitiveDataFilter) FilterHeaders(h nethttp.Header) nethttp.Header {
	out := make(nethttp.Header, len(h))
	for name, values := range h {
		if f.IsSensitive(name) {
			out[name] = []string{f.config.MaskValue}
			continue
		}
		out[name] = append([]string(nil), values...)
	}
	return out
}

func (f *SensitiveDataFilter) filterValue(key string, value any, depth int) any {
	if f.IsSensitive(key) {
		if s, ok := value.(string); ok {
			return f.maskString(s)
		}
		return f.config.MaskValue
	}
	if value == nil || depth <= 0 {
		return value
	}

	switch v := value.(type) {
	case map[string]any:
		filtered := make(map[string]any, len(v))
		for k, inner := range v {
			filtered[k] = f.filterValue(k, inner, depth-1)
		}
		return filtered
	case map[string]string:
		filtered := make(map[string]string, len(v))
		for k, inner := range v {
			filtered[k] = f.FilterString(k, inner)
		}
		return filtered
	case nethttp.Header:
		return f.FilterHeaders(v)
	case []any:
		filtered := make([]any, len(v))
		for i, inner := range v {
			filtered[i] = f.filterValue(key, inner, depth-1)
		}
		return filtered
	default:
		return value
	}
}

// maskString masks sensitive string values
func (f *SensitiveDataFilter) maskString(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return f.maskURL(value)
	}
	return f.config.MaskValue
}

// maskURL replaces the password of a URL's user info and keeps the rest
func (f *SensitiveDataFilter) maskURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return f.config.MaskValue
	}
	if parsed.User == nil {
		return raw
	}
	if _, hasPassword := parsed.User.Password(); !hasPassword {
		return raw
	}

	var b strings.Builder
	b.WriteString(parsed.Scheme)
	b.WriteString("://")
	b.WriteString(parsed.User.Username())
	b.WriteByte(':')
	b.WriteString(f.config.MaskValue)
	b.WriteByte('@')
	b.WriteString(parsed.Host)
	b.WriteString(parsed.EscapedPath())
	if parsed.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(parsed.RawQuery)
	}
	if parsed.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(parsed.Fragment)
	}
	return b.String()
}
