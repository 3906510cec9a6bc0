// Package logger defines the structured logging contract used by the
// networking packages and its zerolog implementation.
package logger

import (
	nethttp "net/http"
	"time"
)

// Logger defines the contract for structured logging.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	Fatal() LogEvent
	WithContext(ctx any) Logger
	WithFields(fields map[string]any) Logger
}

// LogEvent represents a structured log event that can be built with fields and sent.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Uint64(key string, value uint64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
	Bytes(key string, val []byte) LogEvent
	Bool(key string, b bool) LogEvent
	// Headers logs h as a name to joined-values object with sensitive
	// header values masked.
	Headers(key string, h nethttp.Header) LogEvent
}
