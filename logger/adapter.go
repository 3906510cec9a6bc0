package logger

import (
	nethttp "net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var headerFilter = NewSensitiveDataFilter(HeaderFilterConfig())

// LogEventAdapter adapts zerolog events to the LogEvent interface and
// applies the sensitive data filter to string-like fields.
type LogEventAdapter struct {
	event  *zerolog.Event
	filter *SensitiveDataFilter
	level  zerolog.Level
	hook   func(zerolog.Level)
}

func (lea *LogEventAdapter) with(event *zerolog.Event) LogEvent {
	return &LogEventAdapter{event: event, filter: lea.filter, level: lea.level, hook: lea.hook}
}

// Msg logs the message
func (lea *LogEventAdapter) Msg(msg string) {
	lea.trackSeverity()
	lea.event.Msg(msg)
}

// Msgf logs a formatted message
func (lea *LogEventAdapter) Msgf(format string, args ...any) {
	lea.trackSeverity()
	lea.event.Msgf(format, args...)
}

// Err adds an error to the log event
func (lea *LogEventAdapter) Err(err error) LogEvent {
	return lea.with(lea.event.Err(err))
}

// Str adds a string field to the log event
func (lea *LogEventAdapter) Str(key, value string) LogEvent {
	if lea.filter != nil {
		value = lea.filter.FilterString(key, value)
	}
	return lea.with(lea.event.Str(key, value))
}

// Int adds an integer field to the log event
func (lea *LogEventAdapter) Int(key string, value int) LogEvent {
	return lea.with(lea.event.Int(key, value))
}

// Int64 adds an int64 field to the log event
func (lea *LogEventAdapter) Int64(key string, value int64) LogEvent {
	return lea.with(lea.event.Int64(key, value))
}

// Uint64 adds a uint64 field to the log event
func (lea *LogEventAdapter) Uint64(key string, value uint64) LogEvent {
	return lea.with(lea.event.Uint64(key, value))
}

// Dur adds a duration field to the log event
func (lea *LogEventAdapter) Dur(key string, d time.Duration) LogEvent {
	return lea.with(lea.event.Dur(key, d))
}

// Interface adds an any field to the log event
func (lea *LogEventAdapter) Interface(key string, i any) LogEvent {
	if lea.filter != nil {
		i = lea.filter.FilterValue(key, i)
	}
	return lea.with(lea.event.Interface(key, i))
}

// Bytes adds a byte slice field to the log event
func (lea *LogEventAdapter) Bytes(key string, val []byte) LogEvent {
	if lea.filter != nil && lea.filter.IsSensitive(key) {
		return lea.with(lea.event.Str(key, lea.filter.MaskValue()))
	}
	return lea.with(lea.event.Bytes(key, val))
}

// Bool adds a boolean field to the log event
func (lea *LogEventAdapter) Bool(key string, b bool) LogEvent {
	return lea.with(lea.event.Bool(key, b))
}

// Headers adds HTTP headers as a nested object. Values of the exact-match
// header set are masked regardless of the logger's field filter.
func (lea *LogEventAdapter) Headers(key string, h nethttp.Header) LogEvent {
	masked := headerFilter.FilterHeaders(h)
	names := make([]string, 0, len(masked))
	for name := range masked {
		names = append(names, name)
	}
	slices.Sort(names)

	dict := zerolog.Dict()
	for _, name := range names {
		dict = dict.Str(name, strings.Join(masked[name], ", "))
	}
	return lea.with(lea.event.Dict(key, dict))
}

func (lea *LogEventAdapter) trackSeverity() {
	if lea.hook != nil && lea.level >= zerolog.WarnLevel {
		lea.hook(lea.level)
	}
}

func (l *ZeroLogger) event(e *zerolog.Event, level zerolog.Level) LogEvent {
	return &LogEventAdapter{event: e, filter: l.filter, level: level, hook: l.severityHook}
}

// Info creates an info-level log event
func (l *ZeroLogger) Info() LogEvent { return l.event(l.zlog.Info(), zerolog.InfoLevel) }

// Error creates an error-level log event
func (l *ZeroLogger) Error() LogEvent { return l.event(l.zlog.Error(), zerolog.ErrorLevel) }

// Debug creates a debug-level log event
func (l *ZeroLogger) Debug() LogEvent { return l.event(l.zlog.Debug(), zerolog.DebugLevel) }

// Warn creates a warning-level log event
func (l *ZeroLogger) Warn() LogEvent { return l.event(l.zlog.Warn(), zerolog.WarnLevel) }

// Fatal creates a fatal-level log event
func (l *ZeroLogger) Fatal() LogEvent { return l.event(l.zlog.Fatal(), zerolog.FatalLevel) }
