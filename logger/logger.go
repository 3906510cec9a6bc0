package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZeroLogger wraps zerolog.Logger to implement the Logger interface.
type ZeroLogger struct {
	zlog         *zerolog.Logger
	filter       *SensitiveDataFilter
	severityHook func(zerolog.Level)
}

// Ensure ZeroLogger implements the interface
var _ Logger = (*ZeroLogger)(nil)

var callerMarshalOnce sync.Once

// Options configures a ZeroLogger.
type Options struct {
	// Level is a zerolog level name; unknown values fall back to info.
	Level string
	// Pretty switches to human readable console output.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Filter defaults to DefaultFilterConfig.
	Filter *FilterConfig
}

// New creates a ZeroLogger writing to stdout with the default filter.
func New(level string, pretty bool) *ZeroLogger {
	return NewWithOptions(Options{Level: level, Pretty: pretty})
}

// NewWithFilter creates a ZeroLogger with a custom filter configuration.
func NewWithFilter(level string, pretty bool, filterConfig *FilterConfig) *ZeroLogger {
	return NewWithOptions(Options{Level: level, Pretty: pretty, Filter: filterConfig})
}

// NewWithWriter creates a JSON ZeroLogger writing to w, mostly for tests
// asserting on log output.
func NewWithWriter(w io.Writer, level string) *ZeroLogger {
	return NewWithOptions(Options{Level: level, Output: w})
}

// NewWithOptions creates a ZeroLogger from opts.
func NewWithOptions(opts Options) *ZeroLogger {
	callerMarshalOnce.Do(func() {
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			base := filepath.Base(file)
			parent := filepath.Base(filepath.Dir(file))
			if parent != "." && parent != "" {
				return parent + "/" + base + ":" + strconv.Itoa(line)
			}
			return base + ":" + strconv.Itoa(line)
		}
	})

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zLevel, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		zLevel = zerolog.InfoLevel
	}
	l := zerolog.New(out).With().Timestamp().CallerWithSkipFrameCount(3).Logger().Level(zLevel)

	return &ZeroLogger{zlog: &l, filter: NewSensitiveDataFilter(opts.Filter)}
}

// WithContext returns a logger bound to ctx. A zerolog logger stored in the
// context takes over output; a severity hook stored with WithSeverityHook is
// carried along.
func (l *ZeroLogger) WithContext(ctx any) Logger {
	c, ok := ctx.(context.Context)
	if !ok || c == nil {
		return l
	}

	next := *l
	if zl := zerolog.Ctx(c); zl != nil && zl.GetLevel() != zerolog.Disabled {
		next.zlog = zl
	}
	if hook := severityHookFromContext(c); hook != nil {
		next.severityHook = hook
	}
	return &next
}

// WithFields returns a logger with additional fields attached to all log entries.
func (l *ZeroLogger) WithFields(fields map[string]any) Logger {
	if l.filter != nil {
		fields = l.filter.FilterFields(fields)
	}
	log := l.zlog.With().Fields(fields).Logger()
	return &ZeroLogger{zlog: &log, filter: l.filter, severityHook: l.severityHook}
}

// Filter returns the sensitive data filter applied by this logger.
func (l *ZeroLogger) Filter() *SensitiveDataFilter {
	return l.filter
}
