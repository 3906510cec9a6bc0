package interceptor

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gaborage/netbricks/logger"
	"github.com/gaborage/netbricks/network"
)

// DefaultPreviewLimit is the number of characters of a body shown at LevelBody.
const DefaultPreviewLimit = 1000

const ellipsis = "..."

// Level controls how much of each exchange Logging emits. Levels are
// cumulative.
type Level int

const (
	LevelNone Level = iota
	// LevelBasic logs method and URL, plus status and duration for responses.
	LevelBasic
	// LevelHeaders adds headers, masking sensitive values.
	LevelHeaders
	// LevelBody adds a body preview.
	LevelBody
)

var levelNames = []string{"none", "basic", "headers", "body"}

func (l Level) String() string {
	if l >= LevelNone && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(name, s) {
			return Level(i), nil
		}
	}
	return LevelNone, fmt.Errorf("unknown logging level %q", s)
}

// Logging writes one line per request and per response. It never modifies
// what it is given.
type Logging struct {
	level        Level
	log          logger.Logger
	sink         func(string)
	filter       *logger.SensitiveDataFilter
	previewLimit int
}

var (
	_ network.RequestInterceptor  = (*Logging)(nil)
	_ network.ResponseInterceptor = (*Logging)(nil)
)

// LoggingOption configures Logging.
type LoggingOption func(*Logging)

// WithLogger emits structured events through log at info level.
func WithLogger(log logger.Logger) LoggingOption {
	return func(l *Logging) { l.log = log }
}

// WithSink passes every formatted line to fn.
func WithSink(fn func(string)) LoggingOption {
	return func(l *Logging) { l.sink = fn }
}

// WithPreviewLimit overrides DefaultPreviewLimit.
func WithPreviewLimit(n int) LoggingOption {
	return func(l *Logging) {
		if n > 0 {
			l.previewLimit = n
		}
	}
}

// WithSensitiveHeaders replaces the masked header set.
func WithSensitiveHeaders(names ...string) LoggingOption {
	return func(l *Logging) {
		cfg := logger.HeaderFilterConfig()
		cfg.SensitiveFields = names
		l.filter = logger.NewSensitiveDataFilter(cfg)
	}
}

// NewLogging creates a logging interceptor for both directions. Without
// WithLogger or WithSink it logs to stdout.
func NewLogging(level Level, opts ...LoggingOption) *Logging {
	l := &Logging{
		level:        level,
		filter:       logger.NewSensitiveDataFilter(logger.HeaderFilterConfig()),
		previewLimit: DefaultPreviewLimit,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil && l.sink == nil {
		l.log = logger.New("info", false)
	}
	return l
}

// Level returns the configured level.
func (l *Logging) Level() Level { return l.level }

// InterceptRequest implements network.RequestInterceptor.
func (l *Logging) InterceptRequest(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error) {
	if l.level == LevelNone {
		return req, nil
	}

	e := entry{
		direction: "request",
		method:    req.Method,
		url:       req.URL.Redacted(),
	}
	if l.level >= LevelHeaders {
		e.headers = l.filter.FilterHeaders(req.Header)
	}
	if l.level >= LevelBody {
		e.body, e.hasBody = l.requestBody(req)
	}
	l.emit(ctx, e)
	return req, nil
}

// InterceptResponse implements network.ResponseInterceptor.
func (l *Logging) InterceptResponse(ctx context.Context, resp network.Response) (network.Response, error) {
	if l.level == LevelNone {
		return resp, nil
	}

	e := entry{
		direction: "response",
		status:    resp.StatusCode(),
		elapsed:   resp.Elapsed(),
	}
	if req := resp.Request(); req != nil {
		e.method = req.Method().String()
	}
	if u := resp.URL(); u != nil {
		e.url = u.Redacted()
	} else if req := resp.Request(); req != nil {
		e.url = req.Path()
	}
	if l.level >= LevelHeaders {
		e.headers = l.filter.FilterHeaders(resp.Headers())
	}
	if l.level >= LevelBody && len(resp.Body()) > 0 {
		e.body, e.hasBody = preview(resp.Body(), l.previewLimit), true
	}
	l.emit(ctx, e)
	return resp, nil
}

func (l *Logging) requestBody(req *nethttp.Request) (string, bool) {
	if req.GetBody == nil {
		return "", false
	}
	rc, err := req.GetBody()
	if err != nil {
		return "", false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return preview(data, l.previewLimit), true
}

type entry struct {
	direction string
	method    string
	url       string
	status    int
	elapsed   time.Duration
	headers   nethttp.Header
	body      string
	hasBody   bool
}

func (l *Logging) emit(ctx context.Context, e entry) {
	if l.sink != nil {
		l.sink(e.format())
	}
	if l.log == nil {
		return
	}

	ev := l.log.WithContext(ctx).Info().
		Str("direction", e.direction).
		Str("method", e.method).
		Str("url", e.url)
	if e.direction == "response" {
		ev = ev.Int("status", e.status).Dur("elapsed", e.elapsed)
	}
	if e.headers != nil {
		ev = ev.Headers("headers", e.headers)
	}
	if e.hasBody {
		ev = ev.Str("body", e.body)
	}
	ev.Msg("HTTP " + e.direction)
}

func (e entry) format() string {
	var b strings.Builder
	if e.direction == "response" {
		fmt.Fprintf(&b, "HTTP response %d %s %s (%s)", e.status, e.method, e.url, e.elapsed)
	} else {
		fmt.Fprintf(&b, "HTTP request %s %s", e.method, e.url)
	}

	names := make([]string, 0, len(e.headers))
	for name := range e.headers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s: %s", name, strings.Join(e.headers[name], ", "))
	}

	if e.hasBody {
		b.WriteString("\n  Body: ")
		b.WriteString(e.body)
	}
	return b.String()
}

// preview renders text bodies truncated to limit characters and binary
// bodies as a byte count.
func preview(data []byte, limit int) string {
	if !utf8.Valid(data) {
		return fmt.Sprintf("<%d bytes>", len(data))
	}
	s := string(data)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + ellipsis
}
