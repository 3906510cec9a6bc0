package interceptor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/netbricks/logger"
	"github.com/gaborage/netbricks/network"
)

type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *lineSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func newPost(t *testing.T, body string) *nethttp.Request {
	t.Helper()
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodPost, "https://api.example.com/v1/orders", strings.NewReader(body))
	require.NoError(t, err)
	return req
}

func TestLoggingHeadersMasksSensitiveValues(t *testing.T) {
	sink := &lineSink{}
	l := NewLogging(LevelHeaders, WithSink(sink.write))

	req := newOutgoing(t, map[string]string{
		"authorization": "Bearer secret-token",
		"X-Api-Key":     "k-1",
		"Accept":        "application/json",
	})

	out, err := l.InterceptRequest(context.Background(), req)
	require.NoError(t, err)

	lines := sink.all()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "HTTP request GET https://api.example.com/v1/users")
	assert.Contains(t, lines[0], "Authorization: ***")
	assert.Contains(t, lines[0], "X-Api-Key: ***")
	assert.Contains(t, lines[0], "Accept: application/json")
	assert.NotContains(t, lines[0], "secret-token")

	assert.Same(t, req, out)
	assert.Equal(t, "Bearer secret-token", out.Header.Get("Authorization"))
}

func TestLoggingBasicOmitsHeaders(t *testing.T) {
	sink := &lineSink{}
	l := NewLogging(LevelBasic, WithSink(sink.write))

	_, err := l.InterceptRequest(context.Background(), newOutgoing(t, map[string]string{"Accept": "text/plain"}))
	require.NoError(t, err)

	assert.Equal(t, []string{"HTTP request GET https://api.example.com/v1/users"}, sink.all())
}

func TestLoggingNoneEmitsNothing(t *testing.T) {
	sink := &lineSink{}
	l := NewLogging(LevelNone, WithSink(sink.write))

	_, err := l.InterceptRequest(context.Background(), newOutgoing(t, nil))
	require.NoError(t, err)
	_, err = l.InterceptResponse(context.Background(), network.NewResponse(200, nil, nil, nil))
	require.NoError(t, err)

	assert.Empty(t, sink.all())
}

func TestLoggingBodyPreview(t *testing.T) {
	t.Run("request_body_kept_readable", func(t *testing.T) {
		sink := &lineSink{}
		l := NewLogging(LevelBody, WithSink(sink.write))
		req := newPost(t, `{"qty":1}`)

		out, err := l.InterceptRequest(context.Background(), req)
		require.NoError(t, err)

		assert.Contains(t, sink.all()[0], `Body: {"qty":1}`)
		var buf bytes.Buffer
		_, err = buf.ReadFrom(out.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"qty":1}`, buf.String())
	})

	t.Run("long_text_truncated", func(t *testing.T) {
		sink := &lineSink{}
		l := NewLogging(LevelBody, WithSink(sink.write))
		body := strings.Repeat("é", DefaultPreviewLimit+5)

		_, err := l.InterceptResponse(context.Background(), network.NewResponse(200, []byte(body), nil, nil))
		require.NoError(t, err)

		line := sink.all()[0]
		assert.Contains(t, line, strings.Repeat("é", DefaultPreviewLimit)+"...")
		assert.NotContains(t, line, strings.Repeat("é", DefaultPreviewLimit+1))
	})

	t.Run("binary_logs_byte_count", func(t *testing.T) {
		sink := &lineSink{}
		l := NewLogging(LevelBody, WithSink(sink.write))

		_, err := l.InterceptResponse(context.Background(), network.NewResponse(200, []byte{0xff, 0xfe, 0x00, 0x01}, nil, nil))
		require.NoError(t, err)

		assert.Contains(t, sink.all()[0], "Body: <4 bytes>")
	})

	t.Run("custom_limit", func(t *testing.T) {
		assert.Equal(t, "abc...", preview([]byte("abcdef"), 3))
		assert.Equal(t, "abc", preview([]byte("abc"), 3))
	})
}

func TestLoggingResponse(t *testing.T) {
	sink := &lineSink{}
	l := NewLogging(LevelHeaders, WithSink(sink.write))

	req := network.Get("/users")
	headers := nethttp.Header{"Set-Cookie": {"session=1"}, "Content-Type": {"text/plain"}}
	resp := network.NewResponse(500, []byte("boom"), headers, &req)

	out, err := l.InterceptResponse(context.Background(), resp)
	require.NoError(t, err)
	assert.Equal(t, resp, out)

	line := sink.all()[0]
	assert.True(t, strings.HasPrefix(line, "HTTP response 500 GET /users"), line)
	assert.Contains(t, line, "Set-Cookie: ***")
	assert.Contains(t, line, "Content-Type: text/plain")
}

func TestLoggingThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithOptions(logger.Options{Level: "info", Output: &buf})
	l := NewLogging(LevelBody, WithLogger(log))

	req := newPost(t, "hello")
	req.Header.Set("Authorization", "Bearer secret-token")

	_, err := l.InterceptRequest(context.Background(), req)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "HTTP request", entry["message"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "hello", entry["body"])
	headers, ok := entry["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, logger.DefaultMaskValue, headers["Authorization"])
	assert.NotContains(t, buf.String(), "secret-token")
}

func TestLoggingDefaultsToStdout(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	l := NewLogging(LevelHeaders)
	os.Stdout = stdout

	req := newOutgoing(t, map[string]string{"Authorization": "Bearer secret-token"})
	_, err = l.InterceptRequest(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out), &entry))
	assert.Equal(t, "HTTP request", entry["message"])
	assert.Equal(t, "https://api.example.com/v1/users", entry["url"])
	headers, ok := entry["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, logger.DefaultMaskValue, headers["Authorization"])
}

func TestWithSensitiveHeaders(t *testing.T) {
	sink := &lineSink{}
	l := NewLogging(LevelHeaders, WithSink(sink.write), WithSensitiveHeaders("X-Tenant"))

	_, err := l.InterceptRequest(context.Background(), newOutgoing(t, map[string]string{"X-Tenant": "acme"}))
	require.NoError(t, err)

	assert.Contains(t, sink.all()[0], "X-Tenant: ***")
}

func TestParseLevel(t *testing.T) {
	for _, level := range []Level{LevelNone, LevelBasic, LevelHeaders, LevelBody} {
		got, err := ParseLevel(strings.ToUpper(level.String()))
		require.NoError(t, err)
		assert.Equal(t, level, got)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}
