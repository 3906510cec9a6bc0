package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatusCode(t *testing.T) {
	body := []byte(`{"error":"x"}`)

	tests := []struct {
		code     int
		expected *Error
	}{
		{code: 200, expected: nil},
		{code: 204, expected: nil},
		{code: 299, expected: nil},
		{code: 401, expected: ErrUnauthorized},
		{code: 403, expected: ErrForbidden},
		{code: 404, expected: ErrNotFound},
		{code: 408, expected: ErrTimeout},
		{code: 500, expected: ServerErrorStatus(500)},
		{code: 503, expected: ServerErrorStatus(503)},
		{code: 599, expected: ServerErrorStatus(599)},
		{code: 300, expected: HTTPStatus(300, body)},
		{code: 400, expected: HTTPStatus(400, body)},
		{code: 429, expected: HTTPStatus(429, body)},
		{code: 600, expected: HTTPStatus(600, body)},
		{code: 100, expected: HTTPStatus(100, body)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			got := FromStatusCode(tt.code, body)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, Equal(tt.expected, got), "got %v", got)
		})
	}
}

func TestFromStatusCodeReturnsFreshValues(t *testing.T) {
	got := FromStatusCode(404, nil)
	assert.NotSame(t, ErrNotFound, got)
}

func TestFromTransportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "cancelled", err: context.Canceled, expected: KindCancelled},
		{
			name:     "cancelled_wrapped_in_url_error",
			err:      &url.Error{Op: "Get", URL: "https://x", Err: context.Canceled},
			expected: KindCancelled,
		},
		{
			name:     "deadline_exceeded",
			err:      &url.Error{Op: "Get", URL: "https://x", Err: context.DeadlineExceeded},
			expected: KindTimeout,
		},
		{name: "net_timeout", err: &net.DNSError{Err: "i/o timeout", IsTimeout: true}, expected: KindTimeout},
		{name: "dns_failure", err: &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}, expected: KindNoConnection},
		{
			name:     "connection_refused",
			err:      &url.Error{Op: "Get", URL: "https://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}},
			expected: KindNoConnection,
		},
		{name: "connection_reset", err: fmt.Errorf("read: %w", syscall.ECONNRESET), expected: KindNoConnection},
		{name: "unexpected_eof", err: fmt.Errorf("reading body: %w", io.ErrUnexpectedEOF), expected: KindNoConnection},
		{name: "unsupported_scheme", err: errors.New(`unsupported protocol scheme "ftp"`), expected: KindInvalidURL},
		{name: "invalid_host", err: url.InvalidHostError("bad"), expected: KindInvalidURL},
		{
			name:     "malformed_response",
			err:      errors.New(`net/http: HTTP/1.x transport connection broken: malformed HTTP response "garbage"`),
			expected: KindInvalidResponse,
		},
		{name: "unknown", err: errors.New("something odd"), expected: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromTransportError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.Kind)
			assert.ErrorIs(t, got, tt.err, "native cause must stay reachable")
		})
	}
}

func TestFromTransportErrorPassesThroughNetworkErrors(t *testing.T) {
	original := ServerErrorStatus(502)

	assert.Same(t, original, FromTransportError(fmt.Errorf("wrapped: %w", original)))
	assert.Nil(t, FromTransportError(nil))
}

func TestFromTransportErrorUnknownKeepsMessage(t *testing.T) {
	got := FromTransportError(errors.New("something odd"))
	assert.Equal(t, "something odd", got.Message)
}
