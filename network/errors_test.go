package network

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Error
		expected bool
	}{
		{name: "same_sentinel", a: ErrTimeout, b: &Error{Kind: KindTimeout}, expected: true},
		{name: "different_kinds", a: ErrTimeout, b: ErrNoConnection, expected: false},
		{name: "server_error_same_code", a: ServerErrorStatus(503), b: ServerErrorStatus(503), expected: true},
		{name: "server_error_different_code", a: ServerErrorStatus(503), b: ServerErrorStatus(502), expected: false},
		{name: "http_same_code_and_body", a: HTTPStatus(418, []byte("tea")), b: HTTPStatus(418, []byte("tea")), expected: true},
		{name: "http_different_body", a: HTTPStatus(418, []byte("tea")), b: HTTPStatus(418, []byte("coffee")), expected: false},
		{name: "http_nil_and_empty_body", a: HTTPStatus(409, nil), b: HTTPStatus(409, []byte{}), expected: true},
		{name: "decoding_same_message", a: NewDecodingError(errors.New("eof")), b: NewDecodingError(errors.New("eof")), expected: true},
		{name: "decoding_different_message", a: NewDecodingError(errors.New("eof")), b: NewDecodingError(errors.New("bad")), expected: false},
		{name: "unknown_message", a: NewUnknownError("x", nil), b: NewUnknownError("y", nil), expected: false},
		{name: "both_nil", a: nil, b: nil, expected: true},
		{name: "one_nil", a: ErrTimeout, b: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
			assert.Equal(t, tt.expected, Equal(tt.b, tt.a))
		})
	}
}

func TestErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("loading profile: %w", ServerErrorStatus(503))

	assert.ErrorIs(t, wrapped, ServerErrorStatus(503))
	assert.NotErrorIs(t, wrapped, ServerErrorStatus(500))
	assert.ErrorIs(t, &Error{Kind: KindNotFound}, ErrNotFound)
	assert.NotErrorIs(t, errors.New("plain"), ErrNotFound)
}

func TestEqualIgnoresHeaderAndCause(t *testing.T) {
	a := ServerErrorStatus(503)
	a.Header = map[string][]string{"Retry-After": {"2"}}
	b := newKindError(KindServerError, errors.New("cause"))
	b.StatusCode = 503

	assert.True(t, Equal(a, b))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err      *Error
		expected string
	}{
		{err: ErrInvalidURL, expected: "network error: invalid URL"},
		{err: ErrTimeout, expected: "network error: request timed out"},
		{err: ServerErrorStatus(502), expected: "network error: server error (status: 502)"},
		{err: HTTPStatus(429, nil), expected: "network error: HTTP error (status: 429)"},
		{err: NewEncodingError(errors.New("unsupported type")), expected: "network error: encoding failed: unsupported type"},
		{err: NewUnknownError("socket closed", nil), expected: "network error: unknown: socket closed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewDecodingError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", err.Message)
}

func TestKindHelpers(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", ErrForbidden)

	assert.True(t, IsKind(wrapped, KindForbidden))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, KindForbidden, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	code, ok := StatusCodeOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 403, code)

	code, ok = StatusCodeOf(HTTPStatus(422, nil))
	assert.True(t, ok)
	assert.Equal(t, 422, code)

	_, ok = StatusCodeOf(ErrTimeout)
	assert.False(t, ok)
}
