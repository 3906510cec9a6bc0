package network

import (
	"bytes"
	"errors"
	"fmt"
	nethttp "net/http"
)

// Kind identifies the category of a networking failure. The set is closed:
// every error produced by this package carries one of the kinds below.
type Kind string

const (
	KindInvalidURL      Kind = "invalid_url"
	KindInvalidRequest  Kind = "invalid_request"
	KindInvalidResponse Kind = "invalid_response"
	KindNoData          Kind = "no_data"
	KindDecodingFailed  Kind = "decoding_failed"
	KindEncodingFailed  Kind = "encoding_failed"
	KindHTTP            Kind = "http_error"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindServerError     Kind = "server_error"
	KindTimeout         Kind = "timeout"
	KindNoConnection    Kind = "no_connection"
	KindCancelled       Kind = "cancelled"
	KindUnknown         Kind = "unknown"
)

// Error is the single error type returned by the networking layer.
//
// StatusCode is set for KindHTTP and KindServerError, Body for KindHTTP, and
// Message for KindDecodingFailed, KindEncodingFailed and KindUnknown. Header
// carries the response headers of status-derived errors; it is informational
// and does not take part in equality.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       []byte
	Message    string
	Header     nethttp.Header

	cause error
}

// Sentinels for kinds without associated values. Compare with errors.Is;
// never modify them.
var (
	ErrInvalidURL      = &Error{Kind: KindInvalidURL}
	ErrInvalidRequest  = &Error{Kind: KindInvalidRequest}
	ErrInvalidResponse = &Error{Kind: KindInvalidResponse}
	ErrNoData          = &Error{Kind: KindNoData}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrTimeout         = &Error{Kind: KindTimeout}
	ErrNoConnection    = &Error{Kind: KindNoConnection}
	ErrCancelled       = &Error{Kind: KindCancelled}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindHTTP:
		msg = fmt.Sprintf("HTTP error (status: %d)", e.StatusCode)
	case KindServerError:
		msg = fmt.Sprintf("server error (status: %d)", e.StatusCode)
	case KindDecodingFailed, KindEncodingFailed, KindUnknown:
		msg = fmt.Sprintf("%s: %s", kindText(e.Kind), e.Message)
	default:
		msg = kindText(e.Kind)
	}
	return "network error: " + msg
}

// Unwrap returns the native cause, if any. It is kept for diagnostics only.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports structural equality with target, making errors.Is work against
// both the sentinels and values such as ServerErrorStatus(503).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return Equal(e, t)
}

// Equal reports whether a and b have the same kind and the same associated
// status code, body or message where the kind defines one.
func Equal(a, b *Error) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindHTTP:
		return a.StatusCode == b.StatusCode && bytes.Equal(a.Body, b.Body)
	case KindServerError:
		return a.StatusCode == b.StatusCode
	case KindDecodingFailed, KindEncodingFailed, KindUnknown:
		return a.Message == b.Message
	default:
		return true
	}
}

// HTTPStatus builds a KindHTTP error.
func HTTPStatus(statusCode int, body []byte) *Error {
	return &Error{Kind: KindHTTP, StatusCode: statusCode, Body: body}
}

// ServerErrorStatus builds a KindServerError error.
func ServerErrorStatus(statusCode int) *Error {
	return &Error{Kind: KindServerError, StatusCode: statusCode}
}

// NewDecodingError builds a KindDecodingFailed error preserving the decoder message.
func NewDecodingError(cause error) *Error {
	return &Error{Kind: KindDecodingFailed, Message: messageOf(cause), cause: cause}
}

// NewEncodingError builds a KindEncodingFailed error preserving the encoder message.
func NewEncodingError(cause error) *Error {
	return &Error{Kind: KindEncodingFailed, Message: messageOf(cause), cause: cause}
}

// NewUnknownError builds a KindUnknown error.
func NewUnknownError(message string, cause error) *Error {
	return &Error{Kind: KindUnknown, Message: message, cause: cause}
}

func newKindError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var netErr *Error
	if errors.As(err, &netErr) {
		return netErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown when err is not a *Error.
func KindOf(err error) Kind {
	var netErr *Error
	if errors.As(err, &netErr) {
		return netErr.Kind
	}
	return KindUnknown
}

// StatusCodeOf returns the HTTP status code carried by err and true, for the
// kinds derived from a response status.
func StatusCodeOf(err error) (int, bool) {
	var netErr *Error
	if !errors.As(err, &netErr) {
		return 0, false
	}
	switch netErr.Kind {
	case KindHTTP, KindServerError:
		return netErr.StatusCode, true
	case KindUnauthorized:
		return nethttp.StatusUnauthorized, true
	case KindForbidden:
		return nethttp.StatusForbidden, true
	case KindNotFound:
		return nethttp.StatusNotFound, true
	default:
		return 0, false
	}
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func kindText(k Kind) string {
	switch k {
	case KindInvalidURL:
		return "invalid URL"
	case KindInvalidRequest:
		return "invalid request"
	case KindInvalidResponse:
		return "invalid response"
	case KindNoData:
		return "no data"
	case KindDecodingFailed:
		return "decoding failed"
	case KindEncodingFailed:
		return "encoding failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindTimeout:
		return "request timed out"
	case KindNoConnection:
		return "no connection"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}
