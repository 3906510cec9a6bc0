package network

import (
	"context"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"syscall"
)

// FromStatusCode classifies an HTTP status code. It returns nil for 2xx.
func FromStatusCode(statusCode int, body []byte) *Error {
	switch {
	case IsSuccessStatus(statusCode):
		return nil
	case statusCode == nethttp.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized}
	case statusCode == nethttp.StatusForbidden:
		return &Error{Kind: KindForbidden}
	case statusCode == nethttp.StatusNotFound:
		return &Error{Kind: KindNotFound}
	case statusCode == nethttp.StatusRequestTimeout:
		return &Error{Kind: KindTimeout}
	case statusCode >= 500 && statusCode < 600:
		return ServerErrorStatus(statusCode)
	default:
		return HTTPStatus(statusCode, body)
	}
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

type timeoutError interface {
	Timeout() bool
}

// FromTransportError translates a failure returned by the transport into the
// closed taxonomy. It is the only place native transport errors are inspected;
// the original error stays reachable through Unwrap.
func FromTransportError(err error) *Error {
	if err == nil {
		return nil
	}

	var netErr *Error
	if errors.As(err, &netErr) {
		return netErr
	}

	// Cancellation must win over timeouts: a cancelled context can surface
	// wrapped in a url.Error that also reports Timeout().
	if errors.Is(err, context.Canceled) {
		return newKindError(KindCancelled, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newKindError(KindTimeout, err)
	}
	var te timeoutError
	if errors.As(err, &te) && te.Timeout() {
		return newKindError(KindTimeout, err)
	}

	if isInvalidURL(err) {
		return newKindError(KindInvalidURL, err)
	}
	if isConnectivity(err) {
		return newKindError(KindNoConnection, err)
	}
	if strings.Contains(err.Error(), "malformed HTTP") {
		return newKindError(KindInvalidResponse, err)
	}

	return NewUnknownError(err.Error(), err)
}

func isInvalidURL(err error) bool {
	var escapeErr url.EscapeError
	if errors.As(err, &escapeErr) {
		return true
	}
	var hostErr url.InvalidHostError
	if errors.As(err, &hostErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unsupported protocol scheme") ||
		strings.Contains(msg, "no Host in request URL")
}

func isConnectivity(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED,
			syscall.ENETUNREACH, syscall.EHOSTUNREACH, syscall.ENETDOWN:
			return true
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
