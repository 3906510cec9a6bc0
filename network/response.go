package network

import (
	"bytes"
	nethttp "net/http"
	"net/url"
	"time"
)

// Response wraps the bytes, status and headers of one round trip. Like
// Request it is a value type; the With* methods return modified copies.
type Response struct {
	body       []byte
	statusCode int
	headers    nethttp.Header
	request    *Request
	url        *url.URL
	elapsed    time.Duration
}

// NewResponse builds a response. req is an optional, non-owning back
// reference kept for logging and diagnostics.
func NewResponse(statusCode int, body []byte, headers nethttp.Header, req *Request) Response {
	if headers == nil {
		headers = nethttp.Header{}
	}
	return Response{
		body:       bytes.Clone(body),
		statusCode: statusCode,
		headers:    headers.Clone(),
		request:    req,
	}
}

// Body returns the response body. Callers must not modify the returned slice.
func (r Response) Body() []byte { return r.body }

// StatusCode returns the HTTP status code.
func (r Response) StatusCode() int { return r.statusCode }

// Headers returns a copy of the response headers.
func (r Response) Headers() nethttp.Header { return r.headers.Clone() }

// Header returns the first value of the named header.
func (r Response) Header(name string) string { return r.headers.Get(name) }

// Request returns the originating request, or nil.
func (r Response) Request() *Request { return r.request }

// URL returns the resolved URL the response was received from, or nil.
func (r Response) URL() *url.URL { return r.url }

// Elapsed returns the round-trip duration measured by the client.
func (r Response) Elapsed() time.Duration { return r.elapsed }

// IsSuccess reports whether the status code is within [200, 299].
func (r Response) IsSuccess() bool { return IsSuccessStatus(r.statusCode) }

// WithHeader returns a copy of r with the header set.
func (r Response) WithHeader(key, value string) Response {
	c := r
	c.headers = r.headers.Clone()
	if c.headers == nil {
		c.headers = nethttp.Header{}
	}
	c.headers.Set(key, value)
	return c
}

// WithBody returns a copy of r carrying body.
func (r Response) WithBody(body []byte) Response {
	c := r
	c.body = bytes.Clone(body)
	return c
}

// WithStatusCode returns a copy of r with the status code replaced.
func (r Response) WithStatusCode(statusCode int) Response {
	c := r
	c.statusCode = statusCode
	return c
}

func (r Response) withTransportInfo(u *url.URL, elapsed time.Duration) Response {
	c := r
	c.url = u
	c.elapsed = elapsed
	return c
}
