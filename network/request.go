package network

import (
	"bytes"
	"fmt"
	"maps"
	"strings"
	"time"
)

// DefaultTimeout is the per-request timeout applied when none is given.
const DefaultTimeout = 30 * time.Second

// CachePolicy is a caching hint forwarded to the transport as a Cache-Control
// request header. The networking layer itself never caches.
type CachePolicy int

const (
	CacheUseProtocolDefault CachePolicy = iota
	CacheReloadIgnoringData
	CacheReturnElseLoad
	CacheReturnOnly
)

var cachePolicyNames = map[CachePolicy]string{
	CacheUseProtocolDefault: "default",
	CacheReloadIgnoringData: "reload",
	CacheReturnElseLoad:     "return-else-load",
	CacheReturnOnly:         "return-only",
}

func (p CachePolicy) String() string {
	if name, ok := cachePolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("CachePolicy(%d)", int(p))
}

// ParseCachePolicy maps a configuration string onto a CachePolicy.
// The empty string selects CacheUseProtocolDefault.
func ParseCachePolicy(s string) (CachePolicy, error) {
	if s == "" {
		return CacheUseProtocolDefault, nil
	}
	for p, name := range cachePolicyNames {
		if strings.EqualFold(name, s) {
			return p, nil
		}
	}
	return CacheUseProtocolDefault, fmt.Errorf("unknown cache policy %q", s)
}

func (p CachePolicy) cacheControl() string {
	switch p {
	case CacheReloadIgnoringData:
		return "no-cache"
	case CacheReturnElseLoad:
		return "max-stale"
	case CacheReturnOnly:
		return "only-if-cached, max-stale"
	default:
		return ""
	}
}

// Request describes one outgoing call. It is a value type: the With* methods
// return modified copies and never touch the receiver.
type Request struct {
	path        string
	method      Method
	query       map[string]string
	headers     map[string]string
	body        []byte
	timeout     time.Duration
	cachePolicy CachePolicy
}

// RequestOption customises a Request during construction.
type RequestOption func(*Request)

// WithQuery adds query parameters.
func WithQuery(params map[string]string) RequestOption {
	return func(r *Request) {
		if len(params) == 0 {
			return
		}
		if r.query == nil {
			r.query = make(map[string]string, len(params))
		}
		maps.Copy(r.query, params)
	}
}

// WithQueryParam adds a single query parameter.
func WithQueryParam(key, value string) RequestOption {
	return WithQuery(map[string]string{key: value})
}

// WithHeaders adds request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		if len(headers) == 0 {
			return
		}
		if r.headers == nil {
			r.headers = make(map[string]string, len(headers))
		}
		maps.Copy(r.headers, headers)
	}
}

// WithRequestHeader adds a single request header.
func WithRequestHeader(key, value string) RequestOption {
	return WithHeaders(map[string]string{key: value})
}

// WithBody sets the raw request body.
func WithBody(body []byte) RequestOption {
	return func(r *Request) {
		r.body = bytes.Clone(body)
	}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(r *Request) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithCachePolicy sets the cache hint.
func WithCachePolicy(policy CachePolicy) RequestOption {
	return func(r *Request) {
		r.cachePolicy = policy
	}
}

// NewRequest builds a request for path, which may be relative to the service
// base URL or an absolute URL.
func NewRequest(method Method, path string, opts ...RequestOption) Request {
	r := Request{
		path:    path,
		method:  method,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Get builds a GET request.
func Get(path string, opts ...RequestOption) Request {
	return NewRequest(MethodGet, path, opts...)
}

// Delete builds a DELETE request.
func Delete(path string, opts ...RequestOption) Request {
	return NewRequest(MethodDelete, path, opts...)
}

// Post builds a POST request with a raw body.
func Post(path string, body []byte, opts ...RequestOption) Request {
	return NewRequest(MethodPost, path, append([]RequestOption{WithBody(body)}, opts...)...)
}

// Put builds a PUT request with a raw body.
func Put(path string, body []byte, opts ...RequestOption) Request {
	return NewRequest(MethodPut, path, append([]RequestOption{WithBody(body)}, opts...)...)
}

// Patch builds a PATCH request with a raw body.
func Patch(path string, body []byte, opts ...RequestOption) Request {
	return NewRequest(MethodPatch, path, append([]RequestOption{WithBody(body)}, opts...)...)
}

// PostJSON encodes v with enc (JSONCodec when nil) and builds a POST request
// carrying Content-Type: application/json. Encoding failures are returned as
// KindEncodingFailed.
func PostJSON(path string, v any, enc Encoder, opts ...RequestOption) (Request, error) {
	return newJSONRequest(MethodPost, path, v, enc, opts)
}

// PutJSON is the PUT variant of PostJSON.
func PutJSON(path string, v any, enc Encoder, opts ...RequestOption) (Request, error) {
	return newJSONRequest(MethodPut, path, v, enc, opts)
}

// PatchJSON is the PATCH variant of PostJSON.
func PatchJSON(path string, v any, enc Encoder, opts ...RequestOption) (Request, error) {
	return newJSONRequest(MethodPatch, path, v, enc, opts)
}

func newJSONRequest(method Method, path string, v any, enc Encoder, opts []RequestOption) (Request, error) {
	if enc == nil {
		enc = JSONCodec{}
	}
	body, err := enc.Encode(v)
	if err != nil {
		return Request{}, NewEncodingError(err)
	}
	all := make([]RequestOption, 0, len(opts)+2)
	all = append(all, WithBody(body), WithRequestHeader(headerContentType, contentTypeJSON))
	all = append(all, opts...)
	return NewRequest(method, path, all...), nil
}

// Path returns the request path or absolute URL.
func (r Request) Path() string { return r.path }

// Method returns the HTTP verb.
func (r Request) Method() Method { return r.method }

// Query returns a copy of the query parameters.
func (r Request) Query() map[string]string { return maps.Clone(r.query) }

// Headers returns a copy of the per-request headers.
func (r Request) Headers() map[string]string { return maps.Clone(r.headers) }

// Header returns the value of the named header, matching case-insensitively.
func (r Request) Header(name string) (string, bool) {
	if v, ok := r.headers[name]; ok {
		return v, true
	}
	for k, v := range r.headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Body returns a copy of the request body, or nil.
func (r Request) Body() []byte { return bytes.Clone(r.body) }

// Timeout returns the per-request timeout.
func (r Request) Timeout() time.Duration {
	if r.timeout <= 0 {
		return DefaultTimeout
	}
	return r.timeout
}

// CachePolicy returns the cache hint.
func (r Request) CachePolicy() CachePolicy { return r.cachePolicy }

// WithHeader returns a copy of r with the header set.
func (r Request) WithHeader(key, value string) Request {
	c := r.clone()
	if c.headers == nil {
		c.headers = make(map[string]string, 1)
	}
	c.headers[key] = value
	return c
}

// WithQueryParam returns a copy of r with the query parameter set.
func (r Request) WithQueryParam(key, value string) Request {
	c := r.clone()
	if c.query == nil {
		c.query = make(map[string]string, 1)
	}
	c.query[key] = value
	return c
}

// WithPath returns a copy of r targeting path.
func (r Request) WithPath(path string) Request {
	c := r.clone()
	c.path = path
	return c
}

// WithBody returns a copy of r with body.
func (r Request) WithBody(body []byte) Request {
	c := r.clone()
	c.body = bytes.Clone(body)
	return c
}

// WithTimeout returns a copy of r with the timeout replaced.
func (r Request) WithTimeout(timeout time.Duration) Request {
	c := r.clone()
	if timeout > 0 {
		c.timeout = timeout
	}
	return c
}

func (r Request) clone() Request {
	c := r
	c.query = maps.Clone(r.query)
	c.headers = maps.Clone(r.headers)
	c.body = bytes.Clone(r.body)
	return c
}
