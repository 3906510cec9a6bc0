package network

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	nethttp "net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/netbricks/logger"
)

const headerCacheControl = "Cache-Control"

// Client is the production Service. It is safe for concurrent use; all
// configuration is fixed at Build time.
type Client struct {
	baseURL              *url.URL
	transport            Transport
	defaultHeaders       map[string]string
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	logger               logger.Logger
	callCount            atomic.Int64
	closed               atomic.Bool
}

// Builder assembles a Client.
type Builder struct {
	baseURL              string
	transport            Transport
	defaultHeaders       map[string]string
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	logger               logger.Logger
	tracing              *tracingConfig
}

type tracingConfig struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
}

// NewBuilder creates a new client builder. A nil logger disables client logging.
func NewBuilder(log logger.Logger) *Builder {
	if log == nil {
		log = logger.New("disabled", false)
	}
	return &Builder{
		defaultHeaders: make(map[string]string),
		logger:         log,
	}
}

// WithBaseURL sets the base URL relative request paths are resolved against.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// WithTransport sets the transport. Defaults to a dedicated *http.Client.
func (b *Builder) WithTransport(t Transport) *Builder {
	b.transport = t
	return b
}

// WithRoundTripper uses rt as the transport of a fresh *http.Client.
func (b *Builder) WithRoundTripper(rt nethttp.RoundTripper) *Builder {
	b.transport = &nethttp.Client{Transport: rt}
	return b
}

// WithDefaultHeader sets a header sent with every request. Per-request
// headers win on conflict.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.defaultHeaders[key] = value
	return b
}

// WithDefaultHeaders sets several default headers.
func (b *Builder) WithDefaultHeaders(headers map[string]string) *Builder {
	maps.Copy(b.defaultHeaders, headers)
	return b
}

// WithRequestInterceptor appends request interceptors. They run in the order
// they were added.
func (b *Builder) WithRequestInterceptor(interceptors ...RequestInterceptor) *Builder {
	b.requestInterceptors = append(b.requestInterceptors, interceptors...)
	return b
}

// WithResponseInterceptor appends response interceptors. They run in the
// order they were added.
func (b *Builder) WithResponseInterceptor(interceptors ...ResponseInterceptor) *Builder {
	b.responseInterceptors = append(b.responseInterceptors, interceptors...)
	return b
}

// WithTracing wraps the transport with OpenTelemetry client instrumentation.
// Nil arguments fall back to the global provider and propagator. Tracing
// requires an *http.Client transport.
func (b *Builder) WithTracing(tp trace.TracerProvider, propagator propagation.TextMapPropagator) *Builder {
	b.tracing = &tracingConfig{provider: tp, propagator: propagator}
	return b
}

// Build creates the client. An unparseable base URL is reported as
// KindInvalidURL.
func (b *Builder) Build() (*Client, error) {
	var base *url.URL
	if b.baseURL != "" {
		u, err := url.Parse(b.baseURL)
		if err != nil {
			return nil, newKindError(KindInvalidURL, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, &Error{Kind: KindInvalidURL}
		}
		base = u
	}

	transport := b.transport
	if transport == nil {
		transport = &nethttp.Client{}
	}
	if b.tracing != nil {
		traced, err := b.tracing.wrap(transport)
		if err != nil {
			return nil, err
		}
		transport = traced
	}

	return &Client{
		baseURL:              base,
		transport:            transport,
		defaultHeaders:       maps.Clone(b.defaultHeaders),
		requestInterceptors:  append([]RequestInterceptor(nil), b.requestInterceptors...),
		responseInterceptors: append([]ResponseInterceptor(nil), b.responseInterceptors...),
		logger:               b.logger,
	}, nil
}

func (tc *tracingConfig) wrap(t Transport) (Transport, error) {
	hc, ok := t.(*nethttp.Client)
	if !ok {
		return nil, fmt.Errorf("tracing requires an *http.Client transport, got %T", t)
	}

	var opts []otelhttp.Option
	if tc.provider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tc.provider))
	}
	if tc.propagator != nil {
		opts = append(opts, otelhttp.WithPropagators(tc.propagator))
	}

	base := hc.Transport
	if base == nil {
		base = nethttp.DefaultTransport
	}
	traced := *hc
	traced.Transport = otelhttp.NewTransport(base, opts...)
	return &traced, nil
}

// BaseURL returns a copy of the configured base URL, or nil.
func (c *Client) BaseURL() *url.URL {
	if c.baseURL == nil {
		return nil
	}
	u := *c.baseURL
	return &u
}

// Execute performs req. The flow is fixed:
//
//  1. resolve the URL and build the transport request;
//  2. run request interceptors in order;
//  3. send, translating transport failures;
//  4. run response interceptors in order, on every status code;
//  5. classify the final status code.
//
// For status-derived errors the intercepted Response is returned alongside
// the error.
func (c *Client) Execute(ctx context.Context, req Request) (Response, error) {
	if c.closed.Load() {
		return Response{}, NewUnknownError("client is closed", nil)
	}
	if !req.Method().Valid() {
		return Response{}, &Error{Kind: KindInvalidRequest}
	}

	target, err := ResolveURL(c.baseURL, req)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout())
	defer cancel()

	httpReq, err := c.buildRequest(ctx, req, target)
	if err != nil {
		return Response{}, err
	}

	for _, interceptor := range c.requestInterceptors {
		next, err := interceptor.InterceptRequest(ctx, httpReq)
		if err != nil {
			return Response{}, FromTransportError(err)
		}
		if next == nil {
			return Response{}, &Error{Kind: KindInvalidRequest}
		}
		httpReq = next
	}

	resp, err := c.send(httpReq, &req)
	if err != nil {
		return Response{}, err
	}

	for _, interceptor := range c.responseInterceptors {
		resp, err = interceptor.InterceptResponse(httpReq.Context(), resp)
		if err != nil {
			return Response{}, FromTransportError(err)
		}
	}

	if netErr := FromStatusCode(resp.StatusCode(), resp.Body()); netErr != nil {
		netErr.Header = resp.Headers()
		return resp, netErr
	}
	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request, target *url.URL) (*nethttp.Request, error) {
	var body io.Reader
	if len(req.body) > 0 {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.method.String(), target.String(), body)
	if err != nil {
		return nil, newKindError(KindInvalidURL, err)
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}
	if cc := req.cachePolicy.cacheControl(); cc != "" && httpReq.Header.Get(headerCacheControl) == "" {
		httpReq.Header.Set(headerCacheControl, cc)
	}
	return httpReq, nil
}

func (c *Client) send(httpReq *nethttp.Request, origin *Request) (Response, error) {
	ctx := httpReq.Context()
	calls := c.callCount.Add(1)
	logger.IncrementCallCounter(ctx)

	start := time.Now()
	httpResp, err := c.transport.Do(httpReq)
	if err != nil {
		netErr := FromTransportError(err)
		c.logger.WithContext(ctx).Warn().
			Str("method", httpReq.Method).
			Str("url", httpReq.URL.Redacted()).
			Str("kind", string(netErr.Kind)).
			Err(err).
			Msg("Network request failed")
		return Response{}, netErr
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	elapsed := time.Since(start)
	logger.AddCallElapsed(ctx, elapsed.Nanoseconds())
	if err != nil {
		return Response{}, FromTransportError(err)
	}

	c.logger.WithContext(ctx).Debug().
		Str("method", httpReq.Method).
		Str("url", httpReq.URL.Redacted()).
		Int("status", httpResp.StatusCode).
		Dur("elapsed", elapsed).
		Int64("call_count", calls).
		Msg("Network request completed")

	resp := NewResponse(httpResp.StatusCode, data, httpResp.Header, origin)
	return resp.withTransportInfo(httpReq.URL, elapsed), nil
}

// Close stops accepting new calls and releases idle transport connections.
func (c *Client) Close() error {
	c.closed.Store(true)
	if t, ok := c.transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
	return nil
}
