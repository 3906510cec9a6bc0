package network

import (
	"context"
	nethttp "net/http"
)

// Service executes requests. Feature code depends on this interface; the
// production implementation is *Client, the test double lives in
// testing/mocks.
type Service interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// Transport sends a prepared request. *http.Client satisfies it.
type Transport interface {
	Do(req *nethttp.Request) (*nethttp.Response, error)
}

// RequestInterceptor transforms the transport-level request before it is sent.
//
// Implementations are shared by every concurrent call made through a client:
// they must not keep per-call mutable state and must not modify the request
// they receive. Return req.Clone(ctx) with the changes applied, or req itself
// when nothing changes.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error)
}

// ResponseInterceptor transforms a received response. It runs before the
// status code is classified, so it also sees 4xx and 5xx responses.
type ResponseInterceptor interface {
	InterceptResponse(ctx context.Context, resp Response) (Response, error)
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error)

// InterceptRequest calls f(ctx, req).
func (f RequestInterceptorFunc) InterceptRequest(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error) {
	return f(ctx, req)
}

// ResponseInterceptorFunc adapts a function to ResponseInterceptor.
type ResponseInterceptorFunc func(ctx context.Context, resp Response) (Response, error)

// InterceptResponse calls f(ctx, resp).
func (f ResponseInterceptorFunc) InterceptResponse(ctx context.Context, resp Response) (Response, error) {
	return f(ctx, resp)
}
