package interceptor

import (
	"context"
	nethttp "net/http"

	"github.com/gaborage/netbricks/network"
	"github.com/gaborage/netbricks/trace"
)

// StaticHeader sets a fixed header on requests that do not already carry it.
type StaticHeader struct {
	name  string
	value string
}

var _ network.RequestInterceptor = StaticHeader{}

// NewStaticHeader creates a StaticHeader interceptor.
func NewStaticHeader(name, value string) StaticHeader {
	return StaticHeader{name: name, value: value}
}

// NewUserAgent sets User-Agent.
func NewUserAgent(value string) StaticHeader {
	return NewStaticHeader("User-Agent", value)
}

// InterceptRequest implements network.RequestInterceptor.
func (s StaticHeader) InterceptRequest(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error) {
	if s.value == "" || req.Header.Get(s.name) != "" {
		return req, nil
	}
	next := req.Clone(ctx)
	next.Header.Set(s.name, s.value)
	return next, nil
}

// RequestID sets a correlation header from the context request ID, or a new
// one, and forwards inbound W3C trace context stored with trace.WithTraceParent.
// Values already present on the request are left alone.
type RequestID struct {
	header string
}

var _ network.RequestInterceptor = RequestID{}

// NewRequestID uses header, or X-Request-ID when empty.
func NewRequestID(header string) RequestID {
	if header == "" {
		header = trace.HeaderXRequestID
	}
	return RequestID{header: header}
}

// InterceptRequest implements network.RequestInterceptor.
func (r RequestID) InterceptRequest(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error) {
	set := make(map[string]string, 3)
	if req.Header.Get(r.header) == "" {
		set[r.header] = trace.EnsureRequestID(ctx)
	}
	if req.Header.Get(trace.HeaderTraceParent) == "" {
		if tp, ok := trace.ParentFromContext(ctx); ok {
			set[trace.HeaderTraceParent] = tp
			if ts, ok := trace.StateFromContext(ctx); ok && req.Header.Get(trace.HeaderTraceState) == "" {
				set[trace.HeaderTraceState] = ts
			}
		}
	}
	if len(set) == 0 {
		return req, nil
	}

	next := req.Clone(ctx)
	for k, v := range set {
		next.Header.Set(k, v)
	}
	return next, nil
}
