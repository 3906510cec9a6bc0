package interceptor

import (
	"context"
	nethttp "net/http"

	"github.com/gaborage/netbricks/network"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// TokenProvider supplies the credential for each request. An empty token
// means no credential is available and the request is sent unchanged.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to TokenProvider.
type TokenProviderFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f TokenProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken always yields value.
func StaticToken(value string) TokenProvider {
	return TokenProviderFunc(func(context.Context) (string, error) {
		return value, nil
	})
}

// Auth sets a header to the value returned by a TokenProvider.
type Auth struct {
	header   string
	provider TokenProvider
	prefix   string
}

var _ network.RequestInterceptor = (*Auth)(nil)

// NewAuth creates an interceptor setting header to the provider's token.
func NewAuth(header string, provider TokenProvider) *Auth {
	return &Auth{header: header, provider: provider}
}

// NewBearer sets Authorization to "Bearer <token>".
func NewBearer(provider TokenProvider) *Auth {
	return &Auth{header: headerAuthorization, provider: provider, prefix: bearerPrefix}
}

// NewAPIKey sets header to a fixed key.
func NewAPIKey(header, key string) *Auth {
	return NewAuth(header, StaticToken(key))
}

// InterceptRequest implements network.RequestInterceptor. Provider failures
// abort the call; cancellation surfaces as network.KindCancelled.
func (a *Auth) InterceptRequest(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error) {
	if a.provider == nil {
		return req, nil
	}

	token, err := a.provider.Token(ctx)
	if err != nil {
		return nil, network.FromTransportError(err)
	}
	if token == "" {
		return req, nil
	}

	next := req.Clone(ctx)
	next.Header.Set(a.header, a.prefix+token)
	return next, nil
}
