package interceptor

import (
	"context"
	"errors"
	nethttp "net/http"

	"golang.org/x/time/rate"

	"github.com/gaborage/netbricks/network"
)

// RateLimit delays requests so that at most rps are sent per second, with
// bursts up to burst.
type RateLimit struct {
	limiter *rate.Limiter
}

var _ network.RequestInterceptor = (*RateLimit)(nil)

// NewRateLimit creates a limiter. A non-positive rps disables limiting and a
// non-positive burst is raised to 1.
func NewRateLimit(rps float64, burst int) *RateLimit {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimit{limiter: rate.NewLimiter(limit, burst)}
}

// InterceptRequest waits for a token. Cancellation maps to KindCancelled; a
// deadline that would pass before a token is available maps to KindTimeout.
func (r *RateLimit) InterceptRequest(ctx context.Context, req *nethttp.Request) (*nethttp.Request, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, network.FromTransportError(ctxErr)
		}
		return nil, network.FromTransportError(errors.Join(context.DeadlineExceeded, err))
	}
	return req, nil
}
