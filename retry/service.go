package retry

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gaborage/netbricks/network"
)

const headerRetryAfter = "Retry-After"

// Service decorates a network.Service with a Handler. Status errors of 429
// and 503 carrying a Retry-After header wait for the advertised time,
// bounded by MaxDelay, instead of the computed backoff.
type Service struct {
	next    network.Service
	handler *Handler
	now     func() time.Time
}

var _ network.Service = (*Service)(nil)

// Wrap returns next retried according to h.
func Wrap(next network.Service, h *Handler) *Service {
	return &Service{next: next, handler: h, now: time.Now}
}

// Execute implements network.Service. The response of the last attempt is
// returned with its error.
func (s *Service) Execute(ctx context.Context, req network.Request) (network.Response, error) {
	var resp network.Response
	err := s.handler.Execute(ctx, func(ctx context.Context) error {
		r, err := s.next.Execute(ctx, req)
		resp = r
		return err
	}, func(o *executeOptions) {
		o.delay = s.delay
	})
	return resp, err
}

func (s *Service) delay(err error, attempt int) time.Duration {
	if d, ok := s.retryAfter(err); ok {
		return s.handler.capDelay(d)
	}
	return s.handler.Delay(attempt)
}

func (s *Service) retryAfter(err error) (time.Duration, bool) {
	var netErr *network.Error
	if !errors.As(err, &netErr) || netErr.Header == nil {
		return 0, false
	}
	if netErr.StatusCode != nethttp.StatusTooManyRequests && netErr.StatusCode != nethttp.StatusServiceUnavailable {
		return 0, false
	}

	value := strings.TrimSpace(netErr.Header.Get(headerRetryAfter))
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := nethttp.ParseTime(value); err == nil {
		d := at.Sub(s.now())
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
