package retry

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gaborage/netbricks/logger"
	"github.com/gaborage/netbricks/network"
)

// Handler applies a Configuration. It holds no per-call state and is safe
// for concurrent use.
type Handler struct {
	cfg   Configuration
	log   logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger logs every scheduled retry at debug level.
func WithLogger(log logger.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// New creates a Handler. cfg is copied.
func New(cfg Configuration, opts ...Option) *Handler {
	h := &Handler{
		cfg:   cfg.clone(),
		log:   logger.New("disabled", false),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Configuration returns a copy of the policy.
func (h *Handler) Configuration() Configuration {
	return h.cfg.clone()
}

// ShouldRetry reports whether err, raised by attempt (0 for the first
// call), warrants another attempt. Only KindTimeout, KindNoConnection and
// status errors with a retryable code qualify.
func (h *Handler) ShouldRetry(err error, attempt int) bool {
	return h.shouldRetry(err, attempt, h.cfg.MaxRetries)
}

func (h *Handler) shouldRetry(err error, attempt, maxRetries int) bool {
	if err == nil || attempt >= maxRetries {
		return false
	}

	var netErr *network.Error
	if !errors.As(err, &netErr) {
		return false
	}
	switch netErr.Kind {
	case network.KindTimeout, network.KindNoConnection:
		return true
	case network.KindServerError, network.KindHTTP:
		_, ok := h.cfg.RetryableStatusCodes[netErr.StatusCode]
		return ok
	default:
		return false
	}
}

// Delay returns the wait before the retry following attempt. It is
// non-decreasing in attempt and never exceeds MaxDelay.
func (h *Handler) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	d := h.cfg.BaseDelay
	if d <= 0 {
		return 0
	}
	if h.cfg.ExponentialBackoff {
		f := float64(h.cfg.BaseDelay) * math.Pow(2, float64(attempt))
		if math.IsInf(f, 1) || f >= math.MaxInt64 {
			d = time.Duration(math.MaxInt64)
		} else {
			d = time.Duration(f)
		}
	}
	return h.capDelay(d)
}

func (h *Handler) capDelay(d time.Duration) time.Duration {
	if h.cfg.MaxDelay > 0 && d > h.cfg.MaxDelay {
		return h.cfg.MaxDelay
	}
	return d
}

// ExecuteOption adjusts a single Execute call.
type ExecuteOption func(*executeOptions)

type executeOptions struct {
	maxRetries int
	delay      func(err error, attempt int) time.Duration
}

// WithMaxRetries overrides the configured retry budget for one call.
func WithMaxRetries(n int) ExecuteOption {
	return func(o *executeOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// Execute runs op up to MaxRetries+1 times. Between attempts it sleeps
// Delay(attempt) while ShouldRetry holds; otherwise the latest error is
// returned unchanged. Cancelling ctx during a sleep returns KindCancelled.
func (h *Handler) Execute(ctx context.Context, op func(ctx context.Context) error, opts ...ExecuteOption) error {
	o := executeOptions{maxRetries: h.cfg.MaxRetries, delay: func(_ error, attempt int) time.Duration {
		return h.Delay(attempt)
	}}
	for _, opt := range opts {
		opt(&o)
	}

	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !h.shouldRetry(err, attempt, o.maxRetries) {
			return err
		}

		wait := o.delay(err, attempt)
		h.log.WithContext(ctx).Debug().
			Int("attempt", attempt+1).
			Int("max_retries", o.maxRetries).
			Dur("delay", wait).
			Str("kind", string(network.KindOf(err))).
			Msg("Retrying network operation")

		if err := h.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Do is Execute for operations returning a value.
func Do[T any](ctx context.Context, h *Handler, op func(ctx context.Context) (T, error), opts ...ExecuteOption) (T, error) {
	var out T
	err := h.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	}, opts...)
	return out, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return network.FromTransportError(err)
		}
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return network.FromTransportError(ctx.Err())
	case <-timer.C:
		return nil
	}
}
