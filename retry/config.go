package retry

import (
	"fmt"
	"maps"
	"time"
)

// DefaultRetryableStatusCodes are the status codes retried by default.
var DefaultRetryableStatusCodes = []int{408, 429, 500, 502, 503, 504}

// Configuration describes a retry policy.
type Configuration struct {
	// MaxRetries is the number of attempts allowed after the first one.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps every computed delay. Zero means uncapped; delays then
	// saturate at the largest duration.
	MaxDelay time.Duration
	// ExponentialBackoff doubles the delay per attempt when set; otherwise
	// BaseDelay is used for every attempt.
	ExponentialBackoff bool
	// RetryableStatusCodes lists the codes of KindHTTP and KindServerError
	// errors worth retrying.
	RetryableStatusCodes map[int]struct{}
}

// DefaultConfiguration returns 3 retries with exponential backoff from 1s
// capped at 30s over DefaultRetryableStatusCodes.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxRetries:           3,
		BaseDelay:            time.Second,
		MaxDelay:             30 * time.Second,
		ExponentialBackoff:   true,
		RetryableStatusCodes: StatusCodes(DefaultRetryableStatusCodes...),
	}
}

// StatusCodes builds a status code set.
func StatusCodes(codes ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Validate reports the first invalid field.
func (c Configuration) Validate() error {
	switch {
	case c.MaxRetries < 0:
		return fmt.Errorf("retry: max retries must be >= 0, got %d", c.MaxRetries)
	case c.BaseDelay < 0:
		return fmt.Errorf("retry: base delay must be >= 0, got %s", c.BaseDelay)
	case c.MaxDelay < 0:
		return fmt.Errorf("retry: max delay must be >= 0, got %s", c.MaxDelay)
	case c.MaxDelay > 0 && c.MaxDelay < c.BaseDelay:
		return fmt.Errorf("retry: max delay %s is below base delay %s", c.MaxDelay, c.BaseDelay)
	}
	for code := range c.RetryableStatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("retry: invalid status code %d", code)
		}
	}
	return nil
}

func (c Configuration) clone() Configuration {
	out := c
	out.RetryableStatusCodes = maps.Clone(c.RetryableStatusCodes)
	return out
}
