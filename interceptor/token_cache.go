package interceptor

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachingTokenProvider caches the token of an underlying provider for a fixed
// TTL. Concurrent refreshes are collapsed into a single fetch.
type CachingTokenProvider struct {
	fetch TokenProvider
	ttl   time.Duration
	now   func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

var _ TokenProvider = (*CachingTokenProvider)(nil)

// NewCachingTokenProvider wraps fetch. A non-positive ttl disables caching.
func NewCachingTokenProvider(fetch TokenProvider, ttl time.Duration) *CachingTokenProvider {
	return &CachingTokenProvider{fetch: fetch, ttl: ttl, now: time.Now}
}

// Token returns the cached token or fetches a new one. Empty tokens and
// failures are not cached.
func (c *CachingTokenProvider) Token(ctx context.Context) (string, error) {
	if token, ok := c.cached(); ok {
		return token, nil
	}

	ch := c.group.DoChan("token", func() (any, error) {
		if token, ok := c.cached(); ok {
			return token, nil
		}
		// detached so one caller's cancellation does not fail the others
		token, err := c.fetch.Token(context.WithoutCancel(ctx))
		if err != nil || token == "" || c.ttl <= 0 {
			return token, err
		}
		c.mu.Lock()
		c.token = token
		c.expiresAt = c.now().Add(c.ttl)
		c.mu.Unlock()
		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached token, typically after a 401.
func (c *CachingTokenProvider) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

func (c *CachingTokenProvider) cached() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || !c.now().Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}
