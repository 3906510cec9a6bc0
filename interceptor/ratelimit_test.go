package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/netbricks/network"
)

func TestRateLimit(t *testing.T) {
	t.Run("burst_passes", func(t *testing.T) {
		rl := NewRateLimit(1, 2)
		for range 2 {
			req := newOutgoing(t, nil)
			out, err := rl.InterceptRequest(context.Background(), req)
			require.NoError(t, err)
			assert.Same(t, req, out)
		}
	})

	t.Run("cancelled_while_waiting", func(t *testing.T) {
		rl := NewRateLimit(0.1, 1)
		_, err := rl.InterceptRequest(context.Background(), newOutgoing(t, nil))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = rl.InterceptRequest(ctx, newOutgoing(t, nil))
		assert.ErrorIs(t, err, network.ErrCancelled)
	})

	t.Run("deadline_shorter_than_wait", func(t *testing.T) {
		rl := NewRateLimit(0.1, 1)
		_, err := rl.InterceptRequest(context.Background(), newOutgoing(t, nil))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = rl.InterceptRequest(ctx, newOutgoing(t, nil))
		assert.ErrorIs(t, err, network.ErrTimeout)
	})

	t.Run("non_positive_rate_is_unlimited", func(t *testing.T) {
		rl := NewRateLimit(0, 0)
		for range 100 {
			_, err := rl.InterceptRequest(context.Background(), newOutgoing(t, nil))
			require.NoError(t, err)
		}
	})
}
