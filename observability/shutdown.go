package observability

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultShutdownTimeout bounds Shutdown when no timeout is given.
const DefaultShutdownTimeout = 10 * time.Second

// Shutdown flushes pending telemetry and shuts provider down within timeout.
// A nil provider is a no-op.
func Shutdown(ctx context.Context, provider Provider, timeout time.Duration) error {
	if provider == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	flushErr := provider.ForceFlush(ctx)
	if err := errors.Join(flushErr, provider.Shutdown(ctx)); err != nil {
		return fmt.Errorf("observability shutdown failed: %w", err)
	}
	return nil
}
