package logger

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// callCounterKey tracks outbound network calls per unit of work
	callCounterKey contextKey = "network_call_counter"
	// callElapsedKey tracks total network time per unit of work
	callElapsedKey contextKey = "network_elapsed_nanos"
	// severityHookKey stores a callback for severity tracking
	severityHookKey contextKey = "severity_hook"
)

// WithCallCounter returns a context that accumulates the number and total
// duration of network calls made with it.
func WithCallCounter(ctx context.Context) context.Context {
	counter := int64(0)
	elapsed := int64(0)
	ctx = context.WithValue(ctx, callCounterKey, &counter)
	ctx = context.WithValue(ctx, callElapsedKey, &elapsed)
	return ctx
}

// IncrementCallCounter increments the call counter in the context, if any.
func IncrementCallCounter(ctx context.Context) {
	if counter, ok := ctx.Value(callCounterKey).(*int64); ok && counter != nil {
		atomic.AddInt64(counter, 1)
	}
}

// GetCallCounter returns the current call count from the context.
func GetCallCounter(ctx context.Context) int64 {
	if counter, ok := ctx.Value(callCounterKey).(*int64); ok && counter != nil {
		return atomic.LoadInt64(counter)
	}
	return 0
}

// AddCallElapsed adds elapsed nanoseconds to the context total.
func AddCallElapsed(ctx context.Context, nanos int64) {
	if elapsed, ok := ctx.Value(callElapsedKey).(*int64); ok && elapsed != nil {
		atomic.AddInt64(elapsed, nanos)
	}
}

// GetCallElapsed returns the accumulated network time in nanoseconds.
func GetCallElapsed(ctx context.Context) int64 {
	if elapsed, ok := ctx.Value(callElapsedKey).(*int64); ok && elapsed != nil {
		return atomic.LoadInt64(elapsed)
	}
	return 0
}

// WithSeverityHook attaches a hook invoked for every WARN or higher event
// logged through a logger bound to the context.
func WithSeverityHook(ctx context.Context, hook func(zerolog.Level)) context.Context {
	if ctx == nil || hook == nil {
		return ctx
	}
	return context.WithValue(ctx, severityHookKey, hook)
}

func severityHookFromContext(ctx context.Context) func(zerolog.Level) {
	if ctx == nil {
		return nil
	}
	if hook, ok := ctx.Value(severityHookKey).(func(zerolog.Level)); ok {
		return hook
	}
	return nil
}
