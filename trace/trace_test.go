package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureRequestIDUsesExisting(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", EnsureRequestID(ctx))
}

func TestEnsureRequestIDGeneratesWhenMissing(t *testing.T) {
	id := EnsureRequestID(context.Background())

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, EnsureRequestID(context.Background()))
}

func TestRequestIDFromContextIgnoresEmpty(t *testing.T) {
	_, ok := RequestIDFromContext(WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}

func TestTraceContextRoundTrip(t *testing.T) {
	ctx := WithTraceParent(context.Background(), "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
	ctx = WithTraceState(ctx, "vendor=1")

	tp, ok := ParentFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", tp)

	ts, ok := StateFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "vendor=1", ts)

	_, ok = ParentFromContext(context.Background())
	assert.False(t, ok)
}
