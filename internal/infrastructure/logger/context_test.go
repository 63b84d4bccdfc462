package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithCashierID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithCashierID(context.Background(), logger, "cashier-7")

	assert.Equal(t, "cashier-7", GetCashierID(ctx))

	enriched.Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cashier-7", logs.All()[0].ContextMap()["cashier_id"])
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestFromContext(t *testing.T) {
	t.Run("enriches with all present identifiers", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		logger := zap.New(core)

		ctx := context.Background()
		ctx, _ = WithRequestID(ctx, logger, "req-123")
		ctx, _ = WithCashierID(ctx, logger, "cashier-7")

		FromContext(ctx, logger).Info("hello")

		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "req-123", fields["request_id"])
		assert.Equal(t, "cashier-7", fields["cashier_id"])
	})

	t.Run("returns the base logger for an empty context", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		logger := zap.New(core)

		FromContext(context.Background(), logger).Info("hello")

		require.Equal(t, 1, logs.Len())
		assert.Empty(t, logs.All()[0].ContextMap())
	})
}
