package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// CashierIDKey is the context key for the cashier handling the request
	CashierIDKey contextKey = "cashier_id"
)

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enrichedLogger := logger.With(zap.String("request_id", requestID))
	return ctx, enrichedLogger
}

// WithCashierID adds the cashier ID to context and returns enriched logger
func WithCashierID(ctx context.Context, logger *zap.Logger, cashierID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, CashierIDKey, cashierID)
	enrichedLogger := logger.With(zap.String("cashier_id", cashierID))
	return ctx, enrichedLogger
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetCashierID retrieves the cashier ID from context
func GetCashierID(ctx context.Context) string {
	if cashierID, ok := ctx.Value(CashierIDKey).(string); ok {
		return cashierID
	}
	return ""
}

// FromContext returns a logger enriched with whatever identifiers are
// present in the context
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	l := base
	if requestID := GetRequestID(ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	if cashierID := GetCashierID(ctx); cashierID != "" {
		l = l.With(zap.String("cashier_id", cashierID))
	}
	return l
}
