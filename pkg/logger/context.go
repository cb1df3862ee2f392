package logger

import (
	"context"
	"log/slog"
)

type transactionIDKey struct{}

// WithTransactionID stores the active transaction id in ctx.
func WithTransactionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, transactionIDKey{}, id)
}

// TransactionIDFromContext returns the transaction id stored by WithTransactionID.
func TransactionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(transactionIDKey{}).(string)
	return id, ok && id != ""
}

// TransactionIDExtractor emits transaction_id for records logged with a context
// carrying one.
func TransactionIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := TransactionIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return TransactionID(id), true
	}
}

type requestIDKey struct{}

// WithRequestID stores the HTTP request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDExtractor emits request_id for records logged while serving an HTTP request.
func RequestIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := RequestIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return RequestID(id), true
	}
}
