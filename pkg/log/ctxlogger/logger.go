package ctxlogger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

type requestIDKey struct{}

type eventNameKey struct{}

var serviceName atomic.Pointer[string]

// SetServiceName configures the service name added to every log entry.
func SetServiceName(name string) {
	serviceName.Store(&name)
}

// ContextWithRequestID annotates the context with the current request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ContextWithEventName annotates the context with the domain event being dispatched.
func ContextWithEventName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, eventNameKey{}, name)
}

// FromContext returns a logger enriched with request metadata from context.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext enriches the provided logger using metadata in the context.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil {
		return base
	}

	fields := make([]zap.Field, 0, 4)

	name := "unknown"
	if namePtr := serviceName.Load(); namePtr != nil {
		name = *namePtr
	}
	fields = append(fields, zap.String("service", name))

	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok && requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	if eventName, ok := ctx.Value(eventNameKey{}).(string); ok && eventName != "" {
		fields = append(fields, zap.String("event", eventName))
	}

	return base.With(fields...)
}
