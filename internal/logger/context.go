package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	requesterKey ctxKey = "requester"
)

type requester struct {
	id   string
	role string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRequester tags every log line derived from ctx with the caller identity.
func WithRequester(ctx context.Context, userID, role string) context.Context {
	return context.WithValue(ctx, requesterKey, requester{id: userID, role: role})
}

// FromCtx returns the global logger enriched with request_id and requester
// fields when present on ctx.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	if r, ok := ctx.Value(requesterKey).(requester); ok {
		l = l.With(zap.String("user_id", r.id), zap.String("role", r.role))
	}
	return l
}
