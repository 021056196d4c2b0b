// Package requestctx carries per-request identity through context.Context.
package requestctx

import (
	"context"

	"matchview/models"
)

type sessionContextKey struct{}

type requestIDContextKey struct{}

// WithSession stores the viewer session in context.
func WithSession(ctx context.Context, sess models.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the viewer session stored in context.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	if ctx == nil {
		return models.Session{}, false
	}
	sess, ok := ctx.Value(sessionContextKey{}).(models.Session)
	return sess, ok && sess.Valid()
}

// WithRequestID stores a correlation id in context.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the correlation id stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}
