package httputil

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID is propagated from inbound requests to backend calls.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID stores id on the context. Blank ids are ignored.
func WithRequestID(ctx context.Context, id string) context.Context {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, trimmed)
}

// RequestIDFromContext returns the id stored by WithRequestID, or a fresh uuid.
func RequestIDFromContext(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
			return id
		}
	}
	return uuid.NewString()
}
