// Package trace carries the per-request trace id through the context.
package trace

import (
	"context"

	"github.com/google/uuid"
)

const Header = "X-Trace-Id"

type ctxKey struct{}

func NewContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// FromContext returns the request's trace id, or a fresh one when the
// request did not pass through the trace middleware.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}
