package utils

import (
	"context"

	"review-catalog/internal/policy"
)

type contextKey string

const (
	CallerKey contextKey = "caller"
)

// SetCallerContext stores the resolved caller for downstream handlers.
func SetCallerContext(ctx context.Context, caller policy.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCallerFromContext returns the caller, anonymous when none was set.
func GetCallerFromContext(ctx context.Context) policy.Caller {
	caller, ok := ctx.Value(CallerKey).(policy.Caller)
	if !ok {
		return policy.Anonymous()
	}
	return caller
}
