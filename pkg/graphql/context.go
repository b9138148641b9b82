package graphql

import "context"

type contextKey string

const callerKey contextKey = "caller_id"

// WithCallerID stamps the authenticated account onto a context so resolvers
// can scope every lookup to the caller's own graphs.
func WithCallerID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, callerKey, id)
}

func callerID(ctx context.Context) int64 {
	if id, ok := ctx.Value(callerKey).(int64); ok {
		return id
	}
	return 0
}
