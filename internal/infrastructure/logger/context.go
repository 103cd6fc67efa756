package logger

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID from the context, or an empty string
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
