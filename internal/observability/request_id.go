package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

func NewRequestID() string {
	return uuid.New().String()
}

// requestIDOrNew keeps an incoming id when it is a UUID, so a call from the
// web UI to the service logs under the same id on both sides.
func requestIDOrNew(incoming string) string {
	if incoming == "" {
		return NewRequestID()
	}
	if _, err := uuid.Parse(incoming); err != nil {
		return NewRequestID()
	}
	return incoming
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
