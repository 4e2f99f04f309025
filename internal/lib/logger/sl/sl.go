package sl

import (
	"context"
	"log/slog"
)

type requestIDKey struct{}

func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// Ctx returns log tagged with the request id carried by ctx, if any.
func Ctx(ctx context.Context, log *slog.Logger) *slog.Logger {
	if id, ok := RequestID(ctx); ok {
		return log.With(slog.String("request_id", id))
	}
	return log
}
