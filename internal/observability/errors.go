package observability

import (
	"context"
	"net/http"

	"go-chi-calculator/internal/handlers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RecordError centralises request error handling: records the error on the
// span, increments counter, logs with trace context and writes the
// {"detail": msg} response. 4xx statuses log at warn level.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, opName, msg string, err error, status int, w http.ResponseWriter) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))

	fields := []zap.Field{
		zap.String("operation", opName),
		zap.Int("status", status),
		zap.Error(err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}
	if status < http.StatusInternalServerError {
		logger.Warn(msg, fields...)
	} else {
		logger.Error(msg, fields...)
	}

	handlers.WriteError(w, status, msg)
}
