package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It is a no-op until InitLogger runs so
// packages can log from tests without setup.
var Logger = zap.NewNop()

// InitLogger replaces Logger with a JSON production logger, or a console
// development logger when development is set.
func InitLogger(development bool) error {
	var (
		l   *zap.Logger
		err error
	)

	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}

	Logger = l
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx itself is attached as zap.Any("context", ctx): the otelzap bridge uses
// any context.Context field as the context for log.Logger.Emit, which fills
// the native TraceID and SpanID of the exported OTLP record. The string
// fields keep stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
