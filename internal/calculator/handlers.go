package calculator

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/validation"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Error details written on the wire.
const (
	DetailDivisionByZero   = "Division by zero is not allowed."
	DetailInvalidOperation = "Invalid operation."
	detailInvalidBody      = "invalid request body"
)

// Detail maps a calculator error to the message returned to clients.
func Detail(err error) string {
	switch {
	case errors.Is(err, ErrDivisionByZero):
		return DetailDivisionByZero
	case errors.Is(err, ErrInvalidOperation):
		return DetailInvalidOperation
	default:
		return err.Error()
	}
}

const maxBodyBytes = 1 << 20

// decodeDetail names the first operand that is present but not a JSON
// number, falling back to the generic body message.
func decodeDetail(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return detailInvalidBody
	}
	for _, name := range []string{"number1", "number2"} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var n *float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Sprintf("%s must be a number.", name)
		}
	}
	return detailInvalidBody
}

// HandleCalculate handles POST /calculate.
//
// Every failure is answered with 400 and a {"detail": ...} body.
func HandleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.calculate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "unknown", detailInvalidBody, err, http.StatusBadRequest, w)
		return
	}

	var req CalcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "unknown", decodeDetail(body), err, http.StatusBadRequest, w)
		return
	}

	// The operation is resolved before the operands are checked, so an
	// unknown name wins over a missing number.
	op, err := ParseOperation(req.Operation)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "unknown", Detail(err), err, http.StatusBadRequest, w)
		return
	}

	opName := string(op)
	span.SetName("calculator." + opName)
	span.SetAttributes(attribute.String("calculator.operation", opName))

	if err := validation.Struct(req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), errors.Join(ErrMissingOperand, err), http.StatusBadRequest, w)
		return
	}

	a, b := *req.Number1, *req.Number2
	span.SetAttributes(
		attribute.Float64("calculator.operand.a", a),
		attribute.Float64("calculator.operand.b", b),
	)

	start := time.Now()
	result, err := Calculate(op, a, b)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, Detail(err), err, http.StatusBadRequest, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64("number1", a),
		zap.Float64("number2", b),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{Result: result})
}
