package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Operation is one of the four binary operations the service performs.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

// Invalid-operation errors. Every one of them is reported to callers as a
// client error.
var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrMissingOperand   = errors.New("missing operand")
	ErrNonFiniteOperand = errors.New("operand is not a finite number")
	ErrNonFiniteResult  = errors.New("result is not a finite number")
)

// ParseOperation resolves an operation name as sent on the wire.
func ParseOperation(name string) (Operation, error) {
	switch op := Operation(name); op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, name)
	}
}

// Calculate applies op to a and b.
func Calculate(op Operation, a, b float64) (float64, error) {
	if !isFinite(a) || !isFinite(b) {
		return 0, fmt.Errorf("%w: number1=%g number2=%g", ErrNonFiniteOperand, a, b)
	}

	var result float64
	switch op {
	case OpAdd:
		result = a + b
	case OpSubtract:
		result = a - b
	case OpMultiply:
		result = a * b
	case OpDivide:
		if b == 0 {
			return 0, fmt.Errorf("%w: %g / %g", ErrDivisionByZero, a, b)
		}
		result = a / b
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperation, string(op))
	}

	if !isFinite(result) {
		return 0, fmt.Errorf("%w: %s(%g, %g)", ErrNonFiniteResult, op, a, b)
	}
	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
