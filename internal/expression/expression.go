// Package expression splits a keypad display string such as "12+8" into one
// operator and two operands, and formats results for the display.
//
// Operators are detected in a fixed order: ÷, then ×, then +, then -. This is
// the order of detection, not arithmetic precedence; only one operator is
// supported per expression.
package expression

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go-chi-calculator/internal/calculator"
)

// Display symbols for the four operators.
const (
	Divide   = "÷"
	Multiply = "×"
	Add      = "+"
	Subtract = "-"
)

var detectionOrder = []struct {
	symbol string
	op     calculator.Operation
}{
	{Divide, calculator.OpDivide},
	{Multiply, calculator.OpMultiply},
	{Add, calculator.OpAdd},
	{Subtract, calculator.OpSubtract},
}

// IsOperator reports whether key is one of the operator symbols.
func IsOperator(key string) bool {
	for _, d := range detectionOrder {
		if d.symbol == key {
			return true
		}
	}
	return false
}

// Expression is the parsed form of a display string. When no operator is
// present, Literal holds the trimmed input and the operands are unset.
type Expression struct {
	Operation calculator.Operation
	Left      float64
	Right     float64
	Literal   string
}

// IsLiteral reports whether the input had no operator.
func (e Expression) IsLiteral() bool {
	return e.Operation == ""
}

// ParseError reports a display string that cannot be evaluated.
type ParseError struct {
	Input string
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse splits input on the first operator found in detection order.
func Parse(input string) (Expression, error) {
	for _, d := range detectionOrder {
		if !strings.Contains(input, d.symbol) {
			continue
		}

		parts := strings.Split(input, d.symbol)
		if len(parts) != 2 {
			return Expression{}, &ParseError{
				Input: input,
				Msg:   fmt.Sprintf("expected one %q operator, found %d", d.symbol, len(parts)-1),
			}
		}

		left, err := parseOperand(input, parts[0])
		if err != nil {
			return Expression{}, err
		}
		right, err := parseOperand(input, parts[1])
		if err != nil {
			return Expression{}, err
		}

		return Expression{Operation: d.op, Left: left, Right: right}, nil
	}

	return Expression{Literal: strings.TrimSpace(input)}, nil
}

func parseOperand(input, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ParseError{
			Input: input,
			Msg:   fmt.Sprintf("could not convert string to float: %q", s),
			Err:   err,
		}
	}
	// ParseFloat accepts "inf" and "nan"; the service only takes finite numbers.
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &ParseError{
			Input: input,
			Msg:   fmt.Sprintf("operand %q is not a finite number", s),
			Err:   calculator.ErrNonFiniteOperand,
		}
	}
	return v, nil
}
