package expression

import (
	"errors"
	"strconv"
	"testing"

	"go-chi-calculator/internal/calculator"
)

func TestParseBinaryExpressions(t *testing.T) {
	tests := []struct {
		in    string
		op    calculator.Operation
		left  float64
		right float64
	}{
		{"12+8", calculator.OpAdd, 12, 8},
		{"5÷0", calculator.OpDivide, 5, 0},
		{"3×4", calculator.OpMultiply, 3, 4},
		{"9-2.5", calculator.OpSubtract, 9, 2.5},
		{" 1.5 + 2 ", calculator.OpAdd, 1.5, 2},
		{".5+.5", calculator.OpAdd, 0.5, 0.5},
		// × is detected before -, so the right operand keeps its sign.
		{"5×-3", calculator.OpMultiply, 5, -3},
		{"-5+3", calculator.OpAdd, -5, 3},
		{"8.0+2", calculator.OpAdd, 8, 2},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			expr, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if expr.IsLiteral() {
				t.Fatal("expected a binary expression")
			}
			if expr.Operation != tc.op || expr.Left != tc.left || expr.Right != tc.right {
				t.Fatalf("expected %s(%g, %g), got %s(%g, %g)", tc.op, tc.left, tc.right, expr.Operation, expr.Left, expr.Right)
			}
		})
	}
}

func TestParseLiteral(t *testing.T) {
	for in, want := range map[string]string{
		"42":       "42",
		" 42 ":     "42",
		"":         "",
		"8.0":      "8.0",
		"Invalid.": "Invalid.",
	} {
		expr, err := Parse(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if !expr.IsLiteral() || expr.Literal != want {
			t.Fatalf("%q: expected literal %q, got %+v", in, want, expr)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in  string
		msg string
	}{
		{"5+", `could not convert string to float: ""`},
		{"+3", `could not convert string to float: ""`},
		{"1..2+3", `could not convert string to float: "1..2"`},
		{"5+3+2", `expected one "+" operator, found 2`},
		{"5--3", `expected one "-" operator, found 2`},
		{"-5-3", `expected one "-" operator, found 2`},
		{"inf+1", `operand "inf" is not a finite number`},
		{"2×NaN", `operand "NaN" is not a finite number`},
		// The display may hold an error message from an earlier evaluation.
		{"Division by zero is not allowed.+1", `could not convert string to float: "Division by zero is not allowed."`},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Parse(tc.in)

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Input != tc.in {
				t.Fatalf("expected input %q, got %q", tc.in, perr.Input)
			}
			if perr.Error() != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, perr.Error())
			}
		})
	}
}

func TestParseErrorUnwrapsNumError(t *testing.T) {
	_, err := Parse("abc×2")
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Fatalf("expected strconv.ErrSyntax in chain, got %v", err)
	}
}

func TestIsOperator(t *testing.T) {
	for _, k := range []string{"+", "-", "×", "÷"} {
		if !IsOperator(k) {
			t.Fatalf("expected %q to be an operator", k)
		}
	}
	for _, k := range []string{"=", "AC", "7", ".", "*", "/"} {
		if IsOperator(k) {
			t.Fatalf("did not expect %q to be an operator", k)
		}
	}
}
