// Package keypad holds the calculator's button-grid state machine.
//
// Press is a reducer: it takes the current State and a key and returns the
// next State. The only side effect is the Evaluator call made for "=".
package keypad

import (
	"context"

	"go-chi-calculator/internal/expression"
)

// Keys that are neither digits nor operators.
const (
	KeyEquals  = "="
	KeyClear   = "AC"
	KeyDecimal = "."
)

// Grid is the button layout, row by row.
var Grid = [][]string{
	{"7", "8", "9", expression.Divide},
	{"4", "5", "6", expression.Multiply},
	{"1", "2", "3", expression.Subtract},
	{"0", KeyDecimal, KeyClear, expression.Add},
	{KeyEquals},
}

var validKeys = func() map[string]struct{} {
	keys := make(map[string]struct{})
	for _, row := range Grid {
		for _, k := range row {
			keys[k] = struct{}{}
		}
	}
	return keys
}()

// IsKey reports whether key is on the grid.
func IsKey(key string) bool {
	_, ok := validKeys[key]
	return ok
}

// State is the display state of one keypad session. The zero value is the
// initial state.
type State struct {
	Expression   string `json:"expression"`
	LastResult   string `json:"last_result"`
	ResetPending bool   `json:"reset_pending"`
}

// Evaluator turns an expression into the text shown after "=". Failures are
// returned as their message, never as an error.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string) string
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, expr string) string

func (f EvaluatorFunc) Evaluate(ctx context.Context, expr string) string {
	return f(ctx, expr)
}

// Press applies key to s. Keys outside the grid leave s unchanged.
func Press(ctx context.Context, s State, key string, ev Evaluator) State {
	if !IsKey(key) {
		return s
	}

	operator := expression.IsOperator(key)

	// A completed result is replaced by fresh input, but operators chain on it.
	if s.ResetPending && !operator {
		s.Expression = ""
		s.ResetPending = false
	}

	switch {
	case operator:
		if s.Expression == "" {
			s.Expression = s.LastResult
		}
		s.Expression += key
		s.ResetPending = false
	case key == KeyEquals:
		outcome := ev.Evaluate(ctx, s.Expression)
		s = State{Expression: outcome, LastResult: outcome, ResetPending: true}
	case key == KeyClear:
		s = State{}
	default:
		s.Expression += key
	}

	return s
}
