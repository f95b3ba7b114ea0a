package web

import (
	"go-chi-calculator/internal/expression"
	"go-chi-calculator/internal/keypad"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	keyPresses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calculator",
		Subsystem: "web",
		Name:      "key_presses_total",
		Help:      "Keypad buttons pressed, by kind of key.",
	}, []string{"kind"})

	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "calculator",
		Subsystem: "web",
		Name:      "evaluations_total",
		Help:      "Evaluations triggered by the equals key, by outcome.",
	}, []string{"outcome"})
)

func keyKind(key string) string {
	switch {
	case expression.IsOperator(key):
		return "operator"
	case key == keypad.KeyEquals:
		return "equals"
	case key == keypad.KeyClear:
		return "clear"
	default:
		return "digit"
	}
}
