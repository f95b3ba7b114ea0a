// Package web serves the calculator keypad as an HTML page.
//
// The keypad state travels with the page in hidden form fields, so the
// server keeps nothing between requests.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go-chi-calculator/internal/client"
	"go-chi-calculator/internal/expression"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// ExpressionEvaluator computes a display string; *client.Client satisfies it.
type ExpressionEvaluator interface {
	EvaluateExpression(ctx context.Context, expr string) (string, error)
}

type server struct {
	evaluator ExpressionEvaluator
	timeout   time.Duration
}

// NewRouter builds the keypad UI. Each "=" evaluation is bounded by timeout.
func NewRouter(ev ExpressionEvaluator, timeout time.Duration) http.Handler {
	s := &server{evaluator: ev, timeout: timeout}

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware("calculator-web"))
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", observability.PrometheusHandler())

	r.Get("/", s.index)
	r.Post("/", s.pressForm)
	r.Post("/api/press", s.pressJSON)

	return r
}

// Evaluate implements keypad.Evaluator, counting outcomes and turning
// errors into display text.
func (s *server) Evaluate(ctx context.Context, expr string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.evaluator.EvaluateExpression(ctx, expr)
	evaluations.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		observability.LoggerWithTrace(ctx).Warn("evaluation failed",
			zap.String("expression", expr),
			zap.Error(err),
			zap.String("request_id", observability.RequestIDFromContext(ctx)),
		)
		return err.Error()
	}
	return out
}

func outcome(err error) string {
	var (
		parseErr     *expression.ParseError
		apiErr       *client.APIError
		transportErr *client.TransportError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &apiErr):
		return "rejected"
	case errors.As(err, &transportErr):
		return "transport_error"
	default:
		return "error"
	}
}

func (s *server) press(ctx context.Context, st keypad.State, key string) keypad.State {
	keyPresses.WithLabelValues(keyKind(key)).Inc()
	return keypad.Press(ctx, st, key, s)
}

type pageData struct {
	State keypad.State
	Grid  [][]string
}

func render(w http.ResponseWriter, status int, st keypad.State) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, pageData{State: st, Grid: keypad.Grid}); err != nil {
		observability.Logger.Error("render keypad", zap.Error(err))
	}
}

func (s *server) index(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, keypad.State{})
}

func (s *server) pressForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, http.StatusBadRequest, keypad.State{})
		return
	}

	resetPending, _ := strconv.ParseBool(r.PostFormValue("reset_pending"))
	st := keypad.State{
		Expression:   r.PostFormValue("expression"),
		LastResult:   r.PostFormValue("last_result"),
		ResetPending: resetPending,
	}

	key := r.PostFormValue("key")
	if !keypad.IsKey(key) {
		render(w, http.StatusBadRequest, st)
		return
	}

	render(w, http.StatusOK, s.press(r.Context(), st, key))
}

type pressRequest struct {
	State keypad.State `json:"state"`
	Key   string       `json:"key" validate:"required"`
}

type pressResponse struct {
	State keypad.State `json:"state"`
}

func (s *server) pressJSON(w http.ResponseWriter, r *http.Request) {
	var req pressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !keypad.IsKey(req.Key) {
		handlers.WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown key %q", req.Key))
		return
	}

	handlers.WriteJSON(w, http.StatusOK, pressResponse{State: s.press(r.Context(), req.State, req.Key)})
}
