// Package client calls the calculator service over HTTP.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/expression"
	"go-chi-calculator/internal/observability"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a service call when WithTimeout is not given.
const DefaultTimeout = 5 * time.Second

// BreakerSettings tunes the circuit breaker around service calls.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit. Zero disables the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before a probe.
	OpenTimeout time.Duration
	// Interval resets the failure counts while closed. Zero never resets.
	Interval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call to the service.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client. Its transport is used as-is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBreaker puts the calls behind a circuit breaker.
func WithBreaker(s BreakerSettings) Option {
	return func(c *Client) {
		c.breaker = s
	}
}

// Client calls POST /calculate on the service at baseURL.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	breaker BreakerSettings
	cb      *gobreaker.CircuitBreaker[float64]
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.breaker.ConsecutiveFailures > 0 {
		threshold := c.breaker.ConsecutiveFailures
		c.cb = gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
			Name:     "calculator-service",
			Interval: c.breaker.Interval,
			Timeout:  c.breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			// Only transport failures count; a 400 means the service is healthy.
			IsSuccessful: func(err error) bool {
				var apiErr *APIError
				return err == nil || errors.As(err, &apiErr)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				observability.Logger.Info("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	return c
}

// BaseURL returns the service address the client calls.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Calculate asks the service to apply op to a and b.
func (c *Client) Calculate(ctx context.Context, op calculator.Operation, a, b float64) (float64, error) {
	if c.cb == nil {
		return c.calculate(ctx, op, a, b)
	}

	result, err := c.cb.Execute(func() (float64, error) {
		return c.calculate(ctx, op, a, b)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return 0, &TransportError{URL: c.baseURL, Err: err}
	}
	return result, err
}

func (c *Client) calculate(ctx context.Context, op calculator.Operation, a, b float64) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(calculator.CalcRequest{
		Operation: string(op),
		Number1:   &a,
		Number2:   &b,
	})
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + "/calculate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := observability.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(observability.RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, &TransportError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var out calculator.ErrorResponse
		if err := json.Unmarshal(raw, &out); err != nil || out.Detail == "" {
			return 0, &TransportError{URL: url, StatusCode: resp.StatusCode}
		}
		return 0, &APIError{StatusCode: resp.StatusCode, Detail: out.Detail}
	}

	var out struct {
		Result *float64 `json:"result"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.Result == nil {
		return 0, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed result body")}
	}
	return *out.Result, nil
}

// EvaluateExpression parses a display string and, when it holds an
// operator, has the service compute it. A plain number is echoed without a
// call.
func (c *Client) EvaluateExpression(ctx context.Context, expr string) (string, error) {
	parsed, err := expression.Parse(expr)
	if err != nil {
		return "", err
	}
	if parsed.IsLiteral() {
		return parsed.Literal, nil
	}

	result, err := c.Calculate(ctx, parsed.Operation, parsed.Left, parsed.Right)
	if err != nil {
		return "", err
	}
	return expression.FormatResult(result), nil
}

// Evaluate implements keypad.Evaluator: errors are returned as their text.
func (c *Client) Evaluate(ctx context.Context, expr string) string {
	out, err := c.EvaluateExpression(ctx, expr)
	if err != nil {
		observability.LoggerWithTrace(ctx).Warn("evaluation failed",
			zap.String("expression", expr),
			zap.Error(err),
		)
		return err.Error()
	}
	return out
}
