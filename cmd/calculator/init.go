package main

import (
	"context"
	"errors"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

// initTelemetry installs the OTLP providers when telemetry is enabled and
// always creates the calculator's instruments. The returned func flushes
// every provider that was started.
func initTelemetry(ctx context.Context, c config.TelemetryConfig) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if c.Enabled {
		inits := []func(context.Context, string) (func(context.Context) error, error){
			observability.InitTracing,
			observability.InitMetrics,
			observability.InitLogging,
		}
		for _, start := range inits {
			s, err := start(ctx, c.ServiceName)
			if err != nil {
				_ = shutdown(ctx)
				return nil, err
			}
			shutdowns = append(shutdowns, s)
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
