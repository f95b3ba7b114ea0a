// Package supervisor runs the calculator's long-lived services under a
// suture supervisor so a crashed server is restarted with backoff.
package supervisor

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"
)

// New returns a supervisor that reports its events to logger.
func New(name string, logger *zap.Logger) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: EventHook(logger),
	})
}

// EventHook logs suture events. Panics and terminations are errors; backoff
// transitions are warnings.
func EventHook(logger *zap.Logger) suture.EventHook {
	return func(ev suture.Event) {
		fields := []zap.Field{zap.String("event_type", eventName(ev.Type()))}
		for k, v := range ev.Map() {
			if k == "stacktrace" {
				continue
			}
			fields = append(fields, zap.Any(k, v))
		}

		switch ev.Type() {
		case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
			logger.Error(ev.String(), fields...)
		case suture.EventTypeBackoff, suture.EventTypeStopTimeout:
			logger.Warn(ev.String(), fields...)
		default:
			logger.Info(ev.String(), fields...)
		}
	}
}

func eventName(t suture.EventType) string {
	switch t {
	case suture.EventTypeStopTimeout:
		return "stop_timeout"
	case suture.EventTypeServicePanic:
		return "service_panic"
	case suture.EventTypeServiceTerminate:
		return "service_terminate"
	case suture.EventTypeBackoff:
		return "backoff"
	case suture.EventTypeResume:
		return "resume"
	default:
		return "unknown"
	}
}

// Run supervises services until ctx is cancelled. Cancellation is a clean
// exit and returns nil.
func Run(ctx context.Context, logger *zap.Logger, services ...suture.Service) error {
	sup := New("calculator", logger)
	for _, svc := range services {
		sup.Add(svc)
	}

	err := sup.Serve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
