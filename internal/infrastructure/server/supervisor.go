package server

import (
	"context"

	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"
)

// EventHook logs supervisor events.
func EventHook(logger *zap.Logger) suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			logger.Info("Service failed to terminate in a timely manner",
				zap.String("supervisor", e.SupervisorName),
				zap.String("service", e.ServiceName))
		case suture.EventServicePanic:
			logger.Warn("Caught a service panic",
				zap.String("service", e.ServiceName),
				zap.String("panic", e.PanicMsg),
				zap.String("stacktrace", e.Stacktrace))
		case suture.EventServiceTerminate:
			logger.Error("Service failed",
				zap.Any("error", e.Err),
				zap.String("supervisor", e.SupervisorName),
				zap.String("service", e.ServiceName),
				zap.Bool("restarting", e.Restarting))
		case suture.EventBackoff:
			logger.Debug("Too many service failures, backing off", zap.String("supervisor", e.SupervisorName))
		case suture.EventResume:
			logger.Debug("Exiting backoff state", zap.String("supervisor", e.SupervisorName))
		default:
			logger.Warn("Unknown supervisor event", zap.Int("type", int(e.Type())))
		}
	}
}

type serviceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (s serviceFunc) String() string {
	return s.name
}

func (s serviceFunc) Serve(ctx context.Context) error {
	return s.fn(ctx)
}
