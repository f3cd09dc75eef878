// Package shutdown stops devinfo's long-running components in reverse
// order of registration.
//
// Usage:
//
//	coord := shutdown.NewCoordinator(logger)
//	coord.Register("battery", monitor)
//	coord.Register("reporter", reporter)
//	coord.Register("server", srv)
//	// On SIGTERM:
//	coord.Shutdown(ctx) // server, then reporter, then battery
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Shutdowner is implemented by components that participate in shutdown.
// Shutdown should respect the context's deadline and return ctx.Err() if it
// cannot complete in time.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// Func adapts a plain function to Shutdowner.
type Func func(ctx context.Context) error

// Shutdown calls f.
func (f Func) Shutdown(ctx context.Context) error { return f(ctx) }

type component struct {
	name       string
	shutdowner Shutdowner
}

// Coordinator manages ordered shutdown of multiple components.
type Coordinator struct {
	components []component
	logger     *slog.Logger
}

// NewCoordinator creates a new shutdown coordinator.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	return &Coordinator{
		logger: logger.With(slog.String("component", "shutdown")),
	}
}

// Register adds a component. Components registered later (which may
// depend on earlier ones) are stopped first.
func (c *Coordinator) Register(name string, s Shutdowner) {
	c.components = append(c.components, component{name: name, shutdowner: s})
	c.logger.Debug("registered shutdown handler", slog.String("handler", name))
}

// Shutdown stops all registered components in reverse order. A failing
// component does not stop the rest; every failure is returned joined.
// Once ctx expires the remaining components are skipped.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.logger.Info("starting coordinated shutdown",
		slog.Int("components", len(c.components)),
	)

	var errs []error
	for i := len(c.components) - 1; i >= 0; i-- {
		comp := c.components[i]

		if err := ctx.Err(); err != nil {
			c.logger.Error("shutdown deadline exceeded",
				slog.String("remaining_component", comp.name),
			)
			errs = append(errs, fmt.Errorf("shutdown deadline exceeded at component %s: %w", comp.name, err))
			break
		}

		start := time.Now()
		err := comp.shutdowner.Shutdown(ctx)
		duration := time.Since(start)

		if err != nil {
			c.logger.Error("component shutdown failed",
				slog.String("handler", comp.name),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("failed to shutdown %s: %w", comp.name, err))
			continue
		}
		c.logger.Debug("component shutdown complete",
			slog.String("handler", comp.name),
			slog.Duration("duration", duration),
		)
	}

	return errors.Join(errs...)
}

// ComponentCount returns the number of registered components.
func (c *Coordinator) ComponentCount() int {
	return len(c.components)
}
