package iofixture

import (
	"log/slog"

	"github.com/gnames/gnfixture/internal/iomigrate"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
)

// Option configures a controller.
type Option func(*controller)

// OptLogger sets the logger for lifecycle events.
func OptLogger(l *slog.Logger) Option {
	return func(c *controller) {
		if l != nil {
			c.log = l
		}
	}
}

// OptTransitionHook registers an observer of state transitions.
func OptTransitionHook(fn fixture.TransitionFunc) Option {
	return func(c *controller) {
		c.hook = fn
	}
}

// OptProgress receives the result of every applied unit. It has no
// effect together with OptRunner.
func OptProgress(fn iomigrate.ProgressFunc) Option {
	return func(c *controller) {
		c.progress = fn
	}
}

// OptResolver replaces the migration source resolver.
func OptResolver(r lifecycle.Resolver) Option {
	return func(c *controller) {
		c.resolver = r
	}
}

// OptProvisioner replaces the container provisioner.
func OptProvisioner(p lifecycle.Provisioner) Option {
	return func(c *controller) {
		c.provisioner = p
	}
}

// OptConnector replaces the connection establisher.
func OptConnector(cn lifecycle.Connector) Option {
	return func(c *controller) {
		c.connector = cn
	}
}

// OptRunner replaces the migration runner.
func OptRunner(r lifecycle.Runner) Option {
	return func(c *controller) {
		c.runner = r
	}
}
