// Package iofixture drives a fixture through its lifecycle: resolve
// migration sources, provision a container, connect, migrate, lend the
// connection to a body and always tear everything down.
package iofixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/gnfixture/internal/ioconnect"
	"github.com/gnames/gnfixture/internal/iocontainer"
	"github.com/gnames/gnfixture/internal/iomigrate"
	"github.com/gnames/gnfixture/internal/iosources"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/db"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
	"github.com/gnames/gnfmt"
)

type controller struct {
	cfg *config.Config
	log *slog.Logger

	resolver    lifecycle.Resolver
	provisioner lifecycle.Provisioner
	connector   lifecycle.Connector
	runner      lifecycle.Runner
	hook        fixture.TransitionFunc
	progress    iomigrate.ProgressFunc
}

// New creates a Controller. Stages that are not replaced by options use
// the default implementations: testcontainers for provisioning, pgx for
// connections and the iomigrate runner.
func New(cfg *config.Config, opts ...Option) lifecycle.Controller {
	res := &controller{cfg: cfg, log: slog.Default()}
	for _, opt := range opts {
		opt(res)
	}

	if res.resolver == nil {
		res.resolver = iosources.New(iomigrate.NewLoader())
	}
	if res.provisioner == nil {
		res.provisioner = iocontainer.New(cfg.Container,
			iocontainer.OptStopTimeout(cfg.Timeouts.Teardown))
	}
	if res.connector == nil {
		res.connector = ioconnect.New(cfg.Connect)
	}
	if res.runner == nil {
		res.runner = iomigrate.NewRunner(
			iomigrate.OptLogger(res.log),
			iomigrate.OptProgress(res.progress),
		)
	}
	return res
}

// Resolve validates spec and returns its migration units: one per
// migration source, followed by the trailing SQL of the Spec, if any.
func Resolve(
	spec fixture.Spec,
	resolver lifecycle.Resolver,
) ([]fixture.Unit, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	paths, err := spec.Paths()
	if err != nil {
		return nil, &fixture.InvalidSourceError{
			Index:  -1,
			Reason: "cannot determine base directory",
			Err:    err,
		}
	}

	units, err := resolver.Resolve(paths)
	if err != nil {
		return nil, err
	}

	if rs, ok := spec.Trailing(); ok {
		units = append(units, rs)
	}
	return units, nil
}

// Start brings a fixture to the Ready state. Configuration errors are
// detected before any container is started. On failure everything
// acquired so far is released and the first error is returned.
func (c *controller) Start(
	ctx context.Context,
	spec fixture.Spec,
) (res *fixture.Fixture, err error) {
	start := time.Now()
	label := spec.Label()
	m := fixture.NewMachine(label, c.observe)

	var cont lifecycle.Container
	var op db.Operator

	// closing connections and stopping the container get a teardown
	// timeout each, the container is stopped even if closing hangs
	release := func(rctx context.Context, closers ...func() error) error {
		rctx = context.WithoutCancel(rctx)

		var errs []error
		if op != nil {
			closers = append(closers, op.Close)
		}
		if err := c.closeWithin(rctx, closers); err != nil {
			errs = append(errs, err)
		}

		if cont != nil {
			sctx, cancel := context.WithTimeout(rctx, c.cfg.Timeouts.Teardown)
			defer cancel()
			if err := cont.Stop(sctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	// tear down on errors and on panics of any stage
	var ready bool
	defer func() {
		if ready {
			return
		}
		_ = m.To(fixture.TearingDown)
		if rerr := release(ctx); rerr != nil {
			c.log.Error("Teardown failed",
				"fixture", label,
				"error", &fixture.TeardownError{Err: rerr},
				"cause", err,
			)
		}
		_ = m.To(fixture.Closed)
	}()

	units, err := Resolve(spec, c.resolver)
	if err != nil {
		return nil, err
	}

	sctx := ctx
	if c.cfg.Timeouts.Setup > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, c.cfg.Timeouts.Setup)
		defer cancel()
	}

	_ = m.To(fixture.Provisioning)
	cont, err = c.provisioner.Start(sctx)
	if err != nil {
		return nil, asStageError(err, func(e error) error {
			return &fixture.ProvisionError{Image: c.cfg.Container.Image, Err: e}
		})
	}
	endpoint := cont.Endpoint()

	_ = m.To(fixture.Connecting)
	op, err = c.connector.Connect(sctx, &endpoint)
	if err != nil {
		return nil, asStageError(err, func(e error) error {
			return &fixture.ConnectionTimeoutError{
				Host: endpoint.Host, Port: endpoint.Port, Err: e,
			}
		})
	}

	_ = m.To(fixture.Migrating)
	results, err := c.runner.Apply(sctx, op, units)
	if err != nil {
		return nil, err
	}

	_ = m.To(fixture.Ready)
	ready = true

	c.log.Info("Fixture is ready",
		"fixture", label,
		"units", len(results),
		"port", endpoint.Port,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return fixture.New(spec, m, op, endpoint, results, release), nil
}

// Run starts a fixture, calls body and always tears the fixture down,
// also when body panics or calls runtime.Goexit. Panics are re-raised
// after teardown. A teardown failure is logged and never replaces an
// earlier error.
func (c *controller) Run(
	ctx context.Context,
	spec fixture.Spec,
	body fixture.Body,
) (err error) {
	fx, err := c.Start(ctx, spec)
	if err != nil {
		return err
	}

	defer func() {
		cerr := fx.Close(ctx)
		if cerr == nil {
			return
		}
		c.log.Error("Teardown failed",
			"fixture", spec.Label(),
			"error", cerr,
			"cause", err,
		)
	}()

	if err = fx.MarkRunning(); err != nil {
		return err
	}
	if body == nil {
		return nil
	}
	return body(ctx, fx)
}

func (c *controller) observe(label string, from, to fixture.State) {
	c.log.Debug("Fixture state changed",
		"fixture", label,
		"from", from.String(),
		"to", to.String(),
	)
	if c.hook != nil {
		c.hook(label, from, to)
	}
}

// closeWithin runs closers in order and stops waiting for them after the
// teardown timeout. A pgx pool does not close while a connection is still
// acquired, for example by unclosed rows of a failed test body.
func (c *controller) closeWithin(ctx context.Context, closers []func() error) error {
	if len(closers) == 0 {
		return nil
	}

	tctx, cancel := context.WithTimeout(ctx, c.cfg.Timeouts.Teardown)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for _, fn := range closers {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-tctx.Done():
		return fmt.Errorf("connection did not close within %s: %w",
			c.cfg.Timeouts.Teardown, tctx.Err())
	}
}

// asStageError keeps lifecycle errors as they are and wraps any other
// error of a stage with wrap.
func asStageError(err error, wrap func(error) error) error {
	var se fixture.StageError
	if errors.As(err, &se) {
		return err
	}
	return wrap(err)
}
