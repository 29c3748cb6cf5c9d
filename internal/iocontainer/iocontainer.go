// Package iocontainer starts disposable PostgreSQL containers through
// testcontainers-go. This is an impure I/O package that implements the
// lifecycle.Provisioner contract.
package iocontainer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresPort is the container port PostgreSQL listens on.
const PostgresPort nat.Port = "5432/tcp"

// Option configures a provisioner.
type Option func(*provisioner)

// OptStopTimeout limits how long removing a container that failed to
// start may take. The default is the teardown timeout of config.New().
func OptStopTimeout(d time.Duration) Option {
	return func(p *provisioner) {
		if d > 0 {
			p.stopTimeout = d
		}
	}
}

type provisioner struct {
	cfg         config.ContainerConfig
	stopTimeout time.Duration
}

// New creates a Provisioner that starts containers described by cfg.
func New(cfg config.ContainerConfig, opts ...Option) lifecycle.Provisioner {
	res := &provisioner{
		cfg:         cfg,
		stopTimeout: config.New().Timeouts.Teardown,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Start launches a new PostgreSQL container and waits until its port is
// mapped to the host. The database inside may still be initializing.
// A partially created container is terminated before an error is returned.
func (p *provisioner) Start(ctx context.Context) (res lifecycle.Container, err error) {
	var pg *postgres.PostgresContainer

	// testcontainers may panic when the docker client cannot be built
	defer func() {
		if r := recover(); r != nil {
			err = &fixture.ProvisionError{
				Image: p.cfg.Image,
				Err:   ContainerStartError(p.cfg.Image, fmt.Errorf("panic: %v", r)),
			}
			res = nil
		}
		if err != nil && pg != nil {
			p.terminate(ctx, pg)
		}
	}()

	password := p.cfg.Password
	if password == "" {
		password = uuid.NewString()
	}

	slog.Debug("Starting container", "image", p.cfg.Image)
	pg, err = postgres.Run(ctx, p.cfg.Image,
		postgres.WithDatabase(p.cfg.Database),
		postgres.WithUsername(p.cfg.User),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort(PostgresPort).
				WithStartupTimeout(p.cfg.StartupTimeout),
		),
	)
	if err != nil {
		return nil, &fixture.ProvisionError{
			Image: p.cfg.Image,
			Err:   ContainerStartError(p.cfg.Image, err),
		}
	}

	host, err := pg.Host(ctx)
	if err != nil {
		return nil, &fixture.ProvisionError{
			Image: p.cfg.Image,
			Err:   ContainerEndpointError(pg.GetContainerID(), err),
		}
	}

	port, err := pg.MappedPort(ctx, PostgresPort)
	if err != nil {
		return nil, &fixture.ProvisionError{
			Image: p.cfg.Image,
			Err:   ContainerEndpointError(pg.GetContainerID(), err),
		}
	}

	c := &container{
		pg: pg,
		endpoint: config.DatabaseConfig{
			Host:     host,
			Port:     port.Int(),
			User:     p.cfg.User,
			Password: password,
			Database: p.cfg.Database,
			SSLMode:  p.cfg.SSLMode,
		},
	}
	slog.Debug("Container started",
		"id", shortID(pg.GetContainerID()),
		"host", host,
		"port", port.Int(),
	)
	return c, nil
}

type container struct {
	pg       *postgres.PostgresContainer
	endpoint config.DatabaseConfig

	once sync.Once
	err  error
}

// Endpoint returns connection parameters of the mapped port.
func (c *container) Endpoint() config.DatabaseConfig {
	return c.endpoint
}

// Stop terminates the container and removes its volumes. Only the first
// call talks to the container engine.
func (c *container) Stop(ctx context.Context) error {
	c.once.Do(func() {
		id := c.pg.GetContainerID()
		if err := c.pg.Terminate(ctx); err != nil {
			c.err = ContainerStopError(shortID(id), err)
			return
		}
		slog.Debug("Container stopped", "id", shortID(id))
	})
	return c.err
}

// terminator is the part of a testcontainers container used to remove it.
type terminator interface {
	GetContainerID() string
	Terminate(context.Context, ...testcontainers.TerminateOption) error
}

// terminate removes a container that failed to start. It gives up after
// the stop timeout even if the engine does not answer.
func (p *provisioner) terminate(ctx context.Context, c terminator) error {
	tctx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), p.stopTimeout,
	)
	defer cancel()

	id := c.GetContainerID()
	err := c.Terminate(tctx)
	if err != nil {
		slog.Warn("Cannot remove failed container",
			"id", shortID(id), "error", err)
		return ContainerStopError(shortID(id), err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
