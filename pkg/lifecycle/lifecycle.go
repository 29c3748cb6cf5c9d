// Package lifecycle defines the capabilities a fixture controller is
// assembled from. Implementations live in internal/io* packages; the
// controller depends only on these contracts, so every stage can be
// replaced by a fake in tests.
package lifecycle

import (
	"context"

	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/db"
	"github.com/gnames/gnfixture/pkg/fixture"
)

// Resolver turns migration source descriptors into migration units.
// It only reads the filesystem.
type Resolver interface {
	// Resolve returns one unit per path, in the same order. A path that
	// is neither a usable directory nor a usable file produces
	// *fixture.InvalidSourceError.
	Resolve(paths []string) ([]fixture.Unit, error)
}

// SetLoader reads the ordered steps of a migration directory.
type SetLoader interface {
	// LoadSet returns steps in the order defined by the naming
	// convention of the directory.
	LoadSet(dir string) ([]fixture.Step, error)
}

// Container is a running database container.
type Container interface {
	// Endpoint returns connection parameters of the mapped database port.
	Endpoint() config.DatabaseConfig

	// Stop terminates the container. It is idempotent.
	Stop(ctx context.Context) error
}

// Provisioner starts fresh database containers.
type Provisioner interface {
	// Start launches a new container and waits until its port is mapped.
	// Failures are *fixture.ProvisionError.
	Start(ctx context.Context) (Container, error)
}

// Connector establishes a live connection to a starting database.
type Connector interface {
	// Connect retries until the database accepts a connection or the
	// retry budget is spent (*fixture.ConnectionTimeoutError).
	Connect(ctx context.Context, cfg *config.DatabaseConfig) (db.Operator, error)
}

// Runner applies migration units in order.
type Runner interface {
	// Apply executes units one by one and stops at the first failure
	// (*fixture.MigrationError). Results cover every attempted unit.
	Apply(
		ctx context.Context,
		exec db.Executor,
		units []fixture.Unit,
	) ([]fixture.ApplyResult, error)
}

// Controller drives a fixture through its whole lifecycle.
type Controller interface {
	// Start provisions, connects and migrates a fixture. On error,
	// everything acquired is released before returning.
	Start(ctx context.Context, spec fixture.Spec) (*fixture.Fixture, error)

	// Run starts a fixture, runs body against it and always tears it
	// down. The first error wins.
	Run(ctx context.Context, spec fixture.Spec, body fixture.Body) error
}
