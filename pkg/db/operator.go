package db

import (
	"context"

	"github.com/gnames/gnfixture/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor is the narrow capability the migration runner needs from a
// database connection.
type Executor interface {
	// ExecBatch executes sql text that may hold several statements in one
	// round trip. Atomicity of the batch is whatever the driver provides.
	ExecBatch(ctx context.Context, sql string) error

	// ExecInTx executes sql text inside an explicit transaction that is
	// rolled back on error.
	ExecInTx(ctx context.Context, sql string) error
}

// Operator defines the interface for a live connection to a provisioned
// database. It provides connection lifecycle management and exposes the
// pgxpool.Pool so that test bodies can run their own queries.
type Operator interface {
	Executor

	// Connect establishes a connection pool to the database and verifies
	// it with a ping.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool. It is safe to call on an
	// operator that never connected.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// DSN returns the connection string used by Connect.
	DSN() string

	// HasTables checks if the database has any tables in the public schema.
	HasTables(ctx context.Context) (bool, error)
}
