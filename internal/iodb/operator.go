// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"

	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
	dsn  string
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL.
// A fixture database serves one test, so the pool is small.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := db.DSN(cfg)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// pgxpool connects lazily, ping proves the server accepts sessions
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	p.dsn = dsn
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced
// operations.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// DSN returns the connection string of the connected database.
func (p *pgxOperator) DSN() string {
	return p.dsn
}

// ExecBatch sends sql to the server in one simple-protocol
// message. Several statements separated by semicolons are
// allowed; PostgreSQL runs such a message as one implicit
// transaction.
func (p *pgxOperator) ExecBatch(ctx context.Context, sql string) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return ExecError(err)
	}
	defer conn.Release()

	_, err = conn.Conn().PgConn().Exec(ctx, sql).ReadAll()
	if err != nil {
		return ExecError(err)
	}
	return nil
}

// ExecInTx runs sql inside an explicit transaction. The
// transaction is rolled back if any statement fails.
func (p *pgxOperator) ExecInTx(ctx context.Context, sql string) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		_, err := tx.Conn().PgConn().Exec(ctx, sql).ReadAll()
		return err
	})
	if err != nil {
		return ExecError(err)
	}
	return nil
}

// HasTables checks if the database has any tables in the
// public schema.
func (p *pgxOperator) HasTables(
	ctx context.Context,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
		)
	`

	var hasTables bool
	err := p.pool.QueryRow(ctx, query).Scan(&hasTables)
	if err != nil {
		return false, TableCheckError(err)
	}

	return hasTables, nil
}
