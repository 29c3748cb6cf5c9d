// Package fixture holds the pure types of a database test fixture: the
// declaration (Spec), resolved migration units, per-unit results, the
// lifecycle state machine, the error taxonomy and the Fixture value lent to
// test bodies.
package fixture

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Body is the code that runs against a ready fixture.
type Body func(ctx context.Context, fx *Fixture) error

// ReleaseFunc closes the connection and stops the container of a fixture.
// Closers release handles derived from the connection; they run before the
// connection is closed and share its time budget.
type ReleaseFunc func(ctx context.Context, closers ...func() error) error

// Fixture is a provisioned and migrated database together with its live
// connection. It belongs to exactly one test.
type Fixture struct {
	spec     Spec
	machine  *Machine
	op       db.Operator
	endpoint config.DatabaseConfig
	results  []ApplyResult
	release  ReleaseFunc

	mu     sync.Mutex
	sqlDB  *sql.DB
	gormDB *gorm.DB

	closeOnce sync.Once
	closeErr  error
}

// New assembles a Fixture in the Ready state. It is called by the
// lifecycle controller once migrations are applied.
func New(
	spec Spec,
	machine *Machine,
	op db.Operator,
	endpoint config.DatabaseConfig,
	results []ApplyResult,
	release ReleaseFunc,
) *Fixture {
	return &Fixture{
		spec:     spec,
		machine:  machine,
		op:       op,
		endpoint: endpoint,
		results:  results,
		release:  release,
	}
}

// Spec returns the declaration the fixture was built from.
func (f *Fixture) Spec() Spec {
	return f.spec
}

// State returns the current lifecycle state.
func (f *Fixture) State() State {
	return f.machine.State()
}

// Operator returns the live connection.
func (f *Fixture) Operator() db.Operator {
	return f.op
}

// Pool returns the pgx connection pool of the fixture.
func (f *Fixture) Pool() *pgxpool.Pool {
	return f.op.Pool()
}

// DSN returns the connection string of the fixture database.
func (f *Fixture) DSN() string {
	return f.op.DSN()
}

// Endpoint returns connection parameters of the running container.
func (f *Fixture) Endpoint() config.DatabaseConfig {
	return f.endpoint
}

// Results returns per-unit results of the applied migrations.
func (f *Fixture) Results() []ApplyResult {
	return f.results
}

// DB returns a database/sql handle backed by the fixture pool. It is
// closed together with the fixture.
func (f *Fixture) DB() *sql.DB {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sqlDB == nil {
		f.sqlDB = stdlib.OpenDBFromPool(f.op.Pool())
	}
	return f.sqlDB
}

// GORM returns a GORM handle on top of DB().
func (f *Fixture) GORM() (*gorm.DB, error) {
	sqlDB := f.DB()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gormDB != nil {
		return f.gormDB, nil
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, err
	}
	f.gormDB = gormDB
	return gormDB, nil
}

// MarkRunning moves a Ready fixture to Running before the test body is
// invoked.
func (f *Fixture) MarkRunning() error {
	return f.machine.To(Running)
}

// Close tears the fixture down: the database/sql handle, the connection
// pool and the container. Only the first call does the work, later calls
// return the same result. A failure is returned as *TeardownError.
func (f *Fixture) Close(ctx context.Context) error {
	f.closeOnce.Do(func() {
		_ = f.machine.To(TearingDown)

		var closers []func() error
		f.mu.Lock()
		if f.sqlDB != nil {
			closers = append(closers, f.sqlDB.Close)
		}
		f.mu.Unlock()

		var errs []error
		if f.release != nil {
			if err := f.release(ctx, closers...); err != nil {
				errs = append(errs, err)
			}
		} else {
			for _, fn := range closers {
				if err := fn(); err != nil {
					errs = append(errs, err)
				}
			}
		}
		_ = f.machine.To(Closed)

		if len(errs) > 0 {
			f.closeErr = &TeardownError{Err: errors.Join(errs...)}
		}
	})
	return f.closeErr
}
