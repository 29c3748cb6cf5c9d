package iomigrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/gnfixture/pkg/db"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
	"github.com/gnames/gnfmt"
)

// ProgressFunc is called after every attempted unit.
type ProgressFunc func(fixture.ApplyResult)

// Option configures a runner.
type Option func(*runner)

// OptProgress sets a callback that receives the result of every
// attempted unit, successful or not.
func OptProgress(fn ProgressFunc) Option {
	return func(r *runner) {
		r.progress = fn
	}
}

// OptLogger sets the logger of the runner. The default is slog.Default().
func OptLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

type runner struct {
	progress ProgressFunc
	log      *slog.Logger
}

// NewRunner creates a Runner. Steps of a migration set run in separate
// transactions, a raw script runs as one batch.
func NewRunner(opts ...Option) lifecycle.Runner {
	res := &runner{log: slog.Default()}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Apply executes units in order and stops at the first failure. Units
// after a failed one are never executed and get no result.
func (r *runner) Apply(
	ctx context.Context,
	exec db.Executor,
	units []fixture.Unit,
) ([]fixture.ApplyResult, error) {
	res := make([]fixture.ApplyResult, 0, len(units))

	for i, u := range units {
		ar := fixture.ApplyResult{
			Index:  i,
			Unit:   u.Name(),
			Kind:   u.Kind(),
			Digest: u.Digest(),
		}

		start := time.Now()
		var err error
		if err = ctx.Err(); err == nil {
			switch u := u.(type) {
			case *fixture.MigrationSet:
				ar.Steps, err = r.applySet(ctx, exec, i, u)
			case *fixture.RawScript:
				err = r.applyScript(ctx, exec, i, u)
			default:
				err = &fixture.MigrationError{
					Index: i,
					Unit:  u.Name(),
					Kind:  u.Kind(),
					Err:   fmt.Errorf("unsupported unit type %T", u),
				}
			}
		} else {
			err = &fixture.MigrationError{
				Index: i, Unit: u.Name(), Kind: u.Kind(), Err: err,
			}
		}
		ar.Duration = time.Since(start)
		ar.Err = err

		res = append(res, ar)
		if r.progress != nil {
			r.progress(ar)
		}

		if err != nil {
			r.log.Error("Migration unit failed",
				"index", i,
				"unit", u.Name(),
				"kind", u.Kind().String(),
				"error", err,
			)
			return res, err
		}

		r.log.Info("Migration unit applied",
			"index", i,
			"unit", u.Name(),
			"kind", u.Kind().String(),
			"steps", len(ar.Steps),
			"duration", gnfmt.TimeString(ar.Duration.Seconds()),
		)
	}

	return res, nil
}

func (r *runner) applySet(
	ctx context.Context,
	exec db.Executor,
	idx int,
	set *fixture.MigrationSet,
) ([]string, error) {
	applied := make([]string, 0, len(set.Steps))
	for _, s := range set.Steps {
		if err := exec.ExecInTx(ctx, s.SQL); err != nil {
			return applied, &fixture.MigrationError{
				Index: idx,
				Unit:  set.Name(),
				Kind:  fixture.MigrationSetKind,
				Step:  s.ID(),
				Err:   err,
			}
		}
		r.log.Debug("Migration step applied",
			"unit", set.Name(), "step", s.ID())
		applied = append(applied, s.ID())
	}
	return applied, nil
}

func (r *runner) applyScript(
	ctx context.Context,
	exec db.Executor,
	idx int,
	rs *fixture.RawScript,
) error {
	if err := exec.ExecBatch(ctx, rs.SQL); err != nil {
		return &fixture.MigrationError{
			Index: idx,
			Unit:  rs.Name(),
			Kind:  fixture.RawScriptKind,
			Err:   err,
		}
	}
	return nil
}
