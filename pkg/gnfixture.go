// Package gnfixture runs integration tests against disposable PostgreSQL
// databases. Every fixture gets its own container, its own connection and
// its own migrated schema, and is torn down on every exit path.
//
// Usage:
//
//	func TestDummy(t *testing.T) {
//	    spec := fixture.Spec{
//	        Migrations: []string{"./migrations", "./fixtures/seed.sql"},
//	    }
//	    gnfixture.RunT(t, spec, func(t testing.TB, fx *fixture.Fixture) {
//	        var n int
//	        err := fx.Pool().QueryRow(t.Context(),
//	            "SELECT count(*) FROM dummy").Scan(&n)
//	        require.NoError(t, err)
//	    })
//	}
package gnfixture

import (
	"context"
	"testing"

	"github.com/gnames/gnfixture/internal/iofixture"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
)

// NewController creates a lifecycle controller configured by opts on top
// of the default configuration.
func NewController(opts ...config.Option) lifecycle.Controller {
	cfg := config.New()
	cfg.Update(opts)
	return iofixture.New(cfg)
}

// Run provisions and migrates a fixture, calls body with it and tears it
// down. The first error of setup, body or teardown is returned; a
// teardown failure after success is only logged.
func Run(
	ctx context.Context,
	spec fixture.Spec,
	body fixture.Body,
	opts ...config.Option,
) error {
	return NewController(opts...).Run(ctx, spec, body)
}

// RunT is Run for tests. Setup errors fail the test. Teardown runs even
// when body stops the test with t.FailNow or t.Fatal.
func RunT(
	t testing.TB,
	spec fixture.Spec,
	body func(testing.TB, *fixture.Fixture),
	opts ...config.Option,
) {
	t.Helper()

	err := Run(t.Context(), spec,
		func(_ context.Context, fx *fixture.Fixture) error {
			body(t, fx)
			return nil
		},
		opts...,
	)
	if err != nil {
		t.Fatalf("fixture %s: %v", spec.Label(), err)
	}
}

// Setup returns a Ready fixture and registers its teardown with
// t.Cleanup. Setup errors fail the test.
func Setup(
	t testing.TB,
	spec fixture.Spec,
	opts ...config.Option,
) *fixture.Fixture {
	t.Helper()

	fx, err := NewController(opts...).Start(t.Context(), spec)
	if err != nil {
		t.Fatalf("fixture %s: %v", spec.Label(), err)
	}

	t.Cleanup(func() {
		if err := fx.Close(context.Background()); err != nil {
			t.Logf("fixture %s: %v", spec.Label(), err)
		}
	})
	return fx
}
