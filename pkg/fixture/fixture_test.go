package fixture_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOperator struct {
	closed int
}

func (f *fakeOperator) ExecBatch(context.Context, string) error { return nil }
func (f *fakeOperator) ExecInTx(context.Context, string) error  { return nil }
func (f *fakeOperator) Connect(context.Context, *config.DatabaseConfig) error {
	return nil
}
func (f *fakeOperator) Close() error                            { f.closed++; return nil }
func (f *fakeOperator) Pool() *pgxpool.Pool                     { return nil }
func (f *fakeOperator) DSN() string                             { return "postgres://fake" }
func (f *fakeOperator) HasTables(context.Context) (bool, error) { return false, nil }

func readyMachine(t *testing.T) *fixture.Machine {
	m := fixture.NewMachine("test", nil)
	for _, s := range []fixture.State{
		fixture.Provisioning, fixture.Connecting, fixture.Migrating, fixture.Ready,
	} {
		require.NoError(t, m.To(s))
	}
	return m
}

func TestFixtureAccessors(t *testing.T) {
	op := &fakeOperator{}
	ep := config.DatabaseConfig{Host: "localhost", Port: 55432, Database: "fixture"}
	res := []fixture.ApplyResult{{Index: 0, Unit: "m", Kind: fixture.MigrationSetKind}}
	fx := fixture.New(fixture.Spec{Name: "demo"}, readyMachine(t), op, ep, res, nil)

	assert.Equal(t, "demo", fx.Spec().Name)
	assert.Equal(t, fixture.Ready, fx.State())
	assert.Equal(t, "postgres://fake", fx.DSN())
	assert.Equal(t, ep, fx.Endpoint())
	assert.Equal(t, res, fx.Results())
	assert.True(t, fx.Results()[0].OK())
	assert.Same(t, op, fx.Operator())

	require.NoError(t, fx.MarkRunning())
	assert.Equal(t, fixture.Running, fx.State())
	assert.Error(t, fx.MarkRunning())
}

func TestFixtureCloseOnce(t *testing.T) {
	op := &fakeOperator{}
	var calls int
	release := func(_ context.Context, closers ...func() error) error {
		calls++
		assert.Empty(t, closers)
		return op.Close()
	}
	fx := fixture.New(fixture.Spec{}, readyMachine(t), op,
		config.DatabaseConfig{}, nil, release)

	ctx := context.Background()
	require.NoError(t, fx.Close(ctx))
	require.NoError(t, fx.Close(ctx))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, op.closed)
	assert.Equal(t, fixture.Closed, fx.State())
}

func TestFixtureCloseError(t *testing.T) {
	cause := errors.New("container refused to stop")
	fx := fixture.New(fixture.Spec{}, readyMachine(t), &fakeOperator{},
		config.DatabaseConfig{}, nil,
		func(context.Context, ...func() error) error { return cause })

	err := fx.Close(context.Background())
	var te *fixture.TeardownError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, fixture.Closed, fx.State())

	// later calls report the same failure
	assert.Same(t, err, fx.Close(context.Background()))
}
