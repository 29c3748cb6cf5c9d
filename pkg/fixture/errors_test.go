package fixture_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		msg   string
		err   error
		has   []string
		stage fixture.State
		cat   fixture.Category
	}{
		{
			"invalid source",
			&fixture.InvalidSourceError{Index: 1, Path: "/x", Reason: "does not exist", Err: cause},
			[]string{"[config]", "#2", "(/x)", "does not exist", "boom"},
			fixture.Idle, fixture.ConfigCategory,
		},
		{
			"provision",
			&fixture.ProvisionError{Image: "postgres:16-alpine", Err: cause},
			[]string{"[infrastructure]", "postgres:16-alpine", "boom"},
			fixture.Provisioning, fixture.InfrastructureCategory,
		},
		{
			"connection",
			&fixture.ConnectionTimeoutError{
				Host: "localhost", Port: 5432, Attempts: 3,
				Elapsed: 1500 * time.Millisecond, Err: cause,
			},
			[]string{"[infrastructure]", "localhost:5432", "3 attempt(s)", "1.5s"},
			fixture.Connecting, fixture.InfrastructureCategory,
		},
		{
			"migration",
			&fixture.MigrationError{
				Index: 0, Unit: "migrations", Kind: fixture.MigrationSetKind,
				Step: "2_seed", Err: cause,
			},
			[]string{"[migration]", "migration-set #1", "(migrations)", "step 2_seed"},
			fixture.Migrating, fixture.MigrationCategory,
		},
		{
			"teardown",
			&fixture.TeardownError{Err: cause},
			[]string{"[teardown]", "boom"},
			fixture.TearingDown, fixture.TeardownCategory,
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			for _, s := range v.has {
				assert.Contains(t, v.err.Error(), s)
			}
			assert.ErrorIs(t, v.err, cause)

			var se fixture.StageError
			assert.ErrorAs(t, v.err, &se)
			assert.Equal(t, v.stage, se.Stage())

			wrapped := fmt.Errorf("setup: %w", v.err)
			assert.Equal(t, v.cat, fixture.CategoryOf(wrapped))
		})
	}
}

func TestIsInfrastructure(t *testing.T) {
	assert.True(t, fixture.IsInfrastructure(&fixture.ProvisionError{}))
	assert.True(t, fixture.IsInfrastructure(&fixture.ConnectionTimeoutError{}))
	assert.False(t, fixture.IsInfrastructure(&fixture.MigrationError{}))
	assert.False(t, fixture.IsInfrastructure(errors.New("body failed")))
	assert.Equal(t, fixture.Category(""), fixture.CategoryOf(nil))
}

func TestMigrationErrorRawScript(t *testing.T) {
	err := &fixture.MigrationError{
		Index: 2, Unit: "seed.sql", Kind: fixture.RawScriptKind,
		Err: errors.New("syntax error"),
	}
	assert.Equal(t, "[migration] raw-script #3 (seed.sql): syntax error", err.Error())
}
