package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gnames/gnfixture/internal/iotesting"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheck_Success verifies every fixture gets its own container
// that is stopped afterwards.
func TestCheck_Success(t *testing.T) {
	var e engine
	e.use(t)
	decl := writeProject(t)

	sf := specFlags{file: decl}
	err := runCheck(context.Background(), &sf, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, e.count(&e.starts))
	assert.Equal(t, 2, e.count(&e.stops))
	assert.Equal(t, 2, e.count(&e.tableChecks))
}

// TestCheck_NoTables verifies fixtures without tables are
// reported but do not fail the check.
func TestCheck_NoTables(t *testing.T) {
	e := engine{noTables: true}
	e.use(t)
	decl := writeProject(t)

	sf := specFlags{file: decl}
	results, err := checkFixtures(context.Background(), &sf, []string{"schema"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "schema", results[0].name)
	assert.True(t, results[0].empty)
	assert.Equal(t, 2, results[0].units)
	assert.Equal(t, 1, e.count(&e.tableChecks))
}

// TestCheck_MigrationFailure verifies a broken script fails
// the check with a migration error.
func TestCheck_MigrationFailure(t *testing.T) {
	var e engine
	e.use(t)
	dir := t.TempDir()
	broken := iotesting.WriteFile(t, dir, "broken.sql", "INSRT FAIL;")

	sf := specFlags{migrations: []string{broken}}
	err := runCheck(context.Background(), &sf, nil)
	require.Error(t, err)

	var me *fixture.MigrationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, broken, me.Unit)
	assert.False(t, fixture.IsInfrastructure(err))
	assert.Equal(t, 1, e.count(&e.stops))
}

// TestCheck_InfrastructureFailure verifies engine failures are
// told apart from migration failures.
func TestCheck_InfrastructureFailure(t *testing.T) {
	e := engine{startErr: errors.New("docker daemon is not running")}
	e.use(t)
	decl := writeProject(t)

	sf := specFlags{file: decl}
	err := runCheck(context.Background(), &sf, []string{"seeded"})
	require.Error(t, err)
	assert.True(t, fixture.IsInfrastructure(err))
	assert.Equal(t, 0, e.count(&e.stops))
}

// TestCheck_ConfigErrorStartsNothing verifies declarations are
// resolved before any container starts.
func TestCheck_ConfigErrorStartsNothing(t *testing.T) {
	var e engine
	e.use(t)
	decl := writeProject(t)

	sf := specFlags{
		migrations: []string{
			filepath.Join(filepath.Dir(decl), "migrations"),
			filepath.Join(filepath.Dir(decl), "missing.sql"),
		},
	}
	err := runCheck(context.Background(), &sf, nil)
	require.Error(t, err)

	var ise *fixture.InvalidSourceError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 1, ise.Index)
	assert.Equal(t, 0, e.count(&e.starts))
}

// TestCheck_JobsFlag verifies --jobs overrides the config.
func TestCheck_JobsFlag(t *testing.T) {
	var e engine
	e.use(t)

	cmd := getCheckCmd()
	require.NoError(t, cmd.Flags().Set("jobs", "3"))
	applyFlags(cmd, jobsFlag)
	assert.Equal(t, 3, cfg.JobsNumber)

	flag := cmd.Flags().Lookup("jobs")
	require.NotNil(t, flag)
	assert.Equal(t, "j", flag.Shorthand)
}
