package iomigrate_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gnames/gnfixture/internal/iomigrate"
	"github.com/gnames/gnfixture/internal/iotesting"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// sqliteExec runs migrations against an in-memory SQLite database, so
// ordering rules can be checked without a container.
type sqliteExec struct {
	db *sql.DB
}

func newSQLiteExec(t *testing.T) *sqliteExec {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return &sqliteExec{db: db}
}

func (s *sqliteExec) ExecBatch(ctx context.Context, q string) error {
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *sqliteExec) ExecInTx(ctx context.Context, q string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, q); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *sqliteExec) count(t *testing.T) int {
	var n int
	err := s.db.QueryRow("SELECT count(*) FROM dummy").Scan(&n)
	require.NoError(t, err)
	return n
}

func loadUnits(t *testing.T) (fixture.Unit, fixture.Unit) {
	dir := t.TempDir()
	iotesting.WriteMigration(t, dir, "00000000000001", "create_dummy",
		"CREATE TABLE dummy (id INTEGER PRIMARY KEY, value TEXT NOT NULL);")

	steps, err := iomigrate.NewLoader().LoadSet(dir)
	require.NoError(t, err)

	set := &fixture.MigrationSet{Path: dir, Steps: steps}
	seed := &fixture.RawScript{
		Origin: "seed.sql",
		SQL: `INSERT INTO dummy (value) VALUES ('yeah');
INSERT INTO dummy (value) VALUES ('yo');`,
	}
	return set, seed
}

func TestSQLiteSchemaThenSeed(t *testing.T) {
	set, seed := loadUnits(t)
	exec := newSQLiteExec(t)

	res, err := iomigrate.NewRunner().Apply(context.Background(), exec,
		[]fixture.Unit{set, seed})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, 2, exec.count(t))
}

func TestSQLiteSeedBeforeSchemaFails(t *testing.T) {
	set, seed := loadUnits(t)
	exec := newSQLiteExec(t)

	res, err := iomigrate.NewRunner().Apply(context.Background(), exec,
		[]fixture.Unit{seed, set})

	var me *fixture.MigrationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 0, me.Index)
	assert.Equal(t, "seed.sql", me.Unit)
	assert.Len(t, res, 1, "the schema unit was never attempted")
}

func TestSQLiteFailedStepRollsBack(t *testing.T) {
	exec := newSQLiteExec(t)
	set := &fixture.MigrationSet{Path: "m", Steps: []fixture.Step{
		{Version: "1", Name: "create", SQL: "CREATE TABLE dummy (id INTEGER, value TEXT);"},
		{Version: "2", Name: "broken", SQL: "INSERT INTO dummy VALUES (1, 'a'); INSERT INTO nope VALUES (1);"},
	}}

	_, err := iomigrate.NewRunner().Apply(context.Background(), exec,
		[]fixture.Unit{set})
	var me *fixture.MigrationError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "2_broken", me.Step)

	// step 1 committed, step 2 rolled back
	assert.Equal(t, 0, exec.count(t))
}
