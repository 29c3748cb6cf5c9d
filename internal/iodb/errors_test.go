package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 55432, "fixture", "postgres",
		originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Equal(t, []any{"localhost", 55432, "fixture", "postgres"},
		gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
	assert.Contains(t, gnErr.Err.Error(), "localhost:55432/fixture")
}

// TestNotConnectedError_Structure verifies error structure.
func TestNotConnectedError_Structure(t *testing.T) {
	err := NotConnectedError()

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.Nil(t, gnErr.Vars)
}

// TestExecError_Structure verifies error structure.
func TestExecError_Structure(t *testing.T) {
	originalErr := errors.New(`relation "dummy" does not exist`)

	err := ExecError(originalErr)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBExecError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestTableErrors_Structure verifies error structure.
func TestTableErrors_Structure(t *testing.T) {
	originalErr := errors.New("query failed")

	err := TableCheckError(originalErr)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBTableCheckError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestNotConnected verifies that every query fails cleanly
// before Connect.
func TestNotConnected(t *testing.T) {
	op := NewPgxOperator()
	ctx := t.Context()

	assert.Nil(t, op.Pool())
	assert.Empty(t, op.DSN())
	assert.NoError(t, op.Close())

	for _, err := range []error{
		op.ExecBatch(ctx, "SELECT 1"),
		op.ExecInTx(ctx, "SELECT 1"),
	} {
		var gnErr *gn.Error
		require.ErrorAs(t, err, &gnErr)
		assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	}

	_, err := op.HasTables(ctx)
	assert.Error(t, err)
}
