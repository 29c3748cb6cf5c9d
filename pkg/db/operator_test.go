package db_test

import (
	"testing"

	"github.com/gnames/gnfixture/internal/iodb"
	"github.com/gnames/gnfixture/pkg/db"
)

// TestPgxOperatorImplementsInterface verifies that the pgx operator
// implements the db.Operator interface.
// This test ensures compile-time contract compliance.
func TestPgxOperatorImplementsInterface(t *testing.T) {
	var _ db.Operator = iodb.NewPgxOperator()
	var _ db.Executor = iodb.NewPgxOperator()
}
