package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/pkg/errcode"
)

// ConnectionError creates an error for a failed connection
// attempt to a fixture database.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to <em>%s:%d/%s</em> as <em>%s</em>

<em>Possible causes:</em>
  - PostgreSQL in the container is still starting
  - The container stopped unexpectedly
  - Credentials do not match the container settings`

	vars := []any{host, port, database, user}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// NotConnectedError creates an error for when a database
// operation is attempted without a connection.
func NotConnectedError() error {
	msg := "Database operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// ExecError creates an error for failed SQL execution.
func ExecError(err error) error {
	msg := "Cannot execute SQL"

	return &gn.Error{
		Code: errcode.DBExecError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to execute sql: %w", err),
	}
}

// TableCheckError creates an error for when checking the
// database for tables fails.
func TableCheckError(err error) error {
	msg := "Cannot verify database state"

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}
