package iosources

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/pkg/errcode"
)

// NotFoundError creates an error for a migration source that
// cannot be found or accessed.
func NotFoundError(path string, err error) error {
	msg := `Cannot find migration source <em>%s</em>

<em>How to fix:</em>
  1. Check the path: <em>ls -l %s</em>
  2. Relative paths are resolved against the fixtures file
     directory or the working directory`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.SourceNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot stat %s: %w", path, err),
	}
}

// KindError creates an error for a path that is neither a
// directory nor a regular file.
func KindError(path, mode string) error {
	msg := "Migration source <em>%s</em> has unsupported type <em>%s</em>"
	vars := []any{path, mode}

	return &gn.Error{
		Code: errcode.SourceKindError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported file mode %s of %s", mode, path),
	}
}

// ReadError creates an error for a script that cannot be read.
func ReadError(path string, err error) error {
	msg := "Cannot read SQL script <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.SourceReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read %s: %w", path, err),
	}
}

// EmptyScriptError creates an error for a script without SQL.
func EmptyScriptError(path string) error {
	msg := "SQL script <em>%s</em> is empty"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.SourceEmptyScriptError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("empty script %s", path),
	}
}
