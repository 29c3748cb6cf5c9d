package iomigrate

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/pkg/errcode"
)

func ReadDirError(dir string, err error) error {
	msg := "Cannot read migration directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SourceReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read directory %s: %w",
			fn.Name(), dir, err),
	}
}

func ReadFileError(path string, err error) error {
	msg := "Cannot read migration file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SourceReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn.Name(), path, err),
	}
}

// LayoutError creates an error for a directory that follows
// neither supported migration layout.
func LayoutError(dir, reason string) error {
	msg := `Unsupported layout of migration directory <em>%s</em>: %s

<em>Supported layouts:</em>
  - <version>_<name>/up.sql
  - <version>_<name>.sql or <version>_<name>.up.sql`

	vars := []any{dir, reason}
	return &gn.Error{
		Code: errcode.SourceLayoutError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bad migration layout in %s: %s", dir, reason),
	}
}

// EmptySetError creates an error for a migration directory
// without any steps.
func EmptySetError(dir string) error {
	msg := "Migration directory <em>%s</em> has no migrations"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.SourceEmptySetError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no migrations in %s", dir),
	}
}
