package ioconfig

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/pkg/errcode"
)

// DeclarationError creates an error for a malformed
// fixtures.yaml file.
func DeclarationError(path, reason string) error {
	msg := `Cannot use fixture declarations from <em>%s</em>: %s

<em>Expected format:</em>
  fixtures:
    - name: seeded
      migrations: ["./migrations", "./fixtures/seed.sql"]
      sql: "INSERT INTO dummy (value) VALUES ('extra');"`

	vars := []any{path, reason}

	return &gn.Error{
		Code: errcode.ConfigDeclarationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bad declaration file %s: %s", path, reason),
	}
}

// FixtureNotFoundError creates an error for an unknown
// fixture name.
func FixtureNotFoundError(path, name string) error {
	msg := "Fixture <em>%s</em> is not declared in <em>%s</em>"
	vars := []any{name, path}

	return &gn.Error{
		Code: errcode.ConfigFixtureNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("fixture %s not found in %s", name, path),
	}
}
