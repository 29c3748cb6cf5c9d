package fixture

import (
	"os"
	"path/filepath"
	"strings"
)

// Spec declares one fixture: an ordered list of migration sources and an
// optional raw SQL text that is always applied last.
type Spec struct {
	// Name is used in logs and by the CLI. It is optional for tests.
	Name string `yaml:"name"`

	// Migrations are paths to migration directories or SQL script files.
	// Position in the slice is the execution order.
	Migrations []string `yaml:"migrations"`

	// SQL is raw SQL applied after every unit derived from Migrations.
	SQL string `yaml:"sql"`

	// BaseDir is the directory relative Migrations paths are resolved
	// against. Empty means the working directory.
	BaseDir string `yaml:"-"`
}

// Validate checks that the declaration has at least one migration source.
// An empty spec is a configuration error.
func (s Spec) Validate() error {
	if len(s.Migrations) == 0 {
		return &InvalidSourceError{
			Index:  -1,
			Reason: "at least one migration source is required",
		}
	}
	for i, m := range s.Migrations {
		if strings.TrimSpace(m) == "" {
			return &InvalidSourceError{
				Index:  i,
				Reason: "migration source path is empty",
			}
		}
	}
	return nil
}

// Paths returns migration source paths with relative ones joined to
// BaseDir, or to the working directory when BaseDir is empty.
func (s Spec) Paths() ([]string, error) {
	base := s.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		base = wd
	}

	res := make([]string, len(s.Migrations))
	for i, m := range s.Migrations {
		m = strings.TrimSpace(m)
		if filepath.IsAbs(m) {
			res[i] = filepath.Clean(m)
			continue
		}
		res[i] = filepath.Join(base, m)
	}
	return res, nil
}

// Trailing returns the raw script built from the SQL field, if any.
func (s Spec) Trailing() (*RawScript, bool) {
	if strings.TrimSpace(s.SQL) == "" {
		return nil, false
	}
	return &RawScript{Origin: TrailingOrigin, SQL: s.SQL}, true
}

// Label returns Name or a short description of the declaration.
func (s Spec) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return strings.Join(s.Migrations, ",")
}
