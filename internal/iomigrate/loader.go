// Package iomigrate reads versioned migration directories and applies
// migration units to a database. This is an impure I/O package that
// implements lifecycle.SetLoader and lifecycle.Runner.
package iomigrate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
)

// UpFile is the name of the forward migration inside a step directory
// of the nested layout.
const UpFile = "up.sql"

type loader struct{}

// NewLoader creates a SetLoader that understands two layouts:
//
//	nested: <version>_<name>/up.sql (down.sql is ignored)
//	flat:   <version>_<name>.sql or <version>_<name>.up.sql
//
// A directory may not mix both layouts.
func NewLoader() lifecycle.SetLoader {
	return loader{}
}

// LoadSet returns the steps of dir ordered by file or directory name.
func (l loader) LoadSet(dir string) ([]fixture.Step, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ReadDirError(dir, err)
	}

	var subdirs []string
	var hasSQL bool
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			subdirs = append(subdirs, name)
			continue
		}
		if strings.HasSuffix(name, ".sql") {
			hasSQL = true
		}
	}

	var steps []fixture.Step
	switch {
	case len(subdirs) > 0 && hasSQL:
		return nil, LayoutError(dir,
			"both step directories and .sql files found")
	case len(subdirs) > 0:
		steps, err = loadNested(dir, subdirs)
	default:
		steps, err = loadFlat(dir)
	}
	if err != nil {
		return nil, err
	}

	if len(steps) == 0 {
		return nil, EmptySetError(dir)
	}
	return steps, nil
}

func loadNested(dir string, subdirs []string) ([]fixture.Step, error) {
	sort.Strings(subdirs)

	res := make([]fixture.Step, 0, len(subdirs))
	for _, name := range subdirs {
		path := filepath.Join(dir, name, UpFile)
		bs, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, LayoutError(dir, name+" has no "+UpFile)
		}
		if err != nil {
			return nil, ReadFileError(path, err)
		}

		version, desc := splitName(name)
		res = append(res, fixture.Step{
			Version: version,
			Name:    desc,
			SQL:     string(bs),
		})
	}
	return res, nil
}

func loadFlat(dir string) ([]fixture.Step, error) {
	ld, err := migrate.NewLocalDir(dir)
	if err != nil {
		return nil, ReadDirError(dir, err)
	}

	// LocalDir lists *.sql files sorted by name
	files, err := ld.Files()
	if err != nil {
		return nil, ReadDirError(dir, err)
	}

	res := make([]fixture.Step, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".down.sql") {
			continue
		}
		res = append(res, fixture.Step{
			Version: f.Version(),
			Name:    strings.TrimSuffix(f.Desc(), ".up"),
			SQL:     string(f.Bytes()),
		})
	}
	return res, nil
}

// splitName splits "<version>_<name>" at the first underscore.
func splitName(s string) (string, string) {
	version, name, _ := strings.Cut(s, "_")
	return version, name
}
