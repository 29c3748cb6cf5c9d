package ioconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnfixture/internal/iofs"
	"github.com/gnames/gnfixture/pkg/fixture"
	"gopkg.in/yaml.v3"
)

// Declaration is the content of a fixtures.yaml file.
//
//	fixtures:
//	  - name: seeded
//	    migrations: ["./migrations", "./fixtures/seed.sql"]
//	    sql: |
//	      INSERT INTO dummy (value) VALUES ('extra');
type Declaration struct {
	// Path is the absolute path of the declaration file.
	Path string `yaml:"-"`

	Fixtures []fixture.Spec `yaml:"fixtures"`
}

// LoadDeclaration reads fixture declarations from path. Relative
// migration paths of every fixture resolve against the directory of
// the file. Every fixture needs a unique name.
func LoadDeclaration(path string) (*Declaration, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}

	bs, err := os.ReadFile(abs)
	if err != nil {
		return nil, iofs.ReadFileError(abs, err)
	}

	var res Declaration
	dec := yaml.NewDecoder(bytes.NewReader(bs))
	dec.KnownFields(true)
	if err = dec.Decode(&res); err != nil {
		return nil, DeclarationError(abs, err.Error())
	}
	res.Path = abs

	if len(res.Fixtures) == 0 {
		return nil, DeclarationError(abs, "no fixtures declared")
	}

	seen := make(map[string]struct{})
	base := filepath.Dir(abs)
	for i := range res.Fixtures {
		f := &res.Fixtures[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return nil, DeclarationError(abs, "fixture without a name")
		}
		if _, ok := seen[f.Name]; ok {
			return nil, DeclarationError(abs,
				"duplicate fixture name "+f.Name)
		}
		seen[f.Name] = struct{}{}
		f.BaseDir = base
	}

	return &res, nil
}

// Find returns the fixture with the given name.
func (d *Declaration) Find(name string) (fixture.Spec, error) {
	for _, f := range d.Fixtures {
		if f.Name == name {
			return f, nil
		}
	}
	return fixture.Spec{}, FixtureNotFoundError(d.Path, name)
}

// Names returns names of all declared fixtures in declaration order.
func (d *Declaration) Names() []string {
	res := make([]string, len(d.Fixtures))
	for i, f := range d.Fixtures {
		res[i] = f.Name
	}
	return res
}
