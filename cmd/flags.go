package cmd

import (
	"github.com/gnames/gnfixture/internal/ioconfig"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/spf13/cobra"
)

// AdHocName is the name of a fixture built from --migrations and --sql.
const AdHocName = "adhoc"

type funcFlag func(cmd *cobra.Command)

// imageFlag overrides the container image from config.yaml.
func imageFlag(cmd *cobra.Command) {
	image, _ := cmd.Flags().GetString("image")
	if image != "" {
		cfg.Update([]config.Option{config.OptContainerImage(image)})
	}
}

// jobsFlag overrides the number of concurrently checked fixtures.
func jobsFlag(cmd *cobra.Command) {
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs > 0 {
		cfg.Update([]config.Option{config.OptJobsNumber(jobs)})
	}
}

func applyFlags(cmd *cobra.Command, flags ...funcFlag) {
	for _, f := range flags {
		f(cmd)
	}
}

// specFlags select fixtures either from a declaration file or from
// command line migrations.
type specFlags struct {
	file       string
	migrations []string
	sql        string
}

func addSpecFlags(cmd *cobra.Command, sf *specFlags) {
	cmd.Flags().StringVarP(&sf.file, "file", "f", "fixtures.yaml",
		"fixture declaration file")
	cmd.Flags().StringArrayVarP(&sf.migrations, "migrations", "m", nil,
		"migration directory or SQL script, repeat to add more (ad hoc fixture)")
	cmd.Flags().StringVar(&sf.sql, "sql", "",
		"raw SQL applied after all migrations (ad hoc fixture)")
	cmd.Flags().String("image", "", "PostgreSQL container image")
}

// adHoc reports whether the fixture is given on the command line.
func (sf *specFlags) adHoc() bool {
	return len(sf.migrations) > 0 || sf.sql != ""
}

// specs returns the fixtures selected by names, or all declared fixtures
// when names are empty. An ad hoc fixture ignores the declaration file.
func (sf *specFlags) specs(names []string) ([]fixture.Spec, error) {
	if sf.adHoc() {
		spec := fixture.Spec{
			Name:       AdHocName,
			Migrations: sf.migrations,
			SQL:        sf.sql,
		}
		return []fixture.Spec{spec}, nil
	}

	decl, err := ioconfig.LoadDeclaration(sf.file)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return decl.Fixtures, nil
	}

	res := make([]fixture.Spec, 0, len(names))
	for _, name := range names {
		spec, err := decl.Find(name)
		if err != nil {
			return nil, err
		}
		res = append(res, spec)
	}
	return res, nil
}
