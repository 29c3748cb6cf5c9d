/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/internal/iofixture"
	"github.com/gnames/gnfixture/internal/iomigrate"
	"github.com/gnames/gnfixture/internal/iosources"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// unitInfo describes a resolved migration unit.
type unitInfo struct {
	Index  int      `json:"index"`
	Kind   string   `json:"kind"`
	Path   string   `json:"path"`
	Steps  []string `json:"steps,omitempty"`
	Size   int      `json:"size"`
	Digest string   `json:"digest"`
}

// fixtureInfo describes a fixture and the units it resolves to.
type fixtureInfo struct {
	Name  string     `json:"name"`
	Units []unitInfo `json:"units"`
}

// getListCmd returns the list command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getListCmd() *cobra.Command {
	var sf specFlags
	var format string

	listCmd := &cobra.Command{
		Use:   "list [NAME...]",
		Short: "List migration units of declared fixtures",
		Long: `List resolves migration sources of fixtures and prints the units
that would be applied, in execution order. No container is started.

A directory becomes a migration set with its versioned steps, a file
becomes a raw script. The sql field of a fixture is always the last unit.

Examples:
  gnfixture list
  gnfixture list seeded --format json
  gnfixture list -m ./migrations -m ./fixtures/seed.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, &sf, format, args)
		},
	}

	addSpecFlags(listCmd, &sf)
	listCmd.Flags().StringVar(&format, "format", "text",
		"output format: text or json")

	return listCmd
}

func runList(
	cmd *cobra.Command,
	sf *specFlags,
	format string,
	names []string,
) error {
	if format != "text" && format != "json" {
		err := fmt.Errorf("unknown output format %q", format)
		gn.PrintErrorMessage(err)
		return err
	}

	specs, err := sf.specs(names)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	resolver := iosources.New(iomigrate.NewLoader())
	infos := make([]fixtureInfo, 0, len(specs))
	for _, spec := range specs {
		units, err := iofixture.Resolve(spec, resolver)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		infos = append(infos, newFixtureInfo(spec, units))
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := gnfmt.GNjson{Pretty: true}
		bs, err := enc.Encode(infos)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(bs))
		return err
	}

	for _, v := range infos {
		printFixtureInfo(out, v)
	}
	return nil
}

func newFixtureInfo(spec fixture.Spec, units []fixture.Unit) fixtureInfo {
	res := fixtureInfo{Name: spec.Label(), Units: make([]unitInfo, len(units))}
	for i, u := range units {
		info := unitInfo{
			Index:  i,
			Kind:   u.Kind().String(),
			Path:   u.Name(),
			Digest: u.Digest(),
		}
		switch u := u.(type) {
		case *fixture.MigrationSet:
			for _, s := range u.Steps {
				info.Steps = append(info.Steps, s.ID())
				info.Size += len(s.SQL)
			}
		case *fixture.RawScript:
			info.Size = len(u.SQL)
		}
		res.Units[i] = info
	}
	return res
}

func printFixtureInfo(w io.Writer, info fixtureInfo) {
	fmt.Fprintln(w, info.Name)
	for _, u := range info.Units {
		size := humanize.Bytes(uint64(u.Size))
		if len(u.Steps) > 0 {
			fmt.Fprintf(w, "  %d. %s %s (%s, %s)\n",
				u.Index+1, u.Kind, u.Path,
				english.Plural(len(u.Steps), "step", ""), size)
			for _, s := range u.Steps {
				fmt.Fprintf(w, "       %s\n", s)
			}
			continue
		}
		fmt.Fprintf(w, "  %d. %s %s (%s)\n", u.Index+1, u.Kind, u.Path, size)
	}
}
