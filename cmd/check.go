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
	"context"
	"slices"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/internal/iofixture"
	"github.com/gnames/gnfixture/internal/iomigrate"
	"github.com/gnames/gnfixture/internal/iosources"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// checkResult is the outcome of one checked fixture.
type checkResult struct {
	name     string
	units    int
	empty    bool
	duration time.Duration
	err      error
}

// getCheckCmd returns the check command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCheckCmd() *cobra.Command {
	var sf specFlags

	checkCmd := &cobra.Command{
		Use:   "check [NAME...]",
		Short: "Build every fixture in its own container",
		Long: `Check provisions a fresh PostgreSQL container for every selected
fixture, applies its migrations and scripts, verifies the connection and
tears the container down. A fixture whose migrations leave no table in
the public schema gets a warning.

Fixtures are checked concurrently, up to --jobs at a time. The first
failure cancels the remaining fixtures. The exit code is 2 when the
container engine or the network failed and 1 when a migration or the
declaration is broken.

Examples:
  gnfixture check
  gnfixture check seeded --jobs 2
  gnfixture check -m ./migrations --sql "SELECT 1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, imageFlag, jobsFlag)
			return runCheck(cmd.Context(), &sf, args)
		},
	}

	addSpecFlags(checkCmd, &sf)
	checkCmd.Flags().IntP("jobs", "j", 0,
		"number of fixtures checked concurrently (default from config)")

	return checkCmd
}

func runCheck(ctx context.Context, sf *specFlags, names []string) error {
	results, err := checkFixtures(ctx, sf, names)
	for _, v := range results {
		reportCheck(v, err)
	}
	return err
}

// checkFixtures builds the selected fixtures and returns the outcome of
// each of them together with the error that stopped the check.
func checkFixtures(
	ctx context.Context,
	sf *specFlags,
	names []string,
) ([]checkResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	specs, err := sf.specs(names)
	if err != nil {
		gn.PrintErrorMessage(err)
		return nil, err
	}

	// Resolve everything first: declaration errors are reported before
	// any container starts, and the unit count sizes the progress bar.
	resolver := iosources.New(iomigrate.NewLoader())
	var total int
	for _, spec := range specs {
		units, err := iofixture.Resolve(spec, resolver)
		if err != nil {
			gn.PrintErrorMessage(err)
			return nil, err
		}
		total += len(units)
	}

	bar := newProgressBar(total, "units ")
	progress := iofixture.OptProgress(func(fixture.ApplyResult) {
		bar.Increment()
	})

	results := make([]checkResult, len(specs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.JobsNumber)

	for i, spec := range specs {
		g.Go(func() error {
			res := &results[i]
			res.name = spec.Label()
			start := time.Now()

			ctrl := iofixture.New(cfg, slices.Concat(
				ctrlOpts, []iofixture.Option{progress},
			)...)
			res.err = ctrl.Run(gCtx, spec,
				func(ctx context.Context, fx *fixture.Fixture) error {
					res.units = len(fx.Results())
					hasTables, err := fx.Operator().HasTables(ctx)
					res.empty = !hasTables
					return err
				},
			)
			res.duration = time.Since(start)
			return res.err
		})
	}

	err = g.Wait()
	bar.Finish()
	return results, err
}

// reportCheck prints the outcome of a fixture. first is the error that
// stopped the check, fixtures failing after it were canceled.
func reportCheck(res checkResult, first error) {
	switch {
	case res.err == nil:
		gn.Info("Fixture <em>%s</em> is ready: %d unit(s) in %s",
			res.name, res.units, gnfmt.TimeString(res.duration.Seconds()))
		if res.empty {
			gn.Warn("Fixture <em>%s</em> has no tables in the public schema",
				res.name)
		}
	case res.err != first:
		gn.Warn("Fixture <em>%s</em> was canceled", res.name)
	case fixture.IsInfrastructure(res.err):
		gn.Warn(
			"Fixture <em>%s</em> failed because of the container engine "+
				"or the network, not because of its migrations",
			res.name,
		)
		gn.PrintErrorMessage(res.err)
	default:
		gn.Warn("Fixture <em>%s</em> failed", res.name)
		gn.PrintErrorMessage(res.err)
	}
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
