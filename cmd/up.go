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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/internal/iofixture"
	"github.com/gnames/gnfixture/internal/iofs"
	"github.com/spf13/cobra"
)

// getUpCmd returns the up command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getUpCmd() *cobra.Command {
	var sf specFlags

	upCmd := &cobra.Command{
		Use:   "up [NAME]",
		Short: "Start one fixture and keep it running",
		Long: `Up provisions and migrates one fixture, prints its connection string
and keeps the database running until the command is interrupted with
Ctrl-C (SIGINT) or SIGTERM. The container is removed afterwards.

The connection string is also written to
~/.cache/gnfixture/NAME.dsn while the fixture is running.

Examples:
  gnfixture up seeded
  psql "$(cat ~/.cache/gnfixture/seeded.dsn)"
  gnfixture up -m ./migrations -m ./fixtures/seed.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFlags(cmd, imageFlag)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runUp(ctx, cmd, &sf, args)
		},
	}

	addSpecFlags(upCmd, &sf)

	return upCmd
}

// runUp starts a fixture and blocks until ctx is done.
func runUp(
	ctx context.Context,
	cmd *cobra.Command,
	sf *specFlags,
	args []string,
) error {
	if !sf.adHoc() && len(args) == 0 {
		err := errors.New("fixture name is required without --migrations or --sql")
		gn.PrintErrorMessage(err)
		return err
	}

	specs, err := sf.specs(args)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	spec := specs[0]
	name := spec.Label()

	fx, err := iofixture.New(cfg, ctrlOpts...).Start(ctx, spec)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	dsnPath, err := iofs.WriteDSN(cfg.HomeDir, name, fx.DSN())
	if err != nil {
		gn.PrintErrorMessage(err)
	} else {
		defer func() {
			if err := iofs.RemoveDSN(cfg.HomeDir, name); err != nil {
				gn.PrintErrorMessage(err)
			}
		}()
	}

	gn.Info("Fixture <em>%s</em> is ready, press Ctrl-C to stop it", name)
	if dsnPath != "" {
		gn.Info("Connection string is saved to <em>%s</em>", dsnPath)
	}
	fmt.Fprintln(cmd.OutOrStdout(), fx.DSN())

	<-ctx.Done()

	gn.Info("Stopping fixture <em>%s</em>...", name)
	if err = fx.Close(context.Background()); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Fixture <em>%s</em> is removed", name)
	return nil
}
