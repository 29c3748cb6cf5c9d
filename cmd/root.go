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
	"log/slog"
	"os"

	"github.com/gnames/gn"
	"github.com/gnames/gnfixture/internal/ioconfig"
	"github.com/gnames/gnfixture/internal/iofixture"
	"github.com/gnames/gnfixture/internal/iofs"
	"github.com/gnames/gnfixture/internal/iologger"
	gnfixture "github.com/gnames/gnfixture/pkg"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/spf13/cobra"
)

var (
	homeDir string
	opts    []config.Option
	cfg     = config.New()

	// ctrlOpts are passed to every controller created by subcommands.
	ctrlOpts []iofixture.Option
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", gnfixture.Version, gnfixture.Build,
		),
		Use:   "gnfixture",
		Short: "GNfixture runs disposable PostgreSQL databases for tests",
		Long: `GNfixture starts a throw-away PostgreSQL container for every fixture,
connects to it with retries, applies migration directories and SQL scripts
in declared order and always removes the container afterwards.

Fixtures are declared in fixtures.yaml:

  fixtures:
    - name: seeded
      migrations: ["./migrations", "./fixtures/seed.sql"]
      sql: "INSERT INTO dummy (value) VALUES ('extra');"

or ad hoc with --migrations and --sql.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNFIXTURE_*)
  3. Config file (~/.config/gnfixture/config.yaml)
  4. Built-in defaults

Environment Variables:
  GNFIXTURE_CONTAINER_IMAGE        PostgreSQL image
  GNFIXTURE_CONNECT_MAX_ATTEMPTS   Connection attempts before giving up
  GNFIXTURE_TIMEOUTS_SETUP         Deadline for provisioning and migrations
  GNFIXTURE_LOG_LEVEL              Log level (debug/info/warn/error)`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnfixture version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnfixture")

	rootCmd.AddCommand(getListCmd())
	rootCmd.AddCommand(getCheckCmd())
	rootCmd.AddCommand(getUpCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	cfgPath := config.ConfigFilePath(homeDir)
	if cfgViper, err = ioconfig.Load(cfgPath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", cfgPath)

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute runs the root command. Infrastructure failures (container engine,
// unreachable database) exit with code 2, all other failures with code 1.
func Execute() {
	err := getRootCmd().Execute()
	if err == nil {
		return
	}
	if fixture.IsInfrastructure(err) {
		os.Exit(2)
	}
	os.Exit(1)
}
