package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gnames/gnfixture/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "gnfixture", cmd.Use,
		"Command name should be gnfixture")
}

// TestGetRootCmd_Subcommands verifies all subcommands
// are registered.
func TestGetRootCmd_Subcommands(t *testing.T) {
	cmd := getRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"list", "check", "up"})
}

// TestGetRootCmd_ShortVersionFlag verifies
// -V flag works.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-V"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "v1.2.3",
		"Version output should work with -V flag")
	assert.Contains(t, output, "abc123",
		"Version output should contain build")
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "gnfixture")
	assert.Contains(t, helpText, "PostgreSQL")
	assert.Contains(t, helpText, "GNFIXTURE_")
}

// TestGetRootCmd_HasPreRun verifies bootstrap
// function is set.
func TestGetRootCmd_HasPreRun(t *testing.T) {
	cmd := getRootCmd()

	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
}

// TestBootstrap verifies home directories, config file
// and environment overrides.
func TestBootstrap(t *testing.T) {
	home := iotesting.SetupTempHome(t)
	t.Setenv("GNFIXTURE_CONTAINER_IMAGE", "postgres:15-alpine")
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	err := bootstrap(getRootCmd(), nil)
	require.NoError(t, err)

	assert.Equal(t, home, cfg.HomeDir)
	assert.Equal(t, "postgres:15-alpine", cfg.Container.Image)
	assert.FileExists(t,
		filepath.Join(home, ".config", "gnfixture", "config.yaml"))
	assert.DirExists(t, filepath.Join(home, ".cache", "gnfixture"))
}
