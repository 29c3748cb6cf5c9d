package ioconfig_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gnfixture/internal/ioconfig"
	"github.com/gnames/gnfixture/internal/iotesting"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := iotesting.WriteFile(t, dir, "config.yaml", `
container:
  image: postgres:17-alpine
  startup_timeout: 90s
connect:
  max_attempts: 3
  backoff: constant
timeouts:
  teardown: 10s
log:
  level: debug
jobs_number: 2
`)

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres:17-alpine", res.Container.Image)
	assert.Equal(t, 90*time.Second, res.Container.StartupTimeout)
	assert.Equal(t, 3, res.Connect.MaxAttempts)
	assert.Equal(t, "constant", res.Connect.Backoff)
	assert.Equal(t, 10*time.Second, res.Timeouts.Teardown)
	assert.Equal(t, "debug", res.Log.Level)
	assert.Equal(t, 2, res.JobsNumber)

	// unset fields keep defaults after ToOptions
	cfg := config.New()
	cfg.Update(res.ToOptions())
	assert.Equal(t, "postgres", cfg.Container.User)
	assert.Equal(t, 3*time.Minute, cfg.Timeouts.Setup)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Teardown)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := iotesting.WriteFile(t, dir, "config.yaml", `
container:
  image: postgres:17-alpine
`)
	t.Setenv("GNFIXTURE_CONTAINER_IMAGE", "postgres:15")
	t.Setenv("GNFIXTURE_CONNECT_MAX_ATTEMPTS", "7")

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres:15", res.Container.Image)
	assert.Equal(t, 7, res.Connect.MaxAttempts)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("GNFIXTURE_TIMEOUTS_SETUP", "45s")

	res, err := ioconfig.Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Empty(t, res.Container.Image)
	assert.Equal(t, 45*time.Second, res.Timeouts.Setup)
}

func TestLoadMalformedFile(t *testing.T) {
	path := iotesting.WriteFile(t, t.TempDir(), "config.yaml",
		"container: [unclosed")

	_, err := ioconfig.Load(path)
	assert.Error(t, err)
}
