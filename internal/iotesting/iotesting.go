// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnfixture/internal/iocontainer"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/testcontainers/testcontainers-go"
)

// RequireDocker skips the test in short mode or when no container
// provider is reachable.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    iotesting.RequireDocker(t)
//	    // ... start containers
//	}
func RequireDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// StartPostgres starts a PostgreSQL container with default settings and
// returns its endpoint. The container is stopped when the test ends.
func StartPostgres(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	RequireDocker(t)

	ctx := context.Background()
	c, err := iocontainer.New(config.New().Container).Start(ctx)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			t.Logf("Failed to stop postgres container: %v", err)
		}
	})

	ep := c.Endpoint()
	return &ep
}

// SetupTempHome creates a temporary home directory for config, cache
// and log files. It is removed automatically when the test finishes.
func SetupTempHome(t testing.TB) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// WriteMigration writes up.sql of a nested migration step
// "<version>_<name>" into dir and returns the step directory.
//
// Usage:
//
//	dir := t.TempDir()
//	iotesting.WriteMigration(t, dir, "20240101000000", "create_dummy",
//	    "CREATE TABLE dummy (id SERIAL PRIMARY KEY, value TEXT NOT NULL);")
func WriteMigration(t testing.TB, dir, version, name, sql string) string {
	t.Helper()

	stepDir := filepath.Join(dir, version+"_"+name)
	if err := os.MkdirAll(stepDir, 0755); err != nil {
		t.Fatalf("Failed to create migration dir: %v", err)
	}
	WriteFile(t, stepDir, "up.sql", sql)
	return stepDir
}

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
