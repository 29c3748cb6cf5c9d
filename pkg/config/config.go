// Package config provides configuration management for gnfixture.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Container: image, user, password, database, ssl_mode, startup_timeout
//   - Connect: max_attempts, backoff, initial_backoff, max_backoff,
//     attempt_timeout
//   - Timeouts: setup, teardown
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNFIXTURE_ prefix with underscores for nesting:
//
//	GNFIXTURE_CONTAINER_IMAGE=postgres:16-alpine
//	GNFIXTURE_CONNECT_MAX_ATTEMPTS=10
//	GNFIXTURE_TIMEOUTS_TEARDOWN=30s
//	GNFIXTURE_LOG_LEVEL=info
package config

import (
	"runtime"
	"time"
)

// Config represents the complete gnfixture configuration.
type Config struct {
	// Container contains settings of the ephemeral database container.
	Container ContainerConfig `mapstructure:"container" yaml:"container"`

	// Connect contains the retry policy used to reach a freshly
	// started database.
	Connect ConnectConfig `mapstructure:"connect" yaml:"connect"`

	// Timeouts bound the whole setup and the teardown of a fixture.
	Timeouts TimeoutsConfig `mapstructure:"timeouts" yaml:"timeouts"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of fixtures the CLI checks concurrently.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// ContainerConfig describes the PostgreSQL container started for every
// fixture.
type ContainerConfig struct {
	// Image is the container image, for example "postgres:16-alpine".
	Image string `mapstructure:"image" yaml:"image"`

	// User is the superuser created inside the container.
	User string `mapstructure:"user" yaml:"user"`

	// Password of the superuser. When empty, a random password is
	// generated for every container.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the name of the database created inside the container.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// StartupTimeout limits how long the engine may take to start the
	// container and expose its port.
	StartupTimeout time.Duration `mapstructure:"startup_timeout" yaml:"startup_timeout"`
}

// ConnectConfig is the retry policy of the connection establisher.
type ConnectConfig struct {
	// MaxAttempts is the total number of connection attempts.
	MaxAttempts int `mapstructure:"max_attempts" yaml:"max_attempts"`

	// Backoff is either "constant" or "exponential".
	Backoff string `mapstructure:"backoff" yaml:"backoff"`

	// InitialBackoff is the delay after the first failed attempt. For the
	// constant policy it is the delay between all attempts.
	InitialBackoff time.Duration `mapstructure:"initial_backoff" yaml:"initial_backoff"`

	// MaxBackoff caps the delay of the exponential policy.
	MaxBackoff time.Duration `mapstructure:"max_backoff" yaml:"max_backoff"`

	// AttemptTimeout bounds a single connection attempt.
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout" yaml:"attempt_timeout"`
}

// TimeoutsConfig bounds the fixture lifecycle.
type TimeoutsConfig struct {
	// Setup is the overall deadline for provisioning, connecting and
	// migrating.
	Setup time.Duration `mapstructure:"setup" yaml:"setup"`

	// Teardown is the deadline for closing the connection and stopping
	// the container. It is independent from the caller's context.
	Teardown time.Duration `mapstructure:"teardown" yaml:"teardown"`
}

// DatabaseConfig contains PostgreSQL connection parameters. The container
// provisioner fills it with the mapped endpoint of a running container.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Container: ContainerConfig{
			Image:          "postgres:16-alpine",
			User:           "postgres",
			Database:       "fixture",
			SSLMode:        "disable",
			StartupTimeout: 60 * time.Second,
		},
		Connect: ConnectConfig{
			MaxAttempts:    10,
			Backoff:        "exponential",
			InitialBackoff: 250 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
			AttemptTimeout: 5 * time.Second,
		},
		Timeouts: TimeoutsConfig{
			Setup:    3 * time.Minute,
			Teardown: 30 * time.Second,
		},
		Log: LogConfig{
			Format:      "text",
			Level:       "info",
			Destination: "stderr",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
