package config

import (
	"strings"
	"time"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptContainerImage sets the image of the database container.
func OptContainerImage(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Container Image", s) {
			c.Container.Image = s
		}
	}
}

// OptContainerUser sets the superuser created inside the container.
func OptContainerUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Container User", s) {
			c.Container.User = s
		}
	}
}

// OptContainerPassword sets a fixed superuser password. Without it every
// container gets a random one.
func OptContainerPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Container Password", s) {
			c.Container.Password = s
		}
	}
}

// OptContainerDatabase sets the database created inside the container.
func OptContainerDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Container Database", s) {
			c.Container.Database = s
		}
	}
}

// OptContainerSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptContainerSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Container.SSLMode", s) {
			c.Container.SSLMode = s
		}
	}
}

// OptContainerStartupTimeout limits the time the engine may spend
// starting the container.
func OptContainerStartupTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Container Startup Timeout", d) {
			c.Container.StartupTimeout = d
		}
	}
}

// OptConnectMaxAttempts sets the total number of connection attempts.
func OptConnectMaxAttempts(i int) Option {
	return func(c *Config) {
		if isValidInt("Connect Max Attempts", i) {
			c.Connect.MaxAttempts = i
		}
	}
}

// OptConnectBackoff sets the retry policy.
// Valid values: "constant", "exponential".
func OptConnectBackoff(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Connect.Backoff", s) {
			c.Connect.Backoff = s
		}
	}
}

// OptConnectInitialBackoff sets the delay after the first failed attempt.
func OptConnectInitialBackoff(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Connect Initial Backoff", d) {
			c.Connect.InitialBackoff = d
		}
	}
}

// OptConnectMaxBackoff caps the exponential delay between attempts.
func OptConnectMaxBackoff(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Connect Max Backoff", d) {
			c.Connect.MaxBackoff = d
		}
	}
}

// OptConnectAttemptTimeout bounds a single connection attempt.
func OptConnectAttemptTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Connect Attempt Timeout", d) {
			c.Connect.AttemptTimeout = d
		}
	}
}

// OptTimeoutsSetup sets the overall deadline of provisioning, connecting
// and migrating.
func OptTimeoutsSetup(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Setup Timeout", d) {
			c.Timeouts.Setup = d
		}
	}
}

// OptTimeoutsTeardown sets the deadline of the teardown.
func OptTimeoutsTeardown(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Teardown Timeout", d) {
			c.Timeouts.Teardown = d
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets how many fixtures the CLI checks concurrently.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
