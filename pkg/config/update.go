package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var d time.Duration

	s = c.Container.Image
	if s != "" {
		res = append(res, OptContainerImage(s))
	}
	s = c.Container.User
	if s != "" {
		res = append(res, OptContainerUser(s))
	}
	s = c.Container.Password
	if s != "" {
		res = append(res, OptContainerPassword(s))
	}
	s = c.Container.Database
	if s != "" {
		res = append(res, OptContainerDatabase(s))
	}
	s = c.Container.SSLMode
	if s != "" {
		res = append(res, OptContainerSSLMode(s))
	}
	d = c.Container.StartupTimeout
	if d > 0 {
		res = append(res, OptContainerStartupTimeout(d))
	}

	i = c.Connect.MaxAttempts
	if i > 0 {
		res = append(res, OptConnectMaxAttempts(i))
	}
	s = c.Connect.Backoff
	if s != "" {
		res = append(res, OptConnectBackoff(s))
	}
	d = c.Connect.InitialBackoff
	if d > 0 {
		res = append(res, OptConnectInitialBackoff(d))
	}
	d = c.Connect.MaxBackoff
	if d > 0 {
		res = append(res, OptConnectMaxBackoff(d))
	}
	d = c.Connect.AttemptTimeout
	if d > 0 {
		res = append(res, OptConnectAttemptTimeout(d))
	}

	d = c.Timeouts.Setup
	if d > 0 {
		res = append(res, OptTimeoutsSetup(d))
	}
	d = c.Timeouts.Teardown
	if d > 0 {
		res = append(res, OptTimeoutsTeardown(d))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration) bool {
	res := d > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive duration, ignoring %s", name, d)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Container.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Connect.Backoff": {"constant": s, "exponential": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
