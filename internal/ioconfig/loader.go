// Package ioconfig loads gnfixture settings from config.yaml and
// environment variables, and fixture declarations from fixtures.yaml.
// This is an impure package that handles file system operations.
package ioconfig

import (
	"os"
	"strings"

	"github.com/gnames/gnfixture/internal/iofs"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override
// config.yaml settings.
const EnvPrefix = "GNFIXTURE"

// Load reads config.yaml at cfgPath and applies GNFIXTURE_* environment
// variables on top of it. A missing file is not an error: only
// environment variables are used then. Fields that are not set stay
// zero; they are meant to be applied to config.New() via ToOptions().
func Load(cfgPath string) (*config.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	initEnvVars(v)

	if _, err := os.Stat(cfgPath); err == nil {
		v.SetConfigFile(cfgPath)
		if err = v.ReadInConfig(); err != nil {
			return nil, iofs.ReadFileError(cfgPath, err)
		}
	}

	var res config.Config
	if err := v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Container configuration
	v.BindEnv("container.image", "CONTAINER_IMAGE")
	v.BindEnv("container.user", "CONTAINER_USER")
	v.BindEnv("container.password", "CONTAINER_PASSWORD")
	v.BindEnv("container.database", "CONTAINER_DATABASE")
	v.BindEnv("container.ssl_mode", "CONTAINER_SSL_MODE")
	v.BindEnv("container.startup_timeout", "CONTAINER_STARTUP_TIMEOUT")

	// Connection retry policy
	v.BindEnv("connect.max_attempts", "CONNECT_MAX_ATTEMPTS")
	v.BindEnv("connect.backoff", "CONNECT_BACKOFF")
	v.BindEnv("connect.initial_backoff", "CONNECT_INITIAL_BACKOFF")
	v.BindEnv("connect.max_backoff", "CONNECT_MAX_BACKOFF")
	v.BindEnv("connect.attempt_timeout", "CONNECT_ATTEMPT_TIMEOUT")

	// Lifecycle timeouts
	v.BindEnv("timeouts.setup", "TIMEOUTS_SETUP")
	v.BindEnv("timeouts.teardown", "TIMEOUTS_TEARDOWN")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "JOBS_NUMBER")

	v.AutomaticEnv()
}
