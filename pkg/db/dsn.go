package db

import (
	"fmt"
	"net/url"

	"github.com/gnames/gnfixture/pkg/config"
)

// DSN builds a postgres:// connection string from connection parameters.
// User and password are escaped, random passwords may contain any byte.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}
