// Package ioconnect establishes a connection to a database that is still
// starting. It implements lifecycle.Connector with a bounded retry policy.
package ioconnect

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gnames/gnfixture/internal/iodb"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/db"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
)

// Option configures a connector.
type Option func(*connector)

// OptOperatorFactory replaces the function that creates a fresh operator
// for every attempt. The default is iodb.NewPgxOperator.
func OptOperatorFactory(fn func() db.Operator) Option {
	return func(c *connector) {
		if fn != nil {
			c.newOperator = fn
		}
	}
}

type connector struct {
	cfg         config.ConnectConfig
	newOperator func() db.Operator
}

// New creates a Connector that follows the retry policy of cfg.
func New(cfg config.ConnectConfig, opts ...Option) lifecycle.Connector {
	res := &connector{
		cfg:         cfg,
		newOperator: iodb.NewPgxOperator,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Connect tries to connect until it succeeds, the attempts are spent or
// ctx is done. Failed attempts are logged at debug level. Only exhaustion
// is an error, reported as *fixture.ConnectionTimeoutError.
func (c *connector) Connect(
	ctx context.Context,
	dbCfg *config.DatabaseConfig,
) (db.Operator, error) {
	start := time.Now()

	var op db.Operator
	var attempts int
	var lastErr error

	operation := func() error {
		attempts++
		candidate := c.newOperator()

		actx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()

		if err := candidate.Connect(actx, dbCfg); err != nil {
			_ = candidate.Close()
			lastErr = err
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		op = candidate
		return nil
	}

	notify := func(err error, next time.Duration) {
		slog.Debug("Database is not ready",
			"host", dbCfg.Host,
			"port", dbCfg.Port,
			"attempt", attempts,
			"retry_in", next,
			"error", err,
		)
	}

	err := backoff.RetryNotify(operation, c.policy(ctx), notify)
	if err != nil {
		return nil, &fixture.ConnectionTimeoutError{
			Host:     dbCfg.Host,
			Port:     dbCfg.Port,
			Attempts: attempts,
			Elapsed:  time.Since(start),
			Err:      errors.Join(lastErr, ctx.Err()),
		}
	}

	slog.Debug("Connected to database",
		"host", dbCfg.Host,
		"port", dbCfg.Port,
		"attempts", attempts,
	)
	return op, nil
}

func (c *connector) policy(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff
	switch c.cfg.Backoff {
	case "constant":
		b = backoff.NewConstantBackOff(c.cfg.InitialBackoff)
	default:
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = c.cfg.InitialBackoff
		eb.MaxInterval = c.cfg.MaxBackoff
		// the number of attempts bounds the retries
		eb.MaxElapsedTime = 0
		eb.Reset()
		b = eb
	}

	retries := c.cfg.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}
