package iofixture_test

import (
	"context"
	"strings"
	"sync"

	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/db"
	"github.com/gnames/gnfixture/pkg/lifecycle"
	"github.com/jackc/pgx/v5/pgxpool"
)

// stage keeps counters shared by the fake provisioner, container,
// connector and operator of one test.
type stage struct {
	mu sync.Mutex

	starts   int
	stops    int
	connects int
	closes   int
	execs    []string

	startErr   error
	connectErr error
	stopErr    error
	// blockStart makes Start wait for context cancellation.
	blockStart bool
	// holdClose makes operator Close wait until the channel is closed.
	holdClose chan struct{}
}

func (s *stage) count(p *int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *p
}

type fakeProvisioner struct{ s *stage }

func (p fakeProvisioner) Start(ctx context.Context) (lifecycle.Container, error) {
	p.s.mu.Lock()
	p.s.starts++
	err, block := p.s.startErr, p.s.blockStart
	p.s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return &fakeContainer{s: p.s}, nil
}

type fakeContainer struct {
	s    *stage
	once sync.Once
	err  error
}

func (c *fakeContainer) Endpoint() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host: "localhost", Port: 55432, User: "postgres",
		Database: "fixture", SSLMode: "disable",
	}
}

func (c *fakeContainer) Stop(context.Context) error {
	c.once.Do(func() {
		c.s.mu.Lock()
		defer c.s.mu.Unlock()
		c.s.stops++
		c.err = c.s.stopErr
	})
	return c.err
}

type fakeConnector struct{ s *stage }

func (c fakeConnector) Connect(
	context.Context,
	*config.DatabaseConfig,
) (db.Operator, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.connects++
	if c.s.connectErr != nil {
		return nil, c.s.connectErr
	}
	return &fakeOperator{s: c.s}, nil
}

// fakeOperator records executed SQL and fails on SQL containing "FAIL".
type fakeOperator struct{ s *stage }

func (o *fakeOperator) exec(sql string) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	o.s.execs = append(o.s.execs, strings.TrimSpace(sql))
	if strings.Contains(sql, "FAIL") {
		return errSQL
	}
	return nil
}

func (o *fakeOperator) ExecBatch(_ context.Context, sql string) error { return o.exec(sql) }
func (o *fakeOperator) ExecInTx(_ context.Context, sql string) error  { return o.exec(sql) }
func (o *fakeOperator) Connect(context.Context, *config.DatabaseConfig) error {
	return nil
}
func (o *fakeOperator) Close() error {
	o.s.mu.Lock()
	o.s.closes++
	hold := o.s.holdClose
	o.s.mu.Unlock()

	if hold != nil {
		<-hold
	}
	return nil
}
func (o *fakeOperator) Pool() *pgxpool.Pool                     { return nil }
func (o *fakeOperator) DSN() string                             { return "postgres://fake" }
func (o *fakeOperator) HasTables(context.Context) (bool, error) { return true, nil }
