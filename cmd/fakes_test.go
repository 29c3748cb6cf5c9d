package cmd

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gnames/gnfixture/internal/iofixture"
	"github.com/gnames/gnfixture/pkg/config"
	"github.com/gnames/gnfixture/pkg/db"
	"github.com/gnames/gnfixture/pkg/fixture"
	"github.com/gnames/gnfixture/pkg/lifecycle"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errSQL = errors.New("syntax error at or near FAIL")

// engine fakes the container engine and the database for command tests.
// SQL containing "FAIL" fails.
type engine struct {
	mu          sync.Mutex
	starts      int
	stops       int
	tableChecks int
	execs       []string
	startErr    error
	noTables    bool
}

// use makes commands of the test run against e.
func (e *engine) use(t *testing.T, extra ...iofixture.Option) {
	t.Helper()
	prevOpts, prevCfg := ctrlOpts, cfg
	t.Cleanup(func() { ctrlOpts, cfg = prevOpts, prevCfg })

	cfg = config.New()
	ctrlOpts = append([]iofixture.Option{
		iofixture.OptProvisioner(e),
		iofixture.OptConnector(e),
	}, extra...)
}

func (e *engine) Start(context.Context) (lifecycle.Container, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.starts++
	if e.startErr != nil {
		return nil, &fixture.ProvisionError{Image: "postgres", Err: e.startErr}
	}
	return &fakeContainer{e: e}, nil
}

func (e *engine) Connect(
	context.Context,
	*config.DatabaseConfig,
) (db.Operator, error) {
	return &fakeOperator{e: e}, nil
}

func (e *engine) count(p *int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *p
}

type fakeContainer struct {
	e    *engine
	once sync.Once
}

func (c *fakeContainer) Endpoint() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host: "localhost", Port: 55432, User: "postgres",
		Database: "fixture", SSLMode: "disable",
	}
}

func (c *fakeContainer) Stop(context.Context) error {
	c.once.Do(func() {
		c.e.mu.Lock()
		defer c.e.mu.Unlock()
		c.e.stops++
	})
	return nil
}

type fakeOperator struct{ e *engine }

func (o *fakeOperator) exec(sql string) error {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	o.e.execs = append(o.e.execs, strings.TrimSpace(sql))
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
func (o *fakeOperator) Close() error                            { return nil }
func (o *fakeOperator) Pool() *pgxpool.Pool                     { return nil }
func (o *fakeOperator) DSN() string                             { return "postgres://postgres@localhost:55432/fixture" }
func (o *fakeOperator) HasTables(context.Context) (bool, error) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	o.e.tableChecks++
	return !o.e.noTables, nil
}
