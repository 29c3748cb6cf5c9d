package fixture

import (
	"errors"
	"fmt"
	"time"
)

// Category groups lifecycle errors for triage.
type Category string

const (
	// ConfigCategory errors are bugs in the fixture declaration.
	ConfigCategory Category = "config"
	// InfrastructureCategory errors come from the container engine or the
	// network, not from migration content.
	InfrastructureCategory Category = "infrastructure"
	// MigrationCategory errors come from a migration or script.
	MigrationCategory Category = "migration"
	// TeardownCategory errors happen while releasing resources.
	TeardownCategory Category = "teardown"
)

// StageError is implemented by every lifecycle error.
type StageError interface {
	error
	// Stage is the lifecycle state in which the error happened.
	Stage() State
	// Category tells infrastructure failures from content failures.
	Category() Category
}

// InvalidSourceError means a migration source descriptor names neither a
// usable directory nor a usable file, or the Spec has no sources at all.
type InvalidSourceError struct {
	// Index is the zero-based position of the descriptor, -1 when the
	// error is about the Spec as a whole.
	Index  int
	Path   string
	Reason string
	Err    error
}

func (e *InvalidSourceError) Error() string {
	msg := "[config] "
	if e.Index >= 0 {
		msg += fmt.Sprintf("migration source #%d", e.Index+1)
		if e.Path != "" {
			msg += fmt.Sprintf(" (%s)", e.Path)
		}
		msg += ": "
	}
	msg += e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidSourceError) Unwrap() error { return e.Err }

func (e *InvalidSourceError) Stage() State { return Idle }

func (e *InvalidSourceError) Category() Category { return ConfigCategory }

// ProvisionError means the container engine could not start the database.
type ProvisionError struct {
	Image string
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("[infrastructure] cannot provision %s: %v", e.Image, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

func (e *ProvisionError) Stage() State { return Provisioning }

func (e *ProvisionError) Category() Category { return InfrastructureCategory }

// ConnectionTimeoutError means the database did not accept a connection
// within the retry budget.
type ConnectionTimeoutError struct {
	Host     string
	Port     int
	Attempts int
	Elapsed  time.Duration
	// Err is the error of the last attempt.
	Err error
}

func (e *ConnectionTimeoutError) Error() string {
	return fmt.Sprintf(
		"[infrastructure] database at %s:%d not reachable after %d attempt(s) in %s: %v",
		e.Host, e.Port, e.Attempts, e.Elapsed.Round(time.Millisecond), e.Err,
	)
}

func (e *ConnectionTimeoutError) Unwrap() error { return e.Err }

func (e *ConnectionTimeoutError) Stage() State { return Connecting }

func (e *ConnectionTimeoutError) Category() Category { return InfrastructureCategory }

// MigrationError identifies the unit (and step, for migration sets) that
// failed. Units after it were not executed.
type MigrationError struct {
	// Index is the zero-based position of the failed unit.
	Index int
	Unit  string
	Kind  Kind
	// Step is the failed step of a migration set, empty for raw scripts.
	Step string
	Err  error
}

func (e *MigrationError) Error() string {
	msg := fmt.Sprintf("[migration] %s #%d (%s)", e.Kind, e.Index+1, e.Unit)
	if e.Step != "" {
		msg += fmt.Sprintf(" step %s", e.Step)
	}
	return msg + fmt.Sprintf(": %v", e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

func (e *MigrationError) Stage() State { return Migrating }

func (e *MigrationError) Category() Category { return MigrationCategory }

// TeardownError means closing the connection or stopping the container
// failed. It never replaces an earlier error.
type TeardownError struct {
	Err error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("[teardown] %v", e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }

func (e *TeardownError) Stage() State { return TearingDown }

func (e *TeardownError) Category() Category { return TeardownCategory }

// CategoryOf returns the category of a lifecycle error, or an empty
// category for errors that did not come from the lifecycle, such as errors
// returned by a test body.
func CategoryOf(err error) Category {
	var se StageError
	if errors.As(err, &se) {
		return se.Category()
	}
	return ""
}

// IsInfrastructure reports whether err was caused by the container engine
// or by an unreachable database.
func IsInfrastructure(err error) bool {
	return CategoryOf(err) == InfrastructureCategory
}
