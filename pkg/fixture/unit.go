package fixture

import (
	"strings"

	"github.com/gnames/gnuuid"
)

// Kind tags a migration unit.
type Kind int

const (
	UnknownKind Kind = iota
	// MigrationSetKind is a directory of versioned migration steps.
	MigrationSetKind
	// RawScriptKind is a literal block of SQL.
	RawScriptKind
)

func (k Kind) String() string {
	switch k {
	case MigrationSetKind:
		return "migration-set"
	case RawScriptKind:
		return "raw-script"
	default:
		return "unknown"
	}
}

// Unit is a resolved migration unit. It is a closed sum type: the only
// implementations are *MigrationSet and *RawScript.
type Unit interface {
	// Name identifies the unit in logs and errors, usually its path.
	Name() string
	// Kind returns the tag of the unit.
	Kind() Kind
	// Digest is a UUID v5 of the unit content.
	Digest() string

	unit()
}

// Step is one versioned migration inside a MigrationSet.
type Step struct {
	Version string
	Name    string
	SQL     string
}

// ID returns "<version>_<name>", the identity used in reports.
func (s Step) ID() string {
	if s.Name == "" {
		return s.Version
	}
	return s.Version + "_" + s.Name
}

// MigrationSet is an ordered collection of steps loaded from a directory.
// Steps are already ordered by the migration naming convention and must
// not be reordered.
type MigrationSet struct {
	Path  string
	Steps []Step
}

func (m *MigrationSet) Name() string { return m.Path }

func (m *MigrationSet) Kind() Kind { return MigrationSetKind }

func (m *MigrationSet) Digest() string {
	var sb strings.Builder
	for _, s := range m.Steps {
		sb.WriteString(s.ID())
		sb.WriteByte(0)
		sb.WriteString(s.SQL)
		sb.WriteByte(0)
	}
	return gnuuid.New(sb.String()).String()
}

func (m *MigrationSet) unit() {}

// TrailingOrigin is the name given to the raw SQL declared directly in a
// Spec.
const TrailingOrigin = "<sql>"

// RawScript is a literal block of SQL executed as a single batch.
type RawScript struct {
	// Origin is the path of the script file, or TrailingOrigin.
	Origin string
	SQL    string
}

func (r *RawScript) Name() string { return r.Origin }

func (r *RawScript) Kind() Kind { return RawScriptKind }

func (r *RawScript) Digest() string {
	return gnuuid.New(r.SQL).String()
}

func (r *RawScript) unit() {}
