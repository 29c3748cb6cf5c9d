package fixture

import "time"

// ApplyResult records what happened to one migration unit. Results are
// transient diagnostics, they are never persisted.
type ApplyResult struct {
	// Index is the zero-based position of the unit.
	Index  int    `json:"index"`
	Unit   string `json:"unit"`
	Kind   Kind   `json:"kind"`
	Digest string `json:"digest"`
	// Steps lists applied steps of a migration set in execution order.
	Steps    []string      `json:"steps,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// OK reports whether the unit was applied without error.
func (r ApplyResult) OK() bool {
	return r.Err == nil
}
