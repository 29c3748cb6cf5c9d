package fixture

import (
	"fmt"
	"sync"
)

// State is a stage of the fixture lifecycle.
type State int

const (
	Idle State = iota
	Provisioning
	Connecting
	Migrating
	Ready
	Running
	TearingDown
	Closed
)

var stateNames = [...]string{
	Idle:         "idle",
	Provisioning: "provisioning",
	Connecting:   "connecting",
	Migrating:    "migrating",
	Ready:        "ready",
	Running:      "running",
	TearingDown:  "tearing-down",
	Closed:       "closed",
}

func (s State) String() string {
	if s < Idle || s > Closed {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves the state.
func (s State) Terminal() bool {
	return s == Closed
}

// CanTransition reports whether the lifecycle allows moving from one state
// to another. Every non-terminal state may move to TearingDown.
func CanTransition(from, to State) bool {
	if to == TearingDown {
		return !from.Terminal() && from != TearingDown
	}
	switch from {
	case Idle:
		return to == Provisioning
	case Provisioning:
		return to == Connecting
	case Connecting:
		return to == Migrating
	case Migrating:
		return to == Ready
	case Ready:
		return to == Running
	case TearingDown:
		return to == Closed
	}
	return false
}

// TransitionFunc observes lifecycle transitions.
type TransitionFunc func(label string, from, to State)

// Machine tracks the lifecycle state of one fixture. It is safe for
// concurrent use, although a fixture is driven by a single goroutine.
type Machine struct {
	mu      sync.Mutex
	label   string
	state   State
	observe TransitionFunc
}

// NewMachine creates a machine in the Idle state. The observer may be nil.
func NewMachine(label string, observe TransitionFunc) *Machine {
	return &Machine{label: label, observe: observe}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// To moves the machine to a new state, or returns an error if the
// lifecycle does not allow the transition.
func (m *Machine) To(to State) error {
	m.mu.Lock()
	from := m.state
	if !CanTransition(from, to) {
		m.mu.Unlock()
		return fmt.Errorf("fixture %q: illegal transition %s -> %s",
			m.label, from, to)
	}
	m.state = to
	m.mu.Unlock()

	if m.observe != nil {
		m.observe(m.label, from, to)
	}
	return nil
}
