// Package viewstate models the lifecycle of a directory read as an explicit
// state machine. A screen is always in exactly one phase, and "loaded from
// fallback data" is a Loaded state with a fallback origin, distinct from both
// NotFound and Failed. Failed is reserved for conditions the fetch facade
// cannot absorb, such as a cancelled request.
package viewstate

import (
	"fmt"

	"helpy/internal/directory/models"
	dErrors "helpy/pkg/domain-errors"
)

// Phase is the lifecycle phase of one directory read.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseLoaded   Phase = "loaded"
	PhaseNotFound Phase = "not_found"
	PhaseFailed   Phase = "failed"
)

// State is a snapshot of the machine. Origin and Warning are meaningful only
// in PhaseLoaded; Reason only in PhaseFailed.
type State struct {
	Phase   Phase
	Origin  models.Origin
	Warning string
	Reason  string
}

// Machine enforces the legal phase transitions:
//
//	Idle -> Loading
//	Loading -> Loaded | NotFound | Failed
//	Loaded | NotFound | Failed -> Loading (a refresh restarts the cycle)
//
// Machine is not safe for concurrent use; each request gets its own.
type Machine struct {
	state State
}

// NewMachine returns a machine in PhaseIdle.
func NewMachine() *Machine {
	return &Machine{state: State{Phase: PhaseIdle}}
}

// State returns the current snapshot.
func (m *Machine) State() State {
	return m.state
}

// Start moves to PhaseLoading. Legal from any phase except Loading itself.
func (m *Machine) Start() error {
	if m.state.Phase == PhaseLoading {
		return m.illegal(PhaseLoading)
	}
	m.state = State{Phase: PhaseLoading}
	return nil
}

// Loaded records a completed read with its origin and optional warning.
func (m *Machine) Loaded(origin models.Origin, warning string) error {
	if m.state.Phase != PhaseLoading {
		return m.illegal(PhaseLoaded)
	}
	m.state = State{Phase: PhaseLoaded, Origin: origin, Warning: warning}
	return nil
}

// NotFound records that the requested record matched neither remote nor
// fallback data.
func (m *Machine) NotFound() error {
	if m.state.Phase != PhaseLoading {
		return m.illegal(PhaseNotFound)
	}
	m.state = State{Phase: PhaseNotFound}
	return nil
}

// Fail records an unabsorbable failure with its reason.
func (m *Machine) Fail(reason string) error {
	if m.state.Phase != PhaseLoading {
		return m.illegal(PhaseFailed)
	}
	m.state = State{Phase: PhaseFailed, Reason: reason}
	return nil
}

func (m *Machine) illegal(to Phase) error {
	return dErrors.New(dErrors.CodeInternal,
		fmt.Sprintf("illegal view state transition %s -> %s", m.state.Phase, to))
}

// ForList classifies a collection read. The fetch facade absorbs every
// failure on the collection path, so a list read always lands in PhaseLoaded.
func ForList(origin models.Origin, warning string) State {
	m := NewMachine()
	_ = m.Start()
	_ = m.Loaded(origin, warning)
	return m.State()
}

// ForOne classifies a single-record read outcome.
func ForOne(origin models.Origin, warning string, err error) State {
	m := NewMachine()
	_ = m.Start()

	switch {
	case err == nil:
		_ = m.Loaded(origin, warning)
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		_ = m.NotFound()
	default:
		_ = m.Fail(err.Error())
	}
	return m.State()
}
