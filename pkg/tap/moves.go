package tap

import (
	"fmt"
	"strings"
)

// StableState is a state an SVF STATE/ENDIR/ENDDR statement may name and in
// which the TAP can be parked between scans.
type StableState uint8

const (
	Reset StableState = iota
	Idle
	DRPause
	IRPause
	DRShift
	IRShift

	numStableStates
)

var stableNames = [numStableStates]string{"RESET", "IDLE", "DRPAUSE", "IRPAUSE", "DRSHIFT", "IRSHIFT"}

var stableStates = [numStableStates]State{
	StateTestLogicReset, StateRunTestIdle, StatePauseDR, StatePauseIR, StateShiftDR, StateShiftIR,
}

// StableStates lists every StableState in declaration order.
func StableStates() []StableState {
	return []StableState{Reset, Idle, DRPause, IRPause, DRShift, IRShift}
}

// String returns the SVF spelling.
func (s StableState) String() string {
	if s >= numStableStates {
		return fmt.Sprintf("StableState(%d)", s)
	}
	return stableNames[s]
}

// State returns the TAP controller state s names.
func (s StableState) State() State {
	s.mustValid()
	return stableStates[s]
}

// ParseStableState accepts an SVF state name, ignoring case.
func ParseStableState(name string) (StableState, error) {
	for i, n := range stableNames {
		if strings.EqualFold(n, name) {
			return StableState(i), nil
		}
	}
	return 0, fmt.Errorf("tap: unknown stable state %q", name)
}

func (s StableState) mustValid() {
	if s >= numStableStates {
		panic(fmt.Sprintf("tap: invalid stable state %d", s))
	}
}

// Clock is one TCK cycle as seen by the target: the TMS and TDI levels
// sampled on the rising edge.
type Clock struct {
	TMS bool
	TDI bool
}

// moves holds the TMS pattern for every pair of stable states, indexed
// [from][to]. TDI is held low while moving.
var moves = [numStableStates][numStableStates]string{
	Reset:   {Reset: "", Idle: "0", DRPause: "01010", IRPause: "011010", DRShift: "0100", IRShift: "01100"},
	Idle:    {Reset: "111", Idle: "", DRPause: "1010", IRPause: "11010", DRShift: "100", IRShift: "1100"},
	DRPause: {Reset: "11111", Idle: "110", DRPause: "", IRPause: "1111010", DRShift: "10", IRShift: "111100"},
	IRPause: {Reset: "11111", Idle: "110", DRPause: "111010", IRPause: "", DRShift: "11100", IRShift: "10"},
	DRShift: {Reset: "11111", Idle: "110", DRPause: "111010", IRPause: "1111010", DRShift: "", IRShift: "111100"},
	IRShift: {Reset: "11111", Idle: "110", DRPause: "111010", IRPause: "1111010", DRShift: "11100", IRShift: ""},
}

// Move returns the clocks that take the TAP from one stable state to
// another. Moving to the current state yields no clocks. Both arguments must
// be valid StableState values.
func Move(from, to StableState) []Clock {
	from.mustValid()
	to.mustValid()
	pattern := moves[from][to]
	if pattern == "" {
		return nil
	}
	out := make([]Clock, len(pattern))
	for i := range pattern {
		out[i] = Clock{TMS: pattern[i] == '1'}
	}
	return out
}

// Apply clocks every TMS value of clocks into the machine.
func (m *StateMachine) Apply(clocks []Clock) Sequence {
	seq := Sequence{
		TMS:    make([]bool, len(clocks)),
		States: make([]State, 0, len(clocks)+1),
	}
	seq.States = append(seq.States, m.state)
	for i, c := range clocks {
		seq.TMS[i] = c.TMS
		seq.States = append(seq.States, m.Clock(c.TMS))
	}
	return seq
}
