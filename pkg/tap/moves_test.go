package tap

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tmsString(clocks []Clock) string {
	var b strings.Builder
	for _, c := range clocks {
		if c.TDI {
			b.WriteByte('?')
			continue
		}
		if c.TMS {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func TestMoveReachesTarget(t *testing.T) {
	for _, from := range StableStates() {
		for _, to := range StableStates() {
			m := NewStateMachineAt(from.State())
			seq := m.Apply(Move(from, to))
			if m.State() != to.State() {
				t.Errorf("Move(%s, %s) = %s ends in %s, want %s",
					from, to, tmsString(Move(from, to)), m.State(), to.State())
			}
			if len(seq.States) != len(seq.TMS)+1 {
				t.Errorf("Move(%s, %s): %d states for %d clocks", from, to, len(seq.States), len(seq.TMS))
			}
		}
	}
}

func TestMoveSameStateIsEmpty(t *testing.T) {
	for _, s := range StableStates() {
		if got := Move(s, s); len(got) != 0 {
			t.Errorf("Move(%s, %s) = %s, want no clocks", s, s, tmsString(got))
		}
	}
}

func TestMoveKnownSequences(t *testing.T) {
	cases := []struct {
		from, to StableState
		want     string
	}{
		{Idle, DRShift, "100"},
		{Idle, IRShift, "1100"},
		{DRShift, Reset, "11111"},
		{IRPause, Idle, "110"},
		{DRPause, Idle, "110"},
		{Reset, Idle, "0"},
		{Reset, IRPause, "011010"},
		{Idle, Reset, "111"},
		{DRPause, IRPause, "1111010"},
		{DRShift, IRShift, "111100"},
		{IRShift, DRShift, "11100"},
	}
	for _, tc := range cases {
		if got := tmsString(Move(tc.from, tc.to)); got != tc.want {
			t.Errorf("Move(%s, %s) = %s, want %s", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestMoveComposesFromIdle(t *testing.T) {
	// IDLE -> DRSHIFT -> IDLE leaves the TAP where a fresh IDLE -> IRSHIFT
	// behaves exactly as it would without the detour.
	m := NewStateMachineAt(StateRunTestIdle)
	m.Apply(Move(Idle, DRShift))
	m.Apply(Move(DRShift, Idle))
	if m.State() != StateRunTestIdle {
		t.Fatalf("detour ended in %s", m.State())
	}

	fresh := NewStateMachineAt(StateRunTestIdle).Apply(Move(Idle, IRShift))
	again := m.Apply(Move(Idle, IRShift))
	if diff := cmp.Diff(fresh, again); diff != "" {
		t.Fatalf("IDLE->IRSHIFT differs after detour (-fresh +detour):\n%s", diff)
	}
}

func TestMoveHoldsTDILow(t *testing.T) {
	for _, from := range StableStates() {
		for _, to := range StableStates() {
			for _, c := range Move(from, to) {
				if c.TDI {
					t.Fatalf("Move(%s, %s) drives TDI high", from, to)
				}
			}
		}
	}
}

func TestMovePanicsOnInvalidState(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Move(Idle, StableState(17))
}

func TestParseStableState(t *testing.T) {
	for _, s := range StableStates() {
		got, err := ParseStableState(strings.ToLower(s.String()))
		if err != nil {
			t.Fatalf("ParseStableState(%s): %v", s, err)
		}
		if got != s {
			t.Fatalf("ParseStableState(%s) = %s", s, got)
		}
	}
	if _, err := ParseStableState("UPDATEDR"); err == nil {
		t.Fatal("expected error for non-stable state")
	}
}
