package svf

import (
	"fmt"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bitvec"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsr"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/tap"
)

// resetClocks is the number of TMS=1 clocks that reach Test-Logic-Reset
// from any state.
const resetClocks = 5

// Bridge drives a downstream TAP through the FPGA boundary register. The FPGA
// must already be in EXTEST when the emitted scans are played.
type Bridge struct {
	prog *Program
	dev  *bsdl.Device
	pins Pins

	// base holds every other pin frozen, the TCK, TMS and TDI drivers on,
	// the TDO driver off and all four data cells low.
	base *bitvec.Vector
	tap  *tap.StateMachine
}

// NewBridge returns a bridge that appends to p. The downstream TAP is
// tracked from Test-Logic-Reset; call ResetTarget before relying on that.
func NewBridge(p *Program, dev *bsdl.Device, pins Pins) (*Bridge, error) {
	base, err := bsr.Frozen(dev)
	if err != nil {
		return nil, fmt.Errorf("svf: bridge: %w", err)
	}
	for _, d := range []struct {
		cell   *bsdl.BoundaryCell
		enable bool
	}{
		{pins.TCK, true},
		{pins.TMS, true},
		{pins.TDI, true},
		{pins.TDO, false},
	} {
		if err := bsr.SetDriver(base, d.cell, d.enable); err != nil {
			return nil, fmt.Errorf("svf: bridge: %w", err)
		}
		if err := base.Set(d.cell.Number, false); err != nil {
			return nil, fmt.Errorf("svf: bridge: %w", err)
		}
	}
	return &Bridge{
		prog: p,
		dev:  dev,
		pins: pins,
		base: base,
		tap:  tap.NewStateMachine(),
	}, nil
}

// Pins returns the bridge cells.
func (b *Bridge) Pins() Pins {
	return b.pins
}

// State returns the tracked state of the downstream TAP.
func (b *Bridge) State() tap.State {
	return b.tap.State()
}

// Idle returns the vector with every bridge signal low, the TDI of value
// checks.
func (b *Bridge) Idle() *bitvec.Vector {
	return b.base.Clone()
}

// Clock emits one downstream clock without checking TDO.
func (b *Bridge) Clock(tms, tdi bool) {
	b.clock(tms, tdi, nil)
}

// ClockExpect emits one downstream clock and checks that TDO reads tdo.
func (b *Bridge) ClockExpect(tms, tdi, tdo bool) {
	b.clock(tms, tdi, &tdo)
}

func (b *Bridge) clock(tms, tdi bool, tdo *bool) {
	expected := "X"
	if tdo != nil {
		expected = bit(*tdo)
	}
	b.prog.Comment("Generated Clock TMS=%s, TDI=%s, Expected TDO=%s", bit(tms), bit(tdi), expected)

	// Cell numbers were checked against the register in NewBridge.
	vec := b.base.Clone()
	_ = vec.Set(b.pins.TMS.Number, tms)
	_ = vec.Set(b.pins.TDI.Number, tdi)
	b.prog.Linef("SDR %d TDI (%s);", b.dev.BoundaryLength, vec.Hex())

	_ = vec.Set(b.pins.TCK.Number, true)
	mask := bitvec.New(b.dev.BoundaryLength)
	_ = mask.Set(b.pins.TMS.Number, true)
	_ = mask.Set(b.pins.TDI.Number, true)
	exp := vec
	if tdo != nil {
		exp = vec.Clone()
		_ = exp.Set(b.pins.TDO.Number, *tdo)
		_ = mask.Set(b.pins.TDO.Number, true)
	}
	b.prog.Linef("SDR %d TDI (%s)\n        TDO (%s)\n        MASK (%s);\n",
		b.dev.BoundaryLength, vec.Hex(), exp.Hex(), mask.Hex())

	b.tap.Clock(tms)
}

// Move walks the downstream TAP between two stable states. It fails with
// ErrTAPState if the TAP is not tracked in from. Moving to the current state
// emits nothing.
func (b *Bridge) Move(from, to tap.StableState) error {
	if got := b.tap.State(); got != from.State() {
		return fmt.Errorf("%w: move %s -> %s from %s", ErrTAPState, from, to, got)
	}
	clocks := tap.Move(from, to)
	if len(clocks) == 0 {
		return nil
	}
	b.prog.Comment("Generated Move %s -> %s", from, to)
	for _, c := range clocks {
		b.Clock(c.TMS, c.TDI)
	}
	return nil
}

// ResetTarget forces the downstream TAP into Test-Logic-Reset from any
// state.
func (b *Bridge) ResetTarget() {
	for i := 0; i < resetClocks; i++ {
		b.Clock(true, false)
	}
}

// SIR shifts an n-bit instruction, given as hex, into the downstream TAP.
func (b *Bridge) SIR(opcode string, n int) error {
	bin, err := bitvec.HexToBin(opcode, n)
	if err != nil {
		return fmt.Errorf("svf: sir %s: %w", opcode, err)
	}
	b.prog.Comment("Generated SIR %s", opcode)
	return b.shift(tap.IRShift, tap.IRPause, bin, "")
}

// SDR shifts n bits of data, given as hex, into the downstream TAP.
func (b *Bridge) SDR(data string, n int) error {
	bin, err := bitvec.HexToBin(data, n)
	if err != nil {
		return fmt.Errorf("svf: sdr %s: %w", data, err)
	}
	b.prog.Comment("Generated SDR %s", data)
	return b.shift(tap.DRShift, tap.DRPause, bin, "")
}

// SDRExpect shifts n bits of data and checks every bit shifted out against
// tdo. mask selects the checked bits; an empty mask checks all of them.
func (b *Bridge) SDRExpect(data, tdo, mask string, n int) error {
	bin, err := bitvec.HexToBin(data, n)
	if err != nil {
		return fmt.Errorf("svf: sdr %s: %w", data, err)
	}
	want, err := bitvec.HexToBin(tdo, n)
	if err != nil {
		return fmt.Errorf("svf: sdr tdo %s: %w", tdo, err)
	}
	if mask != "" {
		m, err := bitvec.HexToBin(mask, n)
		if err != nil {
			return fmt.Errorf("svf: sdr mask %s: %w", mask, err)
		}
		masked := []byte(want)
		for i := range masked {
			if m[i] == '0' {
				masked[i] = 'X'
			}
		}
		want = string(masked)
	}
	b.prog.Comment("Generated SDR %s TDO %s", data, tdo)
	return b.shift(tap.DRShift, tap.DRPause, bin, want)
}

// shift clocks bin from the last character (the least significant bit) to
// the first, raising TMS with the final bit. want holds an expected TDO bit
// per position, 'X' for unchecked, or is empty.
func (b *Bridge) shift(shiftState, pauseState tap.StableState, bin, want string) error {
	if err := b.Move(tap.Idle, shiftState); err != nil {
		return err
	}
	for i := len(bin) - 1; i >= 0; i-- {
		tms := i == 0
		tdi := bin[i] == '1'
		if want == "" || want[i] == 'X' {
			b.Clock(tms, tdi)
		} else {
			b.ClockExpect(tms, tdi, want[i] == '1')
		}
	}
	b.Clock(false, false)
	return b.Move(pauseState, tap.Idle)
}

// ValueCheck samples the FPGA pins once with the bridge idle and compares
// them with exp. The label comment ties failures back to the pin pair.
func (b *Bridge) ValueCheck(pin, fpgaPort string, v bool, exp bsr.Expect) {
	b.prog.Comment("Checking Value")
	b.prog.Comment("[instruction-label] Running-%s-Test: %s <-> %s", bit(v), pin, fpgaPort)
	b.prog.Linef("SDR %d TDI (%s)\n        TDO (%s)\n        MASK (%s);\n",
		b.dev.BoundaryLength, b.base.Hex(), exp.TDO.Hex(), exp.Mask.Hex())
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
