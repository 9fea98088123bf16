package bsr

import (
	"fmt"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bitvec"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/pinmap"
)

// PinCheck returns the FPGA-side expectation after the microcontroller has
// driven pin to v with MCDrive. Every mapped FPGA cell is checked: pin's cell
// must read v and all others the complement. Cells listed in skip (the JTAG
// bridge) and the ResetPin entry are left unmasked.
func PinCheck(fpga *bsdl.Device, table *pinmap.Table, skip []int, pin string, v bool) (Expect, error) {
	if _, err := table.Get(pin); err != nil {
		return Expect{}, fmt.Errorf("bsr: pin check: %w", err)
	}
	skipped := make(map[int]bool, len(skip))
	for _, n := range skip {
		skipped[n] = true
	}

	tdo := bitvec.New(fpga.BoundaryLength)
	mask := bitvec.New(fpga.BoundaryLength)
	for _, e := range table.Entries() {
		if e.Pin == ResetPin {
			continue
		}
		c, err := fpga.CellForPort(e.FPGA)
		if err != nil {
			return Expect{}, fmt.Errorf("bsr: pin check: %s -> %s: %w", e.Pin, e.FPGA, err)
		}
		if skipped[c.Number] {
			continue
		}
		if err := tdo.Set(c.Number, (e.Pin == pin) == v); err != nil {
			return Expect{}, err
		}
		if err := mask.Set(c.Number, true); err != nil {
			return Expect{}, err
		}
	}
	return Expect{TDO: tdo, Mask: mask}, nil
}
