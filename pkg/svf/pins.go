package svf

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
)

var (
	// ErrBridgePin is returned when an FPGA port cannot carry a bridged
	// JTAG signal.
	ErrBridgePin = errors.New("svf: unusable bridge pin")
	// ErrTAPState is returned when a bridged move does not start from the
	// state the downstream TAP is tracked in.
	ErrTAPState = errors.New("svf: downstream TAP in unexpected state")
)

// PinNames are the FPGA ports wired to the downstream JTAG signals.
type PinNames struct {
	TCK, TMS, TDO, TDI string
}

// DefaultPinNames returns the wiring of the ECP5 board.
func DefaultPinNames() PinNames {
	return PinNames{TCK: "PL24B", TMS: "PL24A", TDO: "PL23D", TDI: "PB13B"}
}

// Pins are the FPGA boundary cells that carry the downstream JTAG signals.
type Pins struct {
	TCK, TMS, TDO, TDI *bsdl.BoundaryCell
}

// ResolvePins looks up the four bridge ports on dev. Each must be a single
// data cell with a control cell and known enable and disable values, and no
// two may share a cell.
func ResolvePins(dev *bsdl.Device, names PinNames) (Pins, error) {
	var pins Pins
	for _, p := range []struct {
		signal string
		port   string
		dst    **bsdl.BoundaryCell
	}{
		{"TCK", names.TCK, &pins.TCK},
		{"TMS", names.TMS, &pins.TMS},
		{"TDO", names.TDO, &pins.TDO},
		{"TDI", names.TDI, &pins.TDI},
	} {
		c, err := dev.CellForPort(p.port)
		if err != nil {
			return Pins{}, fmt.Errorf("%w: %s: %w", ErrBridgePin, p.signal, err)
		}
		if !c.HasControl() {
			return Pins{}, fmt.Errorf("%w: %s on %s has no output control", ErrBridgePin, p.signal, p.port)
		}
		*p.dst = c
	}

	seen := make(map[int]bool, 8)
	for _, c := range []*bsdl.BoundaryCell{pins.TCK, pins.TMS, pins.TDO, pins.TDI} {
		if seen[c.Number] || seen[c.Control] {
			return Pins{}, fmt.Errorf("%w: cell %d used twice", ErrBridgePin, c.Number)
		}
		seen[c.Number] = true
		seen[c.Control] = true
	}
	return pins, nil
}

// Cells returns the data cell numbers of the four pins.
func (p Pins) Cells() []int {
	return []int{p.TCK.Number, p.TMS.Number, p.TDO.Number, p.TDI.Number}
}
