package bsdl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bitvec"
)

var (
	// ErrPortNotFound is returned when no boundary cell carries the port.
	ErrPortNotFound = errors.New("bsdl: port not found")
	// ErrAmbiguousPort is returned when a port resolves to more than one
	// data cell.
	ErrAmbiguousPort = errors.New("bsdl: port maps to more than one cell")
	// ErrInstructionNotFound is returned for an unknown instruction mnemonic.
	ErrInstructionNotFound = errors.New("bsdl: instruction not found")
	// ErrInvalidDevice is returned by Validate.
	ErrInvalidDevice = errors.New("bsdl: invalid device")
)

// Cell functions used by the vector composers.
const (
	FunctionInternal    = "INTERNAL"
	FunctionObserveOnly = "OBSERVE_ONLY"
	FunctionControl     = "CONTROL"
	FunctionControlR    = "CONTROLR"
	FunctionInput       = "INPUT"
	FunctionOutput2     = "OUTPUT2"
	FunctionOutput3     = "OUTPUT3"
	FunctionBidir       = "BIDIR"
)

// InternalPort is the port name of cells that are not bonded to a pin.
const InternalPort = "*"

// BoundaryCell is one bit of a device's boundary-scan register.
type BoundaryCell struct {
	Number   int    // position in the register, 0 is closest to TDO
	CellType string // BC_1, BC_7, ...
	Port     string // pin name or "*"
	Function string // uppercase, e.g. OUTPUT3
	Safe     string // "0", "1" or "X"

	Control       int // controlling cell, -1 if none
	Enable        int // value written to Control to enable the driver, -1 if unknown
	Disable       int // value written to Control to disable the driver, -1 if unknown
	DisableResult string
}

// HasControl reports whether the cell's driver is gated by a control cell
// with known enable and disable values.
func (c *BoundaryCell) HasControl() bool {
	return c.Control >= 0 && c.Enable >= 0 && c.Disable >= 0
}

// HasDisableSpec reports whether the control cell, disable value and
// disable result are all present.
func (c *BoundaryCell) HasDisableSpec() bool {
	return c.HasControl() && c.DisableResult != ""
}

// IsInternal reports whether the cell is not bonded to a pin.
func (c *BoundaryCell) IsInternal() bool {
	return c.Port == InternalPort || c.Port == ""
}

// IsObserveOnly reports whether the cell only captures.
func (c *BoundaryCell) IsObserveOnly() bool {
	return c.Function == FunctionObserveOnly
}

// IsControl reports whether the cell is itself a control cell.
func (c *BoundaryCell) IsControl() bool {
	return c.Function == FunctionControl || c.Function == FunctionControlR
}

// SafeBit returns the safe value with "X" read as 0.
func (c *BoundaryCell) SafeBit() bool {
	return c.Safe == "1"
}

func (c BoundaryCell) String() string {
	return fmt.Sprintf("%d (%s, %s, %s, %s)", c.Number, c.CellType, c.Port, c.Function, c.Safe)
}

// Device is the boundary-scan description of one chip. A Device is built
// once, validated and then shared read-only.
type Device struct {
	Name string

	// IDCode is the expected IDCODE as an uppercase hex literal.
	IDCode string
	// IDCodeMask marks the IDCODE bits that are checked. Empty means all.
	IDCodeMask string

	// Instructions maps lowercase mnemonics to uppercase hex opcodes.
	Instructions      map[string]string
	InstructionLength int

	BoundaryLength int
	Cells          []BoundaryCell // sorted by Number

	// MaxTCK is the TAP_SCAN_CLOCK limit in Hz, 0 if the source did not
	// state one.
	MaxTCK float64
}

// Opcode returns the hex opcode for a mnemonic, ignoring case.
func (d *Device) Opcode(name string) (string, error) {
	op, ok := d.Instructions[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrInstructionNotFound, name, d.displayName())
	}
	return op, nil
}

// IDMask returns IDCodeMask or an all-ones mask of the IDCODE width.
func (d *Device) IDMask() string {
	if d.IDCodeMask != "" {
		return d.IDCodeMask
	}
	return strings.Repeat("F", len(d.IDCode))
}

// Cell returns the cell with the given number.
func (d *Device) Cell(n int) (*BoundaryCell, error) {
	if n < 0 || n >= len(d.Cells) || d.Cells[n].Number != n {
		return nil, fmt.Errorf("bsdl: %s has no cell %d", d.displayName(), n)
	}
	return &d.Cells[n], nil
}

// CellsForPort returns every cell bonded to port, control cells included.
func (d *Device) CellsForPort(port string) []*BoundaryCell {
	var out []*BoundaryCell
	for i := range d.Cells {
		if d.Cells[i].Port == port {
			out = append(out, &d.Cells[i])
		}
	}
	return out
}

// CellForPort resolves a pin to its single data cell. Control cells that
// carry the pin name are ignored.
func (d *Device) CellForPort(port string) (*BoundaryCell, error) {
	var found *BoundaryCell
	for _, c := range d.CellsForPort(port) {
		if c.IsControl() {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s on %s (cells %d and %d)",
				ErrAmbiguousPort, port, d.displayName(), found.Number, c.Number)
		}
		found = c
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s on %s", ErrPortNotFound, port, d.displayName())
	}
	return found, nil
}

// Ports returns the distinct pin names in cell order.
func (d *Device) Ports() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range d.Cells {
		c := &d.Cells[i]
		if c.IsInternal() || seen[c.Port] {
			continue
		}
		seen[c.Port] = true
		out = append(out, c.Port)
	}
	return out
}

// Validate checks the structural invariants every generator relies on.
func (d *Device) Validate() error {
	name := d.displayName()
	if d.BoundaryLength <= 0 {
		return fmt.Errorf("%w: %s: boundary length %d", ErrInvalidDevice, name, d.BoundaryLength)
	}
	if len(d.Cells) != d.BoundaryLength {
		return fmt.Errorf("%w: %s: %d cells, boundary length %d",
			ErrInvalidDevice, name, len(d.Cells), d.BoundaryLength)
	}
	for i := range d.Cells {
		c := &d.Cells[i]
		if c.Number != i {
			return fmt.Errorf("%w: %s: cell %d at position %d (numbers must be unique and dense)",
				ErrInvalidDevice, name, c.Number, i)
		}
		if c.Control >= d.BoundaryLength {
			return fmt.Errorf("%w: %s: cell %d control %d out of range",
				ErrInvalidDevice, name, c.Number, c.Control)
		}
		if c.Enable > 1 || c.Disable > 1 {
			return fmt.Errorf("%w: %s: cell %d enable/disable must be 0 or 1",
				ErrInvalidDevice, name, c.Number)
		}
		switch c.Safe {
		case "0", "1", "X":
		default:
			return fmt.Errorf("%w: %s: cell %d safe value %q", ErrInvalidDevice, name, c.Number, c.Safe)
		}
	}
	if d.InstructionLength <= 0 {
		return fmt.Errorf("%w: %s: instruction length %d", ErrInvalidDevice, name, d.InstructionLength)
	}
	for mnemonic, op := range d.Instructions {
		if mnemonic != strings.ToLower(mnemonic) {
			return fmt.Errorf("%w: %s: instruction key %q must be lowercase", ErrInvalidDevice, name, mnemonic)
		}
		if _, err := bitvec.HexToBin(op, d.InstructionLength); err != nil {
			return fmt.Errorf("%w: %s: opcode %s=%s: %v", ErrInvalidDevice, name, mnemonic, op, err)
		}
	}
	if d.IDCode != "" {
		if _, err := bitvec.HexToBin(d.IDCode, 4*len(d.IDCode)); err != nil {
			return fmt.Errorf("%w: %s: idcode: %v", ErrInvalidDevice, name, err)
		}
		if d.IDCodeMask != "" {
			if len(d.IDCodeMask) != len(d.IDCode) {
				return fmt.Errorf("%w: %s: idcode mask %s does not match idcode %s",
					ErrInvalidDevice, name, d.IDCodeMask, d.IDCode)
			}
			if _, err := bitvec.HexToBin(d.IDCodeMask, 4*len(d.IDCodeMask)); err != nil {
				return fmt.Errorf("%w: %s: idcode mask: %v", ErrInvalidDevice, name, err)
			}
		}
	}
	return nil
}

func (d *Device) displayName() string {
	if d.Name == "" {
		return "device"
	}
	return d.Name
}
