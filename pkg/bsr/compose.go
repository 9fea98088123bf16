package bsr

import (
	"fmt"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bitvec"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
)

// ResetPin is the microcontroller pin that is held high during the
// interconnect sweep and never checked.
const ResetPin = "RESET"

// Expect is a capture expectation: the values a scan should return and the
// cells that are compared.
type Expect struct {
	TDO  *bitvec.Vector
	Mask *bitvec.Vector
}

// SetDriver writes the control cell of c so that its driver is enabled or
// disabled. Cells without a control cell are left alone.
func SetDriver(v *bitvec.Vector, c *bsdl.BoundaryCell, enable bool) error {
	if !c.HasControl() {
		return nil
	}
	val := c.Disable
	if enable {
		val = c.Enable
	}
	if err := v.Set(c.Control, val == 1); err != nil {
		return fmt.Errorf("bsr: cell %d control: %w", c.Number, err)
	}
	return nil
}

// Frozen returns the image that keeps every bonded pin tri-stated and every
// INTERNAL cell at its safe value.
func Frozen(dev *bsdl.Device) (*bitvec.Vector, error) {
	v := bitvec.New(dev.BoundaryLength)
	for i := range dev.Cells {
		c := &dev.Cells[i]
		switch {
		case !c.IsInternal() && !c.IsObserveOnly():
			if err := SetDriver(v, c, false); err != nil {
				return nil, err
			}
		case c.Function == bsdl.FunctionInternal:
			if err := v.Set(c.Number, c.SafeBit()); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// Preload returns the image loaded with SAMPLE before entering EXTEST: all
// pin cells 0 and every driver with a disable spec switched off.
func Preload(dev *bsdl.Device) (*bitvec.Vector, error) {
	return compose(dev, func(c *bsdl.BoundaryCell) (bool, driver) {
		return false, driverOff
	})
}

// Drive returns an image that drives port to v and every other pin to the
// complement. Only the target's output driver is enabled.
func Drive(dev *bsdl.Device, port string, v bool) (*bitvec.Vector, error) {
	if _, err := dev.CellForPort(port); err != nil {
		return nil, fmt.Errorf("bsr: drive: %w", err)
	}
	return compose(dev, func(c *bsdl.BoundaryCell) (bool, driver) {
		if c.Port == port {
			return v, driverOn
		}
		return !v, driverOff
	})
}

// MCDrive returns the microcontroller image for one interconnect test: pin
// is driven to v, ResetPin to 1 and every other pin to the complement, with
// all drivers enabled. pin may be ResetPin or a pin without cells, such as
// one of the target's own TAP pins; every other pin then carries the
// complement.
func MCDrive(dev *bsdl.Device, pin string, v bool) (*bitvec.Vector, error) {
	return compose(dev, func(c *bsdl.BoundaryCell) (bool, driver) {
		switch c.Port {
		case ResetPin:
			return true, driverOn
		case pin:
			return v, driverOn
		}
		return !v, driverOn
	})
}

// Read returns the expectation for sampling port at v: TDO carries v on the
// port's cells and 0 elsewhere, the mask selects the port's data cell only.
func Read(dev *bsdl.Device, port string, v bool) (Expect, error) {
	target, err := dev.CellForPort(port)
	if err != nil {
		return Expect{}, fmt.Errorf("bsr: read: %w", err)
	}
	tdo := bitvec.New(dev.BoundaryLength)
	for i := range dev.Cells {
		c := &dev.Cells[i]
		if c.Port == port {
			if err := tdo.Set(c.Number, v); err != nil {
				return Expect{}, err
			}
		}
	}
	mask := bitvec.New(dev.BoundaryLength)
	if err := mask.Set(target.Number, true); err != nil {
		return Expect{}, err
	}
	return Expect{TDO: tdo, Mask: mask}, nil
}

type driver uint8

const (
	driverOff driver = iota
	driverOn
)

// compose walks the cells once: bonded cells take the value and driver
// state pin returns, INTERNAL cells their safe value. Drivers are only
// touched when the cell states control, disable value and result.
func compose(dev *bsdl.Device, pin func(c *bsdl.BoundaryCell) (bool, driver)) (*bitvec.Vector, error) {
	v := bitvec.New(dev.BoundaryLength)
	for i := range dev.Cells {
		c := &dev.Cells[i]
		if c.IsInternal() {
			if c.Function == bsdl.FunctionInternal {
				if err := v.Set(c.Number, c.SafeBit()); err != nil {
					return nil, err
				}
			}
			continue
		}
		val, drv := pin(c)
		if err := v.Set(c.Number, val); err != nil {
			return nil, err
		}
		if c.HasDisableSpec() {
			if err := SetDriver(v, c, drv == driverOn); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}
