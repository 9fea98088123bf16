package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/pinmap"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/svf"
)

// Flags shared by commands that talk through the FPGA bridge.
var (
	fpgaFile   string
	bridgeTCK  string
	bridgeTMS  string
	bridgeTDO  string
	bridgeTDI  string
	mcMapFile  string
	rpiMapFile string
)

func resetBridgeFlags() {
	names := svf.DefaultPinNames()
	fpgaFile = ""
	bridgeTCK, bridgeTMS, bridgeTDO, bridgeTDI = names.TCK, names.TMS, names.TDO, names.TDI
	mcMapFile = ""
	rpiMapFile = ""
}

func bridgeNames() svf.PinNames {
	return svf.PinNames{TCK: bridgeTCK, TMS: bridgeTMS, TDO: bridgeTDO, TDI: bridgeTDI}
}

func loadDevice(path, role string) (*bsdl.Device, error) {
	if path == "" {
		return nil, fmt.Errorf("no %s device given", role)
	}
	dev, err := bsdl.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s device: %w", role, err)
	}
	if verbose {
		fmt.Printf("Loaded %s device %s (IR %d bits, BSR %d cells)\n",
			role, dev.Name, dev.InstructionLength, dev.BoundaryLength)
	}
	return dev, nil
}

// loadTable reads a pin table from path, or the built-in table name when
// path is empty.
func loadTable(path, name string) (*pinmap.Table, error) {
	if path == "" {
		return pinmap.Default(name)
	}
	return pinmap.Load(path)
}
