package svf

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/idcode"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/idcode/deviceinfo"
)

// DefaultFrequency is the TCK rate requested from the SVF player, in Hz.
const DefaultFrequency = 1e6

// AddFPGAHeader appends the player preamble and an IDCODE check of dev.
// frequency is the TCK rate in Hz; zero selects DefaultFrequency.
func AddFPGAHeader(p *Program, dev *bsdl.Device, frequency float64) error {
	if dev.IDCode == "" {
		return fmt.Errorf("svf: %s has no IDCODE", dev.Name)
	}
	op, err := dev.Opcode("idcode")
	if err != nil {
		return fmt.Errorf("svf: header: %w", err)
	}
	if frequency <= 0 {
		frequency = DefaultFrequency
	}

	p.Comment("Initialize FPGA")
	p.Line("HDR 0;")
	p.Line("HIR 0;")
	p.Line("TDR 0;")
	p.Line("TIR 0;")
	p.Line("ENDDR IDLE;")
	p.Line("ENDIR IDLE;")
	p.Linef("FREQUENCY %.2e HZ;", frequency)
	p.Line("STATE IDLE;\n")

	p.Comment("Check the IDCODE")
	p.Comment("Expect %s", DescribeIDCode(dev.IDCode))
	p.Linef("SIR %d TDI(%s);", dev.InstructionLength, op)
	p.Linef("SDR %d TDI (%s) TDO(%s) MASK(%s);\n",
		4*len(dev.IDCode), strings.Repeat("0", len(dev.IDCode)), dev.IDCode, dev.IDMask())
	return nil
}

// DescribeIDCode names the part behind an IDCODE literal, falling back to
// the raw JEP106 fields for parts the database does not know.
func DescribeIDCode(hex string) string {
	info, known, err := deviceinfo.LookupHex(hex)
	if err != nil {
		return hex
	}
	if known {
		return fmt.Sprintf("%s: %s %s", hex, info.Manufacturer.Name, info.Name)
	}
	return fmt.Sprintf("%s: %s", hex, idcode.Describe(info.IDCode))
}
