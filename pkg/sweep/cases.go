package sweep

import (
	"strings"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsr"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/svf"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/tap"
)

func (g *Generator) header() (*svf.Program, error) {
	p := svf.NewProgram()
	if err := svf.AddFPGAHeader(p, g.board.FPGA, g.cfg.Frequency); err != nil {
		return nil, err
	}
	return p, nil
}

// ResetFPGA returns the program that only checks the FPGA IDCODE and resets
// its TAP.
func (g *Generator) ResetFPGA() (*svf.Program, error) {
	p, err := g.header()
	if err != nil {
		return nil, err
	}
	p.Line("STATE RESET;")
	p.Line("STATE IDLE;")
	return p, nil
}

// GPIOWrite returns the program that drives the FPGA port wired to a
// Raspberry Pi GPIO to v and every other pin to the complement.
func (g *Generator) GPIOWrite(port string, v bool) (*svf.Program, error) {
	fpga := g.board.FPGA
	p, err := g.header()
	if err != nil {
		return nil, err
	}
	vec, err := bsr.Drive(fpga, port, v)
	if err != nil {
		return nil, err
	}
	sample, _ := fpga.Opcode("sample")
	extest, _ := fpga.Opcode("extest")

	p.Comment("Preload")
	p.Linef("SIR %d TDI(%s);", fpga.InstructionLength, sample)
	p.Linef("SDR %d TDI (%s);\n", fpga.BoundaryLength, vec.Hex())
	p.Comment("Extest")
	p.Linef("SIR %d TDI(%s);\n", fpga.InstructionLength, extest)
	return p, nil
}

// GPIORead returns the program that samples the FPGA port wired to a
// Raspberry Pi GPIO and expects v.
func (g *Generator) GPIORead(port string, v bool) (*svf.Program, error) {
	fpga := g.board.FPGA
	p, err := g.header()
	if err != nil {
		return nil, err
	}
	exp, err := bsr.Read(fpga, port, v)
	if err != nil {
		return nil, err
	}
	sample, _ := fpga.Opcode("sample")
	tdi := strings.Repeat("0", (fpga.BoundaryLength+3)/4)

	p.Linef("SIR %d TDI(%s);", fpga.InstructionLength, sample)
	p.Linef("SDR %d TDI (%s) \nTDO  (%s) \nMASK (%s);\n",
		fpga.BoundaryLength, tdi, exp.TDO.Hex(), exp.Mask.Hex())
	return p, nil
}

// mcPrologue puts the FPGA into EXTEST with all pins released, resets the
// microcontroller TAP through the bridge and checks its IDCODE.
func (g *Generator) mcPrologue() (*svf.Program, *svf.Bridge, error) {
	fpga, mc := g.board.FPGA, g.board.MC
	p, err := g.header()
	if err != nil {
		return nil, nil, err
	}
	pre, err := bsr.Preload(fpga)
	if err != nil {
		return nil, nil, err
	}
	sample, _ := fpga.Opcode("sample")
	extest, _ := fpga.Opcode("extest")

	p.Comment("Preload/Sample")
	p.Linef("SIR %d TDI(%s);", fpga.InstructionLength, sample)
	p.Linef("SDR %d TDI (%s);\n", fpga.BoundaryLength, pre.Hex())
	p.Comment("Enter Extest FPGA")
	p.Linef("SIR %d TDI(%s);\n", fpga.InstructionLength, extest)

	b, err := svf.NewBridge(p, fpga, g.pins)
	if err != nil {
		return nil, nil, err
	}
	p.Comment("Reset Microcontroller")
	b.ResetTarget()
	if err := b.Move(tap.Reset, tap.Idle); err != nil {
		return nil, nil, err
	}

	p.Comment("Check the IDCODE of the Microcontroller")
	idOp, _ := mc.Opcode("idcode")
	if err := b.SIR(idOp, mc.InstructionLength); err != nil {
		return nil, nil, err
	}
	zeros := strings.Repeat("0", len(mc.IDCode))
	if err := b.SDRExpect(zeros, mc.IDCode, mc.IDCodeMask, 4*len(mc.IDCode)); err != nil {
		return nil, nil, err
	}
	return p, b, nil
}

// MCIDCode returns the program that reads the microcontroller IDCODE
// through the FPGA.
func (g *Generator) MCIDCode() (*svf.Program, error) {
	p, _, err := g.mcPrologue()
	return p, err
}

// MCInterconnect returns the sweep for one polarity: for every mapped
// microcontroller pin in table order, the microcontroller drives the pin to
// v and all others to the complement, and the FPGA checks every mapped cell.
func (g *Generator) MCInterconnect(v bool) (*svf.Program, error) {
	fpga, mc, table := g.board.FPGA, g.board.MC, g.board.MCMap
	p, b, err := g.mcPrologue()
	if err != nil {
		return nil, err
	}

	p.Comment("Enter Extest Microcontroller")
	extest, _ := mc.Opcode("extest")
	if err := b.SIR(extest, mc.InstructionLength); err != nil {
		return nil, err
	}

	for _, e := range table.Entries() {
		if !g.cfg.ShouldTestPin(e.Pin) {
			continue
		}
		p.Comment("Testing Ports %s <-> %s, value = %s", e.Pin, e.FPGA, valueName(v))
		vec, err := bsr.MCDrive(mc, e.Pin, v)
		if err != nil {
			return nil, err
		}
		if err := b.SDR(vec.Hex(), mc.BoundaryLength); err != nil {
			return nil, err
		}
		exp, err := bsr.PinCheck(fpga, table, g.bridgeCells(), e.Pin, v)
		if err != nil {
			return nil, err
		}
		b.ValueCheck(e.Pin, e.FPGA, v, exp)
	}

	p.Comment("Reset Microcontroller")
	b.ResetTarget()
	b.Clock(false, false)

	p.Comment("Reset FPGA")
	p.Line("STATE RESET;")
	p.Line("STATE IDLE;")
	return p, nil
}
