// Package sweep turns the board description into the full set of SVF test
// files: FPGA reset, Raspberry Pi GPIO write and read tests, the
// microcontroller IDCODE check and the microcontroller to FPGA interconnect
// sweep.
package sweep

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/pinmap"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/svf"
)

// Board is the static description the generator works from. MC and MCMap
// are needed for SuiteMC, RPiMap for SuiteRPi.
type Board struct {
	FPGA   *bsdl.Device
	MC     *bsdl.Device
	MCMap  *pinmap.Table
	RPiMap *pinmap.Table
}

// Progress reports generation of one file.
type Progress struct {
	Phase string // "writing", "done"
	File  string // file name of the case just written
	Index int    // case index (0-based)
	Total int    // number of cases
}

// Case is one output file.
type Case struct {
	Name  string
	Suite Suite
	build func() (*svf.Program, error)
}

// Build generates the program for the case.
func (c Case) Build() (*svf.Program, error) {
	return c.build()
}

// Generator writes the test files for a Board. It only reads the board, so
// cases may be built concurrently.
type Generator struct {
	board Board
	cfg   *Config
	pins  svf.Pins
}

// NewGenerator validates cfg and checks that board carries everything the
// selected suites need.
func NewGenerator(board Board, cfg *Config) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if board.FPGA == nil {
		return nil, fmt.Errorf("sweep: no FPGA device")
	}
	g := &Generator{board: board, cfg: cfg}

	if err := requireOpcodes(board.FPGA, "idcode", "sample", "extest"); err != nil {
		return nil, err
	}
	if cfg.HasSuite(SuiteRPi) {
		if board.RPiMap == nil {
			return nil, fmt.Errorf("sweep: suite %s needs an RPi pin map", SuiteRPi)
		}
		if err := board.RPiMap.Validate(board.FPGA, nil); err != nil {
			return nil, fmt.Errorf("sweep: %w", err)
		}
	}
	if cfg.HasSuite(SuiteMC) {
		if err := g.checkMC(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Generator) checkMC() error {
	b := g.board
	if b.MC == nil || b.MCMap == nil {
		return fmt.Errorf("sweep: suite %s needs a microcontroller device and pin map", SuiteMC)
	}
	if b.MC.IDCode == "" {
		return fmt.Errorf("sweep: %s has no IDCODE", b.MC.Name)
	}
	if err := requireOpcodes(b.MC, "idcode", "extest"); err != nil {
		return err
	}
	pins, err := svf.ResolvePins(b.FPGA, g.cfg.Bridge)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	g.pins = pins
	if err := b.MCMap.Validate(b.FPGA, nil); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	// Pins routed to the bridge are the microcontroller's own TAP pins and
	// usually have no boundary cells.
	bridge := make(map[int]bool)
	for _, n := range pins.Cells() {
		bridge[n] = true
	}
	for _, e := range b.MCMap.Entries() {
		c, _ := b.FPGA.CellForPort(e.FPGA)
		if bridge[c.Number] {
			continue
		}
		if len(b.MC.CellsForPort(e.Pin)) == 0 {
			return fmt.Errorf("sweep: %s: %s: %w", b.MCMap.Name, e.Pin, bsdl.ErrPortNotFound)
		}
	}
	return nil
}

func requireOpcodes(dev *bsdl.Device, names ...string) error {
	for _, n := range names {
		if _, err := dev.Opcode(n); err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
	}
	return nil
}

// Cases lists the files the configuration selects, in generation order.
func (g *Generator) Cases() []Case {
	var cases []Case
	if g.cfg.HasSuite(SuiteReset) {
		cases = append(cases, Case{Name: "test_reset_fpga.svf", Suite: SuiteReset, build: g.ResetFPGA})
	}
	if g.cfg.HasSuite(SuiteRPi) {
		for _, v := range g.cfg.Values {
			v := v
			for _, e := range g.rpiEntries() {
				e := e
				cases = append(cases, Case{
					Name:  fmt.Sprintf("test_gpio_write_%s_%s.svf", fileSafe(e.Pin), valueName(v)),
					Suite: SuiteRPi,
					build: func() (*svf.Program, error) { return g.GPIOWrite(e.FPGA, v) },
				})
			}
			for _, e := range g.rpiEntries() {
				e := e
				cases = append(cases, Case{
					Name:  fmt.Sprintf("test_gpio_read_%s_%s.svf", fileSafe(e.Pin), valueName(v)),
					Suite: SuiteRPi,
					build: func() (*svf.Program, error) { return g.GPIORead(e.FPGA, v) },
				})
			}
		}
	}
	if g.cfg.HasSuite(SuiteMC) {
		cases = append(cases, Case{Name: "test_idcode_mc.svf", Suite: SuiteMC, build: g.MCIDCode})
		for _, v := range g.cfg.Values {
			v := v
			cases = append(cases, Case{
				Name:  fmt.Sprintf("test_fpga_mc_%s.svf", valueName(v)),
				Suite: SuiteMC,
				build: func() (*svf.Program, error) { return g.MCInterconnect(v) },
			})
		}
	}
	return cases
}

func (g *Generator) rpiEntries() []pinmap.Entry {
	var out []pinmap.Entry
	for _, e := range g.board.RPiMap.Entries() {
		if g.cfg.ShouldTestPin(e.Pin) {
			out = append(out, e)
		}
	}
	return out
}

// Run builds every case and writes it below the configured output
// directory, at most cfg.Jobs at a time. The first failure cancels the
// remaining cases. Paths are returned in case order.
//
// progress is optional; when set it must be drained by the caller.
func (g *Generator) Run(ctx context.Context, progress chan<- Progress) ([]string, error) {
	cases := g.Cases()
	paths := make([]string, len(cases))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Jobs)
	for i, c := range cases {
		i, c := i, c
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prog, err := c.Build()
			if err != nil {
				return fmt.Errorf("sweep: %s: %w", c.Name, err)
			}
			path := filepath.Join(g.cfg.OutDir, c.Name)
			if err := prog.WriteFile(path); err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			paths[i] = path
			return report(gctx, progress, Progress{Phase: "writing", File: c.Name, Index: i, Total: len(cases)})
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := report(ctx, progress, Progress{Phase: "done", Index: len(cases), Total: len(cases)}); err != nil {
		return nil, err
	}
	return paths, nil
}

func report(ctx context.Context, progress chan<- Progress, p Progress) error {
	if progress == nil {
		return nil
	}
	select {
	case progress <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// bridgeCells returns the FPGA cells excluded from interconnect checks.
func (g *Generator) bridgeCells() []int {
	return g.pins.Cells()
}

func valueName(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// fileSafe keeps pin names usable in file names: "PE(0)" becomes "PE_0_".
func fileSafe(pin string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, pin)
}
