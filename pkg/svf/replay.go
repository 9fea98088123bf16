package svf

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bitvec"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/tap"
)

// ShiftRegion identifies whether a downstream shift targeted the
// instruction or the data register.
type ShiftRegion uint8

const (
	ShiftRegionIR ShiftRegion = iota
	ShiftRegionDR
)

func (r ShiftRegion) String() string {
	if r == ShiftRegionIR {
		return "IR"
	}
	return "DR"
}

// ShiftOp is one downstream scan recovered by Replay.
type ShiftOp struct {
	Region ShiftRegion
	TDI    string // bits in shift order, first shifted first
	TDO    string // expected bits in shift order, 'X' where unchecked
}

// Bits reports the scan length.
func (op ShiftOp) Bits() int {
	return len(op.TDI)
}

// Hex returns the shifted value as an SVF literal.
func (op ShiftOp) Hex() string {
	hex, _ := bitvec.BinToHex(bitvec.Reverse(op.TDI))
	return hex
}

// ExpectHex returns the expected TDO as an SVF literal. ok is false when
// some bits are unchecked.
func (op ShiftOp) ExpectHex() (hex string, ok bool) {
	if strings.ContainsRune(op.TDO, 'X') {
		return "", false
	}
	hex, err := bitvec.BinToHex(bitvec.Reverse(op.TDO))
	return hex, err == nil
}

// Replay is the downstream view of a program.
type Replay struct {
	Ops   []ShiftOp
	State tap.State // downstream state after the last clock
	Edges int       // rising TCK edges
}

var (
	paramRe = regexp.MustCompile(`\b(TDI|TDO|MASK|SMASK)\s*\(([0-9A-Fa-f\s]*)\)`)
	numRe   = regexp.MustCompile(`^\d+$`)
)

// ReplayProgram plays the FPGA DR scans of an SVF program through a
// simulated downstream TAP. Only scans made while the FPGA holds EXTEST are
// considered. The bridge pins are assumed low when EXTEST is entered and the
// downstream TAP starts in Test-Logic-Reset.
func ReplayProgram(r io.Reader, dev *bsdl.Device, pins Pins) (*Replay, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("svf: replay: %w", err)
	}
	extest, err := dev.Opcode("extest")
	if err != nil {
		return nil, fmt.Errorf("svf: replay: %w", err)
	}
	extestBin, err := bitvec.HexToBin(extest, dev.InstructionLength)
	if err != nil {
		return nil, fmt.Errorf("svf: replay: %w", err)
	}

	var body strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "!") || strings.HasPrefix(t, "//") {
			continue
		}
		body.WriteString(t)
		body.WriteByte(' ')
	}

	rep := &Replay{}
	sm := tap.NewStateMachine()
	var (
		inExtest bool
		tck      bool
		cur      *ShiftOp
	)
	for _, stmt := range strings.Split(body.String(), ";") {
		fields := strings.Fields(stmt)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToUpper(fields[0]) {
		case "STATE":
			if len(fields) > 1 && strings.EqualFold(fields[len(fields)-1], "RESET") {
				inExtest = false
			}
		case "SIR":
			n, params, err := scanArgs(fields, stmt)
			if err != nil {
				return nil, err
			}
			bin, err := bitvec.HexToBin(params["TDI"], n)
			if err != nil {
				return nil, fmt.Errorf("svf: replay: %q: %w", strings.TrimSpace(stmt), err)
			}
			inExtest = n == dev.InstructionLength && bin == extestBin
		case "SDR":
			if !inExtest {
				continue
			}
			n, params, err := scanArgs(fields, stmt)
			if err != nil {
				return nil, err
			}
			if n != dev.BoundaryLength {
				return nil, fmt.Errorf("svf: replay: SDR of %d bits in EXTEST, boundary is %d", n, dev.BoundaryLength)
			}
			tdi, err := bitvec.ParseHex(params["TDI"], n)
			if err != nil {
				return nil, fmt.Errorf("svf: replay: TDI: %w", err)
			}
			next, _ := tdi.Get(pins.TCK.Number)
			rising := next && !tck
			tck = next
			if !rising {
				continue
			}
			rep.Edges++

			tms, _ := tdi.Get(pins.TMS.Number)
			bitIn, _ := tdi.Get(pins.TDI.Number)
			expect, err := expectedTDO(params, n, pins.TDO.Number)
			if err != nil {
				return nil, err
			}

			state := sm.State()
			if state == tap.StateShiftIR || state == tap.StateShiftDR {
				if cur == nil {
					region := ShiftRegionDR
					if state == tap.StateShiftIR {
						region = ShiftRegionIR
					}
					cur = &ShiftOp{Region: region}
				}
				cur.TDI += bit(bitIn)
				cur.TDO += expect
			}
			after := sm.Clock(tms)
			if cur != nil && after != tap.StateShiftIR && after != tap.StateShiftDR {
				rep.Ops = append(rep.Ops, *cur)
				cur = nil
			}
		}
	}
	if cur != nil {
		rep.Ops = append(rep.Ops, *cur)
	}
	rep.State = sm.State()
	return rep, nil
}

func scanArgs(fields []string, stmt string) (int, map[string]string, error) {
	if len(fields) < 2 || !numRe.MatchString(fields[1]) {
		return 0, nil, fmt.Errorf("svf: replay: malformed scan %q", strings.TrimSpace(stmt))
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, nil, fmt.Errorf("svf: replay: %w", err)
	}
	params := make(map[string]string)
	for _, m := range paramRe.FindAllStringSubmatch(stmt, -1) {
		params[m[1]] = strings.ToUpper(strings.Join(strings.Fields(m[2]), ""))
	}
	if params["TDI"] == "" {
		return 0, nil, fmt.Errorf("svf: replay: scan without TDI %q", strings.TrimSpace(stmt))
	}
	return n, params, nil
}

// expectedTDO returns the checked value of cell, or "X".
func expectedTDO(params map[string]string, n, cell int) (string, error) {
	if params["TDO"] == "" || params["MASK"] == "" {
		return "X", nil
	}
	mask, err := bitvec.ParseHex(params["MASK"], n)
	if err != nil {
		return "", fmt.Errorf("svf: replay: MASK: %w", err)
	}
	if on, _ := mask.Get(cell); !on {
		return "X", nil
	}
	tdo, err := bitvec.ParseHex(params["TDO"], n)
	if err != nil {
		return "", fmt.Errorf("svf: replay: TDO: %w", err)
	}
	v, _ := tdo.Get(cell)
	return bit(v), nil
}
