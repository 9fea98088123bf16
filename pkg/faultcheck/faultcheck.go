// Package faultcheck maps the captures of a replayed interconnect test back
// to board wiring faults.
package faultcheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bitvec"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/pinmap"
)

// ErrRecordWidth is returned when a captured value does not fit the FPGA
// boundary register.
var ErrRecordWidth = errors.New("faultcheck: record wider than boundary register")

// Record is one checked scan as logged by the SVF player: the shifted TDI,
// the expected TDO, the mask and the data actually captured. All fields are
// SVF hex literals.
type Record struct {
	TDI  string `json:"tdi"`
	TDO  string `json:"tdo"`
	Mask string `json:"mask"`
	Data string `json:"data"`
}

// Fault is a masked cell whose captured value differs from the expected one.
type Fault struct {
	FaultNr  int    `json:"fault_nr"` // index of the record
	PortMC   string `json:"port_mc"`
	PortFPGA string `json:"port_fpga"`
	Expected string `json:"expected"`
	Received string `json:"received"`
}

// Check compares every record against the mapped FPGA cells and returns one
// Fault per masked mismatch, in record then table order. Table entries whose
// FPGA port has no cell on fpga are ignored.
func Check(records []Record, fpga *bsdl.Device, table *pinmap.Table) ([]Fault, error) {
	type mapped struct {
		entry pinmap.Entry
		cell  int
	}
	var cells []mapped
	for _, e := range table.Entries() {
		c, err := fpga.CellForPort(e.FPGA)
		if errors.Is(err, bsdl.ErrPortNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("faultcheck: %w", err)
		}
		cells = append(cells, mapped{entry: e, cell: c.Number})
	}

	faults := []Fault{}
	for i, r := range records {
		tdo, err := decode(r.TDO, fpga.BoundaryLength)
		if err != nil {
			return nil, fmt.Errorf("faultcheck: record %d tdo: %w", i, err)
		}
		mask, err := decode(r.Mask, fpga.BoundaryLength)
		if err != nil {
			return nil, fmt.Errorf("faultcheck: record %d mask: %w", i, err)
		}
		data, err := decode(r.Data, fpga.BoundaryLength)
		if err != nil {
			return nil, fmt.Errorf("faultcheck: record %d data: %w", i, err)
		}
		for _, m := range cells {
			checked, _ := mask.Get(m.cell)
			want, _ := tdo.Get(m.cell)
			got, _ := data.Get(m.cell)
			if checked && want != got {
				faults = append(faults, Fault{
					FaultNr:  i,
					PortMC:   m.entry.Pin,
					PortFPGA: m.entry.FPGA,
					Expected: bitString(want),
					Received: bitString(got),
				})
			}
		}
	}
	return faults, nil
}

func decode(hex string, n int) (*bitvec.Vector, error) {
	v, err := bitvec.ParseHex(strings.ToUpper(strings.TrimSpace(hex)), n)
	if errors.Is(err, bitvec.ErrWidth) {
		return nil, fmt.Errorf("%w: %v", ErrRecordWidth, err)
	}
	return v, err
}

func bitString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ParseRecords decodes a JSON array of records.
func ParseRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("faultcheck: decode records: %w", err)
	}
	return records, nil
}

// LoadRecords reads a JSON array of records from a file.
func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("faultcheck: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseRecords(f)
}

// EncodeFaults writes faults as indented JSON.
func EncodeFaults(w io.Writer, faults []Fault) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(faults)
}

// WriteFaults writes faults to path. Nothing is written, and false is
// returned, when there are no faults.
func WriteFaults(path string, faults []Fault) (bool, error) {
	if len(faults) == 0 {
		return false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("faultcheck: %w", err)
	}
	if err := EncodeFaults(f, faults); err != nil {
		f.Close()
		return false, fmt.Errorf("faultcheck: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("faultcheck: %w", err)
	}
	return true, nil
}
