// Package pinmap holds the board wiring between the FPGA and its
// neighbours: which FPGA port each microcontroller or Raspberry Pi pin is
// routed to.
package pinmap

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
)

var (
	// ErrMappingNotFound is returned when a pin has no entry in a table.
	ErrMappingNotFound = errors.New("pinmap: mapping not found")
	// ErrDuplicatePin is returned when a table lists a pin twice.
	ErrDuplicatePin = errors.New("pinmap: duplicate pin")
)

//go:embed data/*.json
var defaults embed.FS

// Names of the embedded tables.
const (
	MCTable  = "mc"
	RPiTable = "rpi"
)

// Entry routes one pin of the neighbouring device to an FPGA port.
type Entry struct {
	Pin  string `json:"pin"`
	FPGA string `json:"fpga"`
}

// Table is an ordered, read-only pin mapping. Iteration order is the order
// of the source file, which fixes the order of generated tests.
type Table struct {
	Name    string
	entries []Entry
	index   map[string]int
}

type tableFile struct {
	Name string  `json:"name"`
	Pins []Entry `json:"pins"`
}

// New builds a table from entries.
func New(name string, entries []Entry) (*Table, error) {
	t := &Table{
		Name:    name,
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Pin == "" || e.FPGA == "" {
			return nil, fmt.Errorf("pinmap: %s: entry %+v has an empty field", name, e)
		}
		if _, dup := t.index[e.Pin]; dup {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicatePin, e.Pin, name)
		}
		t.index[e.Pin] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// Parse reads a table in the {"name": ..., "pins": [{"pin", "fpga"}]} form.
func Parse(r io.Reader) (*Table, error) {
	var f tableFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("pinmap: decode: %w", err)
	}
	return New(f.Name, f.Pins)
}

// Load reads a table from a JSON file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pinmap: open %s: %w", path, err)
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Default returns one of the embedded board tables, MCTable or RPiTable.
func Default(name string) (*Table, error) {
	f, err := defaults.Open("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("pinmap: no built-in table %q", name)
	}
	defer f.Close()
	return Parse(f)
}

// Get returns the FPGA port wired to pin.
func (t *Table) Get(pin string) (string, error) {
	i, ok := t.index[pin]
	if !ok {
		return "", fmt.Errorf("%w: %s in %s", ErrMappingNotFound, pin, t.Name)
	}
	return t.entries[i].FPGA, nil
}

// Entries returns a copy of the entries in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Validate checks that every FPGA port resolves to exactly one data cell of
// fpga and, when target is non-nil, that every pin exists on target.
func (t *Table) Validate(fpga, target *bsdl.Device) error {
	for _, e := range t.entries {
		if _, err := fpga.CellForPort(e.FPGA); err != nil {
			return fmt.Errorf("pinmap: %s: %s -> %s: %w", t.Name, e.Pin, e.FPGA, err)
		}
		if target != nil && len(target.CellsForPort(e.Pin)) == 0 {
			return fmt.Errorf("pinmap: %s: %s: %w", t.Name, e.Pin, bsdl.ErrPortNotFound)
		}
	}
	return nil
}
