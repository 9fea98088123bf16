package bsdl

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// jsonDevice is the BSDL asset format consumed by the board-test tooling:
// the output shape of its BSDL-to-JSON converter.
type jsonDevice struct {
	Name                string            `json:"name,omitempty"`
	IDCode              string            `json:"idcode"`
	IDCodeMask          string            `json:"idcodeMask,omitempty"`
	Instructions        map[string]string `json:"instructions"`
	InstructionLength   int               `json:"instructionLength"`
	BoundaryCells       []jsonCell        `json:"boundaryCells"`
	BoundaryCellsLength int               `json:"boundaryCellsLength"`
	MaxTCK              float64           `json:"maxTck,omitempty"`
}

type jsonCell struct {
	CellNumber int    `json:"cellNumber"`
	CellType   string `json:"cellType,omitempty"`
	Port       string `json:"port,omitempty"`
	// Pin is accepted as an alias of Port.
	Pin           string  `json:"pin,omitempty"`
	Function      string  `json:"function"`
	ControllCell  *string `json:"controllCell,omitempty"`
	EnableValue   *string `json:"enableValue,omitempty"`
	DisableValue  *string `json:"disableValue,omitempty"`
	DisableResult *string `json:"disableResult,omitempty"`
	SafeBit       string  `json:"safeBit"`
}

// DecodeJSON reads a JSON asset and returns the validated device.
func DecodeJSON(r io.Reader) (*Device, error) {
	var raw jsonDevice
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("bsdl: decode json: %w", err)
	}

	dev := &Device{
		Name:              raw.Name,
		IDCode:            strings.ToUpper(raw.IDCode),
		IDCodeMask:        strings.ToUpper(raw.IDCodeMask),
		Instructions:      make(map[string]string, len(raw.Instructions)),
		InstructionLength: raw.InstructionLength,
		BoundaryLength:    raw.BoundaryCellsLength,
		Cells:             make([]BoundaryCell, 0, len(raw.BoundaryCells)),
		MaxTCK:            raw.MaxTCK,
	}
	for k, v := range raw.Instructions {
		dev.Instructions[strings.ToLower(k)] = strings.ToUpper(v)
	}

	for _, rc := range raw.BoundaryCells {
		cell, err := rc.cell()
		if err != nil {
			return nil, err
		}
		dev.Cells = append(dev.Cells, cell)
	}
	sort.Slice(dev.Cells, func(i, j int) bool {
		return dev.Cells[i].Number < dev.Cells[j].Number
	})
	if err := dev.Validate(); err != nil {
		return nil, err
	}
	return dev, nil
}

func (rc jsonCell) cell() (BoundaryCell, error) {
	port := rc.Port
	if port == "" {
		port = rc.Pin
	}
	c := BoundaryCell{
		Number:   rc.CellNumber,
		CellType: rc.CellType,
		Port:     port,
		Function: strings.ToUpper(rc.Function),
		Safe:     strings.ToUpper(rc.SafeBit),
		Control:  -1,
		Enable:   -1,
		Disable:  -1,
	}
	if c.Safe == "" {
		c.Safe = "X"
	}

	var err error
	if c.Control, err = optionalInt(rc.ControllCell, rc.CellNumber, "controllCell"); err != nil {
		return c, err
	}
	if c.Enable, err = optionalInt(rc.EnableValue, rc.CellNumber, "enableValue"); err != nil {
		return c, err
	}
	if c.Disable, err = optionalInt(rc.DisableValue, rc.CellNumber, "disableValue"); err != nil {
		return c, err
	}
	switch {
	case c.Enable < 0 && (c.Disable == 0 || c.Disable == 1):
		c.Enable = 1 - c.Disable
	case c.Disable < 0 && (c.Enable == 0 || c.Enable == 1):
		c.Disable = 1 - c.Enable
	}
	if rc.DisableResult != nil {
		c.DisableResult = strings.ToUpper(*rc.DisableResult)
	}
	return c, nil
}

func optionalInt(s *string, cell int, field string) (int, error) {
	if s == nil {
		return -1, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || v == "*" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return -1, fmt.Errorf("%w: cell %d: %s %q", ErrInvalidDevice, cell, field, *s)
	}
	return n, nil
}

// EncodeJSON writes d in the JSON asset format.
func EncodeJSON(w io.Writer, d *Device) error {
	out := jsonDevice{
		Name:                d.Name,
		IDCode:              d.IDCode,
		IDCodeMask:          d.IDCodeMask,
		Instructions:        d.Instructions,
		InstructionLength:   d.InstructionLength,
		BoundaryCellsLength: d.BoundaryLength,
		BoundaryCells:       make([]jsonCell, 0, len(d.Cells)),
		MaxTCK:              d.MaxTCK,
	}
	for _, c := range d.Cells {
		jc := jsonCell{
			CellNumber: c.Number,
			CellType:   c.CellType,
			Port:       c.Port,
			Function:   c.Function,
			SafeBit:    c.Safe,
		}
		if c.Control >= 0 {
			jc.ControllCell = intString(c.Control)
		}
		if c.Enable >= 0 {
			jc.EnableValue = intString(c.Enable)
		}
		if c.Disable >= 0 {
			jc.DisableValue = intString(c.Disable)
		}
		if c.DisableResult != "" {
			r := c.DisableResult
			jc.DisableResult = &r
		}
		out.BoundaryCells = append(out.BoundaryCells, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("bsdl: encode json: %w", err)
	}
	return nil
}

func intString(n int) *string {
	s := strconv.Itoa(n)
	return &s
}
