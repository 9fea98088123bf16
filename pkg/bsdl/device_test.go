package bsdl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadBSDLMatchesJSON(t *testing.T) {
	fromBSDL, err := Load("../../testdata/fpga.bsm")
	if err != nil {
		t.Fatalf("Load(fpga.bsm): %v", err)
	}
	fromJSON, err := Load("../../testdata/fpga.json")
	if err != nil {
		t.Fatalf("Load(fpga.json): %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromBSDL); diff != "" {
		t.Fatalf("BSDL and JSON devices differ (-json +bsdl):\n%s", diff)
	}
}

func TestEncodeDecodeJSON(t *testing.T) {
	dev, err := Load("../../testdata/mc.bsd")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, dev); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	back, err := DecodeJSON(&buf)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if diff := cmp.Diff(dev, back); diff != "" {
		t.Fatalf("round trip changed the device (-want +got):\n%s", diff)
	}
}

func TestDecodeJSONPinAliasAndDerivedEnable(t *testing.T) {
	const asset = `{
		"idcode": "0123abcd",
		"instructions": {"IDCODE": "09", "sample": "01", "extest": "00"},
		"instructionLength": 8,
		"boundaryCells": [
			{"cellNumber": 1, "pin": "PA0", "function": "bidir", "controllCell": "0", "disableValue": "0", "disableResult": "Z", "safeBit": "x"},
			{"cellNumber": 0, "port": "*", "function": "control", "safeBit": "0"}
		],
		"boundaryCellsLength": 2
	}`
	dev, err := DecodeJSON(strings.NewReader(asset))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if dev.IDCode != "0123ABCD" {
		t.Errorf("IDCode = %q", dev.IDCode)
	}
	if op, _ := dev.Opcode("idcode"); op != "09" {
		t.Errorf("idcode opcode = %q", op)
	}
	cell, err := dev.CellForPort("PA0")
	if err != nil {
		t.Fatalf("CellForPort: %v", err)
	}
	if cell.Number != 1 || cell.Enable != 1 || cell.Disable != 0 || cell.Safe != "X" || cell.Function != FunctionBidir {
		t.Errorf("cell = %+v", *cell)
	}
	if got := dev.IDMask(); got != "FFFFFFFF" {
		t.Errorf("IDMask = %q", got)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Device {
		return &Device{
			Name:              "T",
			IDCode:            "0123ABCD",
			Instructions:      map[string]string{"idcode": "09"},
			InstructionLength: 8,
			BoundaryLength:    2,
			Cells: []BoundaryCell{
				{Number: 0, Port: "*", Function: FunctionControl, Safe: "0", Control: -1, Enable: -1, Disable: -1},
				{Number: 1, Port: "P", Function: FunctionBidir, Safe: "X", Control: 0, Enable: 1, Disable: 0},
			},
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid device rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(d *Device)
	}{
		{"length mismatch", func(d *Device) { d.BoundaryLength = 3 }},
		{"duplicate number", func(d *Device) { d.Cells[1].Number = 0 }},
		{"control out of range", func(d *Device) { d.Cells[1].Control = 2 }},
		{"bad safe", func(d *Device) { d.Cells[0].Safe = "Z" }},
		{"opcode too wide", func(d *Device) { d.Instructions["idcode"] = "109" }},
		{"lowercase key required", func(d *Device) { d.Instructions["SAMPLE"] = "01" }},
		{"idcode not hex", func(d *Device) { d.IDCode = "0123ABCG" }},
		{"mask width", func(d *Device) { d.IDCodeMask = "FF" }},
		{"no instruction length", func(d *Device) { d.InstructionLength = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid()
			tc.mutate(d)
			if err := d.Validate(); !errors.Is(err, ErrInvalidDevice) {
				t.Fatalf("Validate() = %v, want ErrInvalidDevice", err)
			}
		})
	}
}

func TestCellForPortNotFound(t *testing.T) {
	dev, err := Load("../../testdata/fpga.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := dev.CellForPort("PZ99"); !errors.Is(err, ErrPortNotFound) {
		t.Fatalf("error = %v, want ErrPortNotFound", err)
	}
	want := []string{"PL24B", "PL24A", "PL23D", "PB13B", "PL19A", "PL22A", "PR4C", "PT25A", "PX0"}
	if diff := cmp.Diff(want, dev.Ports()); diff != "" {
		t.Fatalf("Ports() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("device.txt"); err == nil {
		t.Fatal("expected error")
	}
	if !IsBSDLFile("x/LFE5U.BSM") || IsBSDLFile("x.json") {
		t.Fatal("IsBSDLFile misclassifies")
	}
}
