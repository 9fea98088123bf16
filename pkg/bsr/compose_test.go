package bsr

import (
	"errors"
	"testing"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/pinmap"
)

func loadDevice(t *testing.T, path string) *bsdl.Device {
	t.Helper()
	dev, err := bsdl.Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	return dev
}

func TestFrozenAndPreload(t *testing.T) {
	fpga := loadDevice(t, "../../testdata/fpga.json")

	frozen, err := Frozen(fpga)
	if err != nil {
		t.Fatalf("Frozen: %v", err)
	}
	// Every control cell at its disable value (1) plus the INTERNAL cell.
	if got := frozen.Hex(); got != "15555" {
		t.Errorf("Frozen = %s, want 15555", got)
	}
	if frozen.Len() != fpga.BoundaryLength {
		t.Errorf("Frozen width = %d", frozen.Len())
	}

	preload, err := Preload(fpga)
	if err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if got := preload.Hex(); got != "15555" {
		t.Errorf("Preload = %s, want 15555", got)
	}
}

func TestDrive(t *testing.T) {
	fpga := loadDevice(t, "../../testdata/fpga.json")

	tests := []struct {
		port string
		v    bool
		want string
	}{
		{"PT25A", true, "19555"},
		{"PL19A", false, "3FCFF"},
	}
	for _, tc := range tests {
		vec, err := Drive(fpga, tc.port, tc.v)
		if err != nil {
			t.Fatalf("Drive(%s, %v): %v", tc.port, tc.v, err)
		}
		if got := vec.Hex(); got != tc.want {
			t.Errorf("Drive(%s, %v) = %s, want %s", tc.port, tc.v, got, tc.want)
		}
	}

	if _, err := Drive(fpga, "PZ1", true); !errors.Is(err, bsdl.ErrPortNotFound) {
		t.Errorf("Drive(PZ1) error = %v", err)
	}
}

func TestRead(t *testing.T) {
	fpga := loadDevice(t, "../../testdata/fpga.json")

	high, err := Read(fpga, "PT25A", true)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if high.TDO.Hex() != "08000" || high.Mask.Hex() != "08000" {
		t.Errorf("Read(PT25A, 1) = %s/%s", high.TDO.Hex(), high.Mask.Hex())
	}

	low, err := Read(fpga, "PT25A", false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if low.TDO.Hex() != "00000" || low.Mask.Hex() != "08000" {
		t.Errorf("Read(PT25A, 0) = %s/%s", low.TDO.Hex(), low.Mask.Hex())
	}
}

func TestMCDrive(t *testing.T) {
	mc := loadDevice(t, "../../testdata/mc.bsd")

	tests := []struct {
		pin  string
		v    bool
		want string
	}{
		{"PE(0)", true, "9F"},
		{"PE(0)", false, "F3"},
		{"RESET", true, "93"},
	}
	for _, tc := range tests {
		vec, err := MCDrive(mc, tc.pin, tc.v)
		if err != nil {
			t.Fatalf("MCDrive(%s, %v): %v", tc.pin, tc.v, err)
		}
		if got := vec.Hex(); got != tc.want {
			t.Errorf("MCDrive(%s, %v) = %s, want %s", tc.pin, tc.v, got, tc.want)
		}
		if reset, _ := vec.Get(0); !reset {
			t.Errorf("MCDrive(%s, %v): RESET cell low", tc.pin, tc.v)
		}
	}

	// A TAP pin has no cells: every port pin carries the complement.
	tapPin, err := MCDrive(mc, "PF(4)", true)
	if err != nil {
		t.Fatalf("MCDrive(PF(4)): %v", err)
	}
	if got := tapPin.Hex(); got != "93" {
		t.Errorf("MCDrive(PF(4), 1) = %s, want 93", got)
	}
}

func TestPinCheck(t *testing.T) {
	fpga := loadDevice(t, "../../testdata/fpga.json")
	table, err := pinmap.New("mc", []pinmap.Entry{
		{Pin: "PE(0)", FPGA: "PL19A"},
		{Pin: "PE(1)", FPGA: "PL22A"},
		{Pin: "RESET", FPGA: "PR4C"},
		{Pin: "PF(4)", FPGA: "PL24B"},
	})
	if err != nil {
		t.Fatalf("pinmap.New: %v", err)
	}
	bridge := []int{1, 3, 5, 7}

	tests := []struct {
		pin  string
		v    bool
		tdo  string
		mask string
	}{
		{"PE(0)", true, "00200", "00A00"},
		{"PE(0)", false, "00800", "00A00"},
		{"PE(1)", true, "00800", "00A00"},
		{"RESET", true, "00000", "00A00"},
		{"PF(4)", false, "00A00", "00A00"},
	}
	for _, tc := range tests {
		exp, err := PinCheck(fpga, table, bridge, tc.pin, tc.v)
		if err != nil {
			t.Fatalf("PinCheck(%s, %v): %v", tc.pin, tc.v, err)
		}
		if exp.TDO.Hex() != tc.tdo || exp.Mask.Hex() != tc.mask {
			t.Errorf("PinCheck(%s, %v) = %s/%s, want %s/%s",
				tc.pin, tc.v, exp.TDO.Hex(), exp.Mask.Hex(), tc.tdo, tc.mask)
		}
	}

	if _, err := PinCheck(fpga, table, bridge, "PB(0)", true); !errors.Is(err, pinmap.ErrMappingNotFound) {
		t.Errorf("PinCheck(PB(0)) error = %v", err)
	}
}

func TestSetDriverWithoutControl(t *testing.T) {
	fpga := loadDevice(t, "../../testdata/fpga.json")
	vec, _ := Frozen(fpga)
	before := vec.Hex()
	observe, err := fpga.CellForPort("PX0")
	if err != nil {
		t.Fatalf("CellForPort: %v", err)
	}
	if err := SetDriver(vec, observe, true); err != nil {
		t.Fatalf("SetDriver: %v", err)
	}
	if vec.Hex() != before {
		t.Errorf("SetDriver changed a vector for a cell without control")
	}
}
