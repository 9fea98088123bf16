package pinmap

import (
	"errors"
	"strings"
	"testing"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
)

func TestDefaultTables(t *testing.T) {
	mc, err := Default(MCTable)
	if err != nil {
		t.Fatalf("Default(mc): %v", err)
	}
	if mc.Len() != 87 {
		t.Fatalf("mc table has %d entries, want 87", mc.Len())
	}
	first := mc.Entries()[0]
	if first.Pin != "PE(0)" || first.FPGA != "PL19A" {
		t.Errorf("first entry = %+v", first)
	}
	if got, _ := mc.Get("RESET"); got != "PR4C" {
		t.Errorf("RESET -> %q, want PR4C", got)
	}
	if got, _ := mc.Get("PF(7)"); got != "PB13B" {
		t.Errorf("PF(7) -> %q, want PB13B", got)
	}

	rpi, err := Default(RPiTable)
	if err != nil {
		t.Fatalf("Default(rpi): %v", err)
	}
	want := []Entry{{"12", "PT25A"}, {"16", "PT22D"}, {"27", "PT22C"}}
	got := rpi.Entries()
	if len(got) != len(want) {
		t.Fatalf("rpi entries = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rpi[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := Default("io"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestGetMissing(t *testing.T) {
	tbl, err := New("t", []Entry{{Pin: "A", FPGA: "PL1A"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := tbl.Get("B"); !errors.Is(err, ErrMappingNotFound) {
		t.Fatalf("Get(B) error = %v", err)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New("t", []Entry{{Pin: "A", FPGA: "PL1A"}, {Pin: "A", FPGA: "PL1B"}})
	if !errors.Is(err, ErrDuplicatePin) {
		t.Fatalf("error = %v, want ErrDuplicatePin", err)
	}
	if _, err := New("t", []Entry{{Pin: "A"}}); err == nil {
		t.Fatal("expected error for empty FPGA port")
	}
}

func TestParseKeepsOrder(t *testing.T) {
	tbl, err := Parse(strings.NewReader(`{"name": "x", "pins": [
		{"pin": "Z", "fpga": "P1"}, {"pin": "A", "fpga": "P2"}, {"pin": "M", "fpga": "P3"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var pins []string
	for _, e := range tbl.Entries() {
		pins = append(pins, e.Pin)
	}
	if strings.Join(pins, ",") != "Z,A,M" {
		t.Fatalf("order = %v", pins)
	}
}

func TestValidateAgainstDevices(t *testing.T) {
	fpga, err := bsdl.Load("../../testdata/fpga.json")
	if err != nil {
		t.Fatalf("load fpga: %v", err)
	}
	mc, err := bsdl.Load("../../testdata/mc.bsd")
	if err != nil {
		t.Fatalf("load mc: %v", err)
	}
	tbl, err := Load("../../testdata/mc_map.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := tbl.Validate(fpga, mc); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad, _ := New("bad", []Entry{{Pin: "PE(0)", FPGA: "PZ9"}})
	if err := bad.Validate(fpga, mc); !errors.Is(err, bsdl.ErrPortNotFound) {
		t.Fatalf("unknown FPGA port: error = %v", err)
	}
	bad, _ = New("bad", []Entry{{Pin: "PE(7)", FPGA: "PL19A"}})
	if err := bad.Validate(fpga, mc); !errors.Is(err, bsdl.ErrPortNotFound) {
		t.Fatalf("unknown MC pin: error = %v", err)
	}
	if err := bad.Validate(fpga, nil); err != nil {
		t.Fatalf("Validate without target: %v", err)
	}

	// The built-in table names ports the reduced fixture does not have.
	full, _ := Default(MCTable)
	if err := full.Validate(fpga, nil); err == nil {
		t.Fatal("expected the full board table to fail on the reduced fixture")
	}
}
