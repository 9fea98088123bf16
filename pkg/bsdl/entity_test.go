package bsdl

import (
	"errors"
	"fmt"
	"testing"
)

// createTestBSDL returns a small device whose boundary register is given
// as the concatenated body of BOUNDARY_REGISTER.
func createTestBSDL(name string, length int, register string) string {
	return fmt.Sprintf(`
entity %[1]s is
    port (
        TCK, TMS, TDI : in bit;
        TDO : out bit;
        PA : inout bit_vector (0 to 1);
        PB0 : inout bit
    );
    use STD_1149_1_2001.all;
    attribute TAP_SCAN_CLOCK of TCK : signal is (10.0e6, BOTH);
    attribute INSTRUCTION_LENGTH of %[1]s : entity is 4;
    attribute INSTRUCTION_OPCODE of %[1]s : entity is
        "EXTEST (0000)," &
        "IDCODE (0001)," &
        "SAMPLE (0010, 0011)," &
        "BYPASS (1111)";
    attribute IDCODE_REGISTER of %[1]s : entity is
        "0001" & "0000000000000010" & "00000011111" & "1";
    attribute BOUNDARY_LENGTH of %[1]s : entity is %[2]d;
    attribute BOUNDARY_REGISTER of %[1]s : entity is %[3]s;
end %[1]s;
`, name, length, register)
}

const testRegister = `
        "5 (BC_1, *, INTERNAL, 0)," &
        "4 (BC_1, PB0, INPUT, X)," &
        "3 (BC_1, *, CONTROL, 1)," &
        "2 (BC_1, PA(1), OUTPUT3, X, 3, 1, Z)," &
        "1 (BC_1, *, CONTROL, 1)," &
        "0 (BC_7, PA(0), BIDIR, X, 1, 1, Z)"`

func TestEntityDevice(t *testing.T) {
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("parser init failed: %v", err)
	}
	dev, err := parser.ParseDevice(createTestBSDL("CHIP", 6, testRegister))
	if err != nil {
		t.Fatalf("ParseDevice: %v", err)
	}

	if dev.Name != "CHIP" {
		t.Errorf("Name = %q", dev.Name)
	}
	if dev.IDCode != "1000203F" {
		t.Errorf("IDCode = %q, want 1000203F", dev.IDCode)
	}
	if dev.IDCodeMask != "" {
		t.Errorf("IDCodeMask = %q, want empty", dev.IDCodeMask)
	}
	if dev.InstructionLength != 4 || dev.BoundaryLength != 6 {
		t.Errorf("lengths = %d/%d", dev.InstructionLength, dev.BoundaryLength)
	}
	if dev.MaxTCK != 10e6 {
		t.Errorf("MaxTCK = %v", dev.MaxTCK)
	}

	wantOps := map[string]string{"extest": "0", "idcode": "1", "sample": "2", "bypass": "F"}
	for name, want := range wantOps {
		got, err := dev.Opcode(name)
		if err != nil {
			t.Fatalf("Opcode(%s): %v", name, err)
		}
		if got != want {
			t.Errorf("Opcode(%s) = %s, want %s", name, got, want)
		}
	}
	if _, err := dev.Opcode("HIGHZ"); !errors.Is(err, ErrInstructionNotFound) {
		t.Errorf("Opcode(HIGHZ) error = %v", err)
	}

	cell, err := dev.CellForPort("PA(1)")
	if err != nil {
		t.Fatalf("CellForPort(PA(1)): %v", err)
	}
	if cell.Number != 2 || cell.Control != 3 || cell.Disable != 1 || cell.Enable != 0 {
		t.Errorf("PA(1) cell = %+v", *cell)
	}
	if !cell.HasDisableSpec() || cell.DisableResult != "Z" {
		t.Errorf("PA(1) disable spec missing: %+v", *cell)
	}

	internal, err := dev.Cell(5)
	if err != nil {
		t.Fatalf("Cell(5): %v", err)
	}
	if !internal.IsInternal() || internal.Function != FunctionInternal || internal.SafeBit() {
		t.Errorf("cell 5 = %+v", *internal)
	}
}

func TestGetInstructionsKeepsAlternates(t *testing.T) {
	expr := &Expression{Terms: []*ExpressionTerm{
		{String: &String{Value: `"BYPASS (11111111), SAMPLE (10000000, 00000010),"`}},
		{String: &String{Value: `"IDCODE(00000001)"`}},
	}}
	got := GetInstructions(expr)
	if len(got) != 3 {
		t.Fatalf("got %d instructions, want 3: %+v", len(got), got)
	}
	if got[1].Name != "SAMPLE" || len(got[1].Opcodes) != 2 || got[1].Opcodes[1] != "00000010" {
		t.Errorf("SAMPLE = %+v", got[1])
	}
	if got[2].Name != "IDCODE" || got[2].Opcodes[0] != "00000001" {
		t.Errorf("IDCODE = %+v", got[2])
	}
}

func TestScanBoundaryEntriesNestedParens(t *testing.T) {
	entries, err := scanBoundaryEntries(`12 (BC_1, PE(0), OUTPUT3, X, 13, 0, Z), 13 (BC_1, *, CONTROL, 0)`)
	if err != nil {
		t.Fatalf("scanBoundaryEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].number != 12 || entries[0].fields[1] != "PE(0)" || len(entries[0].fields) != 7 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].number != 13 || len(entries[1].fields) != 4 {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func TestScanBoundaryEntriesErrors(t *testing.T) {
	for _, raw := range []string{
		`(BC_1, *, CONTROL, 0)`,
		`0 BC_1`,
		`0 (BC_1, PE(0), INPUT, X`,
	} {
		if _, err := scanBoundaryEntries(raw); err == nil {
			t.Errorf("scanBoundaryEntries(%q) succeeded", raw)
		}
	}
}

func TestParseBinaryStringWildcards(t *testing.T) {
	value, mask, wild := ParseBinaryString("X1X0 01")
	if value != "010001" || mask != "010111" || !wild {
		t.Fatalf("got %s/%s/%v", value, mask, wild)
	}
}

func TestEntityDeviceWildcardIDCode(t *testing.T) {
	dev, err := Load("../../testdata/mc.bsd")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if dev.IDCode != "0980103F" || dev.IDCodeMask != "0FFFFFFF" {
		t.Fatalf("IDCode/mask = %s/%s", dev.IDCode, dev.IDMask())
	}
	if op, _ := dev.Opcode("avr_reset"); op != "C" {
		t.Errorf("avr_reset = %q, want C", op)
	}
	if cells := dev.CellsForPort("PE(0)"); len(cells) != 2 {
		t.Errorf("PE(0) has %d cells, want 2", len(cells))
	}
	if _, err := dev.CellForPort("PE(0)"); !errors.Is(err, ErrAmbiguousPort) {
		t.Errorf("CellForPort(PE(0)) error = %v", err)
	}
}

func TestGetPinMap(t *testing.T) {
	parser, err := NewParser()
	if err != nil {
		t.Fatalf("parser init failed: %v", err)
	}
	file, err := parser.ParseFile("../../testdata/mc.bsd")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	pins := file.Entity.GetPinMap()
	if pins["RESET"] != "30" {
		t.Errorf("RESET = %q", pins["RESET"])
	}
	if pins["PE"] != "(2, 3)" {
		t.Errorf("PE = %q", pins["PE"])
	}
}
