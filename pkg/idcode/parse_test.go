package idcode

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseIDCodeFields(t *testing.T) {
	id := ParseIDCode(0x41111043)
	if id.Version != 4 {
		t.Errorf("Version = %d, want 4", id.Version)
	}
	if id.PartNumber != 0x1111 {
		t.Errorf("PartNumber = 0x%X, want 0x1111", id.PartNumber)
	}
	if id.ManufacturerCode != 0x021 {
		t.Errorf("ManufacturerCode = 0x%X, want 0x021", id.ManufacturerCode)
	}
	if !id.HasIDCode {
		t.Error("HasIDCode = false")
	}
}

func TestParseHex(t *testing.T) {
	id, err := ParseHex("4980103F")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if id.PartNumber != 0x9801 || id.ManufacturerCode != 0x01F {
		t.Fatalf("unexpected fields: %v", id)
	}
	if got := Describe(id); got != "Atmel part 0x9801 rev 4" {
		t.Fatalf("Describe = %q", got)
	}

	_, err = ParseHex("XYZ")
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("expected strconv.NumError, got %v", err)
	}
	if _, err := ParseHex(""); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestLookupManufacturerUnknown(t *testing.T) {
	m, ok := LookupManufacturer(0x7FE)
	if ok {
		t.Fatal("expected unknown manufacturer")
	}
	if m.Name != "Unknown (0x7FE)" {
		t.Fatalf("Name = %q", m.Name)
	}
}
