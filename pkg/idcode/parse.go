package idcode

import (
	"fmt"
	"strconv"
)

// ParseIDCode splits a raw 32-bit IDCODE into its fields.
func ParseIDCode(raw uint32) IDCode {
	return IDCode{
		Raw:              raw,
		Version:          uint8((raw >> 28) & 0xF),
		PartNumber:       uint16((raw >> 12) & 0xFFFF),
		ManufacturerCode: uint16((raw >> 1) & 0x7FF),
		HasIDCode:        raw&0x1 == 0x1,
	}
}

// ParseHex decodes an IDCODE written as an SVF hex literal, e.g. "41111043".
func ParseHex(s string) (IDCode, error) {
	if s == "" {
		return IDCode{}, fmt.Errorf("idcode: empty value")
	}
	raw, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return IDCode{}, fmt.Errorf("idcode: %q: %w", s, err)
	}
	return ParseIDCode(uint32(raw)), nil
}

// Describe returns a one-line summary such as "Lattice part 0x1111 rev 4".
func Describe(id IDCode) string {
	m, _ := LookupManufacturer(id.ManufacturerCode)
	return fmt.Sprintf("%s part 0x%04X rev %d", m.Name, id.PartNumber, id.Version)
}
