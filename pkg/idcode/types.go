package idcode

import "fmt"

// IDCode is a decoded IEEE 1149.1 IDCODE register value.
type IDCode struct {
	Raw              uint32
	Version          uint8  // [31:28]
	PartNumber       uint16 // [27:12]
	ManufacturerCode uint16 // [11:1], JEP106 bank and id without parity
	HasIDCode        bool   // bit 0 is always 1 for a valid IDCODE
}

func (id IDCode) String() string {
	return fmt.Sprintf("0x%08X (version %d, part 0x%04X, manufacturer 0x%03X)",
		id.Raw, id.Version, id.PartNumber, id.ManufacturerCode)
}

// Manufacturer is a JEP106 entry.
type Manufacturer struct {
	Code uint16
	Name string
}
