package idcode

import "fmt"

// manufacturers maps the 11-bit IDCODE manufacturer field to a JEP106 name.
var manufacturers = map[uint16]Manufacturer{
	0x001: {Code: 0x001, Name: "AMD"},
	0x009: {Code: 0x009, Name: "Intel"},
	0x00E: {Code: 0x00E, Name: "Freescale"},
	0x015: {Code: 0x015, Name: "NXP"},
	0x017: {Code: 0x017, Name: "Texas Instruments"},
	0x01F: {Code: 0x01F, Name: "Atmel"},
	0x020: {Code: 0x020, Name: "STMicroelectronics"},
	0x021: {Code: 0x021, Name: "Lattice"},
	0x029: {Code: 0x029, Name: "Microchip"},
	0x034: {Code: 0x034, Name: "Cypress"},
	0x049: {Code: 0x049, Name: "Xilinx"},
	0x065: {Code: 0x065, Name: "Analog Devices"},
	0x06E: {Code: 0x06E, Name: "Altera"},
	0x0C1: {Code: 0x0C1, Name: "Infineon"},
	0x23B: {Code: 0x23B, Name: "ARM"},
	0x244: {Code: 0x244, Name: "Nordic Semiconductor"},
}

// LookupManufacturer returns the JEP106 entry for code. Unknown codes yield
// a placeholder name and false.
func LookupManufacturer(code uint16) (Manufacturer, bool) {
	m, ok := manufacturers[code]
	if !ok {
		return Manufacturer{Code: code, Name: fmt.Sprintf("Unknown (0x%03X)", code)}, false
	}
	return m, true
}
