package deviceinfo

import "github.com/OpenTraceLab/jtag-over-svf/pkg/idcode"

// DeviceInfo describes a known boundary-scan part.
type DeviceInfo struct {
	IDCode       idcode.IDCode
	Manufacturer idcode.Manufacturer

	Name        string // "LFE5U-25F"
	Family      string // "ECP5"
	Description string

	IsFPGA   bool
	IsMCU    bool
	IRLength int
}
