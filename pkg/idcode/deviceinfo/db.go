package deviceinfo

import "github.com/OpenTraceLab/jtag-over-svf/pkg/idcode"

// anyVersion matches every silicon revision of a part.
const anyVersion = 0xFF

type key struct {
	ManufacturerCode uint16
	PartNumber       uint16
	Version          uint8
}

var db = make(map[key]DeviceInfo)

func register(k key, info DeviceInfo) {
	db[k] = info
}

// Lookup returns what is known about the part behind rawID. An exact
// revision match wins over a revision-independent entry.
func Lookup(rawID uint32) (DeviceInfo, bool) {
	id := idcode.ParseIDCode(rawID)
	m, _ := idcode.LookupManufacturer(id.ManufacturerCode)

	k := key{ManufacturerCode: id.ManufacturerCode, PartNumber: id.PartNumber, Version: id.Version}
	info, ok := db[k]
	if !ok {
		k.Version = anyVersion
		info, ok = db[k]
	}
	if !ok {
		return DeviceInfo{IDCode: id, Manufacturer: m, Name: "Unknown device"}, false
	}
	info.IDCode = id
	info.Manufacturer = m
	return info, true
}

// LookupHex is Lookup for an SVF hex literal.
func LookupHex(s string) (DeviceInfo, bool, error) {
	id, err := idcode.ParseHex(s)
	if err != nil {
		return DeviceInfo{}, false, err
	}
	info, ok := Lookup(id.Raw)
	return info, ok, nil
}
