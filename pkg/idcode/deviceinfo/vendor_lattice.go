package deviceinfo

func init() {
	const lattice = 0x021

	ecp5 := func(name string, part uint16, version uint8, desc string) {
		register(key{ManufacturerCode: lattice, PartNumber: part, Version: version}, DeviceInfo{
			Name:        name,
			Family:      "ECP5",
			Description: desc,
			IsFPGA:      true,
			IRLength:    8,
		})
	}

	ecp5("LFE5U-12F", 0x1111, 2, "ECP5 FPGA, 12k LUT")
	ecp5("LFE5U-25F", 0x1111, 4, "ECP5 FPGA, 24k LUT")
	ecp5("LFE5U-45F", 0x1112, 4, "ECP5 FPGA, 44k LUT")
	ecp5("LFE5U-85F", 0x1113, 4, "ECP5 FPGA, 84k LUT")
	ecp5("LFE5UM-25F", 0x1111, 0, "ECP5 FPGA with SERDES, 24k LUT")
	ecp5("LFE5UM-45F", 0x1112, 0, "ECP5 FPGA with SERDES, 44k LUT")
	ecp5("LFE5UM-85F", 0x1113, 0, "ECP5 FPGA with SERDES, 84k LUT")
	ecp5("LFE5UM5G-25F", 0x1111, 8, "ECP5-5G FPGA, 24k LUT")
	ecp5("LFE5UM5G-45F", 0x1112, 8, "ECP5-5G FPGA, 44k LUT")
	ecp5("LFE5UM5G-85F", 0x1113, 8, "ECP5-5G FPGA, 84k LUT")
}
