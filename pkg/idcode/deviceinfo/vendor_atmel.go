package deviceinfo

func init() {
	const atmel = 0x01F

	avr := func(name string, part uint16) {
		register(key{ManufacturerCode: atmel, PartNumber: part, Version: anyVersion}, DeviceInfo{
			Name:        name,
			Family:      "megaAVR",
			Description: "8-bit AVR MCU with JTAG boundary scan",
			IsMCU:       true,
			IRLength:    4,
		})
	}

	avr("ATmega2560", 0x9801)
	avr("ATmega2561", 0x9802)
	avr("ATmega1280", 0x9703)
	avr("ATmega1281", 0x9704)
	avr("ATmega640", 0x9608)
	avr("ATmega128", 0x9702)
	avr("ATmega64", 0x9602)
}
