// Command svfgen writes the SVF board test suite for an FPGA that bridges
// JTAG to a microcontroller, and helps read back the results.
package main

import "github.com/OpenTraceLab/jtag-over-svf/cmd/svfgen/cmd"

func main() {
	cmd.Execute()
}
