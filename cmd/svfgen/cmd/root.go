package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "svfgen",
	Short: "SVF board test generator for JTAG bridged through an FPGA",
	Long: `Generate SVF test files that exercise a board through the FPGA boundary
scan register, including a microcontroller whose JTAG pins are driven by
FPGA I/O cells.

Examples:
  svfgen generate --fpga fpga.bsm --mc mc.bsd               # Write the full suite
  svfgen generate --fpga fpga.bsm --suites rpi --values 1   # Only GPIO tests, value 1
  svfgen parse --instructions mc.bsd                        # Inspect a BSDL file
  svfgen replay --fpga fpga.bsm dist/generated_tests/test_idcode_mc.svf
  svfgen check --fpga fpga.bsm --records capture.json       # Map captures to faults`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
