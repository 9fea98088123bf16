package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/svf"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file.svf>",
	Short: "Decode the microcontroller scans carried by a generated SVF file",
	Long: `Play the FPGA EXTEST scans of an SVF file through a simulated downstream
TAP and print the IR and DR shifts the microcontroller would see.`,
	Example: `  svfgen replay --fpga fpga.bsm dist/generated_tests/test_idcode_mc.svf
  svfgen replay --fpga fpga.json --tck PL24B --tms PL24A --tdo PL23D --tdi PB13B test.svf`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&fpgaFile, "fpga", "", "FPGA BSDL or JSON file (required)")
	addBridgeFlags(replayCmd)
	replayCmd.MarkFlagRequired("fpga")
}

func runReplay(cmd *cobra.Command, args []string) error {
	fpga, err := loadDevice(fpgaFile, "FPGA")
	if err != nil {
		return err
	}
	pins, err := svf.ResolvePins(fpga, bridgeNames())
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open SVF file: %w", err)
	}
	defer f.Close()

	r, err := svf.ReplayProgram(f, fpga, pins)
	if err != nil {
		return err
	}

	fmt.Printf("Replayed %d TCK edges, %d scans, final state %s\n", r.Edges, len(r.Ops), r.State)
	for i, op := range r.Ops {
		fmt.Printf("  %3d: %s %3d bits TDI %s", i, op.Region, op.Bits(), op.Hex())
		if tdo, ok := op.ExpectHex(); ok {
			fmt.Printf(" TDO %s", tdo)
		} else if verbose {
			fmt.Printf(" TDO %s", op.TDO)
		}
		fmt.Println()
	}
	return nil
}
