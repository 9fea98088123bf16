package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/faultcheck"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/pinmap"
)

var (
	checkRecordsFile string
	checkOutFile     string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Map captured interconnect results to wiring faults",
	Long: `Compare the data captured by the SVF player against the expected TDO of
each checked scan and report every mapped FPGA cell that differs.

The records file is a JSON array of {"tdi", "tdo", "mask", "data"} objects
holding SVF hex literals. Faults are written to --out only when at least
one is found.`,
	Example: `  svfgen check --fpga fpga.bsm --records capture.json
  svfgen check --fpga fpga.bsm --records capture.json --mc-map board.json --out faults.json`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&fpgaFile, "fpga", "", "FPGA BSDL or JSON file (required)")
	checkCmd.Flags().StringVar(&checkRecordsFile, "records", "", "captured records JSON (required)")
	checkCmd.Flags().StringVar(&mcMapFile, "mc-map", "", "microcontroller pin map JSON (default: built-in board table)")
	checkCmd.Flags().StringVarP(&checkOutFile, "out", "o", "faults.json", "fault report file")
	checkCmd.MarkFlagRequired("fpga")
	checkCmd.MarkFlagRequired("records")
}

func runCheck(cmd *cobra.Command, args []string) error {
	fpga, err := loadDevice(fpgaFile, "FPGA")
	if err != nil {
		return err
	}
	table, err := loadTable(mcMapFile, pinmap.MCTable)
	if err != nil {
		return err
	}
	records, err := faultcheck.LoadRecords(checkRecordsFile)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Checking %d records against %d mapped pins\n", len(records), table.Len())
	}

	faults, err := faultcheck.Check(records, fpga, table)
	if err != nil {
		return err
	}
	if len(faults) == 0 {
		fmt.Println("No faults found")
		return nil
	}

	fmt.Printf("Found %d faults:\n", len(faults))
	for _, f := range faults {
		fmt.Printf("  #%-3d %-10s <-> %-10s expected %s, received %s\n",
			f.FaultNr, f.PortMC, f.PortFPGA, f.Expected, f.Received)
	}
	if _, err := faultcheck.WriteFaults(checkOutFile, faults); err != nil {
		return err
	}
	fmt.Printf("Fault report written to %s\n", checkOutFile)
	return nil
}
