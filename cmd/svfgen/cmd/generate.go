package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/pinmap"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/svf"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/sweep"
)

var (
	genMCFile    string
	genOutDir    string
	genValues    []string
	genSuites    []string
	genJobs      int
	genFrequency float64
	genOnly      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the SVF test suite for the board",
	Long: `Write one SVF file per test case into the output directory.

Suites:
  reset  test_reset_fpga.svf
  rpi    test_gpio_write_<pin>_<v>.svf and test_gpio_read_<pin>_<v>.svf
  mc     test_idcode_mc.svf and test_fpga_mc_<v>.svf

The mc suite talks to the microcontroller through the FPGA cells named by
--tck, --tms, --tdo and --tdi.`,
	Example: `  svfgen generate --fpga fpga.bsm --mc mc.bsd
  svfgen generate --fpga fpga.json --suites rpi --values 1 --out /tmp/svf
  svfgen generate --fpga fpga.bsm --mc mc.bsd --only '^PE' --jobs 4`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&fpgaFile, "fpga", "", "FPGA BSDL or JSON file (required)")
	generateCmd.Flags().StringVar(&genMCFile, "mc", "", "microcontroller BSDL or JSON file (needed by the mc suite)")
	generateCmd.Flags().StringVar(&mcMapFile, "mc-map", "", "microcontroller pin map JSON (default: built-in board table)")
	generateCmd.Flags().StringVar(&rpiMapFile, "rpi-map", "", "Raspberry Pi pin map JSON (default: built-in board table)")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", sweep.DefaultOutDir, "output directory")
	generateCmd.Flags().StringSliceVar(&genValues, "values", []string{"0", "1"}, "test values to generate")
	generateCmd.Flags().StringSliceVar(&genSuites, "suites", suiteNames(sweep.AllSuites()), "suites to generate")
	generateCmd.Flags().IntVarP(&genJobs, "jobs", "j", 0, "files generated in parallel (default: number of CPUs)")
	generateCmd.Flags().Float64Var(&genFrequency, "frequency", svf.DefaultFrequency, "SVF FREQUENCY in Hz")
	generateCmd.Flags().StringVar(&genOnly, "only", "", "only test RPi and microcontroller pins matching this regex")
	addBridgeFlags(generateCmd)
	generateCmd.MarkFlagRequired("fpga")
}

func addBridgeFlags(c *cobra.Command) {
	names := svf.DefaultPinNames()
	c.Flags().StringVar(&bridgeTCK, "tck", names.TCK, "FPGA port wired to the microcontroller TCK")
	c.Flags().StringVar(&bridgeTMS, "tms", names.TMS, "FPGA port wired to the microcontroller TMS")
	c.Flags().StringVar(&bridgeTDO, "tdo", names.TDO, "FPGA port wired to the microcontroller TDO")
	c.Flags().StringVar(&bridgeTDI, "tdi", names.TDI, "FPGA port wired to the microcontroller TDI")
}

func suiteNames(suites []sweep.Suite) []string {
	out := make([]string, len(suites))
	for i, s := range suites {
		out[i] = string(s)
	}
	return out
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := sweep.DefaultConfig()
	cfg.Values = cfg.Values[:0]
	for _, s := range genValues {
		v, err := sweep.ParseValue(s)
		if err != nil {
			return err
		}
		cfg.Values = append(cfg.Values, v)
	}
	cfg.Suites = cfg.Suites[:0]
	for _, s := range genSuites {
		suite, err := sweep.ParseSuite(s)
		if err != nil {
			return err
		}
		cfg.Suites = append(cfg.Suites, suite)
	}
	cfg.OnlyPinPattern = genOnly
	cfg.Bridge = bridgeNames()
	cfg.Frequency = genFrequency
	cfg.OutDir = genOutDir
	if genJobs > 0 {
		cfg.Jobs = genJobs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	board, err := loadBoard(cfg)
	if err != nil {
		return err
	}
	warnFrequency(cfg.Frequency, board.FPGA, board.MC)

	gen, err := sweep.NewGenerator(board, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := make(chan sweep.Progress)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for p := range progress {
			if verbose && p.Phase == "writing" {
				fmt.Printf("  [%d/%d] %s\n", p.Index+1, p.Total, p.File)
			}
		}
	}()

	paths, err := gen.Run(ctx, progress)
	close(progress)
	<-drained
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d SVF files in %s\n", len(paths), cfg.OutDir)
	return nil
}

func loadBoard(cfg *sweep.Config) (sweep.Board, error) {
	var board sweep.Board
	var err error
	if board.FPGA, err = loadDevice(fpgaFile, "FPGA"); err != nil {
		return board, err
	}
	if cfg.HasSuite(sweep.SuiteRPi) {
		if board.RPiMap, err = loadTable(rpiMapFile, pinmap.RPiTable); err != nil {
			return board, err
		}
	}
	if cfg.HasSuite(sweep.SuiteMC) {
		if board.MC, err = loadDevice(genMCFile, "microcontroller"); err != nil {
			return board, fmt.Errorf("%w (the mc suite needs --mc)", err)
		}
		if board.MCMap, err = loadTable(mcMapFile, pinmap.MCTable); err != nil {
			return board, err
		}
	}
	return board, nil
}

// warnFrequency reports a FREQUENCY above a device's TAP_SCAN_CLOCK. The
// bridged microcontroller sees one TCK edge per two FPGA scans, so only the
// FPGA limit applies to the player clock directly.
func warnFrequency(freq float64, fpga, mc *bsdl.Device) {
	if fpga.MaxTCK > 0 && freq > fpga.MaxTCK {
		fmt.Fprintf(os.Stderr, "warning: frequency %.2e Hz exceeds %s TAP_SCAN_CLOCK %.2e Hz\n",
			freq, fpga.Name, fpga.MaxTCK)
	}
	if verbose && mc != nil && mc.MaxTCK > 0 {
		fmt.Printf("Microcontroller %s accepts TCK up to %.2e Hz\n", mc.Name, mc.MaxTCK)
	}
}
