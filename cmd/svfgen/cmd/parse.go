package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/jtag-over-svf/pkg/bsdl"
	"github.com/OpenTraceLab/jtag-over-svf/pkg/svf"
)

var (
	showInstructions bool
	showBoundary     bool
	parseJSON        bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a BSDL file or JSON device asset and show its model",
	Long: `Load a device the way generate does and print what the test generator
will use: IDCODE, instruction opcodes and boundary cells.

With --json the device is written as the JSON asset format, which generate
accepts in place of the BSDL source.`,
	Example: `  svfgen parse LFE5U-25F.bsm
  svfgen parse --instructions --boundary mc.bsd
  svfgen parse --json mc.bsd > mc.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&showInstructions, "instructions", "i", false, "show instruction opcodes")
	parseCmd.Flags().BoolVarP(&showBoundary, "boundary", "b", false, "show boundary register cells")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "write the device as a JSON asset")
}

func runParse(cmd *cobra.Command, args []string) error {
	dev, err := bsdl.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load device: %w", err)
	}
	if parseJSON {
		return bsdl.EncodeJSON(os.Stdout, dev)
	}

	fmt.Printf("Device: %s\n", dev.Name)
	fmt.Printf("========%s\n", strings.Repeat("=", len(dev.Name)))
	fmt.Println()

	fmt.Printf("IDCODE:          %s\n", svf.DescribeIDCode(dev.IDCode))
	if dev.IDCodeMask != "" {
		fmt.Printf("IDCODE Mask:     %s\n", dev.IDCodeMask)
	}
	fmt.Printf("IR Length:       %d bits\n", dev.InstructionLength)
	fmt.Printf("Boundary Length: %d cells\n", dev.BoundaryLength)
	if dev.MaxTCK > 0 {
		fmt.Printf("Max TCK:         %.2e Hz\n", dev.MaxTCK)
	}
	fmt.Println()

	names := make([]string, 0, len(dev.Instructions))
	for name := range dev.Instructions {
		names = append(names, name)
	}
	sort.Strings(names)
	if showInstructions {
		fmt.Printf("Instructions: %d\n", len(names))
		for _, name := range names {
			fmt.Printf("  %-20s %s\n", name, dev.Instructions[name])
		}
		fmt.Println()
	} else {
		fmt.Printf("Instructions: %v\n\n", names)
	}

	if showBoundary {
		fmt.Printf("Boundary Register: %d cells\n", len(dev.Cells))
		limit := len(dev.Cells)
		if !verbose && limit > 20 {
			limit = 20
		}
		for _, cell := range dev.Cells[:limit] {
			fmt.Printf("  %3d: %-6s %-12s %-10s safe=%s",
				cell.Number, cell.CellType, cell.Port, cell.Function, cell.Safe)
			if cell.HasControl() {
				fmt.Printf(" ctrl=%d", cell.Control)
			}
			if cell.Disable >= 0 {
				fmt.Printf(" dis=%d", cell.Disable)
			}
			if cell.DisableResult != "" {
				fmt.Printf(" res=%s", cell.DisableResult)
			}
			fmt.Println()
		}
		if limit < len(dev.Cells) {
			fmt.Printf("  ... and %d more cells (use -v to show all)\n", len(dev.Cells)-limit)
		}
		fmt.Println()
	}

	fmt.Println("Parsing completed successfully!")
	return nil
}
