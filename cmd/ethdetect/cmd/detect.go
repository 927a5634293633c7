package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ethdetect/pkg/ethdetect"
	"github.com/OpenTraceLab/ethdetect/pkg/report"
)

var (
	outputFormat string
	outputJSON   bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Report the PHY address, PHY ID and interface mode",
	Long: `Read the MDIO controller and the clock/reset mode register of the selected SoC
generation and report what was found. Entries that cannot be determined are
left out rather than failing the run.

Output formats:
  yaml   the inventory document (default when stdout is not a terminal)
  json   the same document as JSON
  human  a readable summary with decoded PHY vendor and part
  auto   human on a terminal, yaml otherwise

Examples:
  ethdetect detect --chip hi3516ev300
  ethdetect detect --chip v4 --json
  ethdetect detect --chip cv100 --backend sim --sim-phy 1:0x001cc816 --sim-mode mii`,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVarP(&outputFormat, "format", "f", "auto",
		"output format (yaml, json, human, auto)")
	detectCmd.Flags().BoolVar(&outputJSON, "json", false,
		"shorthand for --format json")
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireChip(cfg); err != nil {
		return err
	}

	format, err := resolveFormat()
	if err != nil {
		return err
	}

	// Every MDIO transaction starts with a write to RWCTRL.
	bus, closeBus, err := openBackend(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open registers: %w", err)
	}
	defer closeBus()

	log := newLogger()
	doc := report.New(cfg.Section)
	res := ethdetect.NewDetector(bus, cfg, log).Detect(doc)

	switch format {
	case "json":
		return doc.WriteJSON(os.Stdout)
	case "human":
		return outputHumanDetect(res)
	}
	return doc.WriteYAML(os.Stdout)
}

func resolveFormat() (string, error) {
	if outputJSON {
		return "json", nil
	}
	switch f := strings.ToLower(outputFormat); f {
	case "yaml", "json", "human":
		return f, nil
	case "", "auto":
		fd := os.Stdout.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			return "human", nil
		}
		return "yaml", nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: yaml, json, human, auto)", outputFormat)
	}
}

func outputHumanDetect(res ethdetect.Result) error {
	fmt.Printf("Ethernet on %s (%s)\n", res.Generation, res.Generation.Models())

	if !res.HasMDIO {
		fmt.Printf("  MDIO:        no controller known for this generation\n")
	} else {
		fmt.Printf("  MDIO base:   0x%08x (freq div %d)\n", res.MDIOBase, res.FreqDiv)
		if res.UpstreamOK {
			fmt.Printf("  PHY address: %d\n", res.UpstreamAddr)
		} else {
			fmt.Printf("  PHY address: unreadable\n")
		}
		if res.PHYOK && !res.PHY.ID.Present() {
			fmt.Printf("  PHY ID:      %s (no PHY answered)\n", res.PHY.ID)
		} else if res.PHYOK {
			fmt.Printf("  PHY ID:      %s\n", res.PHY.ID)
			fmt.Printf("  Vendor:      %s\n", res.PHY.Vendor.Name)
			if res.PHY.Known {
				fmt.Printf("  Part:        %s (%s)\n", res.PHY.Device.Name, res.PHY.Device.Description)
			}
			if verbose {
				fmt.Printf("    OUI bits: 0x%06x  model: %d  revision: %d\n",
					res.PHY.ID.OUI, res.PHY.ID.Model, res.PHY.ID.Revision)
			}
		}
		if res.DownstreamOK {
			fmt.Printf("  Downstream:  0x%x\n", res.DownstreamAddr)
		}
	}

	if res.ModeOK {
		fmt.Printf("  Mode:        %s\n", res.Mode)
		if res.PHY.Known && !res.PHY.Supports(string(res.Mode)) {
			fmt.Printf("  Warning:     %s does not list %s among its interfaces\n", res.PHY.Device.Name, res.Mode)
		}
	} else {
		fmt.Printf("  Mode:        unknown\n")
	}
	return nil
}
