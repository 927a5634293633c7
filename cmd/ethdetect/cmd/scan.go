package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ethdetect/pkg/ethdetect"
	"github.com/OpenTraceLab/ethdetect/pkg/mdio"
	"github.com/OpenTraceLab/ethdetect/pkg/phyid"
)

var scanJSON bool

// PHYInfo is one populated MDIO address in scan output.
type PHYInfo struct {
	Addr    uint8  `json:"addr"`
	ID      string `json:"phy_id"`
	Vendor  string `json:"vendor"`
	Device  string `json:"device"`
	MaxMbps int    `json:"max_mbps,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Read every MDIO address and list the PHYs found",
	Long: `Read the identifier registers of all 32 clause-22 addresses through the
MDIO controller and list the PHYs that answer. The clock divider already
programmed in RWCTRL is reused for every transaction.

Examples:
  ethdetect scan --chip hi3516cv300
  ethdetect scan --chip v4 --json`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := requireChip(cfg); err != nil {
		return err
	}
	base, ok := ethdetect.MDIOBase(cfg.Chip)
	if !ok {
		return fmt.Errorf("%v has no MDIO controller", cfg.Chip)
	}

	bus, closeBus, err := openBackend(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open registers: %w", err)
	}
	defer closeBus()

	opts := cfg.MDIOOptions()
	opts.Logger = newLogger()
	eng := mdio.NewEngine(bus, base, opts)

	ctrl, err := eng.Config()
	if err != nil {
		return fmt.Errorf("mdio controller: %w", err)
	}

	var phys []PHYInfo
	for _, f := range mdio.Scan(mdio.Bus{Engine: eng, FreqDiv: ctrl.FreqDiv()}) {
		info := phyid.Lookup(f.ID)
		phys = append(phys, PHYInfo{
			Addr:    f.Addr,
			ID:      info.ID.String(),
			Vendor:  info.Vendor.Name,
			Device:  info.Device.Name,
			MaxMbps: info.Device.MaxMbps,
		})
	}

	if scanJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(phys)
	}

	if len(phys) == 0 {
		fmt.Println("No PHYs found.")
		return nil
	}
	fmt.Printf("Found %d PHY(s) on MDIO at 0x%08x:\n", len(phys), base)
	for _, p := range phys {
		fmt.Printf("  %2d  %s  %-24s %s\n", p.Addr, p.ID, p.Vendor, p.Device)
	}
	return nil
}
