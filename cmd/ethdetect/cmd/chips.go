package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/ethdetect"
	"github.com/OpenTraceLab/ethdetect/pkg/ethmode"
)

var chipsCmd = &cobra.Command{
	Use:   "chips",
	Short: "List supported SoC generations",
	Long: `Print every SoC generation with its MDIO controller base and the register
holding the MAC interface mode. Any of the listed names or part numbers can
be passed to --chip.`,
	Args: cobra.NoArgs,
	RunE: runChips,
}

func init() {
	rootCmd.AddCommand(chipsCmd)
}

func runChips(cmd *cobra.Command, args []string) error {
	fmt.Printf("%-5s %-12s %-28s %s\n", "GEN", "MDIO", "MODE REGISTER", "MODELS")
	for _, gen := range chip.All() {
		mdioCol := "-"
		if base, ok := ethdetect.MDIOBase(gen); ok {
			mdioCol = fmt.Sprintf("0x%08x", base)
		}
		modeCol := "-"
		if dec, ok := ethmode.For(gen); ok {
			modeCol = dec.Layout().String()
		}
		fmt.Printf("%-5s %-12s %-28s %s\n", gen, mdioCol, modeCol, gen.Models())
	}
	return nil
}
