package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ethdetect/pkg/ethdetect"
	"github.com/OpenTraceLab/ethdetect/pkg/regexpr"
)

var regCmd = &cobra.Command{
	Use:   "reg",
	Short: "Read or write SoC registers",
	Long: `Peek and poke physical registers. Addresses are register expressions:

  0x200300EC           absolute address
  0x10040000+0x1100    sum of terms
  mdio+rwctrl          symbols for the selected chip
  phymode[7:5]         bit field, high bit first

Symbols: mdio (controller base), rwctrl, ro_data, u_phyaddr, d_phyaddr,
u_stat, d_stat (controller offsets) and phymode (mode register).`,
}

var regReadCmd = &cobra.Command{
	Use:   "read <expr>",
	Short: "Read a register or bit field",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegRead,
}

var regWriteCmd = &cobra.Command{
	Use:   "write <expr> <value>",
	Short: "Write a register or bit field",
	Long: `Write value to the register selected by expr. For a bit field the register is
read first and only the field is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegWrite,
}

func init() {
	rootCmd.AddCommand(regCmd)
	regCmd.AddCommand(regReadCmd)
	regCmd.AddCommand(regWriteCmd)
}

func resolveRef(cfg *ethdetect.Config, expr string) (regexpr.Ref, error) {
	return regexpr.Eval(expr, ethdetect.Symbols(cfg.Chip))
}

func runRegRead(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ref, err := resolveRef(cfg, args[0])
	if err != nil {
		return err
	}

	bus, closeBus, err := openBackend(cfg, false)
	if err != nil {
		return fmt.Errorf("failed to open registers: %w", err)
	}
	defer closeBus()

	v, err := bus.Read32(ref.Addr)
	if err != nil {
		return fmt.Errorf("read %s: %w", ref, err)
	}
	if ref.Whole() {
		fmt.Printf("%s = 0x%08x\n", ref, v)
		return nil
	}
	f := ref.Extract(v)
	fmt.Printf("%s = 0x%x (%d)\n", ref, f, f)
	if verbose {
		fmt.Printf("  register 0x%08x = 0x%08x\n", ref.Addr, v)
	}
	return nil
}

func runRegWrite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ref, err := resolveRef(cfg, args[0])
	if err != nil {
		return err
	}
	val, err := strconv.ParseUint(args[1], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}

	bus, closeBus, err := openBackend(cfg, true)
	if err != nil {
		return fmt.Errorf("failed to open registers: %w", err)
	}
	defer closeBus()

	var old uint32
	if !ref.Whole() {
		if old, err = bus.Read32(ref.Addr); err != nil {
			return fmt.Errorf("read %s: %w", ref, err)
		}
	}
	nv, err := ref.Insert(old, uint32(val))
	if err != nil {
		return err
	}
	if err := bus.Write32(ref.Addr, nv); err != nil {
		return fmt.Errorf("write %s: %w", ref, err)
	}

	if ref.Whole() {
		fmt.Printf("%s <- 0x%08x\n", ref, nv)
	} else {
		fmt.Printf("%s <- 0x%x (register 0x%08x -> 0x%08x)\n", ref, val, old, nv)
	}
	return nil
}
