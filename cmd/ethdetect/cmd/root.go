package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/ethdetect"
	"github.com/OpenTraceLab/ethdetect/pkg/ethmode"
	"github.com/OpenTraceLab/ethdetect/pkg/regio"
)

var (
	// Global flags
	verbose      bool
	chipName     string
	backendName  string
	configPath   string
	devmemPath   string
	pollAttempts int
	pollInterval time.Duration

	// Simulator setup
	simRegs       []string // addr=val
	simPHYs       []string // addr:id
	simMode       string
	simDownstream string
	simFreqDiv    uint8
)

var rootCmd = &cobra.Command{
	Use:   "ethdetect",
	Short: "HiSilicon Ethernet PHY detection",
	Long: `Inspect the Ethernet MAC/PHY wiring of a HiSilicon IP camera SoC by reading
its MDIO controller and clock/reset registers through /dev/mem.

Examples:
  ethdetect detect --chip hi3516ev300                        # Report PHY address, ID and mode
  ethdetect detect --chip v1 --backend sim --sim-phy 1:0x001cc816 --sim-mode rmii
  ethdetect scan --chip cv300                                # Scan all 32 MDIO addresses
  ethdetect reg read --chip av200 'phymode[7:5]'             # Peek a register field
  ethdetect chips                                            # List supported generations`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&chipName, "chip", "", "SoC generation, family or part number (see 'ethdetect chips')")
	pf.StringVar(&backendName, "backend", "", "register backend (devmem, sim)")
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.StringVar(&devmemPath, "devmem", "", "physical memory device for the devmem backend")
	pf.IntVar(&pollAttempts, "poll-attempts", 0, "MDIO ready polls per wait (default 1000)")
	pf.DurationVar(&pollInterval, "poll-interval", 0, "delay between MDIO ready polls (default 1µs)")

	pf.StringSliceVar(&simRegs, "sim-reg", nil, "simulator: preset register, addr=val (hex or decimal)")
	pf.StringSliceVar(&simPHYs, "sim-phy", nil, "simulator: attach a PHY, addr:id (first one is the upstream PHY)")
	pf.StringVar(&simMode, "sim-mode", "", "simulator: interface mode programmed in the mode register")
	pf.StringVar(&simDownstream, "sim-downstream", "", "simulator: D_MDIO_PHYADDR value")
	pf.Uint8Var(&simFreqDiv, "sim-freqdiv", 0, "simulator: MDIO clock divider left in RWCTRL")
}

// loadConfig merges the config file and the global flags.
func loadConfig() (*ethdetect.Config, error) {
	cfg := ethdetect.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = ethdetect.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	if chipName != "" {
		gen, err := chip.Parse(chipName)
		if err != nil {
			return nil, err
		}
		cfg.Chip = gen
	}
	if backendName != "" {
		cfg.Backend = backendName
	}
	if devmemPath != "" {
		cfg.DevMem = devmemPath
	}
	if pollAttempts != 0 {
		cfg.PollAttempts = pollAttempts
	}
	if pollInterval != 0 {
		cfg.PollInterval = pollInterval
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openBackend returns the register space selected by cfg and a function
// releasing it. Without writable the space rejects writes, on the
// simulator as on /dev/mem.
func openBackend(cfg *ethdetect.Config, writable bool) (regio.Accessor, func(), error) {
	switch cfg.Backend {
	case ethdetect.BackendSim:
		board, err := buildSimBoard(cfg.Chip)
		if err != nil {
			return nil, nil, fmt.Errorf("simulator setup: %w", err)
		}
		board.Regs.ReadOnly = !writable
		return board.Regs, func() {}, nil

	case ethdetect.BackendDevMem:
		mem, err := regio.OpenDevMem(cfg.DevMem, !writable)
		if err != nil {
			return nil, nil, err
		}
		return mem, func() { mem.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func buildSimBoard(gen chip.Generation) (*ethdetect.SimBoard, error) {
	board := ethdetect.NewSimBoard(gen, simFreqDiv)

	for i, arg := range simPHYs {
		addrStr, idStr, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --sim-phy %q (want addr:id)", arg)
		}
		addr, err := strconv.ParseUint(addrStr, 0, 5)
		if err != nil {
			return nil, fmt.Errorf("invalid --sim-phy address %q: %w", addrStr, err)
		}
		id, err := strconv.ParseUint(idStr, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --sim-phy id %q: %w", idStr, err)
		}
		if board.MDIO == nil {
			return nil, fmt.Errorf("%v has no MDIO controller", gen)
		}
		if i == 0 {
			board.WithPHY(uint8(addr), uint32(id))
		} else {
			board.MDIO.AttachPHY(uint8(addr), uint32(id))
		}
	}

	if simDownstream != "" {
		v, err := strconv.ParseUint(simDownstream, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --sim-downstream %q: %w", simDownstream, err)
		}
		board.WithDownstream(uint32(v))
	}

	if simMode != "" {
		if err := board.WithMode(ethmode.Mode(simMode)); err != nil {
			return nil, err
		}
	}

	for _, arg := range simRegs {
		addrStr, valStr, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --sim-reg %q (want addr=val)", arg)
		}
		addr, err := strconv.ParseUint(addrStr, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --sim-reg address %q: %w", addrStr, err)
		}
		val, err := strconv.ParseUint(valStr, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid --sim-reg value %q: %w", valStr, err)
		}
		board.Regs.Set(uint32(addr), uint32(val))
	}

	return board, nil
}

func requireChip(cfg *ethdetect.Config) error {
	if cfg.Chip == chip.Unknown {
		return fmt.Errorf("chip generation not set (use --chip or the config file)")
	}
	return nil
}
