package ethdetect

import (
	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/ethmode"
	"github.com/OpenTraceLab/ethdetect/pkg/mdio"
	"github.com/OpenTraceLab/ethdetect/pkg/regexpr"
)

// Symbols returns the register names usable in expressions for gen. The
// MDIO offsets are always present; "mdio" and "phymode" only when gen has
// that block.
func Symbols(gen chip.Generation) regexpr.Symbols {
	syms := regexpr.Symbols{
		"rwctrl":    mdio.RegRWCtrl,
		"ro_data":   mdio.RegROData,
		"u_phyaddr": mdio.RegUPHYAddr,
		"d_phyaddr": mdio.RegDPHYAddr,
		"u_stat":    mdio.RegUStatus,
		"d_stat":    mdio.RegDStatus,
	}
	if base, ok := MDIOBase(gen); ok {
		syms["mdio"] = base
	}
	if dec, ok := ethmode.For(gen); ok {
		syms["phymode"] = dec.Layout().Addr
	}
	return syms
}
