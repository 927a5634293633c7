package ethdetect

import (
	"fmt"

	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/ethmode"
	"github.com/OpenTraceLab/ethdetect/pkg/mdio"
	"github.com/OpenTraceLab/ethdetect/pkg/regio"
)

// SimBoard is a simulated SoC register space for one generation: the MDIO
// controller (when the generation has one) plus its mode register.
type SimBoard struct {
	Generation chip.Generation
	Regs       *regio.Sim
	MDIO       *mdio.SimController // nil without an MDIO controller
}

// NewSimBoard builds an idle board. freqDiv is the divider left in RWCTRL
// by the bootloader.
func NewSimBoard(gen chip.Generation, freqDiv uint8) *SimBoard {
	b := &SimBoard{Generation: gen, Regs: regio.NewSim()}
	if base, ok := MDIOBase(gen); ok {
		b.MDIO = mdio.NewSimController(b.Regs, base, freqDiv)
	}
	return b
}

// WithPHY attaches a PHY with identifier id at addr and points
// U_MDIO_PHYADDR at it.
func (b *SimBoard) WithPHY(addr uint8, id uint32) *SimBoard {
	if b.MDIO != nil {
		b.MDIO.AttachPHY(addr, id)
		b.MDIO.SetUpstreamAddr(uint32(addr))
	}
	return b
}

// WithDownstream sets D_MDIO_PHYADDR.
func (b *SimBoard) WithDownstream(addr uint32) *SimBoard {
	if b.MDIO != nil {
		b.MDIO.SetDownstreamAddr(addr)
	}
	return b
}

// WithMode programs the mode register so it decodes to m.
func (b *SimBoard) WithMode(m ethmode.Mode) error {
	dec, ok := ethmode.For(b.Generation)
	if !ok {
		return fmt.Errorf("%v has no mode register", b.Generation)
	}
	v, ok := dec.Encode(m)
	if !ok {
		return fmt.Errorf("%v cannot express mode %q", b.Generation, m)
	}
	b.Regs.Set(dec.Layout().Addr, v)
	return nil
}
