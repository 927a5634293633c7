// Package ethmode decodes the MAC-to-PHY interface mode from the peripheral
// clock/reset (CRG) register of each SoC family.
//
// Every family keeps the mode in a differently placed field, so each has its
// own Decoder and the dispatcher picks one by chip generation. A layout is
// only ever applied to the generation it was written for.
package ethmode

import (
	"fmt"

	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/regio"
)

// Mode is a MAC/PHY interface name as reported in the inventory document.
type Mode string

const (
	MII     Mode = "mii"
	RMII    Mode = "rmii"
	GMIIMII Mode = "gmii/mii"
	RGMII   Mode = "rgmii"
)

// Layout locates the mode field.
type Layout struct {
	Register string // datasheet name, e.g. PERI_CRG59
	Addr     uint32
	Shift    uint
	Width    uint
}

func (l Layout) String() string {
	if l.Width == 1 {
		return fmt.Sprintf("%s@0x%08x[%d]", l.Register, l.Addr, l.Shift)
	}
	return fmt.Sprintf("%s@0x%08x[%d:%d]", l.Register, l.Addr, l.Shift+l.Width-1, l.Shift)
}

// Decoder reads one family's mode register.
type Decoder interface {
	// Decode samples the register and maps the field to a Mode. It reports
	// false when the read fails or the field holds an unassigned value.
	Decode(a regio.Accessor) (Mode, bool)
	// Encode returns a register value that decodes to m.
	Encode(m Mode) (uint32, bool)
	Layout() Layout
}

type fieldDecoder struct {
	layout Layout
	modes  map[uint32]Mode
}

func (d fieldDecoder) Layout() Layout { return d.layout }

func (d fieldDecoder) Encode(m Mode) (uint32, bool) {
	for f, dm := range d.modes {
		if dm == m {
			return regio.SetField(0, f, d.layout.Shift, d.layout.Width), true
		}
	}
	return 0, false
}

func (d fieldDecoder) Decode(a regio.Accessor) (Mode, bool) {
	v, err := a.Read32(d.layout.Addr)
	if err != nil {
		return "", false
	}
	m, ok := d.modes[regio.Field(v, d.layout.Shift, d.layout.Width)]
	return m, ok
}

// phySelect is shared by the AV100 and AV200 PERI_CRG59 phy_select field.
var phySelect = map[uint32]Mode{
	0: GMIIMII,
	1: RGMII,
	4: RMII,
}

var (
	// CV100 reads PERI_CRG51.mii_rmii_mode (bit 3).
	CV100 Decoder = fieldDecoder{
		layout: Layout{Register: "PERI_CRG51", Addr: 0x20030002, Shift: 3, Width: 1},
		modes:  map[uint32]Mode{0: MII, 1: RMII},
	}
	// AV100 reads PERI_CRG59.phy_select (bits 7:5).
	AV100 Decoder = fieldDecoder{
		layout: Layout{Register: "PERI_CRG59", Addr: 0x200300EC, Shift: 5, Width: 3},
		modes:  phySelect,
	}
	// AV200 reads PERI_CRG59.phy_select (bits 7:5) at the V3A address.
	AV200 Decoder = fieldDecoder{
		layout: Layout{Register: "PERI_CRG59", Addr: 0x120100EC, Shift: 5, Width: 3},
		modes:  phySelect,
	}
)

var decoders = map[chip.Generation]Decoder{
	chip.V1:  CV100,
	chip.V2A: AV100,
	chip.V3A: AV200,
}

// For returns the decoder for gen, if that generation has a known layout.
func For(gen chip.Generation) (Decoder, bool) {
	d, ok := decoders[gen]
	return d, ok
}

// Resolve decodes the interface mode for gen. It reports false for
// generations without a layout and for failed or unrecognised reads; the
// two cases are not distinguished.
func Resolve(a regio.Accessor, gen chip.Generation) (Mode, bool) {
	d, ok := For(gen)
	if !ok {
		return "", false
	}
	return d.Decode(a)
}
