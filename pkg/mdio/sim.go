package mdio

import "github.com/OpenTraceLab/ethdetect/pkg/regio"

// floatingBus is what a read returns when no PHY drives MDIO.
const floatingBus = 0xFFFF

// SimController emulates the MDIO controller on top of a regio.Sim. Writing
// a read command to RWCTRL looks the register up in the attached PHYs and
// latches it into RO_DATA; the ready flag drops for LatencyPolls polls.
type SimController struct {
	sim  *regio.Sim
	base uint32

	phys map[uint8]map[uint8]uint16

	// LatencyPolls is how many RWCTRL polls see the flag low after a
	// transaction is issued.
	LatencyPolls int
	// StuckBusy keeps the ready flag low at all times.
	StuckBusy bool
	// NeverComplete keeps the flag low once a transaction has been issued.
	NeverComplete bool

	pending int
	issued  []ControlWord
}

// NewSimController installs a controller at base inside sim. The idle
// control word carries freqDiv so detection can recover it.
func NewSimController(sim *regio.Sim, base uint32, freqDiv uint8) *SimController {
	c := &SimController{
		sim:  sim,
		base: base,
		phys: make(map[uint8]map[uint8]uint16),
	}
	sim.Set(base+RegRWCtrl, uint32(MakeControlWord(0, true, false, 0, freqDiv, 0)))
	sim.HookRead(base+RegRWCtrl, c.readCtrl)
	sim.HookWrite(base+RegRWCtrl, c.writeCtrl)
	return c
}

// AttachPHY places a PHY with identifier id at addr. BMSR reads as a
// typical 10/100 auto-negotiating PHY with link up.
func (c *SimController) AttachPHY(addr uint8, id uint32) {
	c.phys[addr&0x1F] = map[uint8]uint16{
		PHYRegBMCR: 0x3100,
		PHYRegBMSR: 0x786D,
		PHYRegID1:  uint16(id >> 16),
		PHYRegID2:  uint16(id),
	}
}

// SetPHYReg overrides a single register of the PHY at addr.
func (c *SimController) SetPHYReg(addr, reg uint8, val uint16) {
	regs, ok := c.phys[addr&0x1F]
	if !ok {
		regs = make(map[uint8]uint16)
		c.phys[addr&0x1F] = regs
	}
	regs[reg&0x1F] = val
}

// SetUpstreamAddr stores the value software would find in U_MDIO_PHYADDR.
func (c *SimController) SetUpstreamAddr(v uint32) {
	c.sim.Set(c.base+RegUPHYAddr, v)
}

// SetDownstreamAddr stores the value in D_MDIO_PHYADDR.
func (c *SimController) SetDownstreamAddr(v uint32) {
	c.sim.Set(c.base+RegDPHYAddr, v)
}

// Issued returns every control word written to RWCTRL.
func (c *SimController) Issued() []ControlWord {
	return append([]ControlWord(nil), c.issued...)
}

func (c *SimController) readCtrl(_, stored uint32) (uint32, error) {
	switch {
	case c.StuckBusy:
		return stored &^ ReadyBit, nil
	case c.NeverComplete && len(c.issued) > 0:
		return stored &^ ReadyBit, nil
	case c.pending > 0:
		c.pending--
		return stored &^ ReadyBit, nil
	}
	return stored | ReadyBit, nil
}

func (c *SimController) writeCtrl(_, val uint32) (uint32, error) {
	w := ControlWord(val)
	c.issued = append(c.issued, w)
	c.pending = c.LatencyPolls

	if w.IsWrite() {
		c.SetPHYReg(w.PHYAddr(), w.Reg(), w.Data())
		return val, nil
	}

	data := uint16(floatingBus)
	if regs, ok := c.phys[w.PHYAddr()]; ok {
		data = regs[w.Reg()]
	}
	c.sim.Set(c.base+RegROData, uint32(data))
	return val, nil
}
