package mdio

import "fmt"

// Controller register offsets, relative to the MDIO controller base.
const (
	RegRWCtrl   = 0x1100  // control word (RW)
	RegROData   = 0x1104  // result of the last read transaction (R)
	RegUPHYAddr = 0x0108  // upstream MAC's PHY address (RW)
	RegDPHYAddr = 0x2108  // downstream MAC's PHY address (RW)
	RegUStatus  = 0x010C  // upstream link status (R)
	RegDStatus  = 0x210C  // downstream link status (R)
	ReadyBit    = 1 << 15 // RWCTRL finish flag, set by hardware when idle
)

// Standard clause-22 PHY registers used during detection.
const (
	PHYRegBMCR = 0x00
	PHYRegBMSR = 0x01
	PHYRegID1  = 0x02
	PHYRegID2  = 0x03
)

// ControlWord is the packed layout of the RWCTRL register.
//
//	[4:0]   phy register number (phy_inaddr)
//	[7:5]   MDC frequency divider
//	[12:8]  phy address on the bus (phy_exaddr)
//	[13]    1 = write, 0 = read
//	[14]    reserved
//	[15]    finish / ready
//	[31:16] data to write
type ControlWord uint32

// MakeControlWord packs a control word. Fields wider than their slot are
// truncated.
func MakeControlWord(data uint16, finish, write bool, phyAddr, freqDiv, reg uint8) ControlWord {
	w := uint32(data)<<16 |
		uint32(phyAddr&0x1F)<<8 |
		uint32(freqDiv&0x07)<<5 |
		uint32(reg&0x1F)
	if finish {
		w |= ReadyBit
	}
	if write {
		w |= 1 << 13
	}
	return ControlWord(w)
}

// readCommand is the word that starts a read of reg on phyAddr.
func readCommand(freqDiv, phyAddr, reg uint8) ControlWord {
	return MakeControlWord(0, false, false, phyAddr, freqDiv, reg)
}

func (w ControlWord) Reg() uint8     { return uint8(w & 0x1F) }
func (w ControlWord) FreqDiv() uint8 { return uint8(w>>5) & 0x07 }
func (w ControlWord) PHYAddr() uint8 { return uint8(w>>8) & 0x1F }
func (w ControlWord) IsWrite() bool  { return w&(1<<13) != 0 }
func (w ControlWord) Ready() bool    { return w&ReadyBit != 0 }
func (w ControlWord) Data() uint16   { return uint16(w >> 16) }

func (w ControlWord) String() string {
	op := "read"
	if w.IsWrite() {
		op = "write"
	}
	return fmt.Sprintf("0x%08x (%s phy=%d reg=0x%02x div=%d ready=%t data=0x%04x)",
		uint32(w), op, w.PHYAddr(), w.Reg(), w.FreqDiv(), w.Ready(), w.Data())
}
