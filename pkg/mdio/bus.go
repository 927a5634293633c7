package mdio

import "github.com/OpenTraceLab/ethdetect/pkg/phyid"

// MaxPHYAddr is the highest clause-22 PHY address.
const MaxPHYAddr = 31

// Reader reads clause-22 PHY registers.
type Reader interface {
	ReadReg(phyAddr, reg uint8) (uint16, error)
}

// Bus fixes the MDC divider of an Engine so it can be used as a plain
// Reader.
type Bus struct {
	Engine  *Engine
	FreqDiv uint8
}

// ReadReg implements Reader.
func (b Bus) ReadReg(phyAddr, reg uint8) (uint16, error) {
	return b.Engine.Read(b.FreqDiv, phyAddr, reg)
}

// Found is a PHY answering on the bus.
type Found struct {
	Addr uint8
	ID   uint32
}

// ReadID reads the two identifier registers of the PHY at addr and combines
// them, ID1 in the high half.
func ReadID(r Reader, addr uint8) (uint32, error) {
	id1, err := r.ReadReg(addr, PHYRegID1)
	if err != nil {
		return 0, err
	}
	id2, err := r.ReadReg(addr, PHYRegID2)
	if err != nil {
		return 0, err
	}
	return CombineID(id1, id2), nil
}

// CombineID joins the PHY identifier halves.
func CombineID(id1, id2 uint16) uint32 {
	return uint32(id1)<<16 | uint32(id2)
}

// Scan reads every clause-22 address and keeps those whose identifier
// passes phyid.ID.Present.
func Scan(r Reader) []Found {
	var found []Found
	for addr := uint8(0); addr <= MaxPHYAddr; addr++ {
		id, err := ReadID(r, addr)
		if err != nil || !phyid.Parse(id).Present() {
			continue
		}
		found = append(found, Found{Addr: addr, ID: id})
	}
	return found
}
