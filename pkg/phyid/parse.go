package phyid

import "fmt"

// Parse splits a raw identifier into its fields.
func Parse(raw uint32) ID {
	return ID{
		Raw:      raw,
		OUI:      raw >> 10,
		Model:    uint8(raw>>4) & 0x3F,
		Revision: uint8(raw & 0xF),
	}
}

// Present reports whether the identifier looks like a responding PHY. ID1
// carries the top of the OUI; an undriven bus reads it as all ones and a
// missing or held-in-reset PHY as zeros.
func (id ID) Present() bool {
	id1 := id.Raw >> 16
	return id1 != 0x0000 && id1 != 0xFFFF
}

// String formats the identifier the way the inventory document does.
func (id ID) String() string {
	return fmt.Sprintf("0x%08x", id.Raw)
}
