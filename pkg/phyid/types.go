// Package phyid decodes IEEE 802.3 clause-22 PHY identifiers (registers 2
// and 3) and names the PHY from a small built-in database.
package phyid

// ID is a parsed 32-bit PHY identifier.
type ID struct {
	Raw      uint32 // ID1<<16 | ID2
	OUI      uint32 // [31:10] the 22 OUI bits carried by the PHY
	Model    uint8  // [9:4]
	Revision uint8  // [3:0]
}

// Vendor is a PHY manufacturer keyed by the OUI bits of the identifier.
type Vendor struct {
	OUI  uint32
	Name string
}

// Device describes a PHY part.
type Device struct {
	Name        string // "RTL8201F"
	Description string // "10/100 Fast Ethernet PHY"
	MaxMbps     int
	Interfaces  []string // MAC-side interfaces the part supports
}

// Info is everything known about an identifier.
type Info struct {
	ID     ID
	Vendor Vendor
	Device Device
	Known  bool // Device came from the database
}
