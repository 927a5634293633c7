package phyid

import "fmt"

// vendors is keyed by the 22 OUI bits as they appear in ID1/ID2. Vendors
// disagree on the bit order used to fold their OUI into those bits, so the
// key is the register value, not the printed OUI.
var vendors = map[uint32]Vendor{
	0x000732: {OUI: 0x000732, Name: "Realtek"},
	0x0090C3: {OUI: 0x0090C3, Name: "IC Plus"},
	0x000885: {OUI: 0x000885, Name: "Micrel (Microchip)"},
	0x0001F0: {OUI: 0x0001F0, Name: "SMSC (Microchip)"},
	0x080017: {OUI: 0x080017, Name: "National Semiconductor (TI)"},
	0x080028: {OUI: 0x080028, Name: "Texas Instruments"},
	0x001374: {OUI: 0x001374, Name: "Qualcomm Atheros"},
	0x00606E: {OUI: 0x00606E, Name: "Davicom"},
}

// LookupVendor returns the vendor for an OUI field value.
func LookupVendor(oui uint32) (Vendor, bool) {
	v, ok := vendors[oui]
	if !ok {
		return Vendor{OUI: oui, Name: fmt.Sprintf("Unknown (0x%06x)", oui)}, false
	}
	return v, true
}
