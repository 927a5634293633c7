package phyid

const (
	matchExact    = 0xFFFFFFFF
	matchModel    = 0xFFFFFFF0 // any revision
	unknownDevice = "Unknown PHY"
)

type entry struct {
	id   uint32
	mask uint32
	dev  Device
}

// db is searched in order; exact matches precede revision-agnostic ones.
var db = []entry{
	{0x001CC816, matchExact, Device{Name: "RTL8201F", Description: "10/100 Fast Ethernet PHY", MaxMbps: 100, Interfaces: []string{"mii", "rmii"}}},
	{0x001CC915, matchExact, Device{Name: "RTL8211E", Description: "10/100/1000 Gigabit Ethernet PHY", MaxMbps: 1000, Interfaces: []string{"gmii/mii", "rgmii"}}},
	{0x001CC916, matchExact, Device{Name: "RTL8211F", Description: "10/100/1000 Gigabit Ethernet PHY", MaxMbps: 1000, Interfaces: []string{"rgmii"}}},
	{0x004DD072, matchExact, Device{Name: "AR8035", Description: "10/100/1000 Gigabit Ethernet PHY", MaxMbps: 1000, Interfaces: []string{"rgmii"}}},
	{0x02430C54, matchModel, Device{Name: "IP101A/G", Description: "10/100 Fast Ethernet PHY", MaxMbps: 100, Interfaces: []string{"mii", "rmii"}}},
	{0x00221560, matchModel, Device{Name: "KSZ8081", Description: "10/100 Fast Ethernet PHY", MaxMbps: 100, Interfaces: []string{"mii", "rmii"}}},
	{0x00221620, matchModel, Device{Name: "KSZ9031", Description: "10/100/1000 Gigabit Ethernet PHY", MaxMbps: 1000, Interfaces: []string{"rgmii"}}},
	{0x0007C0F0, matchModel, Device{Name: "LAN8710A/LAN8720A", Description: "10/100 Fast Ethernet PHY", MaxMbps: 100, Interfaces: []string{"mii", "rmii"}}},
	{0x0007C130, matchModel, Device{Name: "LAN8742A", Description: "10/100 Fast Ethernet PHY", MaxMbps: 100, Interfaces: []string{"rmii"}}},
	{0x20005C90, matchModel, Device{Name: "DP83848", Description: "10/100 Fast Ethernet PHY", MaxMbps: 100, Interfaces: []string{"mii", "rmii"}}},
	{0x2000A231, matchModel, Device{Name: "DP83867", Description: "10/100/1000 Gigabit Ethernet PHY", MaxMbps: 1000, Interfaces: []string{"rgmii"}}},
	{0x0181B880, matchModel, Device{Name: "DM9161", Description: "10/100 Fast Ethernet PHY", MaxMbps: 100, Interfaces: []string{"mii", "rmii"}}},
}

// Lookup decodes raw and names the vendor and part when known.
func Lookup(raw uint32) Info {
	id := Parse(raw)
	vendor, _ := LookupVendor(id.OUI)

	for _, e := range db {
		if raw&e.mask == e.id&e.mask {
			return Info{ID: id, Vendor: vendor, Device: e.dev, Known: true}
		}
	}
	return Info{
		ID:     id,
		Vendor: vendor,
		Device: Device{Name: unknownDevice, Description: "No entry in PHY database"},
	}
}

// Supports reports whether the part is documented to support mode on its
// MAC side. Unknown parts report true; there is nothing to contradict.
func (i Info) Supports(mode string) bool {
	if !i.Known || len(i.Device.Interfaces) == 0 {
		return true
	}
	for _, m := range i.Device.Interfaces {
		if m == mode {
			return true
		}
	}
	return false
}
