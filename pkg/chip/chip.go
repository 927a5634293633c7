// Package chip enumerates the HiSilicon SoC generations ethdetect knows
// register layouts for.
package chip

import (
	"fmt"
	"strings"
)

// Generation identifies a SoC family. The set is closed; anything the
// identification step could not place is Unknown.
type Generation uint8

const (
	Unknown Generation = iota
	V1                 // Hi3516CV100 / Hi3518EV100
	V2                 // Hi3516CV200 / Hi3518EV200
	V2A                // Hi3516AV100 / Hi3516DV100
	V3                 // Hi3516CV300 / Hi3516EV100
	V3A                // Hi3519V101 / Hi3516AV200
	V4                 // Hi3516EV200 / Hi3516EV300 / Hi3518EV300
	V4A                // Hi3516CV500 / Hi3516AV300 / Hi3516DV300
)

type genInfo struct {
	name    string
	aliases []string
	models  string
}

var generations = map[Generation]genInfo{
	V1:  {name: "v1", aliases: []string{"cv100", "hi3516cv100", "hi3518ev100"}, models: "Hi3516CV100, Hi3518EV100"},
	V2:  {name: "v2", aliases: []string{"cv200", "hi3516cv200", "hi3518ev200"}, models: "Hi3516CV200, Hi3518EV200"},
	V2A: {name: "v2a", aliases: []string{"av100", "hi3516av100", "hi3516dv100"}, models: "Hi3516AV100, Hi3516DV100"},
	V3:  {name: "v3", aliases: []string{"cv300", "hi3516cv300", "hi3516ev100"}, models: "Hi3516CV300, Hi3516EV100"},
	V3A: {name: "v3a", aliases: []string{"av200", "hi3519v101", "hi3516av200"}, models: "Hi3519V101, Hi3516AV200"},
	V4:  {name: "v4", aliases: []string{"ev200", "hi3516ev200", "hi3516ev300", "hi3518ev300"}, models: "Hi3516EV200, Hi3516EV300, Hi3518EV300"},
	V4A: {name: "v4a", aliases: []string{"cv500", "hi3516cv500", "hi3516av300", "hi3516dv300"}, models: "Hi3516CV500, Hi3516AV300, Hi3516DV300"},
}

// All returns every known generation in declaration order.
func All() []Generation {
	return []Generation{V1, V2, V2A, V3, V3A, V4, V4A}
}

func (g Generation) String() string {
	if info, ok := generations[g]; ok {
		return info.name
	}
	if g == Unknown {
		return "unknown"
	}
	return fmt.Sprintf("Generation(%d)", uint8(g))
}

// Models lists the SoC part numbers belonging to g.
func (g Generation) Models() string {
	return generations[g].models
}

// Known reports whether g is one of the enumerated generations.
func (g Generation) Known() bool {
	_, ok := generations[g]
	return ok
}

// Parse accepts a generation name ("v4a"), a family alias ("cv500") or a
// part number ("hi3516cv500"), case-insensitively.
func Parse(s string) (Generation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, g := range All() {
		info := generations[g]
		if s == info.name {
			return g, nil
		}
		for _, a := range info.aliases {
			if s == a {
				return g, nil
			}
		}
	}
	return Unknown, fmt.Errorf("unknown chip generation %q", s)
}

// MarshalText implements encoding.TextMarshaler so generations can appear in
// config files by name.
func (g Generation) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Generation) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
