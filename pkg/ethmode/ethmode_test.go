package ethmode

import (
	"testing"

	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/regio"
)

func TestDecodersCoverEveryFieldValue(t *testing.T) {
	tests := []struct {
		name string
		dec  Decoder
		want map[uint32]Mode
	}{
		{"cv100", CV100, map[uint32]Mode{0: MII, 1: RMII}},
		{"av100", AV100, map[uint32]Mode{0: GMIIMII, 1: RGMII, 4: RMII}},
		{"av200", AV200, map[uint32]Mode{0: GMIIMII, 1: RGMII, 4: RMII}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.dec.Layout()
			for field := uint32(0); field < 1<<l.Width; field++ {
				sim := regio.NewSim()
				// Surround the field with ones so neighbouring bits are
				// proven to be ignored.
				v := regio.SetField(^uint32(0), field, l.Shift, l.Width)
				sim.Set(l.Addr, v)

				got, ok := tt.dec.Decode(sim)
				want, wantOK := tt.want[field]
				if ok != wantOK || got != want {
					t.Errorf("field %d: Decode = %q, %t, want %q, %t", field, got, ok, want, wantOK)
				}
			}
		})
	}
}

func TestDecodeReadFailure(t *testing.T) {
	for _, dec := range []Decoder{CV100, AV100, AV200} {
		sim := regio.NewSim()
		sim.Fail(dec.Layout().Addr, nil)
		if m, ok := dec.Decode(sim); ok || m != "" {
			t.Errorf("%v: Decode on fault = %q, %t", dec.Layout(), m, ok)
		}
	}
}

func TestDecodeReadsFresh(t *testing.T) {
	sim := regio.NewSim()
	addr := AV100.Layout().Addr
	sim.Set(addr, 1<<5)
	if m, _ := AV100.Decode(sim); m != RGMII {
		t.Fatalf("first decode = %q, want rgmii", m)
	}
	sim.Set(addr, 4<<5)
	if m, _ := AV100.Decode(sim); m != RMII {
		t.Fatalf("second decode = %q, want rmii", m)
	}
	if n := sim.Reads(addr); n != 2 {
		t.Fatalf("reads = %d, want 2", n)
	}
}

func TestResolveDispatch(t *testing.T) {
	sim := regio.NewSim()
	sim.Set(CV100.Layout().Addr, 1<<3) // rmii
	sim.Set(AV100.Layout().Addr, 0)    // gmii/mii
	sim.Set(AV200.Layout().Addr, 1<<5) // rgmii

	tests := []struct {
		gen    chip.Generation
		want   Mode
		wantOK bool
	}{
		{chip.V1, RMII, true},
		{chip.V2A, GMIIMII, true},
		{chip.V3A, RGMII, true},
		{chip.V2, "", false},
		{chip.V3, "", false},
		{chip.V4, "", false},
		{chip.V4A, "", false},
		{chip.Unknown, "", false},
	}
	for _, tt := range tests {
		got, ok := Resolve(sim, tt.gen)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Resolve(%v) = %q, %t, want %q, %t", tt.gen, got, ok, tt.want, tt.wantOK)
		}
	}

	// Generations without a layout never touch the bus.
	before := sim.Reads(AV100.Layout().Addr) + sim.Reads(AV200.Layout().Addr) + sim.Reads(CV100.Layout().Addr)
	Resolve(sim, chip.V4)
	after := sim.Reads(AV100.Layout().Addr) + sim.Reads(AV200.Layout().Addr) + sim.Reads(CV100.Layout().Addr)
	if before != after {
		t.Fatalf("Resolve(v4) read a mode register")
	}
}

func TestLayoutString(t *testing.T) {
	if s := CV100.Layout().String(); s != "PERI_CRG51@0x20030002[3]" {
		t.Errorf("CV100 layout = %q", s)
	}
	if s := AV200.Layout().String(); s != "PERI_CRG59@0x120100ec[7:5]" {
		t.Errorf("AV200 layout = %q", s)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, dec := range []Decoder{CV100, AV100, AV200} {
		for _, m := range []Mode{MII, RMII, GMIIMII, RGMII} {
			v, ok := dec.Encode(m)
			if !ok {
				continue
			}
			sim := regio.NewSim()
			sim.Set(dec.Layout().Addr, v)
			if got, _ := dec.Decode(sim); got != m {
				t.Errorf("%v: Encode(%q) = 0x%x decodes to %q", dec.Layout(), m, v, got)
			}
		}
	}
	if _, ok := CV100.Encode(RGMII); ok {
		t.Errorf("CV100 cannot express rgmii")
	}
}
