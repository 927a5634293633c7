package regio

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestReadReportsFailure(t *testing.T) {
	sim := NewSim()
	sim.Set(0x10090108, 0x1111)
	sim.Fail(0x10092108, nil)

	v, err := Read(sim, 0x10090000, 0x0108)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if v != 0x1111 {
		t.Fatalf("Read = 0x%x, want 0x1111", v)
	}

	if _, err := Read(sim, 0x10090000, 0x2108); !errors.Is(err, ErrFault) {
		t.Fatalf("Read error = %v, want ErrFault", err)
	}
}

func TestSimReadOnly(t *testing.T) {
	sim := NewSim()
	sim.Set(0x1000, 0xCAFE)
	sim.ReadOnly = true

	if err := sim.Write32(0x1000, 0x1); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("Write32 = %v, want ErrReadOnly", err)
	}
	if v, _ := sim.Get(0x1000); v != 0xCAFE {
		t.Fatalf("stored = 0x%x, want 0xCAFE", v)
	}
	if n := sim.WritesTo(0x1000); n != 1 {
		t.Fatalf("WritesTo = %d, want the rejected write logged", n)
	}
	if v, err := sim.Read32(0x1000); err != nil || v != 0xCAFE {
		t.Fatalf("Read32 = 0x%x, %v", v, err)
	}
}

func TestWriteLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	sim := NewSim()
	sim.Fail(0x2000, nil)

	if err := Write(sim, log, 0x55, 0x2000, 0); !errors.Is(err, ErrFault) {
		t.Fatalf("Write = %v, want ErrFault", err)
	}
	if !strings.Contains(buf.String(), "write error") {
		t.Fatalf("log = %q, want write error", buf.String())
	}

	buf.Reset()
	if err := Write(sim, log, 0x55, 0x2000, 4); err != nil {
		t.Fatalf("Write = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
	if v, _ := sim.Get(0x2004); v != 0x55 {
		t.Fatalf("stored = 0x%x, want 0x55", v)
	}

	// A nil logger must not panic.
	Write(sim, nil, 0x55, 0x2000, 0)
}

func TestField(t *testing.T) {
	tests := []struct {
		v            uint32
		shift, width uint
		want         uint32
	}{
		{0x000000E0, 5, 3, 7},
		{0x00000080, 5, 3, 4},
		{0x00000008, 3, 1, 1},
		{0xFFFF0000, 16, 16, 0xFFFF},
		{0xDEADBEEF, 0, 32, 0xDEADBEEF},
		{0xDEADBEEF, 4, 0, 0},
	}
	for _, tt := range tests {
		if got := Field(tt.v, tt.shift, tt.width); got != tt.want {
			t.Errorf("Field(0x%x, %d, %d) = 0x%x, want 0x%x", tt.v, tt.shift, tt.width, got, tt.want)
		}
	}

	if got := SetField(uint32(0xFFFFFFFF), 0, 5, 3); got != 0xFFFFFF1F {
		t.Errorf("SetField clear = 0x%x, want 0xFFFFFF1F", got)
	}
	if got := SetField(uint32(0), 0xFF, 8, 5); got != 0x1F00 {
		t.Errorf("SetField truncate = 0x%x, want 0x1F00", got)
	}
}

func TestSimHooks(t *testing.T) {
	sim := NewSim()
	sim.HookRead(0x10, func(addr, stored uint32) (uint32, error) {
		return stored | 0x8000, nil
	})
	sim.HookWrite(0x10, func(addr, val uint32) (uint32, error) {
		return val &^ 0x8000, nil
	})

	if err := sim.Write32(0x10, 0x8001); err != nil {
		t.Fatalf("Write32 returned error: %v", err)
	}
	if v, _ := sim.Get(0x10); v != 0x0001 {
		t.Fatalf("stored = 0x%x, want 0x1", v)
	}
	v, err := sim.Read32(0x10)
	if err != nil || v != 0x8001 {
		t.Fatalf("Read32 = 0x%x, %v, want 0x8001", v, err)
	}
	if n := sim.Reads(0x10); n != 1 {
		t.Fatalf("Reads = %d, want 1", n)
	}
	if n := sim.WritesTo(0x10); n != 1 {
		t.Fatalf("WritesTo = %d, want 1", n)
	}

	sim.Fail(0x10, nil)
	if _, err := sim.Read32(0x10); !errors.Is(err, ErrFault) {
		t.Fatalf("Read32 after Fail = %v, want ErrFault", err)
	}
	sim.Heal(0x10)
	if _, err := sim.Read32(0x10); err != nil {
		t.Fatalf("Read32 after Heal = %v", err)
	}
}
