// Package regio provides 32-bit access to physical memory-mapped registers.
//
// An Accessor hides where the register space lives: DevMem maps /dev/mem on
// the target, Sim keeps registers in memory for tests and dry runs.
package regio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/exp/constraints"
)

var (
	// ErrFault is returned when the backend could not complete an access.
	ErrFault = errors.New("regio: access fault")
	// ErrRange is returned for addresses outside what the backend can map.
	ErrRange = errors.New("regio: address out of range")
	// ErrReadOnly is returned by writes on a backend opened read-only.
	ErrReadOnly = errors.New("regio: backend is read-only")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("regio: backend closed")
	// ErrNotSupported is returned by backends unavailable on this platform.
	ErrNotSupported = errors.New("regio: not supported on this platform")
)

// Accessor abstracts a physical register space addressed in bytes.
type Accessor interface {
	Read32(addr uint32) (uint32, error)
	Write32(addr, val uint32) error
}

// Read reads the register at base+offset.
func Read(a Accessor, base, offset uint32) (uint32, error) {
	v, err := a.Read32(base + offset)
	if err != nil {
		return 0, fmt.Errorf("read 0x%08x: %w", base+offset, err)
	}
	return v, nil
}

// Write stores val at base+offset. A failure is logged and returned; there
// is no retry.
func Write(a Accessor, log *slog.Logger, val, base, offset uint32) error {
	err := a.Write32(base+offset, val)
	if err != nil {
		logAttrs(log, slog.LevelError, "write error",
			slog.String("addr", fmt.Sprintf("0x%08x", base+offset)),
			slog.String("err", err.Error()))
	}
	return err
}

// Field extracts width bits of v starting at bit shift.
func Field[T constraints.Unsigned](v T, shift, width uint) T {
	if width == 0 {
		return 0
	}
	mask := T(1)<<width - 1
	if width >= uint(bitSize(v)) {
		mask = ^T(0)
	}
	return (v >> shift) & mask
}

// SetField returns v with width bits starting at shift replaced by f.
func SetField[T constraints.Unsigned](v, f T, shift, width uint) T {
	mask := T(1)<<width - 1
	if width >= uint(bitSize(v)) {
		mask = ^T(0)
	}
	return v&^(mask<<shift) | (f&mask)<<shift
}

func bitSize[T constraints.Unsigned](v T) int {
	n := 0
	for x := ^T(0); x != 0; x >>= 1 {
		n++
	}
	return n
}

func logAttrs(log *slog.Logger, lvl slog.Level, msg string, attrs ...slog.Attr) {
	if log == nil {
		return
	}
	log.LogAttrs(context.Background(), lvl, msg, attrs...)
}
