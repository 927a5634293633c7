//go:build !linux

package regio

import "fmt"

// DevMemPath is the character device exposing physical memory.
const DevMemPath = "/dev/mem"

// DevMem is only available on Linux.
type DevMem struct{}

// OpenDevMem always fails outside Linux.
func OpenDevMem(path string, readOnly bool) (*DevMem, error) {
	return nil, fmt.Errorf("open %s: %w", path, ErrNotSupported)
}

func (m *DevMem) Read32(addr uint32) (uint32, error) { return 0, ErrNotSupported }
func (m *DevMem) Write32(addr, val uint32) error     { return ErrNotSupported }
func (m *DevMem) Close() error                       { return nil }
