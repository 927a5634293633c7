//go:build linux

package regio

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DevMemPath is the character device exposing physical memory.
const DevMemPath = "/dev/mem"

// DevMem accesses physical registers by mapping pages of /dev/mem on demand.
// Mapped pages are kept until Close. Registers are accessed as whole words
// through sync/atomic so a store reaches the device as one bus write. Not
// safe for concurrent use.
type DevMem struct {
	f        *os.File
	readOnly bool
	pageSize uint32
	pages    map[uint32][]byte
}

// OpenDevMem opens path (normally DevMemPath). With readOnly set the device
// is opened O_RDONLY and pages are mapped PROT_READ only.
func OpenDevMem(path string, readOnly bool) (*DevMem, error) {
	flags := os.O_RDWR | os.O_SYNC
	if readOnly {
		flags = os.O_RDONLY | os.O_SYNC
	}
	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &DevMem{
		f:        f,
		readOnly: readOnly,
		pageSize: uint32(os.Getpagesize()),
		pages:    make(map[uint32][]byte),
	}, nil
}

// Read32 reads the 32-bit register at the physical address addr. Every
// device access is a single aligned word load. An unaligned addr is served
// by loading the aligned words it straddles and shifting (little-endian).
func (m *DevMem) Read32(addr uint32) (uint32, error) {
	if addr&3 == 0 {
		return m.load(addr)
	}
	lo, err := m.load(addr &^ 3)
	if err != nil {
		return 0, err
	}
	hi, err := m.load(addr&^3 + 4)
	if err != nil {
		return 0, err
	}
	sh := 8 * (addr & 3)
	return lo>>sh | hi<<(32-sh), nil
}

// Write32 stores val at the physical address addr as one word store. addr
// must be 4-byte aligned.
func (m *DevMem) Write32(addr, val uint32) error {
	if m.readOnly {
		return ErrReadOnly
	}
	if addr&3 != 0 {
		return fmt.Errorf("%w: unaligned write to 0x%08x", ErrRange, addr)
	}
	p, err := m.word(addr)
	if err != nil {
		return err
	}
	atomic.StoreUint32(p, val)
	return nil
}

func (m *DevMem) load(addr uint32) (uint32, error) {
	p, err := m.word(addr)
	if err != nil {
		return 0, err
	}
	return atomic.LoadUint32(p), nil
}

// Close unmaps every page and closes the device.
func (m *DevMem) Close() error {
	if m.f == nil {
		return nil
	}
	var first error
	for base, mem := range m.pages {
		if err := unix.Munmap(mem); err != nil && first == nil {
			first = fmt.Errorf("munmap 0x%08x: %w", base, err)
		}
		delete(m.pages, base)
	}
	if err := m.f.Close(); err != nil && first == nil {
		first = err
	}
	m.f = nil
	return first
}

// word returns the mapped register at the aligned address addr.
func (m *DevMem) word(addr uint32) (*uint32, error) {
	if m.f == nil {
		return nil, ErrClosed
	}
	base := addr &^ (m.pageSize - 1)
	mem, ok := m.pages[base]
	if !ok {
		prot := unix.PROT_READ | unix.PROT_WRITE
		if m.readOnly {
			prot = unix.PROT_READ
		}
		var err error
		mem, err = unix.Mmap(int(m.f.Fd()), int64(base), int(m.pageSize), prot, unix.MAP_SHARED)
		if err != nil {
			return nil, fmt.Errorf("%w: mmap 0x%08x: %v", ErrFault, base, err)
		}
		m.pages[base] = mem
	}
	return (*uint32)(unsafe.Pointer(&mem[addr-base])), nil
}
