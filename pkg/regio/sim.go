package regio

// ReadHook lets a simulated device compute the value returned for addr.
// stored is the value currently held in the register.
type ReadHook func(addr, stored uint32) (uint32, error)

// WriteHook lets a simulated device react to a write. The returned value is
// what the register holds afterwards.
type WriteHook func(addr, val uint32) (uint32, error)

// Op captures a single write for inspection within tests.
type Op struct {
	Addr uint32
	Val  uint32
}

// Sim is an in-memory register space. Unset registers read as zero.
// Per-address hooks emulate device behavior and Fail injects access faults.
type Sim struct {
	// ReadOnly makes every write fail with ErrReadOnly, like a DevMem
	// opened read-only.
	ReadOnly bool

	regs   map[uint32]uint32
	faults map[uint32]error

	readHooks  map[uint32]ReadHook
	writeHooks map[uint32]WriteHook

	reads  map[uint32]int
	writes []Op
}

// NewSim constructs an empty register space.
func NewSim() *Sim {
	return &Sim{
		regs:       make(map[uint32]uint32),
		faults:     make(map[uint32]error),
		readHooks:  make(map[uint32]ReadHook),
		writeHooks: make(map[uint32]WriteHook),
		reads:      make(map[uint32]int),
	}
}

// Set stores val at addr without going through hooks or the write log.
func (s *Sim) Set(addr, val uint32) {
	s.regs[addr] = val
}

// Get returns the stored value at addr.
func (s *Sim) Get(addr uint32) (uint32, bool) {
	v, ok := s.regs[addr]
	return v, ok
}

// Fail makes every access to addr return err (ErrFault when err is nil).
func (s *Sim) Fail(addr uint32, err error) {
	if err == nil {
		err = ErrFault
	}
	s.faults[addr] = err
}

// Heal removes a fault installed by Fail.
func (s *Sim) Heal(addr uint32) {
	delete(s.faults, addr)
}

// HookRead installs h for reads of addr.
func (s *Sim) HookRead(addr uint32, h ReadHook) {
	s.readHooks[addr] = h
}

// HookWrite installs h for writes to addr.
func (s *Sim) HookWrite(addr uint32, h WriteHook) {
	s.writeHooks[addr] = h
}

// Reads reports how many reads of addr were attempted, faults included.
func (s *Sim) Reads(addr uint32) int {
	return s.reads[addr]
}

// Writes returns a copy of the write log, faulted writes included.
func (s *Sim) Writes() []Op {
	return append([]Op(nil), s.writes...)
}

// WritesTo counts logged writes to addr.
func (s *Sim) WritesTo(addr uint32) int {
	n := 0
	for _, op := range s.writes {
		if op.Addr == addr {
			n++
		}
	}
	return n
}

func (s *Sim) Read32(addr uint32) (uint32, error) {
	s.reads[addr]++
	if err, ok := s.faults[addr]; ok {
		return 0, err
	}
	v := s.regs[addr]
	if h, ok := s.readHooks[addr]; ok {
		return h(addr, v)
	}
	return v, nil
}

func (s *Sim) Write32(addr, val uint32) error {
	s.writes = append(s.writes, Op{Addr: addr, Val: val})
	if s.ReadOnly {
		return ErrReadOnly
	}
	if err, ok := s.faults[addr]; ok {
		return err
	}
	if h, ok := s.writeHooks[addr]; ok {
		stored, err := h(addr, val)
		if err != nil {
			return err
		}
		val = stored
	}
	s.regs[addr] = val
	return nil
}
