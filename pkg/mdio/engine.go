// Package mdio drives the HiSilicon "hieth" MDIO controller: a memory-mapped
// control/data register pair that runs one clause-22 transaction at a time
// and raises a ready flag when it is done.
//
// The controller is polled, never interrupt driven. A transaction, once
// written to RWCTRL, cannot be cancelled; the hardware finishes it on its own
// schedule.
package mdio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/OpenTraceLab/ethdetect/pkg/regio"
)

const (
	// DefaultPollAttempts bounds every readiness wait.
	DefaultPollAttempts = 1000
	// DefaultPollInterval is the sleep between two readiness polls.
	DefaultPollInterval = time.Microsecond
)

var (
	// ErrBusy means the controller never became idle before a transaction.
	ErrBusy = errors.New("mdio busy")
	// ErrTimeout means an issued transaction never signalled completion.
	ErrTimeout = errors.New("read timeout")
)

// Options tunes the readiness polling. Zero fields take the defaults.
type Options struct {
	PollAttempts int
	PollInterval time.Duration

	// Sleep replaces time.Sleep between polls; tests use it to avoid real
	// delays and to count polls.
	Sleep func(time.Duration)

	// Logger receives the busy/timeout diagnostics. Nil disables them.
	Logger *slog.Logger
}

// DefaultOptions returns the hardware timing used on the target.
func DefaultOptions() Options {
	return Options{
		PollAttempts: DefaultPollAttempts,
		PollInterval: DefaultPollInterval,
		Sleep:        time.Sleep,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PollAttempts <= 0 {
		o.PollAttempts = d.PollAttempts
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.Sleep == nil {
		o.Sleep = d.Sleep
	}
	return o
}

// Engine issues MDIO transactions on the controller at Base.
// Only one transaction may be outstanding; Engine is not safe for
// concurrent use.
type Engine struct {
	bus  regio.Accessor
	base uint32
	opts Options
}

// NewEngine binds an engine to the controller registers at base.
func NewEngine(bus regio.Accessor, base uint32, opts Options) *Engine {
	return &Engine{bus: bus, base: base, opts: opts.withDefaults()}
}

// Base returns the controller base address.
func (e *Engine) Base() uint32 { return e.base }

// Options returns the effective polling options.
func (e *Engine) Options() Options { return e.opts }

// WaitReady polls the RWCTRL ready flag. It returns true on the first poll
// that sees the flag and false after PollAttempts polls without it. A failed
// register read counts as not ready.
func (e *Engine) WaitReady() bool {
	for i := 0; i < e.opts.PollAttempts; i++ {
		v, err := e.bus.Read32(e.base + RegRWCtrl)
		if err == nil && ControlWord(v).Ready() {
			return true
		}
		if i+1 < e.opts.PollAttempts {
			e.opts.Sleep(e.opts.PollInterval)
		}
	}
	return false
}

// Read runs one read transaction of reg on phyAddr using the MDC divider
// freqDiv and returns the 16-bit result. A control word that cannot be
// written fails the read.
func (e *Engine) Read(freqDiv, phyAddr, reg uint8) (uint16, error) {
	if !e.WaitReady() {
		return 0, ErrBusy
	}

	cmd := readCommand(freqDiv, phyAddr, reg)
	if err := regio.Write(e.bus, e.opts.Logger, uint32(cmd), e.base, RegRWCtrl); err != nil {
		// RO_DATA still holds the previous result.
		return 0, fmt.Errorf("issue %v: %w", cmd, err)
	}

	if !e.WaitReady() {
		return 0, ErrTimeout
	}

	v, err := regio.Read(e.bus, e.base, RegROData)
	if err != nil {
		return 0, err
	}
	e.logattrs(slog.LevelDebug, "mdio read",
		slog.Uint64("phy", uint64(phyAddr)),
		slog.Uint64("reg", uint64(reg)),
		slog.String("val", fmt.Sprintf("0x%04x", uint16(v))))
	return uint16(v & 0xFFFF), nil
}

// ReadPHY is Read with failures folded into a zero result. Busy and timeout
// conditions are logged as "mdio busy" and "read timeout".
func (e *Engine) ReadPHY(freqDiv, phyAddr, reg uint8) uint16 {
	v, err := e.Read(freqDiv, phyAddr, reg)
	switch {
	case err == nil:
		return v
	case errors.Is(err, ErrBusy), errors.Is(err, ErrTimeout):
		e.logattrs(slog.LevelError, err.Error(),
			slog.Uint64("phy", uint64(phyAddr)),
			slog.Uint64("reg", uint64(reg)))
	default:
		e.logattrs(slog.LevelError, "mdio read failed",
			slog.Uint64("phy", uint64(phyAddr)),
			slog.Uint64("reg", uint64(reg)),
			slog.String("err", err.Error()))
	}
	return 0
}

// Config reads the current RWCTRL contents, which carry the MDC divider
// configured by the bootloader.
func (e *Engine) Config() (ControlWord, error) {
	v, err := regio.Read(e.bus, e.base, RegRWCtrl)
	return ControlWord(v), err
}

// UpstreamPHYAddr reads U_MDIO_PHYADDR.
func (e *Engine) UpstreamPHYAddr() (uint32, error) {
	return regio.Read(e.bus, e.base, RegUPHYAddr)
}

// DownstreamPHYAddr reads D_MDIO_PHYADDR.
func (e *Engine) DownstreamPHYAddr() (uint32, error) {
	return regio.Read(e.bus, e.base, RegDPHYAddr)
}

func (e *Engine) logattrs(lvl slog.Level, msg string, attrs ...slog.Attr) {
	if e.opts.Logger == nil {
		return
	}
	e.opts.Logger.LogAttrs(context.Background(), lvl, msg, attrs...)
}
