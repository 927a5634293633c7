// Package ethdetect reports how the Ethernet MAC of a HiSilicon SoC is wired
// to its PHY: the PHY address programmed into the MDIO controller, the PHY
// identifier read over MDIO, and the MAC interface mode.
//
// Detection is best effort. A register that cannot be read makes the
// corresponding entry disappear from the report; it never stops the run.
package ethdetect

import (
	"context"
	"log/slog"

	"github.com/OpenTraceLab/ethdetect/pkg/chip"
	"github.com/OpenTraceLab/ethdetect/pkg/ethmode"
	"github.com/OpenTraceLab/ethdetect/pkg/mdio"
	"github.com/OpenTraceLab/ethdetect/pkg/phyid"
	"github.com/OpenTraceLab/ethdetect/pkg/regio"
	"github.com/OpenTraceLab/ethdetect/pkg/report"
)

// Report keys.
const (
	KeyUpstreamPHYAddr   = "u-mdio-phyaddr"
	KeyPHYID             = "phy-id"
	KeyDownstreamPHYAddr = "d-mdio-phyaddr"
	KeyPHYMode           = "phy-mode"
)

var mdioBases = map[chip.Generation]uint32{
	chip.V1:  0x10090000,
	chip.V2:  0x10090000,
	chip.V3:  0x10050000,
	chip.V4A: 0x10010000,
	chip.V4:  0x10040000,
}

// MDIOBase returns the MDIO controller base for gen. Generations without an
// entry have no MDIO controller this tool knows about; that is not an error.
func MDIOBase(gen chip.Generation) (uint32, bool) {
	base, ok := mdioBases[gen]
	return base, ok
}

// Result carries what a detection run found. Only fields whose OK flag is
// set were actually read.
type Result struct {
	Generation chip.Generation

	MDIOBase uint32
	HasMDIO  bool
	FreqDiv  uint8

	UpstreamAddr   uint32
	UpstreamOK     bool
	PHY            phyid.Info
	PHYOK          bool
	DownstreamAddr uint32
	DownstreamOK   bool

	Mode   ethmode.Mode
	ModeOK bool
}

// Detector runs detection against one register space. It holds no state
// between runs; every register is sampled fresh.
type Detector struct {
	Bus        regio.Accessor
	Generation chip.Generation
	MDIO       mdio.Options
	Logger     *slog.Logger
}

// NewDetector builds a Detector from a validated config.
func NewDetector(bus regio.Accessor, cfg *Config, log *slog.Logger) *Detector {
	opts := cfg.MDIOOptions()
	opts.Logger = log
	return &Detector{
		Bus:        bus,
		Generation: cfg.Chip,
		MDIO:       opts,
		Logger:     log,
	}
}

// Detect reads the hardware and adds every parameter it could determine
// to doc.
func (d *Detector) Detect(doc *report.Document) Result {
	res := Result{Generation: d.Generation}

	if base, ok := MDIOBase(d.Generation); ok {
		res.MDIOBase, res.HasMDIO = base, true
		d.detectMDIO(&res, doc)
	} else {
		d.logattrs(slog.LevelDebug, "no mdio controller", slog.String("chip", d.Generation.String()))
	}

	res.Mode, res.ModeOK = ethmode.Resolve(d.Bus, d.Generation)
	doc.AddNotNull(KeyPHYMode, string(res.Mode))
	return res
}

func (d *Detector) detectMDIO(res *Result, doc *report.Document) {
	opts := d.MDIO
	if opts.Logger == nil {
		opts.Logger = d.Logger
	}
	eng := mdio.NewEngine(d.Bus, res.MDIOBase, opts)

	ctrl, err := eng.Config()
	if err != nil {
		d.logattrs(slog.LevelWarn, "mdio control register unreadable", slog.String("err", err.Error()))
		return
	}
	res.FreqDiv = ctrl.FreqDiv()

	if addr, err := eng.UpstreamPHYAddr(); err != nil {
		d.logattrs(slog.LevelWarn, "phy address unreadable", slog.String("err", err.Error()))
	} else {
		res.UpstreamAddr, res.UpstreamOK = addr, true
		doc.Addf(KeyUpstreamPHYAddr, "%d", addr)

		id1 := eng.ReadPHY(res.FreqDiv, uint8(addr), mdio.PHYRegID1)
		id2 := eng.ReadPHY(res.FreqDiv, uint8(addr), mdio.PHYRegID2)
		res.PHY, res.PHYOK = phyid.Lookup(mdio.CombineID(id1, id2)), true
		doc.Addf(KeyPHYID, "0x%.8x", res.PHY.ID.Raw)
	}

	if addr, err := eng.DownstreamPHYAddr(); err != nil {
		d.logattrs(slog.LevelWarn, "downstream phy address unreadable", slog.String("err", err.Error()))
	} else {
		res.DownstreamAddr, res.DownstreamOK = addr, true
		doc.Addf(KeyDownstreamPHYAddr, "%x", addr)
	}
}

func (d *Detector) logattrs(lvl slog.Level, msg string, attrs ...slog.Attr) {
	if d.Logger == nil {
		return
	}
	d.Logger.LogAttrs(context.Background(), lvl, msg, attrs...)
}
