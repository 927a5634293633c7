// Package regexpr parses the register expressions accepted by the reg
// command:
//
//	0x200300EC           a register by physical address
//	0x10040000+0x1100    base plus offset, any number of terms
//	mdio+rwctrl          symbolic names supplied by the caller
//	phymode[7:5]         a bit field, high bit first
//	0x20030002[3]        a single bit
package regexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Expr is the parsed form of an expression.
type Expr struct {
	Terms []*Term   `@@ ( "+" @@ )*`
	Bits  *BitRange `( "[" @@ "]" )?`
}

// Term is a number or a symbol.
type Term struct {
	Number *string `  @Number`
	Symbol *string `| @Ident`
}

// BitRange selects bits Hi down to Lo (Lo defaults to Hi).
type BitRange struct {
	Hi string  `@Number`
	Lo *string `( ":" @Number )?`
}

// Symbols maps lower-case names to values.
type Symbols map[string]uint32

// Ref is a resolved expression.
type Ref struct {
	Addr  uint32
	Shift uint
	Width uint // 32 when the whole register is selected
}

var exprParser = participle.MustBuild[Expr](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
)

// Parse parses s.
func Parse(s string) (*Expr, error) {
	e, err := exprParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", s, err)
	}
	return e, nil
}

// Resolve evaluates the address with syms and validates the bit range.
func (e *Expr) Resolve(syms Symbols) (Ref, error) {
	var sum uint64
	for _, t := range e.Terms {
		v, err := t.value(syms)
		if err != nil {
			return Ref{}, err
		}
		sum += v
	}
	if sum > 0xFFFFFFFF {
		return Ref{}, fmt.Errorf("address 0x%x exceeds 32 bits", sum)
	}

	ref := Ref{Addr: uint32(sum), Width: 32}
	if e.Bits == nil {
		return ref, nil
	}
	hi, err := parseNumber(e.Bits.Hi)
	if err != nil {
		return Ref{}, err
	}
	lo := hi
	if e.Bits.Lo != nil {
		if lo, err = parseNumber(*e.Bits.Lo); err != nil {
			return Ref{}, err
		}
	}
	if hi > 31 || lo > hi {
		return Ref{}, fmt.Errorf("invalid bit range [%d:%d]", hi, lo)
	}
	ref.Shift = uint(lo)
	ref.Width = uint(hi-lo) + 1
	return ref, nil
}

// Eval parses and resolves s in one step.
func Eval(s string, syms Symbols) (Ref, error) {
	e, err := Parse(s)
	if err != nil {
		return Ref{}, err
	}
	return e.Resolve(syms)
}

func (t *Term) value(syms Symbols) (uint64, error) {
	if t.Number != nil {
		return parseNumber(*t.Number)
	}
	name := strings.ToLower(*t.Symbol)
	v, ok := syms[name]
	if !ok {
		return 0, fmt.Errorf("unknown symbol %q", *t.Symbol)
	}
	return uint64(v), nil
}

func parseNumber(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return v, nil
}

// Whole reports whether the full register is selected.
func (r Ref) Whole() bool { return r.Shift == 0 && r.Width == 32 }

// Extract returns the selected field of v.
func (r Ref) Extract(v uint32) uint32 {
	if r.Whole() {
		return v
	}
	return (v >> r.Shift) & (1<<r.Width - 1)
}

// Insert returns old with the selected field replaced by f. It fails when f
// does not fit the field.
func (r Ref) Insert(old, f uint32) (uint32, error) {
	if r.Whole() {
		return f, nil
	}
	mask := uint32(1)<<r.Width - 1
	if f&^mask != 0 {
		return 0, fmt.Errorf("value 0x%x does not fit in %d bits", f, r.Width)
	}
	return old&^(mask<<r.Shift) | f<<r.Shift, nil
}

func (r Ref) String() string {
	switch {
	case r.Whole():
		return fmt.Sprintf("0x%08x", r.Addr)
	case r.Width == 1:
		return fmt.Sprintf("0x%08x[%d]", r.Addr, r.Shift)
	}
	return fmt.Sprintf("0x%08x[%d:%d]", r.Addr, r.Shift+r.Width-1, r.Shift)
}
