// Package isa is the single authoritative instruction catalogue: one
// table, keyed both by mnemonic (for assembly) and by lookup key (for
// emulation), that drives encoding and execution bit-exactly.
package isa

import "fmt"

// EncodingClass names the bit layout and operand-field mapping a
// catalogue entry uses.
type EncodingClass int

const (
	ClassRType EncodingClass = iota
	ClassIType
	ClassJType
	ClassRegImmI
	ClassFpR
	ClassFpCC
	ClassFpCCBranch
	ClassCopMovR
	ClassCondMovCC
	ClassBitField
	ClassCache
	ClassFpFourReg
)

// ArgumentType names one operand slot in a catalogue entry's shape.
type ArgumentType int

const (
	ArgRd ArgumentType = iota
	ArgRs
	ArgRt
	ArgFd
	ArgFs
	ArgFt
	ArgFr
	ArgImmediate
	ArgIdentifier
	ArgBranchLabel
	ArgShamt
	ArgBaseAddress // immediate(register)
	ArgCC          // FPU condition code 0..7
)

// RelocationKind names how the linker/loader should patch a symbolic
// operand once its address is known.
type RelocationKind int

const (
	RelocNone RelocationKind = iota
	RelocPCRelative16
	RelocAbsolute26
	RelocHi16     // upper half of an address, for "la"/lui pairing
	RelocLo16     // lower half of an address
	RelocAbsolute32 // full address, for ".word label" in .data
)

// CatalogueEntry is the keystone: everything the assembler needs to
// encode a mnemonic, and everything the emulator needs to decode and
// execute it.
type CatalogueEntry struct {
	Mnemonic      string
	Class         EncodingClass
	Opcode        uint32
	Funct         uint32
	HasFunct      bool
	Fmt           uint32
	HasFmt        bool
	Reloc         RelocationKind
	PrimaryShape  []ArgumentType
	AltShapes     [][]ArgumentType
	Reserved      bool // decodes but always raises ReservedInstruction
	Executor      func(m Machine, raw RawInstruction)
}

// Shapes returns every accepted operand shape, primary first.
func (e *CatalogueEntry) Shapes() [][]ArgumentType {
	all := make([][]ArgumentType, 0, 1+len(e.AltShapes))
	all = append(all, e.PrimaryShape)
	all = append(all, e.AltShapes...)
	return all
}

// MatchShape finds the first accepted shape whose length and per-position
// argument kind family (register/immediate/identifier/base-address) agree
// with the supplied operand kinds. It returns the shape index, or -1 if
// none match.
func (e *CatalogueEntry) MatchShape(kinds []ArgumentType) int {
	for idx, shape := range e.Shapes() {
		if len(shape) != len(kinds) {
			continue
		}
		ok := true
		for i, want := range shape {
			if !argKindCompatible(want, kinds[i]) {
				ok = false
				break
			}
		}
		if ok {
			return idx
		}
	}
	return -1
}

// argKindCompatible decides whether a parsed operand of kind `got`
// satisfies a catalogue slot that wants `want`. Register slots of
// different roles (Rd/Rs/Rt/Fd/Fs/Ft/Fr) are mutually compatible since the
// parser only knows "register", not the role; the assembler assigns the
// role from shape position, not from the parsed kind.
func argKindCompatible(want, got ArgumentType) bool {
	if want == got {
		return true
	}
	if isRegisterArg(want) && isRegisterArg(got) {
		return true
	}
	if got == ArgIdentifier && (want == ArgImmediate || want == ArgBranchLabel) {
		// A symbol reference may stand in for an immediate or a branch
		// target; which one is resolved by relocation, not by the
		// parser, which only knows it parsed a bare identifier.
		return true
	}
	if want == ArgCC && got == ArgImmediate {
		// A condition-code operand is written as a plain small integer
		// literal (e.g. "c.eq.d 3, $f0, $f2"); the parser has no
		// distinct token kind for it.
		return true
	}
	return false
}

func isRegisterArg(a ArgumentType) bool {
	switch a {
	case ArgRd, ArgRs, ArgRt, ArgFd, ArgFs, ArgFt, ArgFr:
		return true
	default:
		return false
	}
}

// Table is the merged mnemonic-keyed and lookup-key-keyed catalogue.
type Table struct {
	byMnemonic map[string]*CatalogueEntry
	byLookup   map[uint32]*CatalogueEntry
}

// NewTable merges the integer and floating-point instruction sets into
// one table, the same shape as the reference implementation's
// INSTRUCTION_TABLE.
func NewTable() *Table {
	t := &Table{
		byMnemonic: make(map[string]*CatalogueEntry),
		byLookup:   make(map[uint32]*CatalogueEntry),
	}
	for _, e := range integerInstructionSet {
		t.add(e)
	}
	for _, e := range fpInstructionSet {
		t.add(e)
	}
	return t
}

func (t *Table) add(e *CatalogueEntry) {
	if _, dup := t.byMnemonic[e.Mnemonic]; dup {
		panic(fmt.Sprintf("isa: duplicate mnemonic %q in catalogue", e.Mnemonic))
	}
	t.byMnemonic[e.Mnemonic] = e
	key := lookupKeyOf(e)
	if _, dup := t.byLookup[key]; dup {
		panic(fmt.Sprintf("isa: duplicate lookup key 0x%x (mnemonic %q)", key, e.Mnemonic))
	}
	t.byLookup[key] = e
}

// lookupKeyOf computes the same composite key RawInstruction.LookupKey
// would compute for an encoded instance of this entry, used to populate
// the decode table.
func lookupKeyOf(e *CatalogueEntry) uint32 {
	base := e.Opcode << 6
	switch e.Class {
	case ClassRType, ClassCondMovCC, ClassBitField, ClassCache:
		return base | e.Funct
	case ClassRegImmI:
		return base | e.Funct // funct5 reused to store rt-selector value
	case ClassFpR, ClassFpCC, ClassFpFourReg:
		return (e.Opcode << 11) | (e.Funct << 5) | e.Fmt
	case ClassFpCCBranch:
		return base | e.Funct
	case ClassCopMovR:
		// The encoder packs the mf/mt selector (stored in Funct here) into
		// the fmt/rs slot, not the low 6 bits (see EncodeCopMovR), and the
		// low bits (sel) are always 0 for these entries. RawInstruction.
		// LookupKey reads opcode-0x11 non-branch words through the same
		// FPU-compute formula, with that slot surfacing as Fmt() and the
		// all-zero sel surfacing as Funct() — so the matching key is the
		// FPU-compute formula with funct=0.
		return (e.Opcode << 11) | e.Funct
	default: // J-type and plain I-type have no sub-selector
		return base
	}
}

// Mnemonic looks up a catalogue entry by mnemonic, for assembly.
func (t *Table) Mnemonic(name string) (*CatalogueEntry, bool) {
	e, ok := t.byMnemonic[name]
	return e, ok
}

// Decode looks up a catalogue entry by the raw instruction's lookup key,
// for emulation.
func (t *Table) Decode(raw RawInstruction) (*CatalogueEntry, bool) {
	e, ok := t.byLookup[raw.LookupKey()]
	return e, ok
}

// All returns every catalogue entry, for exhaustive test coverage
// ("a test harness must exercise every catalogue entry").
func (t *Table) All() []*CatalogueEntry {
	out := make([]*CatalogueEntry, 0, len(t.byMnemonic))
	for _, e := range t.byMnemonic {
		out = append(out, e)
	}
	return out
}
