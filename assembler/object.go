// Package assembler runs the single forward pass that turns a parsed
// AST into an object: section byte buffers, relocation entries, a
// symbol table, and a line-info table for the debugger.
package assembler

import (
	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

// RelocationEntry is one location that needs the loader/linker to patch
// in a resolved symbol address.
type RelocationEntry struct {
	Offset      uint32 // byte offset within its section from the section base
	SymbolIndex int    // index into the owning Object's Symbols.All()
	Kind        isa.RelocationKind
	Section     SectionKind
}

// SectionKind names which buffer a relocation or address belongs to.
type SectionKind int

const (
	SectionKindText SectionKind = iota
	SectionKindData
)

// LineInfo records one source line's extent in the assembled .text
// buffer, consumed by the debugger / runtime exception reporter.
type LineInfo struct {
	Text       string
	LineNumber int
	StartAddr  uint32
	EndAddr    uint32
}

// Object is everything one assembly pass produces over a single source
// session: text and data byte buffers (big-endian throughout),
// relocations against symbols not yet resolvable, the symbol table
// itself, and the line-info table.
type Object struct {
	Text        []byte
	Data        []byte
	Relocations []RelocationEntry
	Symbols     *parser.SymbolTable
	Lines       []LineInfo
}

// TextAddr returns the absolute text address for a byte offset into Text.
func (o *Object) TextAddr(offset uint32) uint32 { return isa.TextStartAddr + offset }

// DataAddr returns the absolute data address for a byte offset into Data.
func (o *Object) DataAddr(offset uint32) uint32 { return isa.DataStartAddr + offset }
