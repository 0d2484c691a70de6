package assembler

import (
	"encoding/binary"

	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

// Assembler runs the single forward pass over a parsed program: labels
// are defined against the current section's cursor, directives grow the
// section byte buffers, and instructions are shape-matched against the
// catalogue, relocated where symbolic, and encoded.
type Assembler struct {
	table      *isa.Table
	symbols    *parser.SymbolTable
	errs       *parser.ErrorList
	obj        *Object
	section    parser.Section
	hasSection bool
	lastSymbol *parser.Symbol
}

func newAssembler() *Assembler {
	return &Assembler{
		table:   isa.NewTable(),
		symbols: parser.NewSymbolTable(),
		errs:    &parser.ErrorList{},
		obj:     &Object{},
	}
}

// Assemble folds a parsed program's nodes into a complete Object. It
// never aborts on the first error: every diagnostic it raises is
// collected in the returned ErrorList, mirroring the parser's recover-
// and-continue philosophy.
func Assemble(sess *parser.Session, nodes []parser.Node) (*Object, *parser.ErrorList) {
	a := newAssembler()
	for _, n := range nodes {
		switch node := n.(type) {
		case *parser.LabelDecl:
			a.defineLabel(node)
		case *parser.DirectiveNode:
			a.assembleDirective(node)
		case *parser.InstructionNode:
			a.assembleInstruction(sess, node)
		}
	}
	for _, sym := range a.symbols.UndefinedSymbols() {
		sp := sym.DefSpan
		if len(sym.References) > 0 {
			sp = sym.References[0]
		}
		a.errorAt(sp, parser.ErrUndefinedSymbol, "undefined symbol "+sym.Name)
	}
	a.obj.Symbols = a.symbols
	return a.obj, a.errs
}

func (a *Assembler) errorAt(pos parser.Span, kind parser.ErrorKind, msg string) {
	a.errs.AddError(parser.NewError(pos, kind, msg))
}

// cursor returns the absolute address the next byte appended to the
// current section would land at.
func (a *Assembler) cursor() uint32 {
	if a.section == parser.SectionText {
		return isa.TextStartAddr + uint32(len(a.obj.Text))
	}
	return isa.DataStartAddr + uint32(len(a.obj.Data))
}

// sectionOffset is cursor's address minus the section's fixed base,
// for relocation entries (which are section-relative).
func (a *Assembler) sectionOffset() uint32 {
	if a.section == parser.SectionText {
		return uint32(len(a.obj.Text))
	}
	return uint32(len(a.obj.Data))
}

func (a *Assembler) sectionKind() SectionKind {
	if a.section == parser.SectionText {
		return SectionKindText
	}
	return SectionKindData
}

// appendBytes grows the current section's buffer. Representing each
// section as a plain append-only slice gives every section switch a
// correct, automatically-preserved cursor (len(buffer)) for free,
// without separately saved/restored cursor state.
func (a *Assembler) appendBytes(b []byte) {
	if a.section == parser.SectionText {
		a.obj.Text = append(a.obj.Text, b...)
	} else {
		a.obj.Data = append(a.obj.Data, b...)
	}
}

func (a *Assembler) appendWord(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	a.appendBytes(b[:])
}

func (a *Assembler) defineLabel(n *parser.LabelDecl) {
	if !a.hasSection {
		a.errorAt(n.Pos, parser.ErrLabelOutsideSection, "label "+n.Name+" declared outside any section")
		return
	}
	symType := parser.SymObject
	if a.section == parser.SectionText {
		symType = parser.SymFunction
	}
	if err := a.symbols.Define(n.Name, a.cursor(), a.section, symType, n.Pos); err != nil {
		a.errorAt(n.Pos, parser.ErrDuplicateSymbol, err.Error())
		return
	}
	sym, _ := a.symbols.Lookup(n.Name)
	a.lastSymbol = sym
}

func (a *Assembler) assembleDirective(n *parser.DirectiveNode) {
	switch n.Kind {
	case parser.DirText:
		if a.hasSection && a.section == parser.SectionText {
			a.errorAt(n.Pos, parser.ErrWrongSection, "already in the .text section")
		}
		a.section, a.hasSection = parser.SectionText, true
	case parser.DirData:
		if a.hasSection && a.section == parser.SectionData {
			a.errorAt(n.Pos, parser.ErrWrongSection, "already in the .data section")
		}
		a.section, a.hasSection = parser.SectionData, true
	case parser.DirAsciiz:
		a.assembleAsciiz(n)
	case parser.DirWord:
		a.assembleWord(n)
	default:
		// DirInclude/DirEqv/DirMacro/DirEndMacro are fully consumed by the
		// preprocessor; reaching the assembler means the token stream
		// bypassed it (e.g. a test building a Program directly).
		a.errorAt(n.Pos, parser.ErrInvalidDirective, "directive did not go through preprocessing")
	}
}

func (a *Assembler) assembleAsciiz(n *parser.DirectiveNode) {
	if !a.hasSection {
		a.errorAt(n.Pos, parser.ErrLabelOutsideSection, ".asciiz outside any section")
		return
	}
	if a.section != parser.SectionData {
		a.errorAt(n.Pos, parser.ErrWrongSection, ".asciiz must be in the .data section")
		return
	}
	start := a.cursor()
	a.appendBytes([]byte(n.Text))
	a.appendBytes([]byte{0})
	if a.lastSymbol != nil {
		a.lastSymbol.Size += a.cursor() - start
	}
}

func (a *Assembler) assembleWord(n *parser.DirectiveNode) {
	if !a.hasSection {
		a.errorAt(n.Pos, parser.ErrLabelOutsideSection, ".word outside any section")
		return
	}
	start := a.cursor()
	for i, op := range n.WordValues {
		repeat := 1
		if i < len(n.WordRepeats) {
			repeat = n.WordRepeats[i]
		}
		val, sym, hasSym := a.resolveWordValue(op)
		for k := 0; k < repeat; k++ {
			if hasSym {
				idx, _ := a.symbols.Index(sym)
				a.obj.Relocations = append(a.obj.Relocations, RelocationEntry{
					Offset: a.sectionOffset(), SymbolIndex: idx,
					Kind: isa.RelocAbsolute32, Section: a.sectionKind(),
				})
			}
			a.appendWord(val)
		}
	}
	if a.lastSymbol != nil {
		a.lastSymbol.Size += a.cursor() - start
	}
}

func (a *Assembler) resolveWordValue(op parser.Operand) (value uint32, symbol string, hasSymbol bool) {
	switch v := op.(type) {
	case *parser.ImmediateOperand:
		return immediateBits(v), "", false
	case *parser.SymbolRefOperand:
		a.symbols.Reference(v.Name, v.Pos)
		return 0, v.Name, true
	default:
		return 0, "", false
	}
}

// assembleInstruction expands pseudoinstructions to their real form and
// records the line-info entry spanning however many real words the
// source line assembled to.
func (a *Assembler) assembleInstruction(sess *parser.Session, n *parser.InstructionNode) {
	start := a.cursor()
	if expanded, ok := expandPseudo(n.Mnemonic, n.Operands, n.Pos); ok {
		if expanded == nil {
			a.errorAt(n.Pos, parser.ErrBadArguments, "wrong number of arguments for "+n.Mnemonic)
		} else {
			for _, ins := range expanded {
				a.assembleRealInstruction(ins.Mnemonic, ins.Operands, n.Pos)
			}
		}
	} else {
		a.assembleRealInstruction(n.Mnemonic, n.Operands, n.Pos)
	}
	end := a.cursor()
	pos, snippet := sess.Resolve(n.Pos)
	a.obj.Lines = append(a.obj.Lines, LineInfo{
		Text: snippet, LineNumber: pos.Line, StartAddr: start, EndAddr: end,
	})
}

func (a *Assembler) assembleRealInstruction(mnemonic string, ops []parser.Operand, pos parser.Span) {
	entry, ok := a.table.Mnemonic(mnemonic)
	if !ok {
		a.errorAt(pos, parser.ErrUnknownInstruction, "unknown instruction "+mnemonic)
		return
	}
	if !a.hasSection {
		a.errorAt(pos, parser.ErrLabelOutsideSection, "instruction outside any section")
		return
	}
	if a.section != parser.SectionText {
		a.errorAt(pos, parser.ErrWrongSection, "instructions must be in the .text section")
		return
	}

	kinds := make([]isa.ArgumentType, len(ops))
	for i, op := range ops {
		kinds[i] = classifyKind(op)
	}
	shapeIdx := entry.MatchShape(kinds)
	if shapeIdx < 0 {
		a.errorAt(pos, parser.ErrBadArguments, "no matching operand shape for "+mnemonic)
		return
	}
	shape := entry.Shapes()[shapeIdx]
	r := a.resolveFields(entry, shape, ops, pos)

	if r.hasSymbol {
		idx, _ := a.symbols.Index(r.symbol)
		a.obj.Relocations = append(a.obj.Relocations, RelocationEntry{
			Offset: a.sectionOffset(), SymbolIndex: idx,
			Kind: entry.Reloc, Section: a.sectionKind(),
		})
	}
	a.appendWord(encodeByClass(entry, r).Raw)
}

func classifyKind(op parser.Operand) isa.ArgumentType {
	switch op.(type) {
	case *parser.RegisterOperand:
		return isa.ArgRd
	case *parser.SymbolRefOperand:
		return isa.ArgIdentifier
	case *parser.BaseAddressOperand:
		return isa.ArgBaseAddress
	default:
		return isa.ArgImmediate
	}
}

// resolveFields assigns a matched shape's operands into their bit-field
// roles. ArgImmediate's meaning depends on class (a shift amount for
// ClassRType, a 16-bit field otherwise); ArgFt's target register file
// slot depends on class too (ClassIType's fp loads/stores pack the fp
// register into the same wire position as an ordinary rt).
func (a *Assembler) resolveFields(e *isa.CatalogueEntry, shape []isa.ArgumentType, ops []parser.Operand, pos parser.Span) resolved {
	var r resolved
	for i, role := range shape {
		op := ops[i]
		switch role {
		case isa.ArgRd:
			r.rd = a.resolveGPR(op, pos)
		case isa.ArgRs:
			r.rs = a.resolveGPR(op, pos)
		case isa.ArgRt:
			r.rt = a.resolveGPR(op, pos)
		case isa.ArgFd:
			r.fd = a.resolveFPR(op, pos)
		case isa.ArgFs:
			r.fs = a.resolveFPR(op, pos)
		case isa.ArgFt:
			if e.Class == isa.ClassIType {
				r.rt = a.resolveFPR(op, pos)
			} else {
				r.ft = a.resolveFPR(op, pos)
			}
		case isa.ArgFr:
			// No current catalogue entry uses a fourth fp register slot.
		case isa.ArgCC:
			r.cc = a.resolveCC(op, pos)
		case isa.ArgShamt:
			r.shamt = a.resolveShamt(op, pos)
		case isa.ArgImmediate:
			if e.Class == isa.ClassRType {
				r.shamt = a.resolveShamt(op, pos)
				continue
			}
			imm, sym, hasSym := a.resolveRelocatable(op, pos, e.Reloc)
			r.imm16 = imm
			if hasSym {
				r.symbol, r.hasSymbol = sym, true
			}
		case isa.ArgBranchLabel:
			imm, sym, hasSym := a.resolveRelocatable(op, pos, e.Reloc)
			r.imm16 = imm
			if hasSym {
				r.symbol, r.hasSymbol = sym, true
			}
		case isa.ArgBaseAddress:
			ba, ok := op.(*parser.BaseAddressOperand)
			if !ok {
				a.errorAt(pos, parser.ErrBadArguments, "expected offset(register)")
				continue
			}
			r.rs = a.resolveGPR(ba.Base, ba.Pos)
			if ba.Offset != nil {
				r.imm16 = a.resolveImm16(ba.Offset, ba.Pos)
			}
		case isa.ArgIdentifier:
			// Never a shape slot's own declared kind; identifiers only
			// arrive standing in for ArgImmediate/ArgBranchLabel.
		}
	}
	return r
}
