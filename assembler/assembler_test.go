package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/parser"
)

// assembleSource runs the full lex/preprocess/parse/assemble pipeline
// over one in-memory source file, the same way the CLI entry point does.
func assembleSource(t *testing.T, src string) (*Object, *parser.ErrorList) {
	t.Helper()
	sess := parser.NewSession()
	span := sess.AddSource("test.asm", "", src)
	lx := parser.NewLexer(src, span.Start)
	toks := lx.TokenizeAll()
	errs := lx.Errors()

	pp := parser.NewPreprocessor(sess, errs)
	toks = pp.Process(toks, "", "test.asm")

	p := parser.NewParser(toks, errs)
	nodes := p.Parse()

	obj, aerrs := Assemble(sess, nodes)
	errs.Merge(aerrs)
	errs.Resolve(sess)
	return obj, errs
}

func TestAssembleSimpleRType(t *testing.T) {
	obj, errs := assembleSource(t, ".text\nadd $t0, $t1, $t2\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Text, 4)

	raw := isa.RawInstructionFromBigEndianBytes(obj.Text)
	assert.Equal(t, uint32(0), raw.Opcode())
	rs, _ := isa.RegisterByName("$t1")
	rt, _ := isa.RegisterByName("$t2")
	rd, _ := isa.RegisterByName("$t0")
	assert.Equal(t, rs, raw.Rs())
	assert.Equal(t, rt, raw.Rt())
	assert.Equal(t, rd, raw.Rd())
}

func TestAssembleITypeImmediate(t *testing.T) {
	obj, errs := assembleSource(t, ".text\naddi $t0, $t1, -1\n")
	require.False(t, errs.HasErrors())
	raw := isa.RawInstructionFromBigEndianBytes(obj.Text)
	assert.Equal(t, uint16(0xFFFF), raw.Immediate())
}

func TestAssembleImmediateOverflow(t *testing.T) {
	_, errs := assembleSource(t, ".text\naddi $t0, $t1, 0x10000\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrImmediateOverflow, errs.Errors[0].Kind)
}

func TestAssembleImmediateBoundaryFits(t *testing.T) {
	_, errs := assembleSource(t, ".text\naddi $t0, $t1, 0x8000\n")
	assert.False(t, errs.HasErrors())
}

func TestAssembleShamtBoundary(t *testing.T) {
	_, errs := assembleSource(t, ".text\nsll $t0, $t0, 31\n")
	assert.False(t, errs.HasErrors())
}

func TestAssembleShamtOutOfRange(t *testing.T) {
	_, errs := assembleSource(t, ".text\nsll $t0, $t0, 32\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrInvalidShamt, errs.Errors[0].Kind)
}

func TestAssembleConditionCodeBoundary(t *testing.T) {
	_, errs := assembleSource(t, ".text\nc.eq.d 7, $f0, $f2\n")
	assert.False(t, errs.HasErrors())
}

func TestAssembleConditionCodeOutOfRange(t *testing.T) {
	_, errs := assembleSource(t, ".text\nc.eq.d 8, $f0, $f2\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrInvalidArgument, errs.Errors[0].Kind)
}

func TestAssembleUnknownInstruction(t *testing.T) {
	_, errs := assembleSource(t, ".text\nbogus $t0, $t1, $t2\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrUnknownInstruction, errs.Errors[0].Kind)
}

func TestAssembleBadArgumentShape(t *testing.T) {
	_, errs := assembleSource(t, ".text\nadd $t0, $t1\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrBadArguments, errs.Errors[0].Kind)
}

func TestAssembleLabelOutsideSection(t *testing.T) {
	_, errs := assembleSource(t, "foo:\nadd $t0, $t1, $t2\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrLabelOutsideSection, errs.Errors[0].Kind)
}

func TestAssembleDuplicateSection(t *testing.T) {
	_, errs := assembleSource(t, ".text\n.text\nadd $t0, $t1, $t2\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrWrongSection, errs.Errors[0].Kind)
}

func TestAssembleInstructionOutsideText(t *testing.T) {
	_, errs := assembleSource(t, ".data\nadd $t0, $t1, $t2\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrWrongSection, errs.Errors[0].Kind)
}

func TestAssembleLabelDefineAndBranch(t *testing.T) {
	obj, errs := assembleSource(t, ".text\nloop:\n\taddi $t0, $t0, -1\n\tbnez $t0, loop\n")
	require.False(t, errs.HasErrors())
	sym, ok := obj.Symbols.Lookup("loop")
	require.True(t, ok)
	assert.True(t, sym.Defined)
	assert.Equal(t, isa.TextStartAddr, sym.Value)
	require.Len(t, obj.Relocations, 1)
	assert.Equal(t, isa.RelocPCRelative16, obj.Relocations[0].Kind)
}

func TestAssembleDuplicateSymbol(t *testing.T) {
	_, errs := assembleSource(t, ".text\nfoo:\nfoo:\nadd $t0, $t1, $t2\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrDuplicateSymbol, errs.Errors[0].Kind)
}

func TestAssembleUndefinedSymbol(t *testing.T) {
	_, errs := assembleSource(t, ".text\nj nowhere\n")
	require.True(t, errs.HasErrors())
	var found bool
	for _, e := range errs.Errors {
		if e.Kind == parser.ErrUndefinedSymbol {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssembleJumpRelocation(t *testing.T) {
	obj, errs := assembleSource(t, ".text\nj there\nthere:\n\tadd $t0, $t1, $t2\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Relocations, 1)
	assert.Equal(t, isa.RelocAbsolute26, obj.Relocations[0].Kind)
	assert.Equal(t, uint32(0), obj.Relocations[0].Offset)
}

func TestAssembleAsciizRequiresDataSection(t *testing.T) {
	_, errs := assembleSource(t, ".text\nmsg: .asciiz \"hi\"\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, parser.ErrWrongSection, errs.Errors[0].Kind)
}

func TestAssembleAsciizByteLayoutAndSize(t *testing.T) {
	obj, errs := assembleSource(t, ".data\nmsg: .asciiz \"hi\"\n")
	require.False(t, errs.HasErrors())
	assert.Equal(t, []byte("hi\x00"), obj.Data)
	sym, ok := obj.Symbols.Lookup("msg")
	require.True(t, ok)
	assert.Equal(t, uint32(3), sym.Size)
}

func TestAssembleWordDirectiveValuesAndSize(t *testing.T) {
	obj, errs := assembleSource(t, ".data\nvals: .word 1, 2, 3\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Data, 12)
	assert.Equal(t, uint32(1), beWord(obj.Data[0:4]))
	assert.Equal(t, uint32(2), beWord(obj.Data[4:8]))
	assert.Equal(t, uint32(3), beWord(obj.Data[8:12]))
	sym, ok := obj.Symbols.Lookup("vals")
	require.True(t, ok)
	assert.Equal(t, uint32(12), sym.Size)
}

func TestAssembleWordRepeatCount(t *testing.T) {
	obj, errs := assembleSource(t, ".data\nzeros: .word 0 : 4\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Data, 16)
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint32(0), beWord(obj.Data[i*4:i*4+4]))
	}
}

func TestAssembleWordSymbolRelocation(t *testing.T) {
	obj, errs := assembleSource(t, ".data\nptr: .word target\ntarget: .word 5\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Relocations, 1)
	assert.Equal(t, isa.RelocAbsolute32, obj.Relocations[0].Kind)
	assert.Equal(t, uint32(0), obj.Relocations[0].Offset)
}

func TestAssembleSectionSwitchPreservesCursor(t *testing.T) {
	obj, errs := assembleSource(t, ".text\nadd $t0, $t1, $t2\n.data\nx: .word 1\n.text\nsub $t0, $t1, $t2\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Text, 8)
	raw := isa.RawInstructionFromBigEndianBytes(obj.Text[4:8])
	assert.Equal(t, uint32(0x22), raw.Funct())
}

func TestAssemblePseudoLoadImmediate(t *testing.T) {
	obj, errs := assembleSource(t, ".text\nli $t0, 5\n")
	require.False(t, errs.HasErrors())
	raw := isa.RawInstructionFromBigEndianBytes(obj.Text)
	assert.Equal(t, uint16(5), raw.Immediate())
}

func TestAssemblePseudoLoadAddressEmitsTwoRelocations(t *testing.T) {
	obj, errs := assembleSource(t, ".data\nbuf: .word 0\n.text\nla $t0, buf\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Text, 8)
	var kinds []isa.RelocationKind
	for _, r := range obj.Relocations {
		if r.Section == SectionKindText {
			kinds = append(kinds, r.Kind)
		}
	}
	assert.Equal(t, []isa.RelocationKind{isa.RelocHi16, isa.RelocLo16}, kinds)
}

func TestAssemblePseudoNop(t *testing.T) {
	obj, errs := assembleSource(t, ".text\nnop\n")
	require.False(t, errs.HasErrors())
	raw := isa.RawInstructionFromBigEndianBytes(obj.Text)
	assert.Equal(t, uint32(0), raw.Raw)
}

func TestAssembleLineInfoSpansPseudoExpansion(t *testing.T) {
	obj, errs := assembleSource(t, ".data\nbuf: .word 0\n.text\nla $t0, buf\n")
	require.False(t, errs.HasErrors())
	require.Len(t, obj.Lines, 1)
	assert.Equal(t, isa.TextStartAddr, obj.Lines[0].StartAddr)
	assert.Equal(t, isa.TextStartAddr+8, obj.Lines[0].EndAddr)
}

func beWord(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
