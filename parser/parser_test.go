package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) ([]Node, *ErrorList) {
	t.Helper()
	lx := NewLexer(src, 0)
	toks := lx.TokenizeAll()
	errs := lx.Errors()
	p := NewParser(toks, errs)
	return p.Parse(), errs
}

func TestParserLabelAndInstruction(t *testing.T) {
	nodes, errs := parseSource(t, "main:\n\tadd $t0, $t1, $t2\n")
	require.False(t, errs.HasErrors())
	require.Len(t, nodes, 2)

	label, ok := nodes[0].(*LabelDecl)
	require.True(t, ok)
	assert.Equal(t, "main", label.Name)

	inst, ok := nodes[1].(*InstructionNode)
	require.True(t, ok)
	assert.Equal(t, "add", inst.Mnemonic)
	require.Len(t, inst.Operands, 3)
	assert.Equal(t, "$t0", inst.Operands[0].(*RegisterOperand).Name)
}

func TestParserLabelAndInstructionOnSameLine(t *testing.T) {
	nodes, errs := parseSource(t, "loop: addi $t0, $t0, 1\n")
	require.False(t, errs.HasErrors())
	require.Len(t, nodes, 2)
	assert.IsType(t, &LabelDecl{}, nodes[0])
	assert.IsType(t, &InstructionNode{}, nodes[1])
}

func TestParserImmediateOperand(t *testing.T) {
	nodes, errs := parseSource(t, "addi $t0, $zero, -5\n")
	require.False(t, errs.HasErrors())
	inst := nodes[0].(*InstructionNode)
	imm := inst.Operands[2].(*ImmediateOperand)
	assert.Equal(t, uint32(5), imm.Value)
	assert.True(t, imm.Negative)
}

func TestParserSymbolReferenceOperand(t *testing.T) {
	nodes, errs := parseSource(t, "j done\n")
	require.False(t, errs.HasErrors())
	inst := nodes[0].(*InstructionNode)
	ref := inst.Operands[0].(*SymbolRefOperand)
	assert.Equal(t, "done", ref.Name)
}

func TestParserBaseAddressOperand(t *testing.T) {
	nodes, errs := parseSource(t, "lw $t0, 8($sp)\n")
	require.False(t, errs.HasErrors())
	inst := nodes[0].(*InstructionNode)
	base := inst.Operands[1].(*BaseAddressOperand)
	require.NotNil(t, base.Offset)
	assert.Equal(t, uint32(8), base.Offset.Value)
	assert.Equal(t, "$sp", base.Base.Name)
}

func TestParserBaseAddressOperandZeroOffset(t *testing.T) {
	nodes, errs := parseSource(t, "lw $t0, ($sp)\n")
	require.False(t, errs.HasErrors())
	inst := nodes[0].(*InstructionNode)
	base := inst.Operands[1].(*BaseAddressOperand)
	assert.Nil(t, base.Offset)
	assert.Equal(t, "$sp", base.Base.Name)
}

func TestParserUnknownRegisterIsDiagnostic(t *testing.T) {
	_, errs := parseSource(t, "add $bogus, $t0, $t1\n")
	require.True(t, errs.HasErrors())
	assert.Equal(t, ErrInvalidRegister, errs.Errors[0].Kind)
}

func TestParserDirectiveAsciiz(t *testing.T) {
	nodes, errs := parseSource(t, `.asciiz "hi\n"` + "\n")
	require.False(t, errs.HasErrors())
	dir := nodes[0].(*DirectiveNode)
	assert.Equal(t, DirAsciiz, dir.Kind)
	assert.Equal(t, "hi\n", dir.Text)
}

func TestParserDirectiveWordList(t *testing.T) {
	nodes, errs := parseSource(t, ".word 1, 2, 3\n")
	require.False(t, errs.HasErrors())
	dir := nodes[0].(*DirectiveNode)
	assert.Equal(t, DirWord, dir.Kind)
	assert.Equal(t, 3, dir.WordCount)
}

func TestParserDirectiveTextAndData(t *testing.T) {
	nodes, errs := parseSource(t, ".text\n.data\n")
	require.False(t, errs.HasErrors())
	require.Len(t, nodes, 2)
	assert.Equal(t, DirText, nodes[0].(*DirectiveNode).Kind)
	assert.Equal(t, DirData, nodes[1].(*DirectiveNode).Kind)
}

func TestParserRecoversAfterMalformedLine(t *testing.T) {
	nodes, errs := parseSource(t, "add $t0, $t0, $t1\n)(\nsub $t0, $t0, $t1\n")
	require.True(t, errs.HasErrors())
	require.Len(t, nodes, 2)
	assert.Equal(t, "add", nodes[0].(*InstructionNode).Mnemonic)
	assert.Equal(t, "sub", nodes[1].(*InstructionNode).Mnemonic)
}

func TestParserHexAndCharImmediates(t *testing.T) {
	nodes, errs := parseSource(t, "li $t0, 0xFF\nli $t1, 'a'\n")
	require.False(t, errs.HasErrors())
	imm0 := nodes[0].(*InstructionNode).Operands[1].(*ImmediateOperand)
	assert.Equal(t, uint32(0xFF), imm0.Value)
	imm1 := nodes[1].(*InstructionNode).Operands[1].(*ImmediateOperand)
	assert.Equal(t, uint32('a'), imm1.Value)
}
