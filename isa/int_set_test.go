package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executorFor(t *testing.T, mnemonic string) func(Machine, RawInstruction) {
	t.Helper()
	entry, ok := NewTable().Mnemonic(mnemonic)
	require.Truef(t, ok, "mnemonic %q not in catalogue", mnemonic)
	return entry.Executor
}

func TestAddSetsRegister(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, 10)
	m.SetGPR(2, 32)
	raw := EncodeRType(opR, 1, 2, 3, 0, fnAdd)
	executorFor(t, "add")(m, raw)
	assert.Equal(t, uint32(42), m.GPR(3))
	assert.False(t, m.HasPendingException())
}

func TestAddOverflowRaisesArithmeticOverflow(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, uint32(int32(2147483647)))
	m.SetGPR(2, 1)
	raw := EncodeRType(opR, 1, 2, 3, 0, fnAdd)
	executorFor(t, "add")(m, raw)
	assert.True(t, m.HasPendingException())
	assert.Equal(t, ArithmeticOverflow, m.lastKind)
}

func TestAdduDoesNotOverflow(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, uint32(int32(2147483647)))
	m.SetGPR(2, 1)
	raw := EncodeRType(opR, 1, 2, 3, 0, fnAddu)
	executorFor(t, "addu")(m, raw)
	assert.False(t, m.HasPendingException())
	assert.Equal(t, uint32(0x80000000), m.GPR(3))
}

func TestDivByZeroIsUndefinedNotTrapping(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, 10)
	m.SetGPR(2, 0)
	raw := EncodeRType(opR, 1, 2, 0, 0, fnDiv)
	executorFor(t, "div")(m, raw)
	assert.False(t, m.HasPendingException())
}

func TestDivSetsQuotientAndRemainder(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, 17)
	m.SetGPR(2, 5)
	raw := EncodeRType(opR, 1, 2, 0, 0, fnDiv)
	executorFor(t, "div")(m, raw)
	assert.Equal(t, uint32(3), m.LO())
	assert.Equal(t, uint32(2), m.HI())
}

func TestSrlRs1IsRotateRight(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, 1) // rs==1 selects the rotate-right overload
	m.SetGPR(2, 0x1)
	raw := EncodeRType(opR, 1, 2, 3, 4, fnSrl)
	executorFor(t, "srl")(m, raw)
	assert.Equal(t, uint32(0x10000000), m.GPR(3))
}

func TestSltSetsOneWhenLess(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, uint32(int32(-5)))
	m.SetGPR(2, 3)
	raw := EncodeRType(opR, 1, 2, 3, 0, fnSlt)
	executorFor(t, "slt")(m, raw)
	assert.Equal(t, uint32(1), m.GPR(3))
}

func TestLwAndSwRoundTrip(t *testing.T) {
	m := newFakeMachine()
	m.SetGPR(1, 0) // base register = 0
	m.SetGPR(2, 0xDEADBEEF)
	sw := EncodeIType(opSw, 1, 2, 0x100)
	executorFor(t, "sw")(m, sw)

	lw := EncodeIType(opLw, 1, 3, 0x100)
	executorFor(t, "lw")(m, lw)
	assert.Equal(t, uint32(0xDEADBEEF), m.GPR(3))
}

func TestBeqBranchesWhenEqual(t *testing.T) {
	m := newFakeMachine()
	m.SetPC(TextStartAddr + 0x10)
	m.SetGPR(1, 7)
	m.SetGPR(2, 7)
	raw := EncodeIType(opBeq, 1, 2, 4) // offset 4 words ahead
	executorFor(t, "beq")(m, raw)
	assert.Equal(t, TextStartAddr+0x10+4*4, m.PC())
}

func TestBeqDoesNotBranchWhenUnequal(t *testing.T) {
	m := newFakeMachine()
	start := TextStartAddr + 0x10
	m.SetPC(start)
	m.SetGPR(1, 7)
	m.SetGPR(2, 8)
	raw := EncodeIType(opBeq, 1, 2, 4)
	executorFor(t, "beq")(m, raw)
	assert.Equal(t, start, m.PC())
}
