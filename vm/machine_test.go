package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

func newTestMachine() *Machine {
	return NewMachine(make([]byte, 64), make([]byte, 64), isa.StackInitSize, isa.StackInitSize)
}

func TestGPRZeroWiredByStep(t *testing.T) {
	m := newTestMachine()
	m.CPU.GPR[0] = 0xDEADBEEF // executors can write it mid-instruction
	// addi $zero, $zero, 5 would normally leave a nonzero value; Step's
	// step 8 forces it back regardless of what ran.
	word := isa.EncodeIType(0x08, 0, 0, 5) // addi opcode 0x08
	copy(m.Memory.segments[0].data, word.ToBigEndianBytes()[:])

	m.Step()

	assert.Equal(t, uint32(0), m.CPU.GPR[0])
}

func TestJumpIfValidOutOfRangeRaisesException(t *testing.T) {
	m := newTestMachine()
	ok := m.JumpIfValid(0xFFFFFFFF)
	assert.False(t, ok)
	require.True(t, m.HasPendingException())
	assert.Equal(t, isa.AddressExceptionLoad, m.PendingExceptionKind())
}

func TestJumpIfValidWithinText(t *testing.T) {
	m := newTestMachine()
	target := isa.TextStartAddr + 4
	ok := m.JumpIfValid(target)
	assert.True(t, ok)
	assert.Equal(t, target, m.PC())
	assert.False(t, m.HasPendingException())
}

func TestWordReadWriteBigEndian(t *testing.T) {
	m := newTestMachine()
	addr := isa.DataStartAddr
	assert.True(t, m.WriteWord(addr, 0x01020304))
	v, ok := m.ReadWord(addr)
	require.True(t, ok)
	assert.Equal(t, uint32(0x01020304), v)

	s := m.Memory.segments[1]
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, s.data[:4])
}

func TestMisalignedWordAccessFails(t *testing.T) {
	m := newTestMachine()
	assert.False(t, m.WriteWord(isa.DataStartAddr+1, 1))
	_, ok := m.ReadWord(isa.DataStartAddr+1)
	assert.False(t, ok)
}

func TestByteSignExtension(t *testing.T) {
	m := newTestMachine()
	addr := isa.DataStartAddr
	m.WriteByte(addr, 0xFF)
	signed, ok := m.ReadByte(addr, true)
	require.True(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFF), signed)

	unsigned, ok := m.ReadByte(addr, false)
	require.True(t, ok)
	assert.Equal(t, uint32(0xFF), unsigned)
}

func TestFPRPairAlignment(t *testing.T) {
	m := newTestMachine()
	m.SetFPRPair(2, 0x0102030405060708)
	assert.Equal(t, uint32(0x05060708), m.FPR(2))
	assert.Equal(t, uint32(0x01020304), m.FPR(3))
	assert.Equal(t, uint64(0x0102030405060708), m.FPRPair(2))
}

func TestConditionCodeBitPacking(t *testing.T) {
	m := newTestMachine()
	m.SetConditionCode(0, true)
	assert.True(t, m.ConditionCode(0))
	assert.Equal(t, uint32(1<<isa.FCSRCCBit0Shift), m.FCSR()&(1<<isa.FCSRCCBit0Shift))

	m.SetConditionCode(3, true)
	assert.True(t, m.ConditionCode(3))
	assert.False(t, m.ConditionCode(2))
}

func TestRaiseExceptionSequencing(t *testing.T) {
	m := newTestMachine()
	m.CPU.PC = isa.TextStartAddr + 8

	m.RaiseException(isa.ArithmeticOverflow)

	assert.True(t, m.HasPendingException())
	assert.Equal(t, isa.TextStartAddr+4, m.Cop0.epc())
	assert.True(t, m.Cop0.inException())
	assert.Equal(t, isa.ArithmeticOverflow.ExcCode(), (m.CP0(CP0Cause)&causeExcCodeMask)>>causeExcCodeShift)
}

func TestRecoverFromExceptionRestoresPC(t *testing.T) {
	m := newTestMachine()
	m.CPU.PC = isa.TextStartAddr + 8
	m.RaiseException(isa.Syscall)

	m.RecoverFromException()

	assert.False(t, m.HasPendingException())
	assert.Equal(t, isa.TextStartAddr+8, m.PC())
	assert.False(t, m.Cop0.inException())
}

func TestNestedExceptionKeepsFirstEPC(t *testing.T) {
	m := newTestMachine()
	m.CPU.PC = isa.TextStartAddr + 8
	m.RaiseException(isa.ArithmeticOverflow)
	first := m.Cop0.epc()

	m.CPU.PC = isa.TextStartAddr + 100
	m.RaiseException(isa.ReservedInstruction)

	assert.Equal(t, first, m.Cop0.epc())
}
