package vm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

func TestPrintIntSyscall(t *testing.T) {
	m := newTestMachine()
	var out bytes.Buffer
	m.OS.Stdout = &out
	m.CPU.GPR[regA0] = uint32(int32(-7))
	m.CPU.GPR[regV0] = syscallPrintInt

	m.OS.HandleSyscall()

	assert.Equal(t, "-7", out.String())
}

func TestPrintCharSyscall(t *testing.T) {
	m := newTestMachine()
	var out bytes.Buffer
	m.OS.Stdout = &out
	m.CPU.GPR[regA0] = 'A'
	m.CPU.GPR[regV0] = syscallPrintChar

	m.OS.HandleSyscall()

	assert.Equal(t, "A", out.String())
}

func TestReadIntSyscall(t *testing.T) {
	m := newTestMachine()
	m.OS.SetStdin(strings.NewReader("42\n"))
	m.CPU.GPR[regV0] = syscallReadInt

	m.OS.HandleSyscall()

	assert.Equal(t, uint32(42), m.CPU.GPR[regV0])
}

func TestReadCharSyscall(t *testing.T) {
	m := newTestMachine()
	m.OS.SetStdin(strings.NewReader("a"))
	m.CPU.GPR[regV0] = syscallReadChar

	m.OS.HandleSyscall()

	assert.Equal(t, uint32('a'), m.CPU.GPR[regV0])
}

func TestExitSyscallClearsShouldContinue(t *testing.T) {
	m := newTestMachine()
	m.CPU.GPR[regV0] = syscallExit

	m.OS.HandleSyscall()

	assert.False(t, m.ShouldContinue)
	assert.Equal(t, 0, m.ExitCode)
}

func TestSyscallDoesNotReadvancePC(t *testing.T) {
	m := newTestMachine()
	m.CPU.PC = isa.TextStartAddr + 4
	m.CPU.GPR[regV0] = syscallPrintChar
	m.CPU.GPR[regA0] = 'x'
	var out bytes.Buffer
	m.OS.Stdout = &out

	m.OS.HandleSyscall()

	assert.Equal(t, isa.TextStartAddr+4, m.PC())
}
