package vm

import "github.com/lookbusy1344/mips-toolchain/isa"

// CPU holds the integer execution state: the general-purpose register
// file, the HI/LO multiply/divide registers, and the program counter.
// Register 0 is wired to zero by Step, not by GPR/SetGPR themselves, so
// that the catalogue's own executors (which read/write through the
// isa.Machine interface) never need a special case for it.
type CPU struct {
	GPR [isa.NumRegisters]uint32
	HI  uint32
	LO  uint32
	PC  uint32
}

// NewCPU returns a CPU with PC at the text segment's base address and
// every register zeroed.
func NewCPU() *CPU {
	return &CPU{PC: isa.TextStartAddr}
}

// Reset restores the CPU to its just-constructed state.
func (c *CPU) Reset() {
	*c = CPU{PC: isa.TextStartAddr}
}
