package vm

import "github.com/lookbusy1344/mips-toolchain/isa"

// Machine ties the integer, coprocessor, and memory state together into
// the single concrete type that satisfies isa.Machine, so the
// catalogue's executors can run against it unmodified.
type Machine struct {
	CPU    *CPU
	Cop0   *Coprocessor0
	Cop1   *Coprocessor1
	Memory *Memory
	OS     *OS

	// ShouldContinue mirrors the program's should_continue_execution
	// flag (spec §3): cleared by the exit syscall. An unrecovered
	// exception stops Step/Run through its StopReason and leaves it set.
	ShouldContinue bool
	ExitCode       int

	pending    bool
	pendingKind isa.ExceptionKind
}

// NewMachine wires a fresh CPU/CP0/CP1/Memory together, ready to run at
// the text segment's base address.
func NewMachine(text, data []byte, heapSize, stackSize uint32) *Machine {
	m := &Machine{
		CPU:            NewCPU(),
		Cop0:           NewCoprocessor0(),
		Cop1:           NewCoprocessor1(),
		Memory:         NewMemory(text, data, heapSize, stackSize),
		ShouldContinue: true,
	}
	m.OS = NewOS(m)
	return m
}

func (m *Machine) GPR(i uint32) uint32      { return m.CPU.GPR[i] }
func (m *Machine) SetGPR(i uint32, v uint32) { m.CPU.GPR[i] = v }

func (m *Machine) HI() uint32      { return m.CPU.HI }
func (m *Machine) SetHI(v uint32)  { m.CPU.HI = v }
func (m *Machine) LO() uint32      { return m.CPU.LO }
func (m *Machine) SetLO(v uint32)  { m.CPU.LO = v }

func (m *Machine) PC() uint32     { return m.CPU.PC }
func (m *Machine) SetPC(v uint32) { m.CPU.PC = v }

// JumpIfValid implements the isa.Machine contract: set PC only if the
// target address lies in the text segment, otherwise raise the load
// address exception and leave PC untouched.
func (m *Machine) JumpIfValid(addr uint32) bool {
	if !m.Memory.inText(addr) {
		m.RaiseException(isa.AddressExceptionLoad)
		return false
	}
	m.CPU.PC = addr
	return true
}

func (m *Machine) ReadByte(addr uint32, signed bool) (uint32, bool) {
	b, ok := m.Memory.readByte(addr)
	if !ok {
		m.RaiseException(isa.AddressExceptionLoad)
		return 0, false
	}
	if signed {
		return uint32(int32(int8(b))), true
	}
	return uint32(b), true
}

func (m *Machine) WriteByte(addr uint32, v uint32) bool {
	if !m.Memory.writeByte(addr, byte(v)) {
		m.RaiseException(isa.AddressExceptionStore)
		return false
	}
	return true
}

func (m *Machine) ReadHalf(addr uint32, signed bool) (uint32, bool) {
	h, ok := m.Memory.readHalf(addr)
	if !ok {
		m.RaiseException(isa.AddressExceptionLoad)
		return 0, false
	}
	if signed {
		return uint32(int32(int16(h))), true
	}
	return uint32(h), true
}

func (m *Machine) WriteHalf(addr uint32, v uint32) bool {
	if !m.Memory.writeHalf(addr, uint16(v)) {
		m.RaiseException(isa.AddressExceptionStore)
		return false
	}
	return true
}

func (m *Machine) ReadWord(addr uint32) (uint32, bool) {
	w, ok := m.Memory.readWord(addr)
	if !ok {
		m.RaiseException(isa.AddressExceptionLoad)
		return 0, false
	}
	return w, true
}

func (m *Machine) WriteWord(addr uint32, v uint32) bool {
	if !m.Memory.writeWord(addr, v) {
		m.RaiseException(isa.AddressExceptionStore)
		return false
	}
	return true
}

func (m *Machine) FPR(i uint32) uint32       { return m.Cop1.Regs[i] }
func (m *Machine) SetFPR(i uint32, v uint32) { m.Cop1.Regs[i] = v }

func (m *Machine) FPRPair(i uint32) uint64       { return m.Cop1.pair(i) }
func (m *Machine) SetFPRPair(i uint32, v uint64) { m.Cop1.setPair(i, v) }

func (m *Machine) FCSR() uint32     { return m.Cop1.FCSR }
func (m *Machine) SetFCSR(v uint32) { m.Cop1.FCSR = v }

func (m *Machine) ConditionCode(cc uint32) bool       { return m.Cop1.conditionCode(cc) }
func (m *Machine) SetConditionCode(cc uint32, v bool) { m.Cop1.setConditionCode(cc, v) }

func (m *Machine) CP0(i uint32) uint32       { return m.Cop0.reg(i) }
func (m *Machine) SetCP0(i uint32, v uint32) { m.Cop0.setReg(i, v) }

func (m *Machine) HasPendingException() bool { return m.pending }

// RaiseFpException ORs causeBit into FCSR's cause field and, if the
// matching enable bit is set, additionally traps with FloatingPoint.
func (m *Machine) RaiseFpException(causeBit uint32) {
	m.Cop1.FCSR |= causeBit << isa.FCSRCauseShift
	if m.Cop1.FCSR&(causeBit<<isa.FCSREnableShift) != 0 {
		m.RaiseException(isa.FloatingPoint)
	}
}
