package vm

import "github.com/lookbusy1344/mips-toolchain/isa"

// RaiseException implements set_exception from spec §4.8: enter kernel
// mode, latch the return address in EPC the first time (nested
// exceptions keep the original EPC), set EXL, and record the cause code.
// A second call while one is pending replaces the recorded kind and
// cause code (EPC stays); the catalogue's executors raise at most one.
func (m *Machine) RaiseException(kind isa.ExceptionKind) {
	m.Cop0.enterKernelMode()
	if !m.Cop0.inException() {
		m.Cop0.setEPC(m.CPU.PC - isa.AddressAlign)
	}
	m.Cop0.setEXL()
	m.Cop0.setExcCode(kind.ExcCode())
	m.pending = true
	m.pendingKind = kind
}

// RecoverFromException implements recover_from_exception from spec
// §4.8: clear EXL, resume just past the excepting instruction, clear the
// FPU cause bits, and drop the pending-exception state so Step's dispatch
// can continue the loop.
func (m *Machine) RecoverFromException() {
	m.Cop0.clearEXL()
	m.CPU.PC = m.Cop0.epc() + isa.AddressAlign
	m.Cop0.setEPC(0)
	m.Cop1.FCSR &^= 0x3F << isa.FCSRCauseShift
	m.pending = false
	m.pendingKind = isa.NoException
}

// PendingExceptionKind reports which exception Step's dispatch step (9)
// must act on, valid only while HasPendingException is true.
func (m *Machine) PendingExceptionKind() isa.ExceptionKind { return m.pendingKind }
