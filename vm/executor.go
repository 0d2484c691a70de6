package vm

import "github.com/lookbusy1344/mips-toolchain/isa"

// table is the one shared instruction catalogue every Machine decodes
// against; it is stateless, so a single package-level instance serves
// every running program.
var table = isa.NewTable()

// StopReason explains why Run stopped.
type StopReason int

const (
	StopNone StopReason = iota
	StopExited
	StopUnhandledException
	StopCycleLimit
)

func (r StopReason) String() string {
	switch r {
	case StopExited:
		return "exited"
	case StopUnhandledException:
		return "unhandled exception"
	case StopCycleLimit:
		return "cycle limit reached"
	default:
		return "running"
	}
}

// Step executes exactly one instruction, following the numbered sequence
// from spec §4.6:
//  1. the fetch address must lie in the text segment,
//  2. the word is fetched big-endian,
//  3. a breakpoint here would notify a debugger; this core has none,
//  4. PC is advanced before the instruction runs, so a taken branch or
//     jump overwrites it rather than being overwritten by it,
//  5. the raw word is decoded via the catalogue's lookup key,
//  6. an unmatched key is a reserved-instruction exception,
//  7. the matched entry's executor runs against the Machine interface,
//  8. register 0 is forced back to zero no matter what the executor did,
//  9. a pending exception is dispatched (recovered transparently for
//     Syscall, or returned to the caller to terminate otherwise).
func (m *Machine) Step() (StopReason, isa.ExceptionKind) {
	addr := m.CPU.PC
	if !m.Memory.inText(addr) {
		m.RaiseException(isa.AddressExceptionLoad)
		return m.dispatchPending()
	}
	word, ok := m.Memory.FetchWord(addr)
	if !ok {
		m.RaiseException(isa.BusFetch)
		return m.dispatchPending()
	}
	raw := isa.NewRawInstruction(word)

	m.CPU.PC = addr + isa.AddressAlign

	entry, ok := table.Decode(raw)
	if !ok || entry.Reserved {
		m.RaiseException(isa.ReservedInstruction)
		return m.dispatchPending()
	}

	entry.Executor(m, raw)

	m.CPU.GPR[0] = 0

	return m.dispatchPending()
}

// dispatchPending is step 9: a Syscall exception is serviced by the OS
// facade and recovered transparently; every other exception kind stops
// the run so the caller can report it.
func (m *Machine) dispatchPending() (StopReason, isa.ExceptionKind) {
	if !m.pending {
		return StopNone, isa.NoException
	}
	kind := m.pendingKind
	if kind == isa.Syscall {
		m.OS.HandleSyscall()
		m.RecoverFromException()
		if !m.ShouldContinue {
			return StopExited, isa.NoException
		}
		return StopNone, isa.NoException
	}
	return StopUnhandledException, kind
}

// Run steps the machine until it exits, hits an unhandled exception, or
// reaches maxCycles (0 means unbounded).
func (m *Machine) Run(maxCycles uint64) (StopReason, isa.ExceptionKind) {
	var cycles uint64
	for m.ShouldContinue {
		reason, kind := m.Step()
		cycles++
		if reason != StopNone {
			return reason, kind
		}
		if maxCycles != 0 && cycles >= maxCycles {
			return StopCycleLimit, isa.NoException
		}
	}
	return StopExited, isa.NoException
}
