package isa

// fakeMachine is a minimal in-memory Machine used only to exercise
// catalogue executors in isolation, without pulling in the vm package
// (which would reintroduce the cycle Machine exists to avoid).
type fakeMachine struct {
	gpr      [32]uint32
	hi, lo   uint32
	pc       uint32
	fpr      [32]uint32
	fcsr     uint32
	cc       [8]bool
	cp0      [32]uint32
	mem      map[uint32]byte

	textStart, textEnd uint32

	pending   bool
	lastKind  ExceptionKind
}

func newFakeMachine() *fakeMachine {
	return &fakeMachine{
		fcsr:      FCSRDefault,
		mem:       make(map[uint32]byte),
		textStart: TextStartAddr,
		textEnd:   TextStartAddr + 0x1000,
		pc:        TextStartAddr,
	}
}

func (f *fakeMachine) GPR(i uint32) uint32 { return f.gpr[i] }
func (f *fakeMachine) SetGPR(i uint32, v uint32) {
	if i != 0 {
		f.gpr[i] = v
	}
}
func (f *fakeMachine) HI() uint32        { return f.hi }
func (f *fakeMachine) SetHI(v uint32)    { f.hi = v }
func (f *fakeMachine) LO() uint32        { return f.lo }
func (f *fakeMachine) SetLO(v uint32)    { f.lo = v }
func (f *fakeMachine) PC() uint32        { return f.pc }
func (f *fakeMachine) SetPC(v uint32)    { f.pc = v }

func (f *fakeMachine) JumpIfValid(addr uint32) bool {
	if addr < f.textStart || addr >= f.textEnd {
		f.RaiseException(AddressExceptionLoad)
		return false
	}
	f.pc = addr
	return true
}

func (f *fakeMachine) ReadByte(addr uint32, signed bool) (uint32, bool) {
	v := uint32(f.mem[addr])
	if signed && v&0x80 != 0 {
		v |= 0xFFFFFF00
	}
	return v, true
}
func (f *fakeMachine) WriteByte(addr uint32, v uint32) bool {
	f.mem[addr] = byte(v)
	return true
}
func (f *fakeMachine) ReadHalf(addr uint32, signed bool) (uint32, bool) {
	v := uint32(f.mem[addr])<<8 | uint32(f.mem[addr+1])
	if signed && v&0x8000 != 0 {
		v |= 0xFFFF0000
	}
	return v, true
}
func (f *fakeMachine) WriteHalf(addr uint32, v uint32) bool {
	f.mem[addr] = byte(v >> 8)
	f.mem[addr+1] = byte(v)
	return true
}
func (f *fakeMachine) ReadWord(addr uint32) (uint32, bool) {
	v := uint32(f.mem[addr])<<24 | uint32(f.mem[addr+1])<<16 | uint32(f.mem[addr+2])<<8 | uint32(f.mem[addr+3])
	return v, true
}
func (f *fakeMachine) WriteWord(addr uint32, v uint32) bool {
	f.mem[addr] = byte(v >> 24)
	f.mem[addr+1] = byte(v >> 16)
	f.mem[addr+2] = byte(v >> 8)
	f.mem[addr+3] = byte(v)
	return true
}

func (f *fakeMachine) FPR(i uint32) uint32     { return f.fpr[i] }
func (f *fakeMachine) SetFPR(i uint32, v uint32) { f.fpr[i] = v }
func (f *fakeMachine) FPRPair(i uint32) uint64 {
	return uint64(f.fpr[i]) | uint64(f.fpr[i+1])<<32
}
func (f *fakeMachine) SetFPRPair(i uint32, v uint64) {
	f.fpr[i] = uint32(v)
	f.fpr[i+1] = uint32(v >> 32)
}

func (f *fakeMachine) FCSR() uint32     { return f.fcsr }
func (f *fakeMachine) SetFCSR(v uint32) { f.fcsr = v }
func (f *fakeMachine) ConditionCode(cc uint32) bool        { return f.cc[cc] }
func (f *fakeMachine) SetConditionCode(cc uint32, v bool) { f.cc[cc] = v }

func (f *fakeMachine) CP0(i uint32) uint32     { return f.cp0[i] }
func (f *fakeMachine) SetCP0(i uint32, v uint32) { f.cp0[i] = v }

func (f *fakeMachine) RaiseException(kind ExceptionKind) {
	f.pending = true
	f.lastKind = kind
}

func (f *fakeMachine) RaiseFpException(causeBit uint32) {
	f.fcsr |= causeBit << FCSRCauseShift
	enableBit := causeBit << FCSREnableShift
	if f.fcsr&enableBit != 0 {
		f.RaiseException(FloatingPoint)
	}
}

func (f *fakeMachine) HasPendingException() bool { return f.pending }

// disableAllFpTraps clears every FCSR enable bit so exceptional FP
// conditions fall through to their non-trapping default behavior.
func (f *fakeMachine) disableAllFpTraps() {
	f.fcsr &^= 0x1F << FCSREnableShift
}
