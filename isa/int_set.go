package isa

// Standard MIPS32 opcodes and funct codes for the integer instruction set.
const (
	opR      = 0x00
	opRegImm = 0x01
	opJ      = 0x02
	opJal    = 0x03
	opBeq    = 0x04
	opBne    = 0x05
	opBlez   = 0x06
	opBgtz   = 0x07
	opAddi   = 0x08
	opAddiu  = 0x09
	opSlti   = 0x0A
	opSltiu  = 0x0B
	opAndi   = 0x0C
	opOri    = 0x0D
	opXori   = 0x0E
	opLui    = 0x0F
	opCop0   = 0x10
	opCop1   = 0x11
	opLb     = 0x20
	opLh     = 0x21
	opLw     = 0x23
	opLbu    = 0x24
	opLhu    = 0x25
	opSb     = 0x28
	opSh     = 0x29
	opSw     = 0x2B
	opLwc1   = 0x31
	opLdc1   = 0x35
	opSwc1   = 0x39
	opSdc1   = 0x3D
)

const (
	fnSll     = 0x00
	fnSrl     = 0x02
	fnSra     = 0x03
	fnSllv    = 0x04
	fnSrlv    = 0x06
	fnSrav    = 0x07
	fnJr      = 0x08
	fnJalr    = 0x09
	fnSyscall = 0x0C
	fnBreak   = 0x0D
	fnMfhi    = 0x10
	fnMthi    = 0x11
	fnMflo    = 0x12
	fnMtlo    = 0x13
	fnMult    = 0x18
	fnMultu   = 0x19
	fnDiv     = 0x1A
	fnDivu    = 0x1B
	fnAdd     = 0x20
	fnAddu    = 0x21
	fnSub     = 0x22
	fnSubu    = 0x23
	fnAnd     = 0x24
	fnOr      = 0x25
	fnXor     = 0x26
	fnNor     = 0x27
	fnSlt     = 0x2A
	fnSltu    = 0x2B
)

// rtBltz etc. are RegImm-I funct5 selectors packed into the rt field.
const (
	rtBltz   = 0x00
	rtBgez   = 0x01
	rtBltzal = 0x10
	rtBgezal = 0x11
)

func signExtend16(v uint16) int32 { return int32(int16(v)) }

// addOverflows reports whether a+b overflows as a 32-bit signed addition,
// via the sign-bit comparison idiom: overflow iff both operands share a
// sign and the result's sign differs from theirs.
func addOverflows(a, b, result int32) bool {
	return (a >= 0) == (b >= 0) && (result >= 0) != (a >= 0)
}

func subOverflows(a, b, result int32) bool {
	return (a >= 0) != (b >= 0) && (result >= 0) != (a >= 0)
}

func rReg(m Machine, i uint32) int32  { return int32(m.GPR(i)) }
func setR(m Machine, i uint32, v int32) { m.SetGPR(i, uint32(v)) }

var integerInstructionSet = []*CatalogueEntry{
	// --- R-type arithmetic/logic ---
	{Mnemonic: "add", Class: ClassRType, Opcode: opR, Funct: fnAdd, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			a, b := rReg(m, raw.Rs()), rReg(m, raw.Rt())
			res := a + b
			if addOverflows(a, b, res) {
				m.RaiseException(ArithmeticOverflow)
				return
			}
			setR(m, raw.Rd(), res)
		}},
	{Mnemonic: "addu", Class: ClassRType, Opcode: opR, Funct: fnAddu, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rs())+m.GPR(raw.Rt()))
		}},
	{Mnemonic: "sub", Class: ClassRType, Opcode: opR, Funct: fnSub, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			a, b := rReg(m, raw.Rs()), rReg(m, raw.Rt())
			res := a - b
			if subOverflows(a, b, res) {
				m.RaiseException(ArithmeticOverflow)
				return
			}
			setR(m, raw.Rd(), res)
		}},
	{Mnemonic: "subu", Class: ClassRType, Opcode: opR, Funct: fnSubu, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rs())-m.GPR(raw.Rt()))
		}},
	{Mnemonic: "and", Class: ClassRType, Opcode: opR, Funct: fnAnd, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rs())&m.GPR(raw.Rt()))
		}},
	{Mnemonic: "or", Class: ClassRType, Opcode: opR, Funct: fnOr, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rs())|m.GPR(raw.Rt()))
		}},
	{Mnemonic: "xor", Class: ClassRType, Opcode: opR, Funct: fnXor, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rs())^m.GPR(raw.Rt()))
		}},
	{Mnemonic: "nor", Class: ClassRType, Opcode: opR, Funct: fnNor, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), ^(m.GPR(raw.Rs()) | m.GPR(raw.Rt())))
		}},
	{Mnemonic: "slt", Class: ClassRType, Opcode: opR, Funct: fnSlt, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			if rReg(m, raw.Rs()) < rReg(m, raw.Rt()) {
				m.SetGPR(raw.Rd(), 1)
			} else {
				m.SetGPR(raw.Rd(), 0)
			}
		}},
	{Mnemonic: "sltu", Class: ClassRType, Opcode: opR, Funct: fnSltu, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			if m.GPR(raw.Rs()) < m.GPR(raw.Rt()) {
				m.SetGPR(raw.Rd(), 1)
			} else {
				m.SetGPR(raw.Rd(), 0)
			}
		}},

	// --- shifts ---
	{Mnemonic: "sll", Class: ClassRType, Opcode: opR, Funct: fnSll, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRt, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rt())<<raw.Shamt())
		}},
	{Mnemonic: "srl", Class: ClassRType, Opcode: opR, Funct: fnSrl, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRt, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			// rs==1 selects the rotate-right encoding (rotr) per the
			// MIPS32 Release 2 funct-0x02 overload.
			if raw.Rs() == 1 {
				v := m.GPR(raw.Rt())
				n := raw.Shamt() & 0x1F
				m.SetGPR(raw.Rd(), (v>>n)|(v<<(32-n)))
				return
			}
			m.SetGPR(raw.Rd(), m.GPR(raw.Rt())>>raw.Shamt())
		}},
	{Mnemonic: "sra", Class: ClassRType, Opcode: opR, Funct: fnSra, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRt, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			setR(m, raw.Rd(), rReg(m, raw.Rt())>>raw.Shamt())
		}},
	{Mnemonic: "sllv", Class: ClassRType, Opcode: opR, Funct: fnSllv, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRt, ArgRs},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rt())<<(m.GPR(raw.Rs())&0x1F))
		}},
	{Mnemonic: "srlv", Class: ClassRType, Opcode: opR, Funct: fnSrlv, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRt, ArgRs},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rd(), m.GPR(raw.Rt())>>(m.GPR(raw.Rs())&0x1F))
		}},
	{Mnemonic: "srav", Class: ClassRType, Opcode: opR, Funct: fnSrav, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd, ArgRt, ArgRs},
		Executor: func(m Machine, raw RawInstruction) {
			setR(m, raw.Rd(), rReg(m, raw.Rt())>>(m.GPR(raw.Rs())&0x1F))
		}},

	// --- jumps via register ---
	{Mnemonic: "jr", Class: ClassRType, Opcode: opR, Funct: fnJr, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRs},
		Executor: func(m Machine, raw RawInstruction) {
			m.JumpIfValid(m.GPR(raw.Rs()))
		}},
	{Mnemonic: "jalr", Class: ClassRType, Opcode: opR, Funct: fnJalr, HasFunct: true,
		PrimaryShape:  []ArgumentType{ArgRd, ArgRs},
		AltShapes:     [][]ArgumentType{{ArgRs}},
		Executor: func(m Machine, raw RawInstruction) {
			target := m.GPR(raw.Rs())
			dest := raw.Rd()
			if dest == 0 {
				dest = 31
			}
			m.SetGPR(dest, m.PC())
			m.JumpIfValid(target)
		}},

	// --- HI/LO, multiply, divide ---
	{Mnemonic: "mult", Class: ClassRType, Opcode: opR, Funct: fnMult, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			product := int64(rReg(m, raw.Rs())) * int64(rReg(m, raw.Rt()))
			m.SetLO(uint32(product))
			m.SetHI(uint32(product >> 32))
		}},
	{Mnemonic: "multu", Class: ClassRType, Opcode: opR, Funct: fnMultu, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			product := uint64(m.GPR(raw.Rs())) * uint64(m.GPR(raw.Rt()))
			m.SetLO(uint32(product))
			m.SetHI(uint32(product >> 32))
		}},
	{Mnemonic: "div", Class: ClassRType, Opcode: opR, Funct: fnDiv, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			a, b := rReg(m, raw.Rs()), rReg(m, raw.Rt())
			if b == 0 {
				// MIPS convention: undefined result, no exception.
				return
			}
			m.SetLO(uint32(a / b))
			m.SetHI(uint32(a % b))
		}},
	{Mnemonic: "divu", Class: ClassRType, Opcode: opR, Funct: fnDivu, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRs, ArgRt},
		Executor: func(m Machine, raw RawInstruction) {
			a, b := m.GPR(raw.Rs()), m.GPR(raw.Rt())
			if b == 0 {
				return
			}
			m.SetLO(a / b)
			m.SetHI(a % b)
		}},
	{Mnemonic: "mfhi", Class: ClassRType, Opcode: opR, Funct: fnMfhi, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd},
		Executor:     func(m Machine, raw RawInstruction) { m.SetGPR(raw.Rd(), m.HI()) }},
	{Mnemonic: "mflo", Class: ClassRType, Opcode: opR, Funct: fnMflo, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRd},
		Executor:     func(m Machine, raw RawInstruction) { m.SetGPR(raw.Rd(), m.LO()) }},
	{Mnemonic: "mthi", Class: ClassRType, Opcode: opR, Funct: fnMthi, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRs},
		Executor:     func(m Machine, raw RawInstruction) { m.SetHI(m.GPR(raw.Rs())) }},
	{Mnemonic: "mtlo", Class: ClassRType, Opcode: opR, Funct: fnMtlo, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRs},
		Executor:     func(m Machine, raw RawInstruction) { m.SetLO(m.GPR(raw.Rs())) }},

	// --- traps into the OS facade ---
	{Mnemonic: "syscall", Class: ClassRType, Opcode: opR, Funct: fnSyscall, HasFunct: true,
		PrimaryShape: []ArgumentType{},
		Executor:     func(m Machine, raw RawInstruction) { m.RaiseException(Syscall) }},
	{Mnemonic: "break", Class: ClassRType, Opcode: opR, Funct: fnBreak, HasFunct: true,
		PrimaryShape: []ArgumentType{},
		Executor:     func(m Machine, raw RawInstruction) { m.RaiseException(Breakpoint) }},

	// --- I-type arithmetic with immediate ---
	{Mnemonic: "addi", Class: ClassIType, Opcode: opAddi,
		PrimaryShape: []ArgumentType{ArgRt, ArgRs, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			a := rReg(m, raw.Rs())
			imm := signExtend16(raw.Immediate())
			res := a + imm
			if addOverflows(a, imm, res) {
				m.RaiseException(ArithmeticOverflow)
				return
			}
			setR(m, raw.Rt(), res)
		}},
	{Mnemonic: "addiu", Class: ClassIType, Opcode: opAddiu,
		PrimaryShape: []ArgumentType{ArgRt, ArgRs, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rt(), uint32(int32(m.GPR(raw.Rs()))+signExtend16(raw.Immediate())))
		}},
	{Mnemonic: "slti", Class: ClassIType, Opcode: opSlti,
		PrimaryShape: []ArgumentType{ArgRt, ArgRs, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			if rReg(m, raw.Rs()) < signExtend16(raw.Immediate()) {
				m.SetGPR(raw.Rt(), 1)
			} else {
				m.SetGPR(raw.Rt(), 0)
			}
		}},
	{Mnemonic: "sltiu", Class: ClassIType, Opcode: opSltiu,
		PrimaryShape: []ArgumentType{ArgRt, ArgRs, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			if m.GPR(raw.Rs()) < uint32(signExtend16(raw.Immediate())) {
				m.SetGPR(raw.Rt(), 1)
			} else {
				m.SetGPR(raw.Rt(), 0)
			}
		}},
	{Mnemonic: "andi", Class: ClassIType, Opcode: opAndi,
		PrimaryShape: []ArgumentType{ArgRt, ArgRs, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rt(), m.GPR(raw.Rs())&uint32(raw.Immediate()))
		}},
	{Mnemonic: "ori", Class: ClassIType, Opcode: opOri, Reloc: RelocLo16,
		PrimaryShape: []ArgumentType{ArgRt, ArgRs, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rt(), m.GPR(raw.Rs())|uint32(raw.Immediate()))
		}},
	{Mnemonic: "xori", Class: ClassIType, Opcode: opXori,
		PrimaryShape: []ArgumentType{ArgRt, ArgRs, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rt(), m.GPR(raw.Rs())^uint32(raw.Immediate()))
		}},
	{Mnemonic: "lui", Class: ClassIType, Opcode: opLui, Reloc: RelocHi16,
		PrimaryShape: []ArgumentType{ArgRt, ArgImmediate},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rt(), uint32(raw.Immediate())<<16)
		}},

	// --- loads/stores ---
	{Mnemonic: "lb", Class: ClassIType, Opcode: opLb,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			if v, ok := m.ReadByte(addr, true); ok {
				m.SetGPR(raw.Rt(), v)
			}
		}},
	{Mnemonic: "lbu", Class: ClassIType, Opcode: opLbu,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			if v, ok := m.ReadByte(addr, false); ok {
				m.SetGPR(raw.Rt(), v)
			}
		}},
	{Mnemonic: "lh", Class: ClassIType, Opcode: opLh,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			if v, ok := m.ReadHalf(addr, true); ok {
				m.SetGPR(raw.Rt(), v)
			}
		}},
	{Mnemonic: "lhu", Class: ClassIType, Opcode: opLhu,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			if v, ok := m.ReadHalf(addr, false); ok {
				m.SetGPR(raw.Rt(), v)
			}
		}},
	{Mnemonic: "lw", Class: ClassIType, Opcode: opLw,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			if v, ok := m.ReadWord(addr); ok {
				m.SetGPR(raw.Rt(), v)
			}
		}},
	{Mnemonic: "sb", Class: ClassIType, Opcode: opSb,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			m.WriteByte(addr, m.GPR(raw.Rt())&0xFF)
		}},
	{Mnemonic: "sh", Class: ClassIType, Opcode: opSh,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			m.WriteHalf(addr, m.GPR(raw.Rt())&0xFFFF)
		}},
	{Mnemonic: "sw", Class: ClassIType, Opcode: opSw,
		PrimaryShape: []ArgumentType{ArgRt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			m.WriteWord(addr, m.GPR(raw.Rt()))
		}},

	// --- branches ---
	{Mnemonic: "beq", Class: ClassIType, Opcode: opBeq, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgRt, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			if m.GPR(raw.Rs()) == m.GPR(raw.Rt()) {
				branchTo(m, raw)
			}
		}},
	{Mnemonic: "bne", Class: ClassIType, Opcode: opBne, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgRt, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			if m.GPR(raw.Rs()) != m.GPR(raw.Rt()) {
				branchTo(m, raw)
			}
		}},
	{Mnemonic: "blez", Class: ClassIType, Opcode: opBlez, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			if rReg(m, raw.Rs()) <= 0 {
				branchTo(m, raw)
			}
		}},
	{Mnemonic: "bgtz", Class: ClassIType, Opcode: opBgtz, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			if rReg(m, raw.Rs()) > 0 {
				branchTo(m, raw)
			}
		}},

	// --- RegImm-I branches ---
	{Mnemonic: "bltz", Class: ClassRegImmI, Opcode: opRegImm, Funct: rtBltz, HasFunct: true, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			if rReg(m, raw.Rs()) < 0 {
				branchTo(m, raw)
			}
		}},
	{Mnemonic: "bgez", Class: ClassRegImmI, Opcode: opRegImm, Funct: rtBgez, HasFunct: true, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			if rReg(m, raw.Rs()) >= 0 {
				branchTo(m, raw)
			}
		}},
	{Mnemonic: "bltzal", Class: ClassRegImmI, Opcode: opRegImm, Funct: rtBltzal, HasFunct: true, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(31, m.PC())
			if rReg(m, raw.Rs()) < 0 {
				branchTo(m, raw)
			}
		}},
	{Mnemonic: "bgezal", Class: ClassRegImmI, Opcode: opRegImm, Funct: rtBgezal, HasFunct: true, Reloc: RelocPCRelative16,
		PrimaryShape: []ArgumentType{ArgRs, ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(31, m.PC())
			if rReg(m, raw.Rs()) >= 0 {
				branchTo(m, raw)
			}
		}},

	// --- jumps ---
	{Mnemonic: "j", Class: ClassJType, Opcode: opJ, Reloc: RelocAbsolute26,
		PrimaryShape: []ArgumentType{ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			target := (m.PC() & 0xF0000000) | (raw.JumpIndex() << 2)
			m.JumpIfValid(target)
		}},
	{Mnemonic: "jal", Class: ClassJType, Opcode: opJal, Reloc: RelocAbsolute26,
		PrimaryShape: []ArgumentType{ArgBranchLabel},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(31, m.PC())
			target := (m.PC() & 0xF0000000) | (raw.JumpIndex() << 2)
			m.JumpIfValid(target)
		}},

	// --- CP1 register moves (CopMovR) ---
	{Mnemonic: "mfc1", Class: ClassCopMovR, Opcode: opCop1, Funct: 0x00, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRt, ArgFs},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetGPR(raw.Rt(), m.FPR(raw.Fs()))
		}},
	{Mnemonic: "mtc1", Class: ClassCopMovR, Opcode: opCop1, Funct: 0x04, HasFunct: true,
		PrimaryShape: []ArgumentType{ArgRt, ArgFs},
		Executor: func(m Machine, raw RawInstruction) {
			m.SetFPR(raw.Fs(), m.GPR(raw.Rt()))
		}},

	// --- CP1 memory transfer (reuses I-type field layout; ft is the fp register) ---
	{Mnemonic: "lwc1", Class: ClassIType, Opcode: opLwc1,
		PrimaryShape: []ArgumentType{ArgFt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			if v, ok := m.ReadWord(addr); ok {
				m.SetFPR(raw.Rt(), v)
			}
		}},
	{Mnemonic: "swc1", Class: ClassIType, Opcode: opSwc1,
		PrimaryShape: []ArgumentType{ArgFt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			m.WriteWord(addr, m.FPR(raw.Rt()))
		}},
	{Mnemonic: "ldc1", Class: ClassIType, Opcode: opLdc1,
		PrimaryShape: []ArgumentType{ArgFt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			hi, okHi := m.ReadWord(addr)
			if !okHi {
				return
			}
			lo, okLo := m.ReadWord(addr + 4)
			if !okLo {
				return
			}
			m.SetFPRPair(raw.Rt(), uint64(hi)<<32|uint64(lo))
		}},
	{Mnemonic: "sdc1", Class: ClassIType, Opcode: opSdc1,
		PrimaryShape: []ArgumentType{ArgFt, ArgBaseAddress},
		Executor: func(m Machine, raw RawInstruction) {
			addr := uint32(int32(m.GPR(raw.Rs())) + signExtend16(raw.Immediate()))
			v := m.FPRPair(raw.Rt())
			if !m.WriteWord(addr, uint32(v>>32)) {
				return
			}
			m.WriteWord(addr+4, uint32(v))
		}},
}

// branchTo implements the common "sign-extend offset, shift 2, add to
// (already-advanced) PC, jump if valid" sequence shared by every branch
// encoding class.
func branchTo(m Machine, raw RawInstruction) {
	offset := signExtend16(raw.Immediate()) << 2
	target := uint32(int32(m.PC()) + offset)
	m.JumpIfValid(target)
}
