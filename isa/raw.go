package isa

// RawInstruction wraps a 32-bit MIPS instruction word with accessors for
// every bit-field the encoding classes in this package use. It is the
// common currency between the assembler (which builds one from a matched
// catalogue entry) and the emulator (which decodes one fetched from
// memory).
type RawInstruction struct {
	Raw uint32
}

// NewRawInstruction wraps a 32-bit word.
func NewRawInstruction(raw uint32) RawInstruction {
	return RawInstruction{Raw: raw}
}

func (r RawInstruction) Opcode() uint32 { return r.Raw >> 26 }
func (r RawInstruction) Funct() uint32  { return r.Raw & 0x3F }
func (r RawInstruction) Rs() uint32     { return (r.Raw >> 21) & 0x1F }
func (r RawInstruction) Rt() uint32     { return (r.Raw >> 16) & 0x1F }
func (r RawInstruction) Rd() uint32     { return (r.Raw >> 11) & 0x1F }
func (r RawInstruction) Shamt() uint32  { return (r.Raw >> 6) & 0x1F }
func (r RawInstruction) Fmt() uint32    { return (r.Raw >> 21) & 0x1F }
func (r RawInstruction) Ft() uint32     { return (r.Raw >> 16) & 0x1F }
func (r RawInstruction) Fs() uint32     { return (r.Raw >> 11) & 0x1F }
func (r RawInstruction) Fd() uint32     { return (r.Raw >> 6) & 0x1F }
func (r RawInstruction) Sel() uint32    { return r.Raw & 0x7 }
// Cc reads the condition-code field of a compare instruction (c.eq.fmt
// and friends), at bits 10..8.
func (r RawInstruction) Cc() uint32 { return (r.Raw >> 8) & 0x7 }

// BranchCc reads the condition-code field of a branch-on-FP-condition
// instruction (bc1f/bc1t and friends), packed into the top 3 bits of the
// rt slot (bits 20..18) alongside nd (17) and tf (16) — a different
// field position than Cc, since this is a different instruction format.
func (r RawInstruction) BranchCc() uint32 { return (r.Raw >> 18) & 0x7 }
func (r RawInstruction) Tf() uint32     { return (r.Raw >> 16) & 0x1 }
func (r RawInstruction) Nd() uint32     { return (r.Raw >> 17) & 0x1 }

func (r RawInstruction) Immediate() uint16 { return uint16(r.Raw & 0xFFFF) }
func (r RawInstruction) JumpIndex() uint32 { return r.Raw & 0x3FFFFFF }

// Opcode classifications, mirroring the reference implementation.
const (
	opcodeR     = 0x00
	opcodeCop1X = 0x1C // rarely used secondary R-type opcode space
	opcodeJ     = 0x02
	opcodeJal   = 0x03
	opcodeRegImm = 0x01
	opcodeFpu   = 0x11
)

func (r RawInstruction) IsRType() bool {
	op := r.Opcode()
	return op == opcodeR || op == opcodeCop1X
}

func (r RawInstruction) IsJType() bool {
	op := r.Opcode()
	return op == opcodeJ || op == opcodeJal
}

func (r RawInstruction) IsRegImm() bool { return r.Opcode() == opcodeRegImm }
func (r RawInstruction) IsFpu() bool    { return r.Opcode() == opcodeFpu }

// LookupKey computes the composite dispatch key that Table.Decode looks
// up for the emulator's fetch-decode loop (the table's own keys come from
// lookupKeyOf, which mirrors this formula):
//   - integer R/I/J: (opcode<<6 | funct)
//   - register-immediate branch subclass: (opcode<<6 | rt)
//   - coprocessor-1 floating point: (opcode<<11 | funct<<5 | fmt)
// fpuBranchSelector is the fixed "fmt" slot value (0x08) that marks a
// coprocessor-1 branch-on-condition instruction rather than a compute or
// compare instruction; its low bits hold a 16-bit pc-relative offset, not
// a funct selector, so it needs its own key derivation below.
const fpuBranchSelector = 0x08

func (r RawInstruction) LookupKey() uint32 {
	base := r.Opcode() << 6
	switch {
	case r.IsFpu() && r.Fmt() == fpuBranchSelector:
		return base | (r.Nd() << 1) | r.Tf()
	case r.IsRType():
		return base | r.Funct()
	case r.IsRegImm():
		return base | r.Rt()
	case r.IsFpu():
		return (r.Opcode() << 11) | (r.Funct() << 5) | r.Fmt()
	default:
		return base
	}
}

func (r RawInstruction) ToBigEndianBytes() [4]byte {
	return [4]byte{
		byte(r.Raw >> 24),
		byte(r.Raw >> 16),
		byte(r.Raw >> 8),
		byte(r.Raw),
	}
}

// RawInstructionFromBigEndianBytes decodes a 4-byte big-endian word.
func RawInstructionFromBigEndianBytes(b []byte) RawInstruction {
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return RawInstruction{Raw: v}
}

// EncodeRType packs an R-type word: opcode|rs|rt|rd|shamt|funct.
func EncodeRType(opcode, rs, rt, rd, shamt, funct uint32) RawInstruction {
	return NewRawInstruction((opcode << 26) | (rs << 21) | (rt << 16) | (rd << 11) | (shamt << 6) | funct)
}

// EncodeIType packs an I-type word: opcode|rs|rt|imm16.
func EncodeIType(opcode, rs, rt uint32, imm uint16) RawInstruction {
	return NewRawInstruction((opcode << 26) | (rs << 21) | (rt << 16) | uint32(imm))
}

// EncodeJType packs a J-type word: opcode|instr_index26.
func EncodeJType(opcode, index uint32) RawInstruction {
	return NewRawInstruction((opcode << 26) | (index & 0x3FFFFFF))
}

// EncodeFpRType packs an FpR-type word: opcode|fmt|ft|fs|fd|funct.
func EncodeFpRType(opcode, fmt, ft, fs, fd, funct uint32) RawInstruction {
	return NewRawInstruction((opcode << 26) | (fmt << 21) | (ft << 16) | (fs << 11) | (fd << 6) | funct)
}

// EncodeFpCCBranch packs an FpCCBranch word: opcode, the 0x08 selector in
// the fmt slot (bits 25..21), cc/nd/tf bits folded into the rt field per
// the MIPS32 encoding, and a 16-bit pc-relative offset.
func EncodeFpCCBranch(opcode, cc, nd, tf uint32, offset uint16) RawInstruction {
	rt := (cc << 2) | (nd << 1) | tf
	return NewRawInstruction((opcode << 26) | (0x08 << 21) | (rt << 16) | uint32(offset))
}

// EncodeCopMovR packs a CopMovR word: opcode|funct(mf/mt selector)|rt|fs|sel.
func EncodeCopMovR(opcode, funct, rt, rd, sel uint32) RawInstruction {
	return NewRawInstruction((opcode << 26) | (funct << 21) | (rt << 16) | (rd << 11) | sel)
}

// EncodeRegImmI packs a RegImm-I branch word: opcode|rs|rtSelector|imm16,
// where rtSelector (bltz/bgez/bltzal/bgezal) occupies the rt field instead
// of naming a register.
func EncodeRegImmI(opcode, rs, rtSelector uint32, imm uint16) RawInstruction {
	return NewRawInstruction((opcode << 26) | (rs << 21) | (rtSelector << 16) | uint32(imm))
}

// EncodeFpCC packs an FpCC compare word: opcode|fmt|ft|fs|cc<<8|funct.
func EncodeFpCC(opcode, fmt, ft, fs, cc, funct uint32) RawInstruction {
	return NewRawInstruction((opcode << 26) | (fmt << 21) | (ft << 16) | (fs << 11) | (cc << 8) | funct)
}
