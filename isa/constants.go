package isa

// Base addresses, bit-exact with the reference implementation.
const (
	TextStartAddr  = 0x00400000
	DataStartAddr  = 0x10010000
	HeapStartAddr  = 0x10040000
	StackTopAddr   = 0x7FFFFE00
	AddressAlign   = 4
	DoubleAlign    = 8
	StackInitSize  = 65536
)

// FPU control register defaults (Coprocessor 1, registers FIR and FCSR).
//
// FIR: 2008-revision NaN handling (bit 23), double precision supported
// (bit 17), single precision supported (bit 16).
const FIRDefault uint32 = 0b00_0_0_0000_1_0_0_0_0_0_1_1_00000000_00000000

// FCSR: flush-subnormals (bit 24) = 1, ABS/NEG IEEE-2008 compliant
// (bit 19) = 1, legacy-NaN vs IEEE-2008 (bit 18) = 1, all five exception
// enables (bits 11..7) = 1, rounding mode (bits 1..0) = nearest-even (0).
const FCSRDefault uint32 = 0b0000000_1_0_00_0_1_1_000000_11111_00000_00

// FCSR bit layout.
const (
	FCSRRoundingMask   = 0x3
	FCSRFlushSubnormal = 1 << 24
	FCSRCauseShift     = 12
	FCSREnableShift    = 7
	FCSRCCBit0Shift    = 23 // condition code 0
	FCSRCCRestShift    = 25 // condition codes 1..7 occupy bits 25..31
)

// Rounding modes encoded in FCSR bits 1..0.
const (
	RoundNearestEven = 0
	RoundTowardZero  = 1
	RoundTowardPosInf = 2
	RoundTowardNegInf = 3
)

// FPU exception cause/enable bit positions within the low 6 bits of each
// field (shifted by FCSRCauseShift / FCSREnableShift respectively).
const (
	FpCauseUnimplemented = 1 << 5
	FpCauseInvalid       = 1 << 4
	FpCauseDivByZero      = 1 << 3
	FpCauseOverflow       = 1 << 2
	FpCauseUnderflow      = 1 << 1
	FpCauseInexact        = 1 << 0
)
