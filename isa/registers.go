package isa

// NumRegisters is the number of general-purpose and floating-point
// registers the architecture exposes.
const NumRegisters = 32

// RegisterNames is the canonical MIPS register name for each index 0..31.
var RegisterNames = [NumRegisters]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3", "$t0", "$t1", "$t2", "$t3", "$t4",
	"$t5", "$t6", "$t7", "$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7", "$t8", "$t9",
	"$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

var registerIndex = func() map[string]uint32 {
	m := make(map[string]uint32, NumRegisters)
	for i, name := range RegisterNames {
		m[name] = uint32(i)
	}
	return m
}()

// RegisterByName maps a canonical register name (including the leading
// "$") to its index. The second return value is false for unknown names.
func RegisterByName(name string) (uint32, bool) {
	idx, ok := registerIndex[name]
	return idx, ok
}

// FpRegisterByName maps "$f0".."$f31" to an index. Unlike GPRs, floating
// point register names are purely positional ($f<n>).
func FpRegisterByName(name string) (uint32, bool) {
	if len(name) < 3 || name[0] != '$' || name[1] != 'f' {
		return 0, false
	}
	n := uint32(0)
	for _, c := range name[2:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint32(c-'0')
	}
	if n >= NumRegisters {
		return 0, false
	}
	return n, true
}
