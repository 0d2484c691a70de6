package isa

// SignWord is the .w sign-magnitude integer format used by FPU
// conversions: one sign bit and 31 magnitude bits.
type SignWord struct {
	Negative bool
	Magnitude uint32
}

// Bits packs the sign-magnitude pair into raw 32-bit register contents.
func (s SignWord) Bits() uint32 {
	var sign uint32
	if s.Negative {
		sign = 1 << 31
	}
	return sign | (s.Magnitude & 0x7FFFFFFF)
}

// SignWordFromBits unpacks raw register contents into sign + magnitude.
func SignWordFromBits(bits uint32) SignWord {
	return SignWord{Negative: bits>>31 != 0, Magnitude: bits & 0x7FFFFFFF}
}

// SignWordFromInt32 converts a two's-complement value to sign-magnitude.
func SignWordFromInt32(v int32) SignWord {
	if v < 0 {
		return SignWord{Negative: true, Magnitude: uint32(-int64(v))}
	}
	return SignWord{Negative: false, Magnitude: uint32(v)}
}

// Int32 converts back to two's-complement.
func (s SignWord) Int32() int32 {
	if s.Negative {
		return int32(-int64(s.Magnitude))
	}
	return int32(s.Magnitude)
}

// SignLong is the .l sign-magnitude integer format: one sign bit and 63
// magnitude bits.
type SignLong struct {
	Negative bool
	Magnitude uint64
}

func (s SignLong) Bits() uint64 {
	var sign uint64
	if s.Negative {
		sign = 1 << 63
	}
	return sign | (s.Magnitude & 0x7FFFFFFFFFFFFFFF)
}

func SignLongFromBits(bits uint64) SignLong {
	return SignLong{Negative: bits>>63 != 0, Magnitude: bits & 0x7FFFFFFFFFFFFFFF}
}

func SignLongFromInt64(v int64) SignLong {
	if v < 0 {
		mag := uint64(-(v + 1)) + 1
		return SignLong{Negative: true, Magnitude: mag}
	}
	return SignLong{Negative: false, Magnitude: uint64(v)}
}

func (s SignLong) Int64() int64 {
	if s.Negative {
		return -int64(s.Magnitude)
	}
	return int64(s.Magnitude)
}
