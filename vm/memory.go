package vm

import "github.com/lookbusy1344/mips-toolchain/isa"

// Permission is a bitmask of what a memory segment allows.
type Permission uint8

const (
	PermRead Permission = 1 << iota
	PermWrite
	PermExecute
)

// segment is a half-open, permission-tagged, byte-addressed region of
// memory, the same shape as the reference implementation's memory
// segments, adapted to MIPS's fixed big-endian address map (spec §6)
// instead of ARM's fixed little-endian one.
type segment struct {
	start, end uint32
	data       []byte
	perm       Permission
}

func (s *segment) contains(addr uint32) bool { return addr >= s.start && addr < s.end }

// Memory is the address-mapped store backing a running program: a
// read/execute text segment, a read/write data+heap segment, and a
// read/write stack segment, each with a fixed half-open range per spec
// §6's base addresses. Every multi-byte access is big-endian.
type Memory struct {
	segments []*segment
}

// NewMemory lays out the fixed MIPS segments: .text starting at
// isa.TextStartAddr sized to hold text, .data/.heap starting at
// isa.DataStartAddr sized to hold data plus a growth region up to
// isa.HeapStartAddr+heapSize, and a fixed-size stack ending at
// isa.StackTopAddr.
func NewMemory(text, data []byte, heapSize, stackSize uint32) *Memory {
	textEnd := isa.TextStartAddr + uint32(len(text))
	if textEnd == isa.TextStartAddr {
		textEnd = isa.TextStartAddr + isa.AddressAlign
	}
	textBuf := make([]byte, textEnd-isa.TextStartAddr)
	copy(textBuf, text)

	dataEnd := isa.HeapStartAddr + heapSize
	if need := isa.DataStartAddr + uint32(len(data)); need > dataEnd {
		dataEnd = need
	}
	dataBuf := make([]byte, dataEnd-isa.DataStartAddr)
	copy(dataBuf, data)

	stackStart := isa.StackTopAddr - stackSize

	return &Memory{segments: []*segment{
		{start: isa.TextStartAddr, end: textEnd, data: textBuf, perm: PermRead | PermExecute},
		{start: isa.DataStartAddr, end: dataEnd, data: dataBuf, perm: PermRead | PermWrite},
		{start: stackStart, end: isa.StackTopAddr, data: make([]byte, stackSize), perm: PermRead | PermWrite},
	}}
}

func (m *Memory) find(addr uint32, need Permission) *segment {
	for _, s := range m.segments {
		if s.contains(addr) && s.perm&need != 0 {
			return s
		}
	}
	return nil
}

// inText reports whether addr lies in the text segment's range, for the
// fetch loop and JumpIfValid.
func (m *Memory) inText(addr uint32) bool {
	s := m.find(addr, PermExecute)
	return s != nil && s.contains(addr)
}

// FetchWord reads a big-endian instruction word from an executable
// segment (the text segment), checking execute rather than read
// permission.
func (m *Memory) FetchWord(addr uint32) (uint32, bool) {
	s := m.find(addr, PermExecute)
	if s == nil || addr%isa.AddressAlign != 0 {
		return 0, false
	}
	off := addr - s.start
	return be32(s.data[off : off+4]), true
}

func (m *Memory) readByte(addr uint32) (byte, bool) {
	s := m.find(addr, PermRead)
	if s == nil {
		return 0, false
	}
	return s.data[addr-s.start], true
}

func (m *Memory) writeByte(addr uint32, v byte) bool {
	s := m.find(addr, PermWrite)
	if s == nil {
		return false
	}
	s.data[addr-s.start] = v
	return true
}

func (m *Memory) readHalf(addr uint32) (uint16, bool) {
	if addr%2 != 0 {
		return 0, false
	}
	s := m.find(addr, PermRead)
	if s == nil || addr+1 >= s.end {
		return 0, false
	}
	off := addr - s.start
	return uint16(s.data[off])<<8 | uint16(s.data[off+1]), true
}

func (m *Memory) writeHalf(addr uint32, v uint16) bool {
	if addr%2 != 0 {
		return false
	}
	s := m.find(addr, PermWrite)
	if s == nil || addr+1 >= s.end {
		return false
	}
	off := addr - s.start
	s.data[off] = byte(v >> 8)
	s.data[off+1] = byte(v)
	return true
}

func (m *Memory) readWord(addr uint32) (uint32, bool) {
	if addr%isa.AddressAlign != 0 {
		return 0, false
	}
	s := m.find(addr, PermRead)
	if s == nil || addr+3 >= s.end {
		return 0, false
	}
	off := addr - s.start
	return be32(s.data[off : off+4]), true
}

func (m *Memory) writeWord(addr uint32, v uint32) bool {
	if addr%isa.AddressAlign != 0 {
		return false
	}
	s := m.find(addr, PermWrite)
	if s == nil || addr+3 >= s.end {
		return false
	}
	off := addr - s.start
	s.data[off] = byte(v >> 24)
	s.data[off+1] = byte(v >> 16)
	s.data[off+2] = byte(v >> 8)
	s.data[off+3] = byte(v)
	return true
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
