// Package loader bridges an assembled Object into a runnable vm.Machine:
// it resolves the object's own relocations (there is no external linker
// in scope, so every relocation is expected to resolve against the
// object's own symbol table) and picks the program's entry point.
package loader

import (
	"encoding/binary"
	"fmt"

	"github.com/lookbusy1344/mips-toolchain/assembler"
	"github.com/lookbusy1344/mips-toolchain/isa"
	"github.com/lookbusy1344/mips-toolchain/vm"
)

// Load relocates obj in place, builds a Machine with its text and data
// sections mapped, and sets PC to the chosen entry point.
func Load(obj *assembler.Object, heapSize, stackSize uint32) (*vm.Machine, error) {
	if err := relocate(obj); err != nil {
		return nil, err
	}
	entry, err := EntryPoint(obj)
	if err != nil {
		return nil, err
	}
	m := vm.NewMachine(obj.Text, obj.Data, heapSize, stackSize)
	m.CPU.PC = entry
	return m, nil
}

// EntryPoint follows the same fallback order as the reference front
// end: a defined _start symbol wins, otherwise main, otherwise the text
// segment's base address.
func EntryPoint(obj *assembler.Object) (uint32, error) {
	for _, name := range []string{"_start", "main"} {
		if sym, ok := obj.Symbols.Lookup(name); ok && sym.Defined {
			return sym.Value, nil
		}
	}
	if len(obj.Text) == 0 {
		return 0, fmt.Errorf("loader: empty .text section has no entry point")
	}
	return isa.TextStartAddr, nil
}

// relocate patches every RelocationEntry's target word in place against
// its symbol's resolved address. Called once, before the sections are
// handed to vm.NewMachine.
func relocate(obj *assembler.Object) error {
	syms := obj.Symbols.All()
	for _, r := range obj.Relocations {
		if r.SymbolIndex < 0 || r.SymbolIndex >= len(syms) {
			return fmt.Errorf("loader: relocation at offset 0x%x references out-of-range symbol index %d", r.Offset, r.SymbolIndex)
		}
		sym := syms[r.SymbolIndex]
		if !sym.Defined {
			return fmt.Errorf("loader: relocation at offset 0x%x references undefined symbol %q", r.Offset, sym.Name)
		}

		buf := obj.Text
		addr := obj.TextAddr(r.Offset)
		if r.Section == assembler.SectionKindData {
			buf = obj.Data
			addr = obj.DataAddr(r.Offset)
		}
		if err := patch(buf, r, sym.Value, addr); err != nil {
			return err
		}
	}
	return nil
}

// patch rewrites the 32-bit word at r.Offset within buf according to
// the relocation kind, preserving whatever bits the kind doesn't own
// (opcode/register fields already encoded by the assembler).
func patch(buf []byte, r assembler.RelocationEntry, value, addr uint32) error {
	if int(r.Offset)+4 > len(buf) {
		return fmt.Errorf("loader: relocation offset 0x%x out of range", r.Offset)
	}
	word := binary.BigEndian.Uint32(buf[r.Offset : r.Offset+4])

	switch r.Kind {
	case isa.RelocNone:
		// Nothing to patch; recorded only for completeness.
	case isa.RelocAbsolute32:
		word = value
	case isa.RelocHi16:
		word = (word &^ 0xFFFF) | ((value >> 16) & 0xFFFF)
	case isa.RelocLo16:
		word = (word &^ 0xFFFF) | (value & 0xFFFF)
	case isa.RelocAbsolute26:
		word = (word &^ 0x3FFFFFF) | ((value >> 2) & 0x3FFFFFF)
	case isa.RelocPCRelative16:
		// branchTo evaluates its offset against PC after the branch
		// instruction has already been advanced past (spec §4.6 step 4),
		// i.e. against addr+4, matching isa.branchTo's own arithmetic.
		delta := int32(value) - int32(addr+isa.AddressAlign)
		word = (word &^ 0xFFFF) | uint32(uint16(int16(delta>>2)))
	default:
		return fmt.Errorf("loader: unknown relocation kind %d at offset 0x%x", r.Kind, r.Offset)
	}

	binary.BigEndian.PutUint32(buf[r.Offset:r.Offset+4], word)
	return nil
}
