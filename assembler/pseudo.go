package assembler

import "github.com/lookbusy1344/mips-toolchain/parser"

// expandedInstruction is one real instruction produced by expanding a
// pseudoinstruction; expansion is pure AST-to-AST and never re-lexes or
// re-parses, so diagnostics stay attributable to the original span.
type expandedInstruction struct {
	Mnemonic string
	Operands []parser.Operand
}

func reg(name string, pos parser.Span) *parser.RegisterOperand {
	return &parser.RegisterOperand{Name: name, Pos: pos}
}

func zeroImm(pos parser.Span) *parser.ImmediateOperand {
	return &parser.ImmediateOperand{Value: 0, Pos: pos}
}

// expandPseudo expands a pseudoinstruction into its real-instruction
// form, returning ok=false if mnemonic is not a pseudoinstruction.
func expandPseudo(mnemonic string, ops []parser.Operand, pos parser.Span) ([]expandedInstruction, bool) {
	zero := reg("$zero", pos)

	switch mnemonic {
	case "b":
		if len(ops) != 1 {
			return nil, true
		}
		return []expandedInstruction{{"beq", []parser.Operand{zero, zero, ops[0]}}}, true

	case "bal":
		if len(ops) != 1 {
			return nil, true
		}
		return []expandedInstruction{{"bgezal", []parser.Operand{zero, ops[0]}}}, true

	case "bnez":
		if len(ops) != 2 {
			return nil, true
		}
		return []expandedInstruction{{"bne", []parser.Operand{ops[0], zero, ops[1]}}}, true

	case "li":
		if len(ops) != 2 {
			return nil, true
		}
		return []expandedInstruction{{"ori", []parser.Operand{ops[0], zero, ops[1]}}}, true

	case "la":
		if len(ops) != 2 {
			return nil, true
		}
		rd := ops[0]
		label := ops[1]
		return []expandedInstruction{
			{"lui", []parser.Operand{rd, label}},
			{"ori", []parser.Operand{rd, rd, label}},
		}, true

	case "mv", "move":
		if len(ops) != 2 {
			return nil, true
		}
		return []expandedInstruction{{"add", []parser.Operand{ops[0], ops[1], zero}}}, true

	case "nop":
		return []expandedInstruction{{"sll", []parser.Operand{zero, zero, zeroImm(pos)}}}, true

	case "ehb":
		return []expandedInstruction{{"sll", []parser.Operand{zero, zero, immValue(3, pos)}}}, true

	case "pause":
		return []expandedInstruction{{"sll", []parser.Operand{zero, zero, immValue(5, pos)}}}, true

	case "ssnop":
		return []expandedInstruction{{"sll", []parser.Operand{zero, zero, immValue(1, pos)}}}, true

	case "s.d":
		return []expandedInstruction{{"sdc1", ops}}, true

	default:
		return nil, false
	}
}

func immValue(v uint32, pos parser.Span) *parser.ImmediateOperand {
	return &parser.ImmediateOperand{Value: v, Pos: pos}
}
