package bytecode

import (
	"fmt"
	"strings"

	"github.com/oaflang/oaf/internal/ir"
)

// Disassemble renders prog as a human-readable instruction listing,
// grounded on funvibe-funxy's internal/vm disasm.go: one line per
// instruction, offset-prefixed, with the operand decoded for opcodes
// that carry one.
func Disassemble(prog *Program, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)

	offset := 0
	for offset < len(prog.Code) {
		offset = disassembleInstruction(&sb, prog, offset)
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, prog *Program, offset int) int {
	op := Opcode(prog.Code[offset])
	name, ok := OpcodeNames[op]
	if !ok {
		fmt.Fprintf(sb, "%04d UNKNOWN(%d)\n", offset, op)
		return offset + 1
	}

	switch op {
	case OpConst:
		idx := readU16(prog.Code, offset+1)
		fmt.Fprintf(sb, "%04d %-14s %4d %s\n", offset, name, idx, constantString(prog, idx))
		return offset + 3
	case OpLoadLocal, OpStoreLocal:
		slot := readU16(prog.Code, offset+1)
		fmt.Fprintf(sb, "%04d %-14s %4d\n", offset, name, slot)
		return offset + 3
	case OpJump, OpJumpIfFalse:
		target := readI32(prog.Code, offset+1)
		fmt.Fprintf(sb, "%04d %-14s -> %d\n", offset, name, target)
		return offset + 5
	default:
		fmt.Fprintf(sb, "%04d %s\n", offset, name)
		return offset + 1
	}
}

func constantString(prog *Program, idx int) string {
	if idx < 0 || idx >= len(prog.Constants) {
		return "(invalid)"
	}
	c := prog.Constants[idx]
	switch c.Kind {
	case ir.KInt:
		return fmt.Sprintf("%d", c.Int)
	case ir.KFloat:
		return fmt.Sprintf("%g", c.Flt)
	case ir.KBool:
		return fmt.Sprintf("%t", c.Bool)
	case ir.KChar:
		return fmt.Sprintf("%q", c.Chr)
	case ir.KString:
		return fmt.Sprintf("%q", c.Str)
	default:
		return "unit"
	}
}

func readU16(code []byte, pos int) int {
	return int(code[pos])<<8 | int(code[pos+1])
}

func readI32(code []byte, pos int) int32 {
	return int32(code[pos])<<24 | int32(code[pos+1])<<16 | int32(code[pos+2])<<8 | int32(code[pos+3])
}
