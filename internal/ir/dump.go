package ir

import (
	"fmt"
	"strings"
)

// Dump renders f as a human-readable block listing, one instruction
// per line, grounded on bytecode.Disassemble's offset-prefixed,
// operand-decoded style (internal/bytecode/disasm.go) — the two debug
// dumps share the same texture since they serve the same CLI flags
// (spec.md §6 `--ir`/`--bytecode`).
func Dump(f *Function) string {
	var sb strings.Builder
	for _, b := range f.Blocks {
		fmt.Fprintf(&sb, "block%d:\n", b.ID)
		for _, instr := range b.Instrs {
			fmt.Fprintf(&sb, "  %s\n", dumpInstr(instr))
		}
		fmt.Fprintf(&sb, "  %s\n", dumpTerm(b.Term))
	}
	return sb.String()
}

func dumpInstr(instr Instr) string {
	switch i := instr.(type) {
	case *Const:
		return fmt.Sprintf("t%d = const %s", i.Dst, dumpConstValue(i))
	case *LoadLocal:
		return fmt.Sprintf("t%d = load_local %d", i.Dst, i.Slot)
	case *StoreLocal:
		return fmt.Sprintf("store_local %d, t%d", i.Slot, i.Src)
	case *Unary:
		return fmt.Sprintf("t%d = %s t%d", i.Dst, unOpNames[i.Op], i.X)
	case *Binary:
		return fmt.Sprintf("t%d = t%d %s t%d", i.Dst, i.A, binOpNames[i.Op], i.B)
	case *Cast:
		return fmt.Sprintf("t%d = cast<%s> t%d", i.Dst, castKindNames[i.Kind], i.X)
	default:
		return fmt.Sprintf("<unknown instr %T>", instr)
	}
}

func dumpTerm(term Term) string {
	switch t := term.(type) {
	case *Jump:
		return fmt.Sprintf("jump block%d", t.Target)
	case *CondJump:
		return fmt.Sprintf("cond_jump t%d, block%d, block%d", t.Cond, t.Then, t.Else)
	case *Return:
		if t.HasValue {
			return fmt.Sprintf("return t%d", t.Value)
		}
		return "return"
	default:
		return fmt.Sprintf("<unknown term %T>", term)
	}
}

func dumpConstValue(c *Const) string {
	switch c.Kind {
	case KInt:
		return fmt.Sprintf("%d", c.IntVal)
	case KFloat:
		return fmt.Sprintf("%g", c.FltVal)
	case KBool:
		return fmt.Sprintf("%t", c.BoolVal)
	case KChar:
		return fmt.Sprintf("%q", c.ChrVal)
	case KString:
		return fmt.Sprintf("%q", c.StrVal)
	default:
		return "unit"
	}
}

var unOpNames = map[UnOp]string{
	UNeg:    "neg",
	UNot:    "not",
	UBitNot: "bitnot",
}

var binOpNames = map[BinOp]string{
	BAdd: "add", BSub: "sub", BMul: "mul", BDiv: "div", BMod: "mod",
	BEq: "eq", BNeq: "neq", BLt: "lt", BGt: "gt", BLte: "lte", BGte: "gte",
	BAnd: "and", BOr: "or",
	BBitAnd: "bitand", BBitOr: "bitor", BBitXor: "bitxor",
	BNand: "nand", BNor: "nor", BXnor: "xnor",
	BShl: "shl", BShr: "shr", BUshl: "ushl", BUshr: "ushr",
}

var castKindNames = map[CastKind]string{
	CastIntToFloat: "int_to_float", CastFloatToInt: "float_to_int",
	CastIntToChar: "int_to_char", CastCharToInt: "char_to_int",
	CastFloatToChar: "float_to_char", CastCharToFloat: "char_to_float",
}
