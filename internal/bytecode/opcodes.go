// Package bytecode flattens optimized IR into a linear instruction
// stream with a deduplicated constant pool and resolved jump offsets
// (spec.md §4.8): the bytecode generator lives in program.go, the
// disassembly printer (grounded on funvibe-funxy's internal/vm
// disasm.go) in disasm.go.
package bytecode

// Opcode is a single VM instruction.
type Opcode byte

const (
	OpConst Opcode = iota // u16 constant pool index
	OpLoadLocal            // u16 local slot
	OpStoreLocal           // u16 local slot

	OpNeg
	OpNot
	OpBitNot

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	OpBitAnd
	OpBitOr
	OpBitXor
	OpNand
	OpNor
	OpXnor
	OpShl
	OpShr
	OpUshl
	OpUshr

	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpAnd
	OpOr

	OpCastIntToFloat
	OpCastFloatToInt
	OpCastIntToChar
	OpCastCharToInt
	OpCastFloatToChar
	OpCastCharToFloat

	OpJump         // i32 absolute byte offset
	OpJumpIfFalse  // i32 absolute byte offset

	OpReturn      // halt, no value
	OpReturnValue // pop value, halt with it
)

// OpcodeNames maps an opcode to its disassembly mnemonic (spec.md §9
// supplemented features; grounded on funvibe-funxy/internal/vm
// opcodes.go's OpcodeNames table).
var OpcodeNames = map[Opcode]string{
	OpConst:      "CONST",
	OpLoadLocal:  "LOAD_LOCAL",
	OpStoreLocal: "STORE_LOCAL",

	OpNeg:    "NEG",
	OpNot:    "NOT",
	OpBitNot: "BIT_NOT",

	OpAdd: "ADD",
	OpSub: "SUB",
	OpMul: "MUL",
	OpDiv: "DIV",
	OpMod: "MOD",

	OpBitAnd: "BIT_AND",
	OpBitOr:  "BIT_OR",
	OpBitXor: "BIT_XOR",
	OpNand:   "NAND",
	OpNor:    "NOR",
	OpXnor:   "XNOR",
	OpShl:    "SHL",
	OpShr:    "SHR",
	OpUshl:   "USHL",
	OpUshr:   "USHR",

	OpEq:  "EQ",
	OpNeq: "NEQ",
	OpLt:  "LT",
	OpGt:  "GT",
	OpLte: "LTE",
	OpGte: "GTE",
	OpAnd: "AND",
	OpOr:  "OR",

	OpCastIntToFloat:  "CAST_I2F",
	OpCastFloatToInt:  "CAST_F2I",
	OpCastIntToChar:   "CAST_I2C",
	OpCastCharToInt:   "CAST_C2I",
	OpCastFloatToChar: "CAST_F2C",
	OpCastCharToFloat: "CAST_C2F",

	OpJump:        "JUMP",
	OpJumpIfFalse: "JUMP_IF_FALSE",

	OpReturn:      "RETURN",
	OpReturnValue: "RETURN_VALUE",
}
