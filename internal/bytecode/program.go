package bytecode

import "github.com/oaflang/oaf/internal/ir"

// Constant is one deduplicated entry in a Program's constant pool,
// keyed by (Kind, value) (spec.md §4.8). It is a plain comparable
// struct so the generator can use it directly as a map key.
type Constant struct {
	Kind ir.ConstKind
	Int  int64
	Flt  float64
	Bool bool
	Chr  rune
	Str  string
}

// Program is the flattened output of bytecode generation: a linear
// instruction stream over a single entry function, its deduplicated
// constant pool, and the entry function's local-slot count and arity
// (spec.md §4.8).
type Program struct {
	Constants []Constant
	Code      []byte
	NumLocals int
	Arity     int
}

type fixup struct {
	pos    int
	target ir.BlockID
}

type generator struct {
	prog         *Program
	pool         map[Constant]int
	blockOffsets map[ir.BlockID]int
	fixups       []fixup
}

// Generate flattens fn (already optimized) into a Program. Every jump
// carries an explicit, independently-resolved target offset rather than
// relying on the physical order blocks happen to appear in, so the
// flattening order of fn.Blocks never needs to match control flow order
// (spec.md §4.8, "resolved jump offsets").
func Generate(fn *ir.Function) *Program {
	g := &generator{
		prog:         &Program{NumLocals: fn.NumLocals, Arity: fn.Arity},
		pool:         make(map[Constant]int),
		blockOffsets: make(map[ir.BlockID]int, len(fn.Blocks)),
	}

	for _, b := range fn.Blocks {
		g.blockOffsets[b.ID] = len(g.prog.Code)
		for _, instr := range b.Instrs {
			g.emitInstr(instr)
		}
		g.emitTerm(b.Term)
	}

	for _, fx := range g.fixups {
		target := int32(g.blockOffsets[fx.target])
		g.prog.Code[fx.pos] = byte(target >> 24)
		g.prog.Code[fx.pos+1] = byte(target >> 16)
		g.prog.Code[fx.pos+2] = byte(target >> 8)
		g.prog.Code[fx.pos+3] = byte(target)
	}

	return g.prog
}

func (g *generator) emitByte(b byte) { g.prog.Code = append(g.prog.Code, b) }
func (g *generator) emitOp(op Opcode) { g.emitByte(byte(op)) }

func (g *generator) emitU16(v int) {
	g.emitByte(byte(v >> 8))
	g.emitByte(byte(v))
}

func (g *generator) emitJumpFixup(target ir.BlockID) {
	g.fixups = append(g.fixups, fixup{pos: len(g.prog.Code), target: target})
	g.emitByte(0)
	g.emitByte(0)
	g.emitByte(0)
	g.emitByte(0)
}

func (g *generator) constIndex(c *ir.Const) int {
	key := Constant{Kind: c.Kind, Int: c.IntVal, Flt: c.FltVal, Bool: c.BoolVal, Chr: c.ChrVal, Str: c.StrVal}
	if idx, ok := g.pool[key]; ok {
		return idx
	}
	idx := len(g.prog.Constants)
	g.prog.Constants = append(g.prog.Constants, key)
	g.pool[key] = idx
	return idx
}

func (g *generator) emitInstr(instr ir.Instr) {
	switch in := instr.(type) {
	case *ir.Const:
		g.emitOp(OpConst)
		g.emitU16(g.constIndex(in))
	case *ir.LoadLocal:
		g.emitOp(OpLoadLocal)
		g.emitU16(in.Slot)
	case *ir.StoreLocal:
		g.emitOp(OpStoreLocal)
		g.emitU16(in.Slot)
	case *ir.Unary:
		g.emitOp(unaryOpcode(in.Op))
	case *ir.Binary:
		g.emitOp(binaryOpcode(in.Op))
	case *ir.Cast:
		g.emitOp(castOpcode(in.Kind))
	}
}

func (g *generator) emitTerm(term ir.Term) {
	switch t := term.(type) {
	case *ir.Jump:
		g.emitOp(OpJump)
		g.emitJumpFixup(t.Target)
	case *ir.CondJump:
		g.emitOp(OpJumpIfFalse)
		g.emitJumpFixup(t.Else)
		g.emitOp(OpJump)
		g.emitJumpFixup(t.Then)
	case *ir.Return:
		if t.HasValue {
			g.emitOp(OpReturnValue)
		} else {
			g.emitOp(OpReturn)
		}
	}
}

func unaryOpcode(op ir.UnOp) Opcode {
	switch op {
	case ir.UNeg:
		return OpNeg
	case ir.UNot:
		return OpNot
	case ir.UBitNot:
		return OpBitNot
	}
	return OpNeg
}

var binaryOpcodes = map[ir.BinOp]Opcode{
	ir.BAdd: OpAdd, ir.BSub: OpSub, ir.BMul: OpMul, ir.BDiv: OpDiv, ir.BMod: OpMod,
	ir.BEq: OpEq, ir.BNeq: OpNeq, ir.BLt: OpLt, ir.BGt: OpGt, ir.BLte: OpLte, ir.BGte: OpGte,
	ir.BAnd: OpAnd, ir.BOr: OpOr,
	ir.BBitAnd: OpBitAnd, ir.BBitOr: OpBitOr, ir.BBitXor: OpBitXor,
	ir.BNand: OpNand, ir.BNor: OpNor, ir.BXnor: OpXnor,
	ir.BShl: OpShl, ir.BShr: OpShr, ir.BUshl: OpUshl, ir.BUshr: OpUshr,
}

func binaryOpcode(op ir.BinOp) Opcode { return binaryOpcodes[op] }

var castOpcodes = map[ir.CastKind]Opcode{
	ir.CastIntToFloat:  OpCastIntToFloat,
	ir.CastFloatToInt:  OpCastFloatToInt,
	ir.CastIntToChar:   OpCastIntToChar,
	ir.CastCharToInt:   OpCastCharToInt,
	ir.CastFloatToChar: OpCastFloatToChar,
	ir.CastCharToFloat: OpCastCharToFloat,
}

func castOpcode(kind ir.CastKind) Opcode { return castOpcodes[kind] }
