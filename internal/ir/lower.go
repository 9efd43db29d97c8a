package ir

import "github.com/oaflang/oaf/internal/ast"

// loopCtx records the jump targets for break/continue inside one
// enclosing LoopStmt.
type loopCtx struct {
	continueTo BlockID
	breakTo    BlockID
}

// lowerer holds the mutable state threaded through one lowering pass.
// It assumes unit has already passed type checking and ownership
// analysis without error (spec.md §4.7): the driver never calls Lower
// on a unit with diagnostics at Error severity.
type lowerer struct {
	fn       *Function
	cur      *Block
	nextTemp Temp
	nextSlot int
	scopes   []map[string]int
	loops    []loopCtx
}

// Lower produces the single-entry-function IR for a whole compilation
// unit (spec.md §4.7). Struct/class/enum values are a type-checking-time
// concept only: they are never materialized at this VM tier, whose
// tagged union carries only the primitive kinds (spec.md §4.9), so Call
// and Member expressions lower to a unit constant rather than real
// instructions.
func Lower(unit *ast.CompilationUnit) *Function {
	l := &lowerer{fn: &Function{}, scopes: []map[string]int{{}}}
	entry := l.newBlock()
	l.fn.Entry = entry.ID
	l.cur = entry

	for _, s := range unit.Statements {
		l.lowerStmt(s)
	}
	if l.cur.Term == nil {
		l.cur.Term = &Return{HasValue: false}
	}
	l.fn.NumLocals = l.nextSlot
	return l.fn
}

func (l *lowerer) newBlock() *Block {
	b := &Block{ID: BlockID(len(l.fn.Blocks))}
	l.fn.Blocks = append(l.fn.Blocks, b)
	return b
}

func (l *lowerer) newTemp() Temp {
	t := l.nextTemp
	l.nextTemp++
	return t
}

func (l *lowerer) emit(i Instr) {
	l.cur.Instrs = append(l.cur.Instrs, i)
}

func (l *lowerer) enterScope() { l.scopes = append(l.scopes, map[string]int{}) }
func (l *lowerer) exitScope()  { l.scopes = l.scopes[:len(l.scopes)-1] }

func (l *lowerer) declareLocal(name string) int {
	slot := l.nextSlot
	l.nextSlot++
	l.scopes[len(l.scopes)-1][name] = slot
	return slot
}

func (l *lowerer) lookupLocal(name string) (int, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if slot, ok := l.scopes[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// terminate closes the current block with term and opens a fresh,
// unreachable trailing block so statements that lexically follow a
// break/continue/return (dead code the checker never forbade) have
// somewhere harmless to lower into; bytecode generation never reaches
// it because nothing jumps to it.
func (l *lowerer) terminate(term Term) {
	l.cur.Term = term
	l.cur = l.newBlock()
}

func (l *lowerer) lowerStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		v := l.lowerExpr(s.Value)
		slot := l.declareLocal(s.Name)
		l.emit(&StoreLocal{Slot: slot, Src: v})
	case *ast.Assign:
		l.lowerAssign(s)
	case *ast.IfStmt:
		l.lowerIf(s)
	case *ast.LoopStmt:
		l.lowerLoop(s)
	case *ast.BreakStmt:
		if len(l.loops) > 0 {
			l.terminate(&Jump{Target: l.loops[len(l.loops)-1].breakTo})
		}
	case *ast.ContinueStmt:
		if len(l.loops) > 0 {
			l.terminate(&Jump{Target: l.loops[len(l.loops)-1].continueTo})
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			v := l.lowerExpr(s.Value)
			l.terminate(&Return{HasValue: true, Value: v})
		} else {
			l.terminate(&Return{HasValue: false})
		}
	case *ast.ExprStmt:
		l.lowerExpr(s.X)
	case *ast.TypeDecl:
		// Pure compile-time declaration; nothing to lower.
	}
}

func (l *lowerer) lowerAssign(s *ast.Assign) {
	v := l.lowerExpr(s.Value)

	if s.Op == ast.OpAssign {
		var slot int
		if s.Introduces {
			slot = l.declareLocal(s.Name)
		} else {
			slot, _ = l.lookupLocal(s.Name)
		}
		l.emit(&StoreLocal{Slot: slot, Src: v})
		return
	}

	slot, _ := l.lookupLocal(s.Name)
	cur := l.newTemp()
	l.emit(&LoadLocal{Dst: cur, Slot: slot})
	result := l.newTemp()
	l.emit(&Binary{Dst: result, Op: compoundOp(s.Op), A: cur, B: v})
	l.emit(&StoreLocal{Slot: slot, Src: result})
}

func compoundOp(op ast.AssignOp) BinOp {
	switch op {
	case ast.OpAddAssign:
		return BAdd
	case ast.OpSubAssign:
		return BSub
	case ast.OpMulAssign:
		return BMul
	case ast.OpDivAssign:
		return BDiv
	}
	return BAdd
}

func (l *lowerer) lowerIf(s *ast.IfStmt) {
	cond := l.lowerExpr(s.Cond)
	thenBlock := l.newBlock()
	afterBlock := l.newBlock()
	l.cur.Term = &CondJump{Cond: cond, Then: thenBlock.ID, Else: afterBlock.ID}

	l.cur = thenBlock
	l.enterScope()
	for _, stmt := range s.Body {
		l.lowerStmt(stmt)
	}
	l.exitScope()
	if l.cur.Term == nil {
		l.cur.Term = &Jump{Target: afterBlock.ID}
	}

	l.cur = afterBlock
}

func (l *lowerer) lowerLoop(s *ast.LoopStmt) {
	header := l.newBlock()
	body := l.newBlock()
	after := l.newBlock()

	l.cur.Term = &Jump{Target: header.ID}
	l.cur = header
	cond := l.lowerExpr(s.Cond)
	l.cur.Term = &CondJump{Cond: cond, Then: body.ID, Else: after.ID}

	l.cur = body
	l.loops = append(l.loops, loopCtx{continueTo: header.ID, breakTo: after.ID})
	l.enterScope()
	for _, stmt := range s.Body {
		l.lowerStmt(stmt)
	}
	l.exitScope()
	l.loops = l.loops[:len(l.loops)-1]
	if l.cur.Term == nil {
		l.cur.Term = &Jump{Target: header.ID}
	}

	l.cur = after
}

func (l *lowerer) lowerExpr(x ast.Expr) Temp {
	switch x := x.(type) {
	case *ast.IntLit:
		t := l.newTemp()
		l.emit(&Const{Dst: t, Kind: KInt, IntVal: x.Value})
		return t
	case *ast.FloatLit:
		t := l.newTemp()
		l.emit(&Const{Dst: t, Kind: KFloat, FltVal: x.Value})
		return t
	case *ast.BoolLit:
		t := l.newTemp()
		l.emit(&Const{Dst: t, Kind: KBool, BoolVal: x.Value})
		return t
	case *ast.CharLit:
		t := l.newTemp()
		l.emit(&Const{Dst: t, Kind: KChar, ChrVal: x.Value})
		return t
	case *ast.StringLit:
		t := l.newTemp()
		l.emit(&Const{Dst: t, Kind: KString, StrVal: x.Value})
		return t
	case *ast.Ident:
		slot, _ := l.lookupLocal(x.Name)
		t := l.newTemp()
		l.emit(&LoadLocal{Dst: t, Slot: slot})
		return t
	case *ast.Unary:
		return l.lowerUnary(x)
	case *ast.Binary:
		return l.lowerBinary(x)
	case *ast.Cast:
		return l.lowerCast(x)
	default:
		// Call, Member, TypeRefExpr: struct/class/enum construction and
		// field access are resolved entirely during type checking and
		// never reach the VM (spec.md §4.9 value kinds are primitive-only).
		t := l.newTemp()
		l.emit(&Const{Dst: t, Kind: KUnit})
		return t
	}
}

func (l *lowerer) lowerUnary(x *ast.Unary) Temp {
	xv := l.lowerExpr(x.X)
	t := l.newTemp()
	var op UnOp
	switch x.Op {
	case ast.UnaryNeg:
		op = UNeg
	case ast.UnaryNot:
		op = UNot
	case ast.UnaryBitNot:
		op = UBitNot
	}
	l.emit(&Unary{Dst: t, Op: op, X: xv})
	return t
}

var binOpTable = map[ast.BinaryOp]BinOp{
	ast.BinAdd: BAdd, ast.BinSub: BSub, ast.BinMul: BMul, ast.BinDiv: BDiv, ast.BinMod: BMod,
	ast.BinEq: BEq, ast.BinNeq: BNeq, ast.BinLt: BLt, ast.BinGt: BGt, ast.BinLte: BLte, ast.BinGte: BGte,
	ast.BinOr: BOr, ast.BinAnd: BAnd,
	ast.BinBitAnd: BBitAnd, ast.BinBitOr: BBitOr, ast.BinBitXor: BBitXor,
	ast.BinNand: BNand, ast.BinNor: BNor, ast.BinXnor: BXnor,
	ast.BinShl: BShl, ast.BinShr: BShr, ast.BinUshl: BUshl, ast.BinUshr: BUshr,
}

func (l *lowerer) lowerBinary(x *ast.Binary) Temp {
	a := l.lowerExpr(x.Left)
	b := l.lowerExpr(x.Right)
	t := l.newTemp()
	l.emit(&Binary{Dst: t, Op: binOpTable[x.Op], A: a, B: b})
	return t
}

func (l *lowerer) lowerCast(x *ast.Cast) Temp {
	xv := l.lowerExpr(x.X)
	t := l.newTemp()
	kind, ok := castKind(x)
	if !ok {
		// Source and target primitive kind are identical: a no-op cast.
		return xv
	}
	l.emit(&Cast{Dst: t, Kind: kind, X: xv})
	return t
}

// castKind maps a checked Cast's source/target primitive kinds (read
// back off the attached types) to the IR's CastKind, or reports false
// for an identity cast that needs no instruction.
func castKind(x *ast.Cast) (CastKind, bool) {
	srcName := typeNameOf(x.X)
	dstName := x.Target.Name
	if srcName == dstName {
		return 0, false
	}
	switch {
	case srcName == "int" && dstName == "float":
		return CastIntToFloat, true
	case srcName == "float" && dstName == "int":
		return CastFloatToInt, true
	case srcName == "int" && dstName == "char":
		return CastIntToChar, true
	case srcName == "char" && dstName == "int":
		return CastCharToInt, true
	case srcName == "float" && dstName == "char":
		return CastFloatToChar, true
	case srcName == "char" && dstName == "float":
		return CastCharToFloat, true
	}
	return 0, false
}

func typeNameOf(x ast.Expr) string {
	if t := x.Type(); t != nil {
		return t.TypeName()
	}
	return ""
}
