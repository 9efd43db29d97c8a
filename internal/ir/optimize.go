package ir

// Optimize runs the two optimization passes spec.md §4.7 requires,
// each idempotent and behavior-preserving on its own: constant folding,
// then dead-temporary elimination. Running Optimize a second time over
// its own output is a no-op, since neither pass leaves anything behind
// for the other (or itself) to further reduce.
func Optimize(fn *Function) {
	ConstantFold(fn)
	EliminateDeadTemps(fn)
}

// ConstantFold replaces a Unary/Binary/Cast instruction with a Const
// when all of its operands are themselves constants, using plain Go
// int64/float64 arithmetic so overflow wraps (int64) and floating-point
// results follow IEEE-754 double semantics exactly as the VM will
// reproduce them. Division and modulo by a constant zero are left
// unfolded, so the VM raises its runtime error instead of the compiler
// silently producing one (spec.md §4.7, §4.9).
//
// Constants never cross a block boundary in this IR (every temp is
// consumed within the block it's defined in — lowering never lets a
// value outlive the block boundary it's bound to), so each block is
// folded independently.
func ConstantFold(fn *Function) {
	for _, b := range fn.Blocks {
		consts := make(map[Temp]*Const, len(b.Instrs))
		out := make([]Instr, 0, len(b.Instrs))

		for _, instr := range b.Instrs {
			switch in := instr.(type) {
			case *Const:
				consts[in.Dst] = in
				out = append(out, in)

			case *Unary:
				if cx, ok := consts[in.X]; ok {
					if folded, ok := foldUnary(in.Dst, in.Op, cx); ok {
						consts[in.Dst] = folded
						out = append(out, folded)
						continue
					}
				}
				out = append(out, in)

			case *Binary:
				ca, aok := consts[in.A]
				cb, bok := consts[in.B]
				if aok && bok {
					if folded, ok := foldBinary(in.Dst, in.Op, ca, cb); ok {
						consts[in.Dst] = folded
						out = append(out, folded)
						continue
					}
				}
				out = append(out, in)

			case *Cast:
				if cx, ok := consts[in.X]; ok {
					if folded, ok := foldCast(in.Dst, in.Kind, cx); ok {
						consts[in.Dst] = folded
						out = append(out, folded)
						continue
					}
				}
				out = append(out, in)

			default:
				out = append(out, instr)
			}
		}
		b.Instrs = out
	}
}

func foldUnary(dst Temp, op UnOp, x *Const) (*Const, bool) {
	switch op {
	case UNeg:
		switch x.Kind {
		case KInt:
			return &Const{Dst: dst, Kind: KInt, IntVal: -x.IntVal}, true
		case KFloat:
			return &Const{Dst: dst, Kind: KFloat, FltVal: -x.FltVal}, true
		}
	case UNot:
		if x.Kind == KBool {
			return &Const{Dst: dst, Kind: KBool, BoolVal: !x.BoolVal}, true
		}
	case UBitNot:
		if x.Kind == KInt {
			return &Const{Dst: dst, Kind: KInt, IntVal: ^x.IntVal}, true
		}
	}
	return nil, false
}

func foldBinary(dst Temp, op BinOp, a, b *Const) (*Const, bool) {
	switch op {
	case BAdd, BSub, BMul, BDiv, BMod:
		return foldArith(dst, op, a, b)
	case BBitAnd, BBitOr, BBitXor, BShl, BShr, BUshl, BUshr:
		return foldIntegerOp(dst, op, a, b)
	case BEq, BNeq, BLt, BGt, BLte, BGte:
		return foldCompare(dst, op, a, b)
	case BAnd, BOr:
		return foldLogic(dst, op, a, b)
	}
	// BNand/BNor/BXnor: type rules are deferred (spec.md §9 Open
	// Questions), and that deferral extends to folding — leave the
	// operation for the VM.
	return nil, false
}

func foldArith(dst Temp, op BinOp, a, b *Const) (*Const, bool) {
	if a.Kind == KInt && b.Kind == KInt {
		if (op == BDiv || op == BMod) && b.IntVal == 0 {
			return nil, false
		}
		var v int64
		switch op {
		case BAdd:
			v = a.IntVal + b.IntVal
		case BSub:
			v = a.IntVal - b.IntVal
		case BMul:
			v = a.IntVal * b.IntVal
		case BDiv:
			v = a.IntVal / b.IntVal
		case BMod:
			v = a.IntVal % b.IntVal
		}
		return &Const{Dst: dst, Kind: KInt, IntVal: v}, true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, false
	}
	if (op == BDiv || op == BMod) && bf == 0 {
		return nil, false
	}
	var v float64
	switch op {
	case BAdd:
		v = af + bf
	case BSub:
		v = af - bf
	case BMul:
		v = af * bf
	case BDiv:
		v = af / bf
	case BMod:
		v = mod(af, bf)
	}
	return &Const{Dst: dst, Kind: KFloat, FltVal: v}, true
}

func mod(a, b float64) float64 {
	q := int64(a / b)
	return a - float64(q)*b
}

// asFloat widens an int/char/float constant to float64 for mixed-kind
// arithmetic, matching the checker's widening coercion lattice.
func asFloat(c *Const) (float64, bool) {
	switch c.Kind {
	case KFloat:
		return c.FltVal, true
	case KInt:
		return float64(c.IntVal), true
	case KChar:
		return float64(c.ChrVal), true
	}
	return 0, false
}

func asInt(c *Const) (int64, bool) {
	switch c.Kind {
	case KInt:
		return c.IntVal, true
	case KChar:
		return int64(c.ChrVal), true
	}
	return 0, false
}

func foldIntegerOp(dst Temp, op BinOp, a, b *Const) (*Const, bool) {
	av, aok := asInt(a)
	bv, bok := asInt(b)
	if !aok || !bok {
		return nil, false
	}
	var v int64
	switch op {
	case BBitAnd:
		v = av & bv
	case BBitOr:
		v = av | bv
	case BBitXor:
		v = av ^ bv
	case BShl, BUshl:
		v = av << uint(bv)
	case BShr:
		v = av >> uint(bv) // arithmetic: sign-extending
	case BUshr:
		v = int64(uint64(av) >> uint(bv)) // logical: zero-filling
	}
	return &Const{Dst: dst, Kind: KInt, IntVal: v}, true
}

func foldCompare(dst Temp, op BinOp, a, b *Const) (*Const, bool) {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, false
	}
	var v bool
	switch op {
	case BEq:
		v = af == bf
	case BNeq:
		v = af != bf
	case BLt:
		v = af < bf
	case BGt:
		v = af > bf
	case BLte:
		v = af <= bf
	case BGte:
		v = af >= bf
	}
	return &Const{Dst: dst, Kind: KBool, BoolVal: v}, true
}

func foldLogic(dst Temp, op BinOp, a, b *Const) (*Const, bool) {
	if a.Kind != KBool || b.Kind != KBool {
		return nil, false
	}
	var v bool
	if op == BAnd {
		v = a.BoolVal && b.BoolVal
	} else {
		v = a.BoolVal || b.BoolVal
	}
	return &Const{Dst: dst, Kind: KBool, BoolVal: v}, true
}

func foldCast(dst Temp, kind CastKind, x *Const) (*Const, bool) {
	switch kind {
	case CastIntToFloat:
		if v, ok := asInt(x); ok {
			return &Const{Dst: dst, Kind: KFloat, FltVal: float64(v)}, true
		}
	case CastFloatToInt:
		if x.Kind == KFloat {
			return &Const{Dst: dst, Kind: KInt, IntVal: int64(x.FltVal)}, true
		}
	case CastIntToChar:
		if v, ok := asInt(x); ok {
			return &Const{Dst: dst, Kind: KChar, ChrVal: rune(v)}, true
		}
	case CastCharToInt:
		if x.Kind == KChar {
			return &Const{Dst: dst, Kind: KInt, IntVal: int64(x.ChrVal)}, true
		}
	case CastFloatToChar:
		if x.Kind == KFloat {
			return &Const{Dst: dst, Kind: KChar, ChrVal: rune(int64(x.FltVal))}, true
		}
	case CastCharToFloat:
		if x.Kind == KChar {
			return &Const{Dst: dst, Kind: KFloat, FltVal: float64(x.ChrVal)}, true
		}
	}
	return nil, false
}

// EliminateDeadTemps removes a pure instruction (Const/LoadLocal/Unary/
// Binary/Cast) whose result temp is never read by a later instruction
// or by the block's terminator. StoreLocal is never removed: it is the
// only instruction with an externally visible effect (spec.md §4.7).
// A single backward sweep per block suffices because every temp's
// single definition lexically precedes its uses within that block.
func EliminateDeadTemps(fn *Function) {
	for _, b := range fn.Blocks {
		live := make(map[Temp]bool)
		markTermUses(b.Term, live)

		kept := make([]Instr, 0, len(b.Instrs))
		for i := len(b.Instrs) - 1; i >= 0; i-- {
			instr := b.Instrs[i]
			if dst, ok := dstOf(instr); ok && !live[dst] {
				continue
			}
			markOperands(instr, live)
			kept = append(kept, instr)
		}
		for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
			kept[l], kept[r] = kept[r], kept[l]
		}
		b.Instrs = kept
	}
}

func dstOf(instr Instr) (Temp, bool) {
	switch in := instr.(type) {
	case *Const:
		return in.Dst, true
	case *LoadLocal:
		return in.Dst, true
	case *Unary:
		return in.Dst, true
	case *Binary:
		return in.Dst, true
	case *Cast:
		return in.Dst, true
	}
	return 0, false
}

func markOperands(instr Instr, live map[Temp]bool) {
	switch in := instr.(type) {
	case *Unary:
		live[in.X] = true
	case *Binary:
		live[in.A] = true
		live[in.B] = true
	case *Cast:
		live[in.X] = true
	case *StoreLocal:
		live[in.Src] = true
	}
}

func markTermUses(term Term, live map[Temp]bool) {
	switch t := term.(type) {
	case *CondJump:
		live[t.Cond] = true
	case *Return:
		if t.HasValue {
			live[t.Value] = true
		}
	}
}
