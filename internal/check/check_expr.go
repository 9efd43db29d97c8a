package check

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/symbols"
)

var (
	intType    = &symbols.PrimitiveTypeSymbol{Kind: symbols.KindInt}
	floatType  = &symbols.PrimitiveTypeSymbol{Kind: symbols.KindFloat}
	boolType   = &symbols.PrimitiveTypeSymbol{Kind: symbols.KindBool}
	stringType = &symbols.PrimitiveTypeSymbol{Kind: symbols.KindString}
	charType   = &symbols.PrimitiveTypeSymbol{Kind: symbols.KindChar}
)

// isErrorType reports whether t is the error-recovery sentinel, so a
// single bad subexpression doesn't cascade into a duplicate diagnostic
// at every enclosing operator.
func isErrorType(t symbols.Type) bool {
	p, ok := t.(*symbols.PrimitiveTypeSymbol)
	return ok && p.Kind == symbols.KindError
}

// checkExpr infers and attaches the type of x, recursing into every
// subexpression regardless of whether an error was already raised along
// the way, so one bad operand never hides a sibling's diagnostics.
func (c *Checker) checkExpr(x ast.Expr) symbols.Type {
	var t symbols.Type
	switch x := x.(type) {
	case *ast.IntLit:
		t = intType
	case *ast.FloatLit:
		t = floatType
	case *ast.BoolLit:
		t = boolType
	case *ast.StringLit:
		t = stringType
	case *ast.CharLit:
		t = charType
	case *ast.Ident:
		t = c.checkIdent(x)
	case *ast.Unary:
		t = c.checkUnary(x)
	case *ast.Binary:
		t = c.checkBinary(x)
	case *ast.Cast:
		t = c.checkCast(x)
	case *ast.Call:
		t = c.checkCall(x)
	case *ast.Member:
		t = c.checkMember(x)
	case *ast.TypeRefExpr:
		t = c.resolveTypeRef(x.Ref)
	default:
		t = errorType
	}
	x.SetType(t)
	return t
}

func (c *Checker) checkIdent(x *ast.Ident) symbols.Type {
	sym, ok := c.table.TryLookupVar(x.Name)
	if !ok {
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "undefined variable %q", x.Name)
		return errorType
	}
	return sym.Type
}

func (c *Checker) checkUnary(x *ast.Unary) symbols.Type {
	xt := c.checkExpr(x.X)
	if isErrorType(xt) {
		return errorType
	}
	xp, ok := xt.(*symbols.PrimitiveTypeSymbol)

	switch x.Op {
	case ast.UnaryNeg:
		if !ok || !isNumericKind(xp.Kind) {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "unary - requires a numeric operand, got %s", typeName(xt))
			return errorType
		}
		return xt
	case ast.UnaryNot:
		if !ok || xp.Kind != symbols.KindBool {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "unary ! requires a bool operand, got %s", typeName(xt))
			return errorType
		}
		return boolType
	case ast.UnaryBitNot:
		if !ok || xp.Kind != symbols.KindInt {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "unary ~ requires an integer operand, got %s", typeName(xt))
			return errorType
		}
		return intType
	}
	return errorType
}

// checkBinary enforces the per-operator-class type rules of spec.md
// §4.5: arithmetic needs a numeric common type, relational/equality
// produce bool, logical needs bool operands, shift/bitwise need integer
// operands. The reserved nand/nor/xnor operators are parsed but their
// type-checking rules are deferred (spec.md §9 Open Questions), so both
// operands are still walked (for their own diagnostics) but no operand
// rule is enforced.
func (c *Checker) checkBinary(x *ast.Binary) symbols.Type {
	lt := c.checkExpr(x.Left)
	rt := c.checkExpr(x.Right)
	if isErrorType(lt) || isErrorType(rt) {
		if x.Op >= ast.BinEq && x.Op <= ast.BinGte {
			return boolType
		}
		return errorType
	}

	switch x.Op {
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv, ast.BinMod:
		return c.checkArithmetic(x, lt, rt)
	case ast.BinEq, ast.BinNeq:
		if !c.equatable(lt, rt) {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "cannot compare %s with %s", typeName(lt), typeName(rt))
		}
		return boolType
	case ast.BinLt, ast.BinGt, ast.BinLte, ast.BinGte:
		if !c.numericCommonType(lt, rt) {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "relational operator requires numeric operands, got %s and %s", typeName(lt), typeName(rt))
		}
		return boolType
	case ast.BinOr, ast.BinAnd:
		if !c.isBool(lt) || !c.isBool(rt) {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "logical operator requires bool operands, got %s and %s", typeName(lt), typeName(rt))
		}
		return boolType
	case ast.BinShl, ast.BinShr, ast.BinUshl, ast.BinUshr, ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor:
		if !c.isIntLike(lt) || !c.isIntLike(rt) {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "bitwise/shift operator requires integer operands, got %s and %s", typeName(lt), typeName(rt))
		}
		return intType
	case ast.BinNand, ast.BinNor, ast.BinXnor:
		// Deferred: type rules for these reserved operators are not yet
		// specified. Accept any operand pair and produce int.
		return intType
	}
	return errorType
}

func (c *Checker) checkArithmetic(x *ast.Binary, lt, rt symbols.Type) symbols.Type {
	if x.Op == ast.BinAdd {
		lp, lok := lt.(*symbols.PrimitiveTypeSymbol)
		rp, rok := rt.(*symbols.PrimitiveTypeSymbol)
		if lok && rok && lp.Kind == symbols.KindString && rp.Kind == symbols.KindString {
			// String concatenation via '+' is not supported: rejected
			// rather than silently accepted (spec.md §9 Open Questions).
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "string concatenation via '+' is not supported")
			return errorType
		}
	}
	if !c.numericCommonType(lt, rt) {
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "arithmetic operator requires numeric operands, got %s and %s", typeName(lt), typeName(rt))
		return errorType
	}
	lp := lt.(*symbols.PrimitiveTypeSymbol)
	rp := rt.(*symbols.PrimitiveTypeSymbol)
	return &symbols.PrimitiveTypeSymbol{Kind: widerNumeric(lp.Kind, rp.Kind)}
}

func (c *Checker) isBool(t symbols.Type) bool {
	p, ok := t.(*symbols.PrimitiveTypeSymbol)
	return ok && p.Kind == symbols.KindBool
}

func (c *Checker) isIntLike(t symbols.Type) bool {
	p, ok := t.(*symbols.PrimitiveTypeSymbol)
	return ok && (p.Kind == symbols.KindInt || p.Kind == symbols.KindChar)
}

// equatable allows == and != between any two values of the same type,
// or between numeric primitives under the widening lattice.
func (c *Checker) equatable(a, b symbols.Type) bool {
	if a == nil || b == nil {
		return false
	}
	ap, aok := a.(*symbols.PrimitiveTypeSymbol)
	bp, bok := b.(*symbols.PrimitiveTypeSymbol)
	if aok && bok {
		return ap.Kind == bp.Kind || widensTo(ap.Kind, bp.Kind) || widensTo(bp.Kind, ap.Kind)
	}
	if aok != bok {
		return false
	}
	return sameType(a, b)
}

// checkCast enforces the explicit-cast matrix: permitted only between
// numeric primitives (int, float, char), narrowing included. (bool)int
// and any cast touching string/unit/user-defined types are rejected
// (spec.md §4.5).
func (c *Checker) checkCast(x *ast.Cast) symbols.Type {
	xt := c.checkExpr(x.X)
	target := c.resolveTypeRef(x.Target)
	if isErrorType(xt) || isErrorType(target) {
		return errorType
	}

	xp, xok := xt.(*symbols.PrimitiveTypeSymbol)
	tp, tok := target.(*symbols.PrimitiveTypeSymbol)
	if !xok || !tok || !isNumericKind(xp.Kind) || !isNumericKind(tp.Kind) {
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "invalid cast from %s to %s", typeName(xt), typeName(target))
		return errorType
	}
	return target
}

// checkCall resolves a constructor-style call: either a bare type name
// ("Box(1)"), a generic instantiation ("Box<int>(1)"), or an enum
// variant ("Option.Some(1)"). Anything else is rejected.
func (c *Checker) checkCall(x *ast.Call) symbols.Type {
	argTypes := make([]symbols.Type, len(x.Args))
	for i, a := range x.Args {
		argTypes[i] = c.checkExpr(a)
	}

	switch callee := x.Callee.(type) {
	case *ast.Ident:
		typ, ok := c.table.LookupType(callee.Name)
		if !ok {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "%q is not a constructible type", callee.Name)
			return errorType
		}
		udt, ok := typ.(*symbols.UserDefinedTypeSymbol)
		if !ok {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "%q is not a constructible type", callee.Name)
			return errorType
		}
		if udt.Arity() > 0 {
			c.bag.Addf(diag.TYP001, diag.Error, x.Position(),
				"generic type %q requires %d type argument(s), got 0", callee.Name, udt.Arity())
		}
		c.checkFieldArity(x.Position(), udt, len(x.Args))
		return typ
	case *ast.TypeRefExpr:
		typ := c.resolveTypeRef(callee.Ref)
		if ct, ok := typ.(*symbols.ConstructedTypeSymbol); ok {
			c.checkFieldArity(x.Position(), ct.Generic, len(x.Args))
		}
		return typ
	case *ast.Member:
		return c.checkVariantCall(x, callee, argTypes)
	default:
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "expression is not callable")
		return errorType
	}
}

func (c *Checker) checkFieldArity(pos diag.Position, udt *symbols.UserDefinedTypeSymbol, got int) {
	if udt.Kind == symbols.UDKEnum || !udt.Finalized() {
		return
	}
	if len(udt.Fields) != got {
		c.bag.Addf(diag.TYP001, diag.Error, pos,
			"%q takes %d field argument(s), got %d", udt.Name, len(udt.Fields), got)
	}
}

func (c *Checker) checkVariantCall(x *ast.Call, m *ast.Member, argTypes []symbols.Type) symbols.Type {
	typeIdent, ok := m.Receiver.(*ast.Ident)
	if !ok {
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "expression is not callable")
		return errorType
	}
	typ, ok := c.table.LookupType(typeIdent.Name)
	if !ok {
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "unknown type %q", typeIdent.Name)
		return errorType
	}
	udt, ok := typ.(*symbols.UserDefinedTypeSymbol)
	if !ok || udt.Kind != symbols.UDKEnum {
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "%q is not an enum", typeIdent.Name)
		return errorType
	}
	for _, v := range udt.Variants {
		if v.Name == m.Name {
			switch {
			case v.Payload == nil && len(argTypes) != 0:
				c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "variant %q carries no payload", m.Name)
			case v.Payload != nil && len(argTypes) != 1:
				c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "variant %q takes exactly one payload value", m.Name)
			case v.Payload != nil && !c.assignable(argTypes[0], v.Payload):
				c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "variant %q expects payload of type %s, got %s",
					m.Name, typeName(v.Payload), typeName(argTypes[0]))
			}
			return typ
		}
	}
	c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "%q has no variant %q", typeIdent.Name, m.Name)
	return errorType
}

// checkMember resolves "Receiver.Name" field access on a struct/class
// value (spec.md §3).
func (c *Checker) checkMember(x *ast.Member) symbols.Type {
	recvType := c.checkExpr(x.Receiver)

	var udt *symbols.UserDefinedTypeSymbol
	var args []symbols.Type
	switch rt := recvType.(type) {
	case *symbols.UserDefinedTypeSymbol:
		udt = rt
	case *symbols.ConstructedTypeSymbol:
		udt = rt.Generic
		args = rt.Args
	default:
		c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "%s has no field %q", typeName(recvType), x.Name)
		return errorType
	}

	for _, f := range udt.Fields {
		if f.Name != x.Name {
			continue
		}
		return substituteTypeParam(f.Type, udt, args)
	}
	c.bag.Addf(diag.TYP001, diag.Error, x.Position(), "%q has no field %q", udt.Name, x.Name)
	return errorType
}

// substituteTypeParam replaces a bare generic type parameter with its
// concrete argument when accessing a field through a constructed
// generic type, e.g. "Box<int>.value" where value's declared type is T.
func substituteTypeParam(fieldType symbols.Type, udt *symbols.UserDefinedTypeSymbol, args []symbols.Type) symbols.Type {
	gp, ok := fieldType.(*symbols.GenericTypeParameterSymbol)
	if !ok {
		return fieldType
	}
	for i, p := range udt.TypeParams {
		if p == gp && i < len(args) {
			return args[i]
		}
	}
	return fieldType
}
