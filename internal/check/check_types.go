package check

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/symbols"
)

// resolveTypeRef resolves a parsed TypeRef against the module-global
// type registry, reporting an unknown-type or generic-arity diagnostic
// instead of returning nil (spec.md §4.4, §4.5).
func (c *Checker) resolveTypeRef(ref *ast.TypeRef) symbols.Type {
	return c.resolveTypeRefWith(ref, nil)
}

// resolveTypeRefWith additionally resolves names found in scratch first,
// letting a generic type's own parameters ("T" in "Box<T>") shadow the
// global registry while its fields are finalized.
func (c *Checker) resolveTypeRefWith(ref *ast.TypeRef, scratch map[string]symbols.Type) symbols.Type {
	if ref == nil {
		return errorType
	}
	if t, ok := scratch[ref.Name]; ok {
		return t
	}

	base, ok := c.table.LookupType(ref.Name)
	if !ok {
		c.bag.Addf(diag.TYP001, diag.Error, ref.Position(), "unknown type %q", ref.Name)
		return errorType
	}

	udt, isUDT := base.(*symbols.UserDefinedTypeSymbol)

	if len(ref.Args) == 0 {
		if isUDT && udt.Arity() > 0 {
			c.bag.Addf(diag.TYP001, diag.Error, ref.Position(),
				"generic type %q requires %d type argument(s), got 0", ref.Name, udt.Arity())
		}
		return base
	}

	if !isUDT {
		c.bag.Addf(diag.TYP001, diag.Error, ref.Position(), "%q is not generic", ref.Name)
		return errorType
	}
	if len(ref.Args) != udt.Arity() {
		c.bag.Addf(diag.TYP001, diag.Error, ref.Position(),
			"generic type %q requires %d type argument(s), got %d", ref.Name, udt.Arity(), len(ref.Args))
		return errorType
	}

	args := make([]symbols.Type, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = c.resolveTypeRefWith(a, scratch)
	}
	return &symbols.ConstructedTypeSymbol{Generic: udt, Args: args}
}

// widensTo reports whether an implicit widening coercion exists from
// "from" to "to", per the numeric coercion lattice char -> int -> float
// (spec.md §4.5).
func widensTo(from, to symbols.PrimitiveKind) bool {
	if from == to {
		return true
	}
	switch from {
	case symbols.KindChar:
		return to == symbols.KindInt || to == symbols.KindFloat
	case symbols.KindInt:
		return to == symbols.KindFloat
	}
	return false
}

// isNumericKind reports whether k participates in arithmetic/casts.
func isNumericKind(k symbols.PrimitiveKind) bool {
	return k == symbols.KindInt || k == symbols.KindFloat || k == symbols.KindChar
}

// assignable reports whether a value of type val may be stored into a
// binding of declared type decl: exact match, or an implicit widening
// coercion between primitives. No implicit coercion exists between
// non-primitive types; they must match by identity of name.
func (c *Checker) assignable(val, decl symbols.Type) bool {
	if val == nil || decl == nil {
		return false
	}
	vp, vok := val.(*symbols.PrimitiveTypeSymbol)
	dp, dok := decl.(*symbols.PrimitiveTypeSymbol)
	if vok && dok {
		return widensTo(vp.Kind, dp.Kind)
	}
	if vok != dok {
		return false
	}
	return sameType(val, decl)
}

// sameType compares two non-primitive types structurally by name: two
// UserDefinedTypeSymbols are equal iff they are the same declaration
// (types are never shadowed, spec.md §4.4), and two ConstructedTypeSymbols
// are equal iff their generic base and all arguments match.
func sameType(a, b symbols.Type) bool {
	switch a := a.(type) {
	case *symbols.UserDefinedTypeSymbol:
		bu, ok := b.(*symbols.UserDefinedTypeSymbol)
		return ok && a == bu
	case *symbols.ConstructedTypeSymbol:
		bc, ok := b.(*symbols.ConstructedTypeSymbol)
		if !ok || a.Generic != bc.Generic || len(a.Args) != len(bc.Args) {
			return false
		}
		for i := range a.Args {
			if !sameType(a.Args[i], bc.Args[i]) {
				return false
			}
		}
		return true
	case *symbols.GenericTypeParameterSymbol:
		bg, ok := b.(*symbols.GenericTypeParameterSymbol)
		return ok && a == bg
	default:
		return a.TypeName() == b.TypeName()
	}
}

// numericCommonType reports whether a and b both resolve to numeric
// primitives with a common widened type (spec.md §4.5, "arithmetic
// operators require numeric operands").
func (c *Checker) numericCommonType(a, b symbols.Type) bool {
	ap, aok := a.(*symbols.PrimitiveTypeSymbol)
	bp, bok := b.(*symbols.PrimitiveTypeSymbol)
	if !aok || !bok {
		return false
	}
	return isNumericKind(ap.Kind) && isNumericKind(bp.Kind)
}

// widerNumeric returns the wider of two numeric primitive kinds under
// the char -> int -> float lattice.
func widerNumeric(a, b symbols.PrimitiveKind) symbols.PrimitiveKind {
	if widensTo(a, b) {
		return b
	}
	return a
}
