// Package symbols implements the scoped variable symbol table and the
// module-global type registry (spec.md §3 "Symbols", §4.4).
package symbols

import (
	"fmt"
	"strings"

	"github.com/oaflang/oaf/internal/diag"
)

// Type is implemented by every kind of type symbol. It satisfies
// ast.Type so expression nodes can carry a Type without the ast
// package importing symbols.
type Type interface {
	TypeName() string
}

// PrimitiveKind enumerates the closed set of built-in primitive types
// (spec.md §3).
type PrimitiveKind int

const (
	KindInt PrimitiveKind = iota
	KindFloat
	KindBool
	KindString
	KindChar
	KindUnit
	KindError
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindChar:
		return "char"
	case KindUnit:
		return "unit"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// PrimitiveTypeSymbol is one of the seven built-in types.
type PrimitiveTypeSymbol struct {
	Kind PrimitiveKind
}

func (p *PrimitiveTypeSymbol) TypeName() string { return p.Kind.String() }

// IsNumeric reports whether p participates in the numeric coercion
// lattice (spec.md §4.5): char -> int -> float.
func (p *PrimitiveTypeSymbol) IsNumeric() bool {
	switch p.Kind {
	case KindInt, KindFloat, KindChar:
		return true
	}
	return false
}

// GenericTypeParameterSymbol names one type parameter of a generic
// user-defined type.
type GenericTypeParameterSymbol struct {
	Name string
	Pos  diag.Position
}

func (g *GenericTypeParameterSymbol) TypeName() string { return g.Name }

// UserDefinedKind distinguishes struct/class/enum (spec.md §3).
type UserDefinedKind int

const (
	UDKStruct UserDefinedKind = iota
	UDKClass
	UDKEnum
)

// FieldSymbol is one struct/class field.
type FieldSymbol struct {
	Name string
	Type Type
}

// VariantSymbol is one enum variant, optionally carrying a payload.
type VariantSymbol struct {
	Name    string
	Payload Type // nil for a unit variant
}

// UserDefinedTypeSymbol is declared in two phases: NewUserDefinedType
// installs the symbol under its name so recursive/mutually-recursive
// references resolve, then Finalize installs fields/variants exactly
// once. After Finalize the symbol is immutable (spec.md §9 DESIGN
// NOTES, "User-defined type with post-hoc field installation").
type UserDefinedTypeSymbol struct {
	Name       string
	Kind       UserDefinedKind
	TypeParams []*GenericTypeParameterSymbol
	Fields     []FieldSymbol
	Variants   []VariantSymbol
	finalized  bool
}

// NewUserDefinedType declares (but does not finalize) a struct/class/enum.
func NewUserDefinedType(name string, kind UserDefinedKind, typeParams []*GenericTypeParameterSymbol) *UserDefinedTypeSymbol {
	return &UserDefinedTypeSymbol{Name: name, Kind: kind, TypeParams: typeParams}
}

// Finalize installs fields (struct/class) or variants (enum). It may be
// called exactly once; subsequent calls are no-ops, preserving the
// "immutable after finalization" invariant without interior mutability
// leaking to later phases.
func (u *UserDefinedTypeSymbol) Finalize(fields []FieldSymbol, variants []VariantSymbol) {
	if u.finalized {
		return
	}
	u.Fields = fields
	u.Variants = variants
	u.finalized = true
}

// Finalized reports whether Finalize has run.
func (u *UserDefinedTypeSymbol) Finalized() bool { return u.finalized }

func (u *UserDefinedTypeSymbol) TypeName() string { return u.Name }

// Arity is the number of type parameters this generic definition takes.
func (u *UserDefinedTypeSymbol) Arity() int { return len(u.TypeParams) }

// ConstructedTypeSymbol is a generic type applied to concrete arguments,
// e.g. "Box<int>" (spec.md §3).
type ConstructedTypeSymbol struct {
	Generic *UserDefinedTypeSymbol
	Args    []Type
}

func (c *ConstructedTypeSymbol) TypeName() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.TypeName()
	}
	return fmt.Sprintf("%s<%s>", c.Generic.Name, strings.Join(parts, ", "))
}

// VariableSymbol binds a name to a type and mutability flag
// (spec.md §3). It is treated as immutable after declaration; later
// scopes reference it by duplicating the handle, never by mutating a
// shared cell (spec.md §9 DESIGN NOTES).
type VariableSymbol struct {
	Name      string
	Type      Type
	IsMutable bool
}
