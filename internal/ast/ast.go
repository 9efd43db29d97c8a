// Package ast defines the closed set of statement and expression node
// variants produced by the parser (spec.md §3). Nodes are tagged
// structs rather than a class hierarchy (spec.md §9 REDESIGN FLAGS):
// each implements Node via an embedded position and dispatch happens by
// type switch in later phases, not virtual method override.
package ast

import (
	"fmt"
	"strings"

	"github.com/oaflang/oaf/internal/diag"
)

// Node is implemented by every statement and expression.
type Node interface {
	Position() diag.Position
}

// Base carries the starting source position shared by all nodes.
type Base struct {
	Pos diag.Position
}

func (b Base) Position() diag.Position { return b.Pos }

// MakeBase constructs a Base from a starting position, for use in
// statement-node struct literals built by the parser.
func MakeBase(pos diag.Position) Base {
	return Base{Pos: pos}
}

// MakeExprBase constructs an ExprBase from a starting position, for use
// in expression-node struct literals built by the parser.
func MakeExprBase(pos diag.Position) ExprBase {
	return ExprBase{Base: Base{Pos: pos}}
}

// CompilationUnit is the root of a parsed program: an ordered sequence
// of statements (spec.md §3, "AST").
type CompilationUnit struct {
	Statements []Stmt
}

// Stmt is implemented by every statement variant.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression variant.
type Expr interface {
	Node
	exprNode()

	// Type returns the type attached to this expression by the checker,
	// or nil before type checking has run (spec.md §3, "Compilation result").
	Type() Type
	SetType(Type)
}

// Type is the narrow interface the AST needs from the symbol/type
// system (internal/symbols.Type implements this) without importing it,
// avoiding an import cycle between ast and symbols.
type Type interface {
	TypeName() string
}

// ExprBase gives every expression node a settable inferred Type.
type ExprBase struct {
	Base
	typ Type
}

func (e *ExprBase) Type() Type     { return e.typ }
func (e *ExprBase) SetType(t Type) { e.typ = t }

// ---- Type reference syntax: Name<Arg, ...> (spec.md §3) ----

type TypeRef struct {
	Base
	Name string
	Args []*TypeRef
}

func (t *TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

// ==================== Statements ====================

// VarDecl declares a new binding: "[flux] [Type] name = expr;" or the
// type-inferred plain-assignment form handled directly by the checker
// (spec.md §4.5 "Binding").
type VarDecl struct {
	Base
	Name         string
	DeclaredType *TypeRef // nil if inferred
	Mutable      bool     // true iff declared with `flux`
	Value        Expr
}

func (*VarDecl) stmtNode() {}

// Assign is "name op= expr" or "name = expr" targeting an existing
// binding (spec.md §4.6).
type Assign struct {
	Base
	Name string
	Op   AssignOp
	Value Expr

	// Introduces is set by the type checker: true when this plain
	// assignment declared a new binding in the current scope rather than
	// reassigning an existing one (spec.md §4.5 "Binding"). The ownership
	// analyzer uses it to skip the flux check for newly-introduced names.
	Introduces bool
}

func (*Assign) stmtNode() {}

// AssignOp enumerates assignment operators.
type AssignOp int

const (
	OpAssign AssignOp = iota
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
)

func (op AssignOp) String() string {
	switch op {
	case OpAssign:
		return "="
	case OpAddAssign:
		return "+="
	case OpSubAssign:
		return "-="
	case OpMulAssign:
		return "*="
	case OpDivAssign:
		return "/="
	default:
		return "?="
	}
}

// IfStmt is "if COND => BODY" (spec.md §4.3).
type IfStmt struct {
	Base
	Cond Expr
	Body []Stmt
}

func (*IfStmt) stmtNode() {}

// LoopStmt is "loop COND => BODY" (spec.md §4.3).
type LoopStmt struct {
	Base
	Cond Expr
	Body []Stmt
}

func (*LoopStmt) stmtNode() {}

// BreakStmt and ContinueStmt are only legal inside an enclosing LoopStmt
// (spec.md §4.5 "Control flow").
type BreakStmt struct{ Base }

func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{ Base }

func (*ContinueStmt) stmtNode() {}

// ReturnStmt halts the entry function with an optional value.
type ReturnStmt struct {
	Base
	Value Expr // nil for bare `return;`
}

func (*ReturnStmt) stmtNode() {}

// ExprStmt wraps an expression used for effect in statement position.
type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) stmtNode() {}

// TypeDeclKind distinguishes struct/class/enum declarations.
type TypeDeclKind int

const (
	KindStruct TypeDeclKind = iota
	KindClass
	KindEnum
)

// FieldDecl is one "name: Type" member of a struct/class.
type FieldDecl struct {
	Name string
	Type *TypeRef
}

// VariantDecl is one enum variant, optionally carrying a payload type.
type VariantDecl struct {
	Name    string
	Payload *TypeRef // nil for a unit variant
}

// TypeDecl declares a struct, class, or enum, optionally generic
// (spec.md §4.3 "Type declarations").
type TypeDecl struct {
	Base
	Kind       TypeDeclKind
	Name       string
	TypeParams []string
	Fields     []FieldDecl   // struct/class
	Variants   []VariantDecl // enum
}

func (*TypeDecl) stmtNode() {}

// ==================== Expressions ====================

type IntLit struct {
	ExprBase
	Value int64
}

func (*IntLit) exprNode() {}

type FloatLit struct {
	ExprBase
	Value float64
}

func (*FloatLit) exprNode() {}

type BoolLit struct {
	ExprBase
	Value bool
}

func (*BoolLit) exprNode() {}

type StringLit struct {
	ExprBase
	Value string
}

func (*StringLit) exprNode() {}

type CharLit struct {
	ExprBase
	Value rune
}

func (*CharLit) exprNode() {}

type Ident struct {
	ExprBase
	Name string
}

func (*Ident) exprNode() {}

// UnaryOp enumerates prefix operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryBitNot
)

type Unary struct {
	ExprBase
	Op UnaryOp
	X  Expr
}

func (*Unary) exprNode() {}

// BinaryOp enumerates all binary operators recognized by the parser
// (spec.md §4.3 precedence levels).
type BinaryOp int

const (
	BinOr BinaryOp = iota
	BinAnd
	BinEq
	BinNeq
	BinLt
	BinGt
	BinLte
	BinGte
	BinBitAnd
	BinBitOr
	BinBitXor
	BinNand
	BinNor
	BinXnor
	BinShl
	BinShr
	BinUshl
	BinUshr
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
)

type Binary struct {
	ExprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}

// Cast is an explicit "(T)expr" conversion (spec.md §4.3, §4.5).
type Cast struct {
	ExprBase
	Target *TypeRef
	X      Expr
}

func (*Cast) exprNode() {}

// Call applies Callee to Args.
type Call struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}

// Member is "Receiver.Name" field/variant access.
type Member struct {
	ExprBase
	Receiver Expr
	Name     string
}

func (*Member) exprNode() {}

// TypeRefExpr wraps a TypeRef used in expression position, e.g. the
// generic instantiation "Box<int>" appearing as a call-style
// constructor reference (spec.md §3).
type TypeRefExpr struct {
	ExprBase
	Ref *TypeRef
}

func (*TypeRefExpr) exprNode() {}

// NewPos is a small helper so callers outside this package can build a
// diag.Position without importing diag directly for every node.
func NewPos(line, col, length int) diag.Position {
	return diag.Position{Line: line, Column: col, Length: length}
}
