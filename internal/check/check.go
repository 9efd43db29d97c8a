// Package check implements the type checker (spec.md §4.5): a single
// pass over the AST, run after parsing and before ownership analysis,
// that resolves type references, infers and attaches a symbols.Type to
// every expression, and enforces the binding/coercion/cast/generic
// arity/control-flow rules. It never stops at the first error: every
// violation found is appended to the shared diagnostic bag and checking
// continues so a single run surfaces as many problems as possible.
package check

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/symbols"
)

// errorType is returned in place of a resolved type once a diagnostic
// has already been raised, so a single bad reference doesn't cascade
// into a wall of unrelated follow-on errors.
var errorType = &symbols.PrimitiveTypeSymbol{Kind: symbols.KindError}

// Checker carries the state threaded through one type-checking pass.
type Checker struct {
	bag       *diag.Bag
	table     *symbols.Table
	loopDepth int
}

// New returns a Checker that reports into bag and resolves names against
// table. table must already have its built-in types registered
// (symbols.NewTable does this).
func New(bag *diag.Bag, table *symbols.Table) *Checker {
	return &Checker{bag: bag, table: table}
}

// Check type-checks every top-level statement of unit in order.
func Check(unit *ast.CompilationUnit, table *symbols.Table, bag *diag.Bag) {
	c := New(bag, table)
	c.declareTypes(unit)
	for _, s := range unit.Statements {
		c.checkStmt(s)
	}
}

// declareTypes pre-registers every struct/class/enum name before bodies
// are checked, so forward and mutually-recursive references resolve
// (spec.md §4.4, two-phase user-defined-type construction).
func (c *Checker) declareTypes(unit *ast.CompilationUnit) {
	for _, s := range unit.Statements {
		td, ok := s.(*ast.TypeDecl)
		if !ok {
			continue
		}
		params := make([]*symbols.GenericTypeParameterSymbol, len(td.TypeParams))
		for i, p := range td.TypeParams {
			params[i] = &symbols.GenericTypeParameterSymbol{Name: p, Pos: td.Position()}
		}
		udt := symbols.NewUserDefinedType(td.Name, udKind(td.Kind), params)
		if !c.table.TryDeclareType(td.Name, udt) {
			c.bag.Addf(diag.TYP001, diag.Error, td.Position(), "type %q already declared", td.Name)
		}
	}
	for _, s := range unit.Statements {
		td, ok := s.(*ast.TypeDecl)
		if !ok {
			continue
		}
		c.finalizeType(td)
	}
}

func udKind(k ast.TypeDeclKind) symbols.UserDefinedKind {
	switch k {
	case ast.KindStruct:
		return symbols.UDKStruct
	case ast.KindClass:
		return symbols.UDKClass
	case ast.KindEnum:
		return symbols.UDKEnum
	}
	return symbols.UDKStruct
}

func (c *Checker) finalizeType(td *ast.TypeDecl) {
	typ, ok := c.table.LookupType(td.Name)
	if !ok {
		return
	}
	udt, ok := typ.(*symbols.UserDefinedTypeSymbol)
	if !ok {
		return
	}
	// Type parameters shadow global type names while resolving field
	// and variant payload types, so "Box<T> [value: T]" resolves T to
	// the generic parameter rather than an unknown-type error.
	scratch := make(map[string]symbols.Type, len(udt.TypeParams))
	for _, p := range udt.TypeParams {
		scratch[p.Name] = p
	}

	switch td.Kind {
	case ast.KindEnum:
		variants := make([]symbols.VariantSymbol, len(td.Variants))
		for i, v := range td.Variants {
			var payload symbols.Type
			if v.Payload != nil {
				payload = c.resolveTypeRefWith(v.Payload, scratch)
			}
			variants[i] = symbols.VariantSymbol{Name: v.Name, Payload: payload}
		}
		udt.Finalize(nil, variants)
	default:
		fields := make([]symbols.FieldSymbol, len(td.Fields))
		for i, f := range td.Fields {
			fields[i] = symbols.FieldSymbol{Name: f.Name, Type: c.resolveTypeRefWith(f.Type, scratch)}
		}
		udt.Finalize(fields, nil)
	}
}

// ---- Statements ----

func (c *Checker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(s)
	case *ast.Assign:
		c.checkAssign(s)
	case *ast.IfStmt:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Body)
	case *ast.LoopStmt:
		c.checkExpr(s.Cond)
		c.loopDepth++
		c.checkBlock(s.Body)
		c.loopDepth--
	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.bag.Addf(diag.TYP001, diag.Error, s.Position(), "break outside of a loop")
		}
	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.bag.Addf(diag.TYP001, diag.Error, s.Position(), "continue outside of a loop")
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.checkExpr(s.Value)
		}
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	case *ast.TypeDecl:
		// Declared and finalized up front by declareTypes.
	}
}

func (c *Checker) checkBlock(body []ast.Stmt) {
	c.table.EnterScope()
	for _, s := range body {
		c.checkStmt(s)
	}
	c.table.ExitScope()
}

// checkVarDecl handles the explicit declaration form: "[flux] [Type]
// name = expr;" (spec.md §4.5 "Binding").
func (c *Checker) checkVarDecl(s *ast.VarDecl) {
	valType := c.checkExpr(s.Value)

	finalType := valType
	if s.DeclaredType != nil {
		declared := c.resolveTypeRef(s.DeclaredType)
		if !c.assignable(valType, declared) {
			c.bag.Addf(diag.TYP001, diag.Error, s.Position(),
				"cannot assign value of type %s to declared type %s", typeName(valType), typeName(declared))
		}
		finalType = declared
	}

	sym := &symbols.VariableSymbol{Name: s.Name, Type: finalType, IsMutable: s.Mutable}
	if !c.table.TryDeclareVar(sym) {
		c.bag.Addf(diag.TYP001, diag.Error, s.Position(), "%q is already declared in this scope", s.Name)
	}
}

// checkAssign handles "name = expr" and "name op= expr" targeting a name
// that may or may not already be bound (spec.md §4.5 "Binding",
// spec.md §4.6 for the ownership side of reassignment).
func (c *Checker) checkAssign(s *ast.Assign) {
	valType := c.checkExpr(s.Value)

	if s.Op != ast.OpAssign {
		c.checkCompoundAssign(s, valType)
		return
	}

	if c.table.IsDeclaredInCurrentScope(s.Name) {
		existing, _ := c.table.TryLookupVar(s.Name)
		if !existing.IsMutable {
			c.bag.Addf(diag.TYP001, diag.Error, s.Position(),
				"cannot reassign %q: repeated plain assignment to a non-flux binding", s.Name)
		} else if !c.assignable(valType, existing.Type) {
			c.bag.Addf(diag.TYP001, diag.Error, s.Position(),
				"cannot assign value of type %s to %q of type %s", typeName(valType), s.Name, typeName(existing.Type))
		}
		s.Introduces = false
		return
	}

	// Not declared in the current scope: a plain assignment introduces a
	// new binding here, even if an outer scope already has one of the
	// same name (spec.md §4.5 "Binding").
	sym := &symbols.VariableSymbol{Name: s.Name, Type: valType, IsMutable: false}
	c.table.TryDeclareVar(sym)
	s.Introduces = true
}

func (c *Checker) checkCompoundAssign(s *ast.Assign, valType symbols.Type) {
	existing, ok := c.table.TryLookupVar(s.Name)
	if !ok {
		c.bag.Addf(diag.TYP001, diag.Error, s.Position(), "undefined variable %q", s.Name)
		return
	}
	if !c.numericCommonType(existing.Type, valType) {
		c.bag.Addf(diag.TYP001, diag.Error, s.Position(),
			"%s requires numeric operands, got %s and %s", s.Op, typeName(existing.Type), typeName(valType))
	}
}

func typeName(t symbols.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.TypeName()
}
