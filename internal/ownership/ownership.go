// Package ownership implements the ownership analyzer (spec.md §4.6):
// a pass that runs after type checking and asserts that every
// reassignment targets a `flux`-marked binding. It re-walks the AST
// with a fresh symbol table rather than inspecting attached types, since
// mutability is a property of the binding, not of its inferred type.
package ownership

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/symbols"
)

// Analyzer carries the scope stack used to resolve bindings during the
// walk. It mirrors the type checker's scope discipline exactly
// (EnterScope/ExitScope bracketing each block) so a name resolves to
// the same binding both passes agree on.
type Analyzer struct {
	bag       *diag.Bag
	table     *symbols.Table
	loopDepth int
}

// Analyze walks unit, reporting OWN001 at the position of every
// assignment or compound assignment that targets a non-flux binding.
// It takes its own fresh table: ownership only needs to know which
// scope a name is declared in and whether that declaration was
// `flux`, not the inferred types the checker computed.
func Analyze(unit *ast.CompilationUnit, bag *diag.Bag) {
	a := &Analyzer{bag: bag, table: symbols.NewTable()}
	a.declareTypesShallow(unit)
	for _, s := range unit.Statements {
		a.walkStmt(s)
	}
}

// declareTypesShallow registers struct/class/enum names so type
// references inside variable declarations (which ownership does not
// itself need to resolve) don't trip unrelated lookups; ownership
// never inspects fields or variants, so finalization isn't needed.
func (a *Analyzer) declareTypesShallow(unit *ast.CompilationUnit) {
	for _, s := range unit.Statements {
		if td, ok := s.(*ast.TypeDecl); ok {
			a.table.TryDeclareType(td.Name, symbols.NewUserDefinedType(td.Name, symbols.UDKStruct, nil))
		}
	}
}

func (a *Analyzer) walkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		a.walkExpr(s.Value)
		a.table.TryDeclareVar(&symbols.VariableSymbol{Name: s.Name, IsMutable: s.Mutable})
	case *ast.Assign:
		a.walkAssign(s)
	case *ast.IfStmt:
		a.walkExpr(s.Cond)
		a.walkBlock(s.Body)
	case *ast.LoopStmt:
		a.walkExpr(s.Cond)
		a.loopDepth++
		a.walkBlock(s.Body)
		a.loopDepth--
	case *ast.ReturnStmt:
		if s.Value != nil {
			a.walkExpr(s.Value)
		}
	case *ast.ExprStmt:
		a.walkExpr(s.X)
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.TypeDecl:
		// No bindings to track.
	}
}

func (a *Analyzer) walkBlock(body []ast.Stmt) {
	a.table.EnterScope()
	for _, s := range body {
		a.walkStmt(s)
	}
	a.table.ExitScope()
}

// walkAssign enforces the flux rule. The checker has already decided,
// via Assign.Introduces, whether a plain "=" declared a fresh local
// binding or reassigned an existing one; a compound assignment always
// targets an existing binding. Mirror that decision here rather than
// re-deriving it, so the two passes can never disagree about which
// statements are declarations versus reassignments.
func (a *Analyzer) walkAssign(s *ast.Assign) {
	a.walkExpr(s.Value)

	if s.Op == ast.OpAssign && s.Introduces {
		a.table.TryDeclareVar(&symbols.VariableSymbol{Name: s.Name, IsMutable: false})
		return
	}

	sym, depth, ok := a.table.TryLookupWithScopeDepth(s.Name)
	if !ok {
		// Undeclared name: already reported as TYP001 by the checker.
		return
	}
	if !sym.IsMutable {
		a.bag.Addf(diag.OWN001, diag.Error, s.Position(),
			"cannot assign to %q: binding is not declared flux (declared at scope depth %d)", s.Name, depth)
	}
}

func (a *Analyzer) walkExpr(x ast.Expr) {
	if x == nil {
		return
	}
	switch x := x.(type) {
	case *ast.Unary:
		a.walkExpr(x.X)
	case *ast.Binary:
		a.walkExpr(x.Left)
		a.walkExpr(x.Right)
	case *ast.Cast:
		a.walkExpr(x.X)
	case *ast.Call:
		a.walkExpr(x.Callee)
		for _, arg := range x.Args {
			a.walkExpr(arg)
		}
	case *ast.Member:
		a.walkExpr(x.Receiver)
	}
}
