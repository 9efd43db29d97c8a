package check

import (
	"testing"

	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/symbols"
)

var zero = ast.NewPos(1, 1, 1)

func ident(name string) *ast.Ident {
	return &ast.Ident{ExprBase: ast.MakeExprBase(zero), Name: name}
}

func intLit(v int64) *ast.IntLit {
	return &ast.IntLit{ExprBase: ast.MakeExprBase(zero), Value: v}
}

func runCheck(unit *ast.CompilationUnit) (*diag.Bag, *symbols.Table) {
	bag := diag.NewBag()
	table := symbols.NewTable()
	Check(unit, table, bag)
	return bag, table
}

func TestVarDeclInfersTypeFromValue(t *testing.T) {
	decl := &ast.VarDecl{Base: ast.MakeBase(zero), Name: "x", Value: intLit(5)}
	bag, table := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{decl}})

	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.All())
	}
	sym, ok := table.TryLookupVar("x")
	if !ok || sym.Type.TypeName() != "int" {
		t.Fatalf("x should be bound to int, got %v", sym)
	}
}

func TestVarDeclRejectsIncompatibleDeclaredType(t *testing.T) {
	decl := &ast.VarDecl{
		Base:         ast.MakeBase(zero),
		Name:         "x",
		DeclaredType: &ast.TypeRef{Base: ast.MakeBase(zero), Name: "bool"},
		Value:        intLit(1),
	}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{decl}})
	if !bag.HasErrors() {
		t.Fatalf("expected a TYP001 for int assigned to bool")
	}
}

func TestCharWidensToIntDeclaredType(t *testing.T) {
	decl := &ast.VarDecl{
		Base:         ast.MakeBase(zero),
		Name:         "x",
		DeclaredType: &ast.TypeRef{Base: ast.MakeBase(zero), Name: "int"},
		Value:        &ast.CharLit{ExprBase: ast.MakeExprBase(zero), Value: 'a'},
	}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{decl}})
	if bag.HasErrors() {
		t.Fatalf("char should widen to int, got errors: %v", bag.All())
	}
}

// count = 1; count += 2; — repeated plain assignment isn't involved
// (the second statement is compound), so the checker's TYP001 binding
// rule must not fire here; OWN001 on the mutability is the ownership
// analyzer's job, not the checker's.
func TestCompoundAssignToExistingNonFluxBindingIsNotATypeError(t *testing.T) {
	first := &ast.Assign{Base: ast.MakeBase(zero), Name: "count", Op: ast.OpAssign, Value: intLit(1)}
	second := &ast.Assign{Base: ast.MakeBase(zero), Name: "count", Op: ast.OpAddAssign, Value: intLit(2)}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{first, second}})
	if bag.HasErrors() {
		t.Fatalf("compound assignment type-checks fine; got: %v", bag.All())
	}
	if first.Introduces != true {
		t.Fatalf("first plain assignment should introduce a new binding")
	}
}

func TestRepeatedPlainAssignmentToNonFluxBindingIsTypeError(t *testing.T) {
	first := &ast.Assign{Base: ast.MakeBase(zero), Name: "count", Op: ast.OpAssign, Value: intLit(1)}
	second := &ast.Assign{Base: ast.MakeBase(zero), Name: "count", Op: ast.OpAssign, Value: intLit(2)}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{first, second}})
	if !bag.HasErrors() {
		t.Fatalf("expected TYP001 for repeated plain assignment to non-flux binding")
	}
	if second.Introduces {
		t.Fatalf("second assignment should not introduce a new binding")
	}
}

func TestPlainAssignmentInInnerScopeShadowsOuterBinding(t *testing.T) {
	outer := &ast.Assign{Base: ast.MakeBase(zero), Name: "x", Op: ast.OpAssign, Value: intLit(1)}
	inner := &ast.Assign{Base: ast.MakeBase(zero), Name: "x", Op: ast.OpAssign, Value: intLit(2)}
	loop := &ast.LoopStmt{Base: ast.MakeBase(zero), Cond: &ast.BoolLit{ExprBase: ast.MakeExprBase(zero), Value: true}, Body: []ast.Stmt{inner}}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{outer, loop}})
	if bag.HasErrors() {
		t.Fatalf("shadowing assignment in a nested scope should not error, got: %v", bag.All())
	}
	if !inner.Introduces {
		t.Fatalf("inner assignment should introduce a new shadowing binding, not reassign the outer one")
	}
}

func TestGenericTypeUsedBareIsArityError(t *testing.T) {
	box := &ast.TypeDecl{
		Base:       ast.MakeBase(zero),
		Kind:       ast.KindStruct,
		Name:       "Box",
		TypeParams: []string{"T"},
		Fields:     []ast.FieldDecl{{Name: "value", Type: &ast.TypeRef{Base: ast.MakeBase(zero), Name: "T"}}},
	}
	decl := &ast.VarDecl{
		Base:         ast.MakeBase(zero),
		Name:         "value",
		DeclaredType: &ast.TypeRef{Base: ast.MakeBase(zero), Name: "Box"},
		Value:        intLit(1),
	}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{box, decl}})
	if !bag.HasErrors() {
		t.Fatalf("expected a TYP001 generic arity error for bare 'Box'")
	}
}

func TestExplicitCastBetweenNumericPrimitivesIsAllowed(t *testing.T) {
	cast := &ast.Cast{
		ExprBase: ast.MakeExprBase(zero),
		Target:   &ast.TypeRef{Base: ast.MakeBase(zero), Name: "float"},
		X:        intLit(1),
	}
	stmt := &ast.ExprStmt{Base: ast.MakeBase(zero), X: cast}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{stmt}})
	if bag.HasErrors() {
		t.Fatalf("int->float cast should be allowed, got: %v", bag.All())
	}
}

func TestExplicitCastToBoolIsRejected(t *testing.T) {
	cast := &ast.Cast{
		ExprBase: ast.MakeExprBase(zero),
		Target:   &ast.TypeRef{Base: ast.MakeBase(zero), Name: "bool"},
		X:        intLit(1),
	}
	stmt := &ast.ExprStmt{Base: ast.MakeBase(zero), X: cast}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{stmt}})
	if !bag.HasErrors() {
		t.Fatalf("(bool)int must be rejected")
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	brk := &ast.BreakStmt{Base: ast.MakeBase(zero)}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{brk}})
	if !bag.HasErrors() {
		t.Fatalf("break outside a loop must be an error")
	}
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	loop := &ast.LoopStmt{
		Base: ast.MakeBase(zero),
		Cond: &ast.BoolLit{ExprBase: ast.MakeExprBase(zero), Value: true},
		Body: []ast.Stmt{&ast.BreakStmt{Base: ast.MakeBase(zero)}},
	}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{loop}})
	if bag.HasErrors() {
		t.Fatalf("break inside a loop should not error, got: %v", bag.All())
	}
}

func TestBitwiseRequiresIntegerOperands(t *testing.T) {
	bin := &ast.Binary{
		ExprBase: ast.MakeExprBase(zero),
		Op:       ast.BinBitAnd,
		Left:     &ast.FloatLit{ExprBase: ast.MakeExprBase(zero), Value: 1.5},
		Right:    intLit(2),
	}
	stmt := &ast.ExprStmt{Base: ast.MakeBase(zero), X: bin}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{stmt}})
	if !bag.HasErrors() {
		t.Fatalf("bitwise op on a float operand must be an error")
	}
}

func TestStringConcatenationViaPlusIsRejected(t *testing.T) {
	bin := &ast.Binary{
		ExprBase: ast.MakeExprBase(zero),
		Op:       ast.BinAdd,
		Left:     &ast.StringLit{ExprBase: ast.MakeExprBase(zero), Value: "a"},
		Right:    &ast.StringLit{ExprBase: ast.MakeExprBase(zero), Value: "b"},
	}
	stmt := &ast.ExprStmt{Base: ast.MakeBase(zero), X: bin}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{stmt}})
	if !bag.HasErrors() {
		t.Fatalf("string + string should be rejected")
	}
}

func TestUndefinedVariableIsError(t *testing.T) {
	stmt := &ast.ExprStmt{Base: ast.MakeBase(zero), X: ident("nope")}
	bag, _ := runCheck(&ast.CompilationUnit{Statements: []ast.Stmt{stmt}})
	if !bag.HasErrors() {
		t.Fatalf("referencing an undefined variable must be an error")
	}
}
