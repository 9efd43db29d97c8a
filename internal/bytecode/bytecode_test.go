package bytecode

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/ir"
)

var zero = ast.NewPos(1, 1, 1)

func intLit(v int64) *ast.IntLit {
	return &ast.IntLit{ExprBase: ast.MakeExprBase(zero), Value: v}
}

func TestGenerateDeduplicatesRepeatedConstant(t *testing.T) {
	decl := &ast.VarDecl{
		Base: ast.MakeBase(zero),
		Name: "x",
		Value: &ast.Binary{
			ExprBase: ast.MakeExprBase(zero),
			Op:       ast.BinAdd,
			Left:     intLit(7),
			Right:    intLit(7),
		},
	}
	fn := ir.Lower(&ast.CompilationUnit{Statements: []ast.Stmt{decl}})
	prog := Generate(fn)

	if len(prog.Constants) != 1 {
		t.Fatalf("expected a single deduplicated constant 7, got %d: %+v", len(prog.Constants), prog.Constants)
	}
}

func TestGenerateResolvesJumpTargets(t *testing.T) {
	loop := &ast.LoopStmt{
		Base: ast.MakeBase(zero),
		Cond: &ast.BoolLit{ExprBase: ast.MakeExprBase(zero), Value: true},
		Body: []ast.Stmt{&ast.BreakStmt{Base: ast.MakeBase(zero)}},
	}
	fn := ir.Lower(&ast.CompilationUnit{Statements: []ast.Stmt{loop}})
	prog := Generate(fn)

	// Every 4-byte jump target must point inside the emitted code.
	offset := 0
	for offset < len(prog.Code) {
		op := Opcode(prog.Code[offset])
		if op == OpJump || op == OpJumpIfFalse {
			target := readI32(prog.Code, offset+1)
			if target < 0 || int(target) > len(prog.Code) {
				t.Fatalf("jump at %d targets out-of-range offset %d (code len %d)", offset, target, len(prog.Code))
			}
			offset += 5
			continue
		}
		offset++
	}
}

func TestGenerateIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	decl := &ast.VarDecl{
		Base: ast.MakeBase(zero),
		Name: "x",
		Value: &ast.Binary{
			ExprBase: ast.MakeExprBase(zero),
			Op:       ast.BinMul,
			Left:     intLit(6),
			Right:    intLit(7),
		},
	}
	unit := &ast.CompilationUnit{Statements: []ast.Stmt{decl}}

	first := Generate(ir.Lower(unit))
	second := Generate(ir.Lower(unit))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Generate produced different programs from identical input (-first +second):\n%s", diff)
	}
}

func TestDisassembleIncludesConstantValue(t *testing.T) {
	decl := &ast.VarDecl{Base: ast.MakeBase(zero), Name: "x", Value: intLit(42)}
	fn := ir.Lower(&ast.CompilationUnit{Statements: []ast.Stmt{decl}})
	prog := Generate(fn)

	out := Disassemble(prog, "test")
	if !strings.Contains(out, "42") {
		t.Fatalf("disassembly should show the constant value 42, got:\n%s", out)
	}
}
