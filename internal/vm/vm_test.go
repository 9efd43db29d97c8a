package vm

import (
	"strings"
	"testing"

	"github.com/oaflang/oaf/internal/bytecode"
	"github.com/oaflang/oaf/internal/check"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/ir"
	"github.com/oaflang/oaf/internal/lexer"
	"github.com/oaflang/oaf/internal/ownership"
	"github.com/oaflang/oaf/internal/parser"
	"github.com/oaflang/oaf/internal/symbols"
)

// compile runs the full lex-parse-check-ownership-lower-optimize-generate
// pipeline over src and fails the test if any phase reports a diagnostic.
func compile(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	bag := diag.NewBag()
	l := lexer.New(src, bag)
	p := parser.New(l, bag)
	unit := p.Parse()

	table := symbols.NewTable()
	check.Check(unit, table, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	ownership.Analyze(unit, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}

	fn := ir.Lower(unit)
	ir.Optimize(fn)
	return bytecode.Generate(fn)
}

func runVMExpectError(t *testing.T, src string) string {
	t.Helper()
	prog := compile(t, src)
	_, err := New().Run(prog)
	if err == nil {
		t.Fatalf("expected a runtime error, got none")
	}
	return err.Error()
}

func runVMExpectErrorContains(t *testing.T, src, wantSubstr string) {
	t.Helper()
	msg := runVMExpectError(t, src)
	if !strings.Contains(msg, wantSubstr) {
		t.Errorf("error %q should contain %q", msg, wantSubstr)
	}
}

func TestReturnIntegerLiteral(t *testing.T) {
	prog := compile(t, "return 42;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.Kind != KInt || result.AsInt() != 42 {
		t.Fatalf("expected int 42, got %+v", result)
	}
}

func TestArithmeticWithLocalsAndReturn(t *testing.T) {
	prog := compile(t, "int x = 2; int y = 3; return x * y + 1;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.Kind != KInt || result.AsInt() != 7 {
		t.Fatalf("expected int 7, got %+v", result)
	}
}

func TestFloatArithmeticFollowsIEEE754(t *testing.T) {
	prog := compile(t, "return 1.0 / 4.0;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.Kind != KFloat || result.AsFloat() != 0.25 {
		t.Fatalf("expected float 0.25, got %+v", result)
	}
}

func TestIntegerDivisionByZeroIsRuntimeError(t *testing.T) {
	runVMExpectErrorContains(t, "int x = 1; int y = 0; return x / y;", "division by zero")
}

func TestIntegerModuloByZeroIsRuntimeError(t *testing.T) {
	runVMExpectErrorContains(t, "int x = 1; int y = 0; return x % y;", "modulo by zero")
}

func TestFloatDivisionByZeroIsRuntimeError(t *testing.T) {
	runVMExpectErrorContains(t, "return 1.0 / 0.0;", "division by zero")
}

func TestIntegerArithmeticWrapsOnOverflow(t *testing.T) {
	prog := compile(t, "return 9223372036854775807 + 1;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.AsInt() != -9223372036854775808 {
		t.Fatalf("expected wraparound to min int64, got %d", result.AsInt())
	}
}

func TestIfStatementTakesThenBranch(t *testing.T) {
	prog := compile(t, "flux int x = 0; if true => { x += 1; } return x;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.AsInt() != 1 {
		t.Fatalf("expected 1, got %d", result.AsInt())
	}
}

func TestLoopAccumulatesViaFluxBinding(t *testing.T) {
	prog := compile(t, "flux int total = 0; flux int i = 0; loop i < 5 => { total += i; i += 1; } return total;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.AsInt() != 10 {
		t.Fatalf("expected 10, got %d", result.AsInt())
	}
}

func TestExplicitCastIntToFloat(t *testing.T) {
	prog := compile(t, "int x = 3; return (float) x;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.Kind != KFloat || result.AsFloat() != 3.0 {
		t.Fatalf("expected float 3.0, got %+v", result)
	}
}

func TestNoReturnHaltsWithUnitValue(t *testing.T) {
	prog := compile(t, "int x = 1;")
	result, err := New().Run(prog)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if result.Kind != KUnit {
		t.Fatalf("expected unit value when execution falls off the end, got %+v", result)
	}
}
