// Package driver orchestrates the compilation phases (spec.md §4.10):
// lex, parse, check, analyze ownership, lower to IR, optimize, and
// generate bytecode, sharing one diagnostic bag across all of them.
// Grounded structurally on the teacher's internal/pipeline.Run — a
// single entry point threading a Config/Source pair through ordered
// phases into one Result — narrowed to this spec's fixed phase list and
// its two named compilation targets (spec.md §4.10 parity contract).
package driver

import (
	"context"
	"fmt"

	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/bytecode"
	"github.com/oaflang/oaf/internal/check"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/ir"
	"github.com/oaflang/oaf/internal/lexer"
	"github.com/oaflang/oaf/internal/mlir"
	"github.com/oaflang/oaf/internal/ownership"
	"github.com/oaflang/oaf/internal/parser"
	"github.com/oaflang/oaf/internal/symbols"
)

// Target names the compilation pipeline's internal lowering route.
// Both names are accepted by Compile and must produce identical
// observable program results for any accepted source (spec.md §4.10).
const (
	TargetBytecode = "bytecode"
	TargetMLIR     = "mlir"
)

// CompilationResult carries every phase's artifact, whichever phases
// actually completed (spec.md §4.10: "returns a CompilationResult with
// partial artifacts ... plus the diagnostics").
type CompilationResult struct {
	Unit        *ast.CompilationUnit
	Diagnostics *diag.Bag
	Symbols     *symbols.Table
	IR          *ir.Function
	Program     *bytecode.Program
	Success     bool
}

// Compile runs the full phase pipeline over source for the named
// target. Diagnostics accumulate in one bag across every phase that
// runs; once the bag reports an error, the pipeline halts before IR
// lowering and returns the partial result with Success=false.
//
// ctx is checked once before lexing begins — a hook for future
// phase-level cancellation (spec.md §4.1's Go-native addition); no
// phase below currently observes it again.
func Compile(ctx context.Context, source, target string) (*CompilationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bag := diag.NewBag()
	result := &CompilationResult{Diagnostics: bag}

	l := lexer.New(source, bag)
	p := parser.New(l, bag)
	unit := p.Parse()
	result.Unit = unit

	table := symbols.NewTable()
	result.Symbols = table

	check.Check(unit, table, bag)
	ownership.Analyze(unit, bag)

	if bag.HasErrors() {
		return result, nil
	}

	fn, err := lowerTo(target, unit)
	if err != nil {
		return result, err
	}
	result.IR = fn

	ir.Optimize(fn)
	result.Program = bytecode.Generate(fn)
	result.Success = true

	return result, nil
}

func lowerTo(target string, unit *ast.CompilationUnit) (*ir.Function, error) {
	switch target {
	case TargetBytecode:
		return ir.Lower(unit), nil
	case TargetMLIR:
		return mlir.Lower(unit, "main").ToIR(), nil
	default:
		return nil, fmt.Errorf("unknown compilation target %q", target)
	}
}
