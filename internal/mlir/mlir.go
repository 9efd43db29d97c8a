// Package mlir is the alternate internal lowering tier named in
// spec.md §4.10's compilation-target parity contract. This release's
// MLIR tier does not carry its own optimizer or backend: it re-expresses
// the checked AST as a Module (a named wrapper around the same
// single-entry-function shape internal/ir produces) and then hands the
// entry function to internal/ir's own optimizer and bytecode generator,
// so "bytecode" and "mlir" are guaranteed to emit byte-identical
// programs for every accepted input rather than merely similar ones.
package mlir

import (
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/ir"
)

// Module is the MLIR-tier compilation unit: a named entry function,
// mirroring the shape a real multi-function MLIR dialect would expose
// even though this release's source language only ever produces one.
type Module struct {
	Name  string
	Entry *ir.Function
}

// Lower produces the MLIR-tier Module for unit. name is carried through
// for diagnostic/dump purposes (spec.md §4.11's --ir dump surface).
func Lower(unit *ast.CompilationUnit, name string) *Module {
	return &Module{Name: name, Entry: ir.Lower(unit)}
}

// ToIR extracts the underlying internal/ir.Function so the driver can
// run the same optimizer and bytecode generator it uses for the direct
// "bytecode" target (spec.md §4.10 parity contract).
func (m *Module) ToIR() *ir.Function {
	return m.Entry
}
