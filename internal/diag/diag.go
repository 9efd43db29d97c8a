// Package diag provides structured diagnostics shared across all
// compilation phases: lexer, parser, type checker, and ownership analyzer.
package diag

import "fmt"

// Severity classifies a diagnostic's impact on compilation success.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case Info:
		return "Info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Position is a 1-based line/column location plus the span's length in
// runes. Diagnostics and AST nodes both carry a Position.
type Position struct {
	Line   int
	Column int
	Length int
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.Line, p.Column)
}

// Standard diagnostic codes, one prefix per phase (spec.md §7).
const (
	LEX001 = "LEX001" // bad token
	PAR001 = "PAR001" // unexpected token
	TYP001 = "TYP001" // type/semantic error
	OWN001 = "OWN001" // mutability/ownership violation
)

// Diagnostic is a single structured error, warning, or info record.
type Diagnostic struct {
	Code     string
	Message  string
	Pos      Position
	Severity Severity
}

// String renders a diagnostic using the CLI print format from spec.md §6:
// "{Severity} {Code} ({Line},{Column}): {Message}"
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s (%d,%d): %s", d.Severity, d.Code, d.Pos.Line, d.Pos.Column, d.Message)
}

// Bag is an append-only ordered collection of diagnostics, shared by
// reference across the lexer, parser, type checker, and ownership
// analyzer. It never deduplicates or reorders: insertion order is the
// observable order (spec.md §7, "diagnostics are printed in insertion
// order; no deduplication").
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Addf is a convenience constructor-and-append for a diagnostic.
func (b *Bag) Addf(code string, sev Severity, pos Position, format string, args ...any) {
	b.Add(Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Severity: sev,
	})
}

// All returns the diagnostics in insertion order. The returned slice must
// not be mutated by callers.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasErrors is the disjunction of severity == Error across the bag.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics recorded so far.
func (b *Bag) Len() int {
	return len(b.items)
}
