package driver

import (
	"context"
	"testing"

	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/vm"
)

// TestLiteralScenariosFromSpec runs the literal input/output pairs from
// spec.md §8 "TESTABLE PROPERTIES" through the real lex-parse-check-
// ownership-lower-generate-run pipeline, asserting the documented
// diagnostic code for the rejected programs and the terminal value for
// the accepted ones. Scenarios 7 and 8 (the benchmark runner and
// regression gate) are covered separately in internal/bench.
func TestLiteralScenariosFromSpec(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantCode   string // "" if the program is expected to succeed
		wantResult int64  // only checked when wantCode == ""
	}{
		{
			name:     "reassigning a non-flux binding is an ownership error",
			src:      "count = 1; count += 2;",
			wantCode: diag.OWN001,
		},
		{
			name:       "loop with continue still accumulates the remaining iterations",
			src:        "flux sum = 0; flux i = 3; loop i > 0 => { if i == 3 => { i -= 1; continue; } sum += i; i -= 1; } return sum;",
			wantResult: 3,
		},
		{
			name:     "assigning a float to an int binding is a type error",
			src:      "float f = 1.25; int i = f;",
			wantCode: diag.TYP001,
		},
		{
			name:       "explicit casts truncate toward zero",
			src:        "float f = 1.25; int i = (int)f; int j = (int)-1.5; return i + j;",
			wantResult: 0,
		},
		{
			// spec.md's own scenario-5 text renders the struct field as
			// "T value", but the grammar oaf actually implements
			// (spec.md §4.3, "struct Name<params> [field: Type, ...];")
			// requires a colon. The colon-free shorthand is informal
			// table notation, not parseable syntax — see
			// internal/parser/parser_test.go's
			// TestParseStructMissingColonRecordsPAR001. This scenario is
			// rendered here in grammar-correct syntax to exercise its
			// actual intent: referencing a generic struct with zero
			// type arguments where one is required is a TYP001 arity
			// mismatch.
			name:     "bare use of a generic struct is an arity error",
			src:      "struct Box<T> [value: T]; Box value = 1;",
			wantCode: diag.TYP001,
		},
		{
			name:     "break outside any loop is a type error",
			src:      "break;",
			wantCode: diag.TYP001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compile(context.Background(), tt.src, TargetBytecode)
			if err != nil {
				t.Fatalf("Compile returned an error: %v", err)
			}

			if tt.wantCode != "" {
				if result.Success {
					t.Fatalf("expected compilation to fail with %s, but it succeeded", tt.wantCode)
				}
				found := false
				for _, d := range result.Diagnostics.All() {
					if d.Code == tt.wantCode {
						found = true
						if d.Pos.Line < 1 || d.Pos.Column < 1 {
							t.Errorf("diagnostic position %d:%d is not 1-based", d.Pos.Line, d.Pos.Column)
						}
					}
				}
				if !found {
					t.Fatalf("expected a %s diagnostic, got: %v", tt.wantCode, result.Diagnostics.All())
				}
				return
			}

			if !result.Success {
				t.Fatalf("expected compilation to succeed, diagnostics: %v", result.Diagnostics.All())
			}
			v, err := vm.New().Run(result.Program)
			if err != nil {
				t.Fatalf("Run returned an error: %v", err)
			}
			if v.AsInt() != tt.wantResult {
				t.Fatalf("terminal value = %s, want %d", v.Inspect(), tt.wantResult)
			}
		})
	}
}
